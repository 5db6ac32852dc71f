package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Srijapotha/new-camme-project/internal/ledger"
	"github.com/Srijapotha/new-camme-project/internal/models"
)

var (
	ErrAdNotFound = errors.New("advertisement not found")

	// ErrVersionConflict signals that a concurrent billing write won; the
	// caller reloads and retries.
	ErrVersionConflict = errors.New("advertisement version conflict")
)

// AdRepository abstracts advertisement billing persistence.
type AdRepository interface {
	GetAd(ctx context.Context, adID int) (models.Advertisement, error)
	IncrementAnalytics(ctx context.Context, adID int, counts ledger.EventCounts) error
	ApplyBilling(ctx context.Context, adID, version int, wallet, totalSpent, overage float64, isActive bool) error
	InsertEvents(ctx context.Context, adID int, eventType string, n int64, userID *int, reaction *string) error
	ListEngagementEvents(ctx context.Context, adID int) ([]models.AdEvent, error)
	InsertFormSubmission(ctx context.Context, adID int, userID *int, formData []byte) error
}

// AdRepo is a sqlx implementation of AdRepository.
type AdRepo struct {
	db *sqlx.DB
}

// NewAdRepo constructs an AdRepo.
func NewAdRepo(db *sqlx.DB) *AdRepo {
	return &AdRepo{db: db}
}

const adColumns = `id, business_name, about_business, ad_content_url, ad_model, ad_element, content_type,
        wallet, total_spent, overage, is_active, impressions, clicks, views, engagements, installs, form_submits,
        version, created_at`

// GetAd fetches an advertisement by id.
func (r *AdRepo) GetAd(ctx context.Context, adID int) (models.Advertisement, error) {
	var ad models.Advertisement
	err := r.db.GetContext(ctx, &ad, `SELECT `+adColumns+` FROM advertisements WHERE id=$1`, adID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Advertisement{}, ErrAdNotFound
	}
	return ad, err
}

// IncrementAnalytics adds the batch counts to the cumulative counters in a
// single statement, so concurrent batches never lose updates.
func (r *AdRepo) IncrementAnalytics(ctx context.Context, adID int, counts ledger.EventCounts) error {
	res, err := r.db.ExecContext(ctx, `UPDATE advertisements SET
        impressions = impressions + $2,
        clicks = clicks + $3,
        views = views + $4,
        engagements = engagements + $5,
        installs = installs + $6,
        form_submits = form_submits + $7
        WHERE id=$1`,
		adID, counts.Impressions, counts.Clicks, counts.Views, counts.Engagements, counts.Installs, counts.FormSubmits)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrAdNotFound
	}
	return nil
}

// ApplyBilling writes the ledger state conditionally on the version the
// caller read, bumping it on success. A zero row count means a concurrent
// writer advanced the version first.
func (r *AdRepo) ApplyBilling(ctx context.Context, adID, version int, wallet, totalSpent, overage float64, isActive bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE advertisements SET
        wallet=$3, total_spent=$4, overage=$5, is_active=$6, version = version + 1
        WHERE id=$1 AND version=$2`,
		adID, version, wallet, totalSpent, overage, isActive)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrVersionConflict
	}
	return nil
}

// insertEventsChunk caps the multi-row insert size.
const insertEventsChunk = 500

// InsertEvents appends n rows of the given event type. Large batches are
// written in chunks.
func (r *AdRepo) InsertEvents(ctx context.Context, adID int, eventType string, n int64, userID *int, reaction *string) error {
	for n > 0 {
		chunk := n
		if chunk > insertEventsChunk {
			chunk = insertEventsChunk
		}
		var sb strings.Builder
		sb.WriteString(`INSERT INTO ad_events (ad_id, event_type, user_id, reaction) VALUES `)
		args := make([]interface{}, 0, chunk*4)
		for i := int64(0); i < chunk; i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			base := len(args)
			fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4)
			args = append(args, adID, eventType, userID, reaction)
		}
		if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// ListEngagementEvents returns engagement events, newest first.
func (r *AdRepo) ListEngagementEvents(ctx context.Context, adID int) ([]models.AdEvent, error) {
	var events []models.AdEvent
	err := r.db.SelectContext(ctx, &events, `SELECT id, ad_id, event_type, user_id, reaction, created_at
        FROM ad_events WHERE ad_id=$1 AND event_type='engagement' ORDER BY created_at DESC`, adID)
	return events, err
}

// InsertFormSubmission stores a form ad's submitted payload.
func (r *AdRepo) InsertFormSubmission(ctx context.Context, adID int, userID *int, formData []byte) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO ad_form_submissions (ad_id, user_id, form_data) VALUES ($1, $2, $3)`, adID, userID, formData)
	return err
}
