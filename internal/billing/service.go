// Package billing meters ad events against wallets and serves the
// spend/metrics view.
package billing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/Srijapotha/new-camme-project/internal/cache"
	"github.com/Srijapotha/new-camme-project/internal/ledger"
	"github.com/Srijapotha/new-camme-project/internal/models"
	"github.com/Srijapotha/new-camme-project/internal/observability"
	"github.com/Srijapotha/new-camme-project/internal/repositories"
)

var (
	// ErrAdInactive rejects tracking against a deactivated ad.
	ErrAdInactive = errors.New("advertisement is not active")

	// ErrBillingContention is returned when the optimistic write keeps
	// losing to concurrent batches.
	ErrBillingContention = errors.New("billing contention, retry later")
)

// maxBillingRetries bounds the optimistic-concurrency retry loop.
const maxBillingRetries = 5

const metricsCacheTTL = 30 * time.Second

// Service owns the ad billing pipeline.
type Service struct {
	ads   repositories.AdRepository
	users repositories.UserRepository
	cache *cache.Cache

	group singleflight.Group
}

// NewService constructs a billing Service. cache may be nil.
func NewService(ads repositories.AdRepository, users repositories.UserRepository, c *cache.Cache) *Service {
	return &Service{ads: ads, users: users, cache: c}
}

// TrackResult reports the wallet movement caused by one batch.
type TrackResult struct {
	WalletBefore float64 `json:"wallet_before"`
	WalletAfter  float64 `json:"wallet_after"`
	Cost         float64 `json:"cost"`
	Overage      float64 `json:"overage"`
}

// TrackEvents bills a batch of events against an ad. Event rows and the
// cumulative counters are persisted exactly once, before the ledger write;
// the ledger write retries on version conflicts with a fresh read. Free-tier
// ads deactivate when their wallet hits zero.
func (s *Service) TrackEvents(ctx context.Context, adID int, counts ledger.EventCounts, actorID *int, reaction *string) (TrackResult, error) {
	if err := counts.Validate(); err != nil {
		return TrackResult{}, err
	}

	recorded := false
	for attempt := 0; attempt < maxBillingRetries; attempt++ {
		ad, err := s.ads.GetAd(ctx, adID)
		if err != nil {
			return TrackResult{}, err
		}
		if !ad.IsActive {
			return TrackResult{}, ErrAdInactive
		}

		if !recorded {
			if err := s.recordEvents(ctx, adID, counts, actorID, reaction); err != nil {
				return TrackResult{}, err
			}
			if err := s.ads.IncrementAnalytics(ctx, adID, counts); err != nil {
				return TrackResult{}, err
			}
			recorded = true
		}

		rates := ledger.Rates(ad.AdModel, ad.AdElement, ad.ContentType)
		cost := ledger.ComputeCost(rates, counts)
		app := ledger.ApplyCost(ad.Wallet, ad.Overage, ad.TotalSpent, cost)

		isActive := ad.IsActive
		if ad.AdModel == models.AdModelFree && app.WalletAfter <= 0 {
			isActive = false
		}

		err = s.ads.ApplyBilling(ctx, adID, ad.Version, app.WalletAfter, app.TotalSpentAfter, app.OverageAfter, isActive)
		if errors.Is(err, repositories.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return TrackResult{}, err
		}

		if isActive != ad.IsActive {
			observability.IncWalletExhausted()
			log.Info().Int("ad_id", adID).Msg("free ad wallet exhausted, deactivated")
		}
		s.countBilled(counts)
		s.cache.Delete(ctx, metricsKey(adID))

		return TrackResult{
			WalletBefore: ad.Wallet,
			WalletAfter:  app.WalletAfter,
			Cost:         cost,
			Overage:      app.OverageAfter,
		}, nil
	}

	return TrackResult{}, ErrBillingContention
}

// TrackInstall bills a single install event.
func (s *Service) TrackInstall(ctx context.Context, adID int, actorID *int) (TrackResult, error) {
	return s.TrackEvents(ctx, adID, ledger.EventCounts{Installs: 1}, actorID, nil)
}

// TrackWebsiteClick bills a single click event.
func (s *Service) TrackWebsiteClick(ctx context.Context, adID int, actorID *int) (TrackResult, error) {
	return s.TrackEvents(ctx, adID, ledger.EventCounts{Clicks: 1}, actorID, nil)
}

// TrackFormSubmission stores the submitted payload and bills one formSubmit.
func (s *Service) TrackFormSubmission(ctx context.Context, adID int, actorID *int, formData []byte) (TrackResult, error) {
	result, err := s.TrackEvents(ctx, adID, ledger.EventCounts{FormSubmits: 1}, actorID, nil)
	if err != nil {
		return TrackResult{}, err
	}
	if err := s.ads.InsertFormSubmission(ctx, adID, actorID, formData); err != nil {
		return TrackResult{}, err
	}
	return result, nil
}

func (s *Service) recordEvents(ctx context.Context, adID int, counts ledger.EventCounts, actorID *int, reaction *string) error {
	batches := []struct {
		eventType string
		n         int64
		reaction  *string
	}{
		{models.AdEventImpression, counts.Impressions, nil},
		{models.AdEventClick, counts.Clicks, nil},
		{models.AdEventView, counts.Views, nil},
		{models.AdEventEngagement, counts.Engagements, reaction},
		{models.AdEventInstall, counts.Installs, nil},
		{models.AdEventFormSubmit, counts.FormSubmits, nil},
	}
	for _, batch := range batches {
		if batch.n == 0 {
			continue
		}
		if err := s.ads.InsertEvents(ctx, adID, batch.eventType, batch.n, actorID, batch.reaction); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) countBilled(counts ledger.EventCounts) {
	observability.AddBillingEvents(models.AdEventImpression, counts.Impressions)
	observability.AddBillingEvents(models.AdEventClick, counts.Clicks)
	observability.AddBillingEvents(models.AdEventView, counts.Views)
	observability.AddBillingEvents(models.AdEventEngagement, counts.Engagements)
	observability.AddBillingEvents(models.AdEventInstall, counts.Installs)
	observability.AddBillingEvents(models.AdEventFormSubmit, counts.FormSubmits)
}

// MetricEntry is one metric's count and billed amount.
type MetricEntry struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// EngagementActor is a recent engager with a profile snapshot.
type EngagementActor struct {
	UserID     int       `json:"user_id"`
	Username   string    `json:"username"`
	ProfilePic *string   `json:"profile_pic,omitempty"`
	Reaction   *string   `json:"reaction,omitempty"`
	EngagedAt  time.Time `json:"engaged_at"`
}

// Metrics is the per-ad spend view.
type Metrics struct {
	AdID           int              `json:"ad_id"`
	Impressions    MetricEntry      `json:"impressions"`
	Clicks         MetricEntry      `json:"clicks"`
	Views          MetricEntry      `json:"views"`
	Engagements    MetricEntry      `json:"engagements"`
	Installs       MetricEntry      `json:"installs"`
	FormSubmits    MetricEntry      `json:"formSubmits"`
	TotalBill      float64          `json:"totalBill"`
	Wallet         float64          `json:"wallet"`
	Overage        float64          `json:"overage"`
	IsActive       bool             `json:"is_active"`
	Reactions      map[string]int64  `json:"reactions"`
	RecentEngagers []EngagementActor `json:"recent_engagers"`
}

func metricsKey(adID int) string {
	return fmt.Sprintf("ad:metrics:%d", adID)
}

// GetMetrics builds the spend view from the cumulative counters and the rate
// table. Concurrent rebuilds of the same ad collapse into one; the result is
// cached briefly.
func (s *Service) GetMetrics(ctx context.Context, adID int) (Metrics, error) {
	key := metricsKey(adID)

	var cached Metrics
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	}

	value, err, _ := s.group.Do(key, func() (any, error) {
		metrics, err := s.buildMetrics(ctx, adID)
		if err != nil {
			return Metrics{}, err
		}
		s.cache.SetJSON(ctx, key, metrics, metricsCacheTTL)
		return metrics, nil
	})
	if err != nil {
		return Metrics{}, err
	}
	return value.(Metrics), nil
}

func (s *Service) buildMetrics(ctx context.Context, adID int) (Metrics, error) {
	ad, err := s.ads.GetAd(ctx, adID)
	if err != nil {
		return Metrics{}, err
	}
	rates := ledger.Rates(ad.AdModel, ad.AdElement, ad.ContentType)

	metrics := Metrics{
		AdID:        adID,
		Impressions: MetricEntry{Count: ad.Impressions, Amount: math.Round((rates.CPM / 1000) * float64(ad.Impressions))},
		Clicks:      MetricEntry{Count: ad.Clicks, Amount: rates.CPC * float64(ad.Clicks)},
		Views:       MetricEntry{Count: ad.Views, Amount: rates.CPV * float64(ad.Views)},
		Engagements: MetricEntry{Count: ad.Engagements, Amount: rates.CPE * float64(ad.Engagements)},
		Installs:    MetricEntry{Count: ad.Installs, Amount: rates.CPI * float64(ad.Installs)},
		FormSubmits: MetricEntry{Count: ad.FormSubmits, Amount: rates.CPA * float64(ad.FormSubmits)},
		Wallet:      ad.Wallet,
		Overage:     ad.Overage,
		IsActive:    ad.IsActive,
		Reactions:   map[string]int64{},
	}
	metrics.TotalBill = metrics.Impressions.Amount + metrics.Clicks.Amount + metrics.Views.Amount +
		metrics.Engagements.Amount + metrics.Installs.Amount + metrics.FormSubmits.Amount

	events, err := s.ads.ListEngagementEvents(ctx, adID)
	if err != nil {
		return Metrics{}, err
	}

	seen := map[int]bool{}
	var recentIDs []int
	recent := map[int]models.AdEvent{}
	for _, event := range events {
		reaction := "other"
		if event.Reaction != nil && *event.Reaction != "" {
			reaction = *event.Reaction
		}
		metrics.Reactions[reaction]++

		if event.UserID == nil || seen[*event.UserID] || len(recentIDs) >= 10 {
			continue
		}
		seen[*event.UserID] = true
		recentIDs = append(recentIDs, *event.UserID)
		recent[*event.UserID] = event
	}

	if len(recentIDs) > 0 {
		users, err := s.users.BulkUsers(ctx, recentIDs)
		if err != nil {
			return Metrics{}, err
		}
		byID := map[int]models.User{}
		for _, user := range users {
			byID[user.ID] = user
		}
		for _, id := range recentIDs {
			event := recent[id]
			actor := EngagementActor{UserID: id, Reaction: event.Reaction, EngagedAt: event.CreatedAt}
			if user, ok := byID[id]; ok {
				actor.Username = user.Username
				actor.ProfilePic = user.ProfilePic
			}
			metrics.RecentEngagers = append(metrics.RecentEngagers, actor)
		}
	}

	return metrics, nil
}
