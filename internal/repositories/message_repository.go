package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Srijapotha/new-camme-project/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// CreateMessageParams carries the fields of a new message.
type CreateMessageParams struct {
	ChatID       int
	SenderID     int
	Content      string
	MessageType  string
	MediaURL     *string
	SentAt       time.Time
	AutoDeleteAt *time.Time
}

// MessageRepository defines interactions for chat messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, params CreateMessageParams) (models.Message, error)
	ListChatMessages(ctx context.Context, chatID int) ([]models.Message, error)
	FilterMessagesByDate(ctx context.Context, chatID int, from, to time.Time) ([]models.Message, error)
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
	SetPinned(ctx context.Context, messageID int, pinned bool) error
	MarkRead(ctx context.Context, messageID, userID int, at time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteSentBefore(ctx context.Context, senderID int, cutoff time.Time) (int64, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, chat_id, sender_id, content, message_type, media_url, is_pinned, sent_at, auto_delete_at`

// CreateMessage stores a message.
func (r *MessageRepo) CreateMessage(ctx context.Context, params CreateMessageParams) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (chat_id, sender_id, content, message_type, media_url, sent_at, auto_delete_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+messageColumns,
		params.ChatID, params.SenderID, params.Content, params.MessageType, params.MediaURL, params.SentAt, params.AutoDeleteAt).
		StructScan(&msg)
	return msg, err
}

// ListChatMessages returns a chat's messages ordered by send time.
func (r *MessageRepo) ListChatMessages(ctx context.Context, chatID int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT `+messageColumns+` FROM messages WHERE chat_id=$1 ORDER BY sent_at ASC`, chatID)
	return msgs, err
}

// FilterMessagesByDate returns a chat's messages inside [from, to].
func (r *MessageRepo) FilterMessagesByDate(ctx context.Context, chatID int, from, to time.Time) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT `+messageColumns+` FROM messages
        WHERE chat_id=$1 AND sent_at >= $2 AND sent_at <= $3 ORDER BY sent_at ASC`, chatID, from, to)
	return msgs, err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// SetPinned flips a message's pinned flag.
func (r *MessageRepo) SetPinned(ctx context.Context, messageID int, pinned bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET is_pinned=$2 WHERE id=$1`, messageID, pinned)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// MarkRead records a read receipt, keeping the earliest read time.
func (r *MessageRepo) MarkRead(ctx context.Context, messageID, userID int, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO message_reads (message_id, user_id, read_at) VALUES ($1, $2, $3)
        ON CONFLICT (message_id, user_id) DO NOTHING`, messageID, userID, at)
	return err
}

// DeleteExpired physically removes messages whose auto_delete_at has passed.
func (r *MessageRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE auto_delete_at IS NOT NULL AND auto_delete_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteSentBefore removes all of a sender's messages older than the cutoff.
func (r *MessageRepo) DeleteSentBefore(ctx context.Context, senderID int, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE sender_id=$1 AND sent_at <= $2`, senderID, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
