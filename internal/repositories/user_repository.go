package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Srijapotha/new-camme-project/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// ErrNoPinSet is returned when a chat PIN lookup finds nothing.
var ErrNoPinSet = errors.New("no pin set for this chat")

// UserRepository abstracts the profile/presence/preference fields this
// service touches on users.
type UserRepository interface {
	GetUser(ctx context.Context, userID int) (models.User, error)
	BulkUsers(ctx context.Context, ids []int) ([]models.User, error)
	SearchUsers(ctx context.Context, userID int, term string) ([]models.User, error)
	SetOnline(ctx context.Context, userID int, online bool) error
	TouchLastSeen(ctx context.Context, userID int) error
	IsBlockedByAny(ctx context.Context, senderID int, userIDs []int) (bool, error)
	HasRestrictedAny(ctx context.Context, senderID int, userIDs []int) (bool, error)
	SetBlocked(ctx context.Context, userID, targetID int, blocked bool) error
	SetRestricted(ctx context.Context, userID, targetID int, restricted bool) error
	SetAutoDeleteChat(ctx context.Context, userID int, policy string) error
	ListAutoDeleteUsers(ctx context.Context) ([]models.User, error)
	SetChatPin(ctx context.Context, userID, chatID int, pinHash string) error
	GetChatPin(ctx context.Context, userID, chatID int) (string, error)
	SaveMessage(ctx context.Context, userID, messageID int, at time.Time) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, full_name, age, gender, city, profile_pic, is_online, last_seen, auto_delete_chat, fcm_token`

// GetUser fetches a user by id.
func (r *UserRepo) GetUser(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// BulkUsers fetches multiple users in one query.
func (r *UserRepo) BulkUsers(ctx context.Context, ids []int) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var users []models.User
	err = r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...)
	return users, err
}

// SearchUsers finds users matching the term, excluding the caller and
// anyone the caller has blocked.
func (r *UserRepo) SearchUsers(ctx context.Context, userID int, term string) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users
        WHERE id <> $1
        AND id NOT IN (SELECT blocked_id FROM user_blocks WHERE user_id=$1)
        AND (username ILIKE '%' || $2 || '%' OR full_name ILIKE '%' || $2 || '%')
        ORDER BY username ASC`, userID, term)
	return users, err
}

// SetOnline flips the online flag and stamps last_seen.
func (r *UserRepo) SetOnline(ctx context.Context, userID int, online bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_online=$2, last_seen=NOW() WHERE id=$1`, userID, online)
	return err
}

// TouchLastSeen stamps last_seen only.
func (r *UserRepo) TouchLastSeen(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_seen=NOW() WHERE id=$1`, userID)
	return err
}

// IsBlockedByAny reports whether any of the given users has the sender on
// their block list.
func (r *UserRepo) IsBlockedByAny(ctx context.Context, senderID int, userIDs []int) (bool, error) {
	if len(userIDs) == 0 {
		return false, nil
	}
	query, args, err := sqlx.In(`SELECT EXISTS(SELECT 1 FROM user_blocks WHERE blocked_id=? AND user_id IN (?))`, senderID, userIDs)
	if err != nil {
		return false, err
	}
	var exists bool
	err = r.db.GetContext(ctx, &exists, r.db.Rebind(query), args...)
	return exists, err
}

// HasRestrictedAny reports whether the sender has any of the given users on
// their restricted list.
func (r *UserRepo) HasRestrictedAny(ctx context.Context, senderID int, userIDs []int) (bool, error) {
	if len(userIDs) == 0 {
		return false, nil
	}
	query, args, err := sqlx.In(`SELECT EXISTS(SELECT 1 FROM user_restrictions WHERE user_id=? AND restricted_id IN (?))`, senderID, userIDs)
	if err != nil {
		return false, err
	}
	var exists bool
	err = r.db.GetContext(ctx, &exists, r.db.Rebind(query), args...)
	return exists, err
}

// SetBlocked adds or removes a block-list entry.
func (r *UserRepo) SetBlocked(ctx context.Context, userID, targetID int, blocked bool) error {
	if blocked {
		_, err := r.db.ExecContext(ctx, `INSERT INTO user_blocks (user_id, blocked_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, targetID)
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_blocks WHERE user_id=$1 AND blocked_id=$2`, userID, targetID)
	return err
}

// SetRestricted adds or removes a restricted-list entry.
func (r *UserRepo) SetRestricted(ctx context.Context, userID, targetID int, restricted bool) error {
	if restricted {
		_, err := r.db.ExecContext(ctx, `INSERT INTO user_restrictions (user_id, restricted_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, targetID)
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_restrictions WHERE user_id=$1 AND restricted_id=$2`, userID, targetID)
	return err
}

// SetAutoDeleteChat stores the user-level retention preference.
func (r *UserRepo) SetAutoDeleteChat(ctx context.Context, userID int, policy string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET auto_delete_chat=$2 WHERE id=$1`, userID, policy)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListAutoDeleteUsers returns users with a non-'never' retention preference.
func (r *UserRepo) ListAutoDeleteUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users WHERE auto_delete_chat <> 'never'`)
	return users, err
}

// SetChatPin stores the bcrypt hash of a per-chat PIN.
func (r *UserRepo) SetChatPin(ctx context.Context, userID, chatID int, pinHash string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO user_chat_pins (user_id, chat_id, pin_hash) VALUES ($1, $2, $3)
        ON CONFLICT (user_id, chat_id) DO UPDATE SET pin_hash = EXCLUDED.pin_hash`, userID, chatID, pinHash)
	return err
}

// GetChatPin fetches the stored PIN hash for a chat.
func (r *UserRepo) GetChatPin(ctx context.Context, userID, chatID int) (string, error) {
	var hash string
	err := r.db.GetContext(ctx, &hash, `SELECT pin_hash FROM user_chat_pins WHERE user_id=$1 AND chat_id=$2`, userID, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoPinSet
	}
	return hash, err
}

// SaveMessage bookmarks a message for the user.
func (r *UserRepo) SaveMessage(ctx context.Context, userID, messageID int, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO user_saved_messages (user_id, message_id, saved_at) VALUES ($1, $2, $3)
        ON CONFLICT DO NOTHING`, userID, messageID, at)
	return err
}
