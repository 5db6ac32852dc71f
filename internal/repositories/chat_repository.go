package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/Srijapotha/new-camme-project/internal/models"
)

var ErrChatNotFound = errors.New("chat not found")

// ChatRepository abstracts chat and group persistence.
type ChatRepository interface {
	CreateOrGetPrivateChat(ctx context.Context, userID, friendID int) (models.Chat, bool, error)
	GetChat(ctx context.Context, chatID int) (models.Chat, error)
	Participants(ctx context.Context, chatID int) ([]int, error)
	IsParticipant(ctx context.Context, chatID, userID int) (bool, error)
	ListPrivateChats(ctx context.Context, userID int) ([]models.Chat, error)
	CreateGroup(ctx context.Context, adminID int, name, theme string, memberIDs []int) (models.Chat, error)
	ListGroupsForUser(ctx context.Context, userID int) ([]models.Chat, error)
	AddMember(ctx context.Context, chatID, userID int) error
	RemoveMember(ctx context.Context, chatID, userID int) error
	SetAutoDeletePolicy(ctx context.Context, chatID int, policy string) error
	TouchLastActivity(ctx context.Context, chatID int) error
	PinMessage(ctx context.Context, chatID, messageID int) error
	UnpinMessage(ctx context.Context, chatID, messageID int) error
	PinnedMessages(ctx context.Context, chatID int) ([]int, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

const chatColumns = `id, is_group, group_name, group_photo, group_theme, admin_id, auto_delete_policy, pair_key, last_activity, created_at`

func pairKey(userID, friendID int) string {
	lo, hi := userID, friendID
	if lo > hi {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("%d:%d", lo, hi)
}

// CreateOrGetPrivateChat creates the unique private chat for a participant
// pair, or returns the existing one. The pair_key UNIQUE constraint makes
// concurrent creates converge on a single row; the second return reports
// whether a new chat was created.
func (r *ChatRepo) CreateOrGetPrivateChat(ctx context.Context, userID, friendID int) (models.Chat, bool, error) {
	if userID == friendID {
		return models.Chat{}, false, errors.New("cannot create chat with self")
	}
	key := pairKey(userID, friendID)

	var chat models.Chat
	err := r.db.GetContext(ctx, &chat, `SELECT `+chatColumns+` FROM chats WHERE pair_key=$1`, key)
	if err == nil {
		return chat, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, false, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Chat{}, false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var id int
	err = tx.QueryRowxContext(ctx, `INSERT INTO chats (is_group, pair_key) VALUES (FALSE, $1)
        ON CONFLICT (pair_key) DO NOTHING RETURNING id`, key).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost the race; another request created the pair first.
		tx.Rollback()
		err = r.db.GetContext(ctx, &chat, `SELECT `+chatColumns+` FROM chats WHERE pair_key=$1`, key)
		return chat, false, err
	}
	if err != nil {
		return models.Chat{}, false, err
	}

	for _, participant := range []int{userID, friendID} {
		if _, err = tx.ExecContext(ctx, `INSERT INTO chat_participants (chat_id, user_id) VALUES ($1, $2)`, id, participant); err != nil {
			return models.Chat{}, false, err
		}
	}
	if err = tx.Commit(); err != nil {
		return models.Chat{}, false, err
	}

	err = r.db.GetContext(ctx, &chat, `SELECT `+chatColumns+` FROM chats WHERE id=$1`, id)
	return chat, true, err
}

// GetChat fetches a chat by id.
func (r *ChatRepo) GetChat(ctx context.Context, chatID int) (models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat, `SELECT `+chatColumns+` FROM chats WHERE id=$1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	return chat, err
}

// Participants returns the participant ids of a chat.
func (r *ChatRepo) Participants(ctx context.Context, chatID int) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids, `SELECT user_id FROM chat_participants WHERE chat_id=$1 ORDER BY user_id`, chatID)
	return ids, err
}

// IsParticipant checks whether a user belongs to the chat.
func (r *ChatRepo) IsParticipant(ctx context.Context, chatID, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM chat_participants WHERE chat_id=$1 AND user_id=$2)`, chatID, userID)
	return exists, err
}

// ListPrivateChats returns the user's private chats, most recent first.
func (r *ChatRepo) ListPrivateChats(ctx context.Context, userID int) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.SelectContext(ctx, &chats, `SELECT `+chatColumns+` FROM chats c
        INNER JOIN chat_participants cp ON cp.chat_id = c.id
        WHERE cp.user_id=$1 AND c.is_group = FALSE
        ORDER BY c.last_activity DESC`, userID)
	return chats, err
}

// CreateGroup creates a group chat and its members atomically. The admin is
// always included as a participant.
func (r *ChatRepo) CreateGroup(ctx context.Context, adminID int, name, theme string, memberIDs []int) (models.Chat, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Chat{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var themePtr *string
	if theme != "" {
		themePtr = &theme
	}
	var chat models.Chat
	if err = tx.QueryRowxContext(ctx, `INSERT INTO chats (is_group, group_name, group_theme, admin_id) VALUES (TRUE, $1, $2, $3)
        RETURNING `+chatColumns, name, themePtr, adminID).StructScan(&chat); err != nil {
		return models.Chat{}, err
	}

	memberSet := map[int]struct{}{adminID: {}}
	for _, id := range memberIDs {
		memberSet[id] = struct{}{}
	}
	ids := make([]int, 0, len(memberSet))
	for id := range memberSet {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if _, err = tx.ExecContext(ctx, `INSERT INTO chat_participants (chat_id, user_id) VALUES ($1, $2)`, chat.ID, id); err != nil {
			return models.Chat{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}

// ListGroupsForUser returns group chats that include the user.
func (r *ChatRepo) ListGroupsForUser(ctx context.Context, userID int) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.SelectContext(ctx, &chats, `SELECT `+chatColumns+` FROM chats c
        INNER JOIN chat_participants cp ON cp.chat_id = c.id
        WHERE cp.user_id=$1 AND c.is_group = TRUE
        ORDER BY c.created_at DESC`, userID)
	return chats, err
}

// AddMember adds a participant to a chat.
func (r *ChatRepo) AddMember(ctx context.Context, chatID, userID int) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO chat_participants (chat_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, chatID, userID)
	return err
}

// RemoveMember removes a participant from a chat.
func (r *ChatRepo) RemoveMember(ctx context.Context, chatID, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM chat_participants WHERE chat_id=$1 AND user_id=$2`, chatID, userID)
	return err
}

// SetAutoDeletePolicy stores the chat-level retention policy.
func (r *ChatRepo) SetAutoDeletePolicy(ctx context.Context, chatID int, policy string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE chats SET auto_delete_policy=$2 WHERE id=$1`, chatID, policy)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrChatNotFound
	}
	return nil
}

// TouchLastActivity stamps the chat's last-activity timestamp.
func (r *ChatRepo) TouchLastActivity(ctx context.Context, chatID int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE chats SET last_activity=NOW() WHERE id=$1`, chatID)
	return err
}

// PinMessage adds a message to the chat's pinned set.
func (r *ChatRepo) PinMessage(ctx context.Context, chatID, messageID int) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO chat_pinned_messages (chat_id, message_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, chatID, messageID)
	return err
}

// UnpinMessage removes a message from the chat's pinned set.
func (r *ChatRepo) UnpinMessage(ctx context.Context, chatID, messageID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM chat_pinned_messages WHERE chat_id=$1 AND message_id=$2`, chatID, messageID)
	return err
}

// PinnedMessages returns the pinned message ids of a chat.
func (r *ChatRepo) PinnedMessages(ctx context.Context, chatID int) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids, `SELECT message_id FROM chat_pinned_messages WHERE chat_id=$1 ORDER BY message_id`, chatID)
	return ids, err
}
