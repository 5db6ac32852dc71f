package ws

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Srijapotha/new-camme-project/internal/models"
	"github.com/Srijapotha/new-camme-project/internal/observability"
	"github.com/Srijapotha/new-camme-project/internal/presence"
	"github.com/Srijapotha/new-camme-project/internal/push"
	"github.com/Srijapotha/new-camme-project/internal/repositories"
)

var (
	// ErrBlocked rejects a message when any recipient has the sender on
	// their block list. Nothing is persisted and nobody is notified.
	ErrBlocked = errors.New("delivery blocked by recipient")

	ErrNotParticipant     = errors.New("sender is not a chat participant")
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrEmptyMessage       = errors.New("message has no content")
)

// Presence is the online-state lookup the router needs.
type Presence interface {
	Lookup(userID int) (presence.Conn, bool)
}

// Broadcaster fans an event out to a chat room.
type Broadcaster interface {
	Broadcast(chatID int, event string, data any)
}

// Router takes an inbound message through validation, persistence, room
// broadcast and offline push.
type Router struct {
	chats    repositories.ChatRepository
	messages repositories.MessageRepository
	users    repositories.UserRepository
	rooms    Broadcaster
	presence Presence
	notifier push.Notifier

	now func() time.Time
}

// NewRouter constructs a Router.
func NewRouter(
	chats repositories.ChatRepository,
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	rooms Broadcaster,
	pres Presence,
	notifier push.Notifier,
) *Router {
	return &Router{
		chats:    chats,
		messages: messages,
		users:    users,
		rooms:    rooms,
		presence: pres,
		notifier: notifier,
		now:      time.Now,
	}
}

// Deliver processes a sendMessage frame. A block by any recipient rejects
// the whole message. A restriction held by the sender suppresses the room
// broadcast but the message is still stored and pushed.
func (r *Router) Deliver(ctx context.Context, payload models.SendMessagePayload) (models.Message, error) {
	if err := validateMessage(payload); err != nil {
		return models.Message{}, err
	}

	chat, err := r.chats.GetChat(ctx, payload.ChatID)
	if err != nil {
		return models.Message{}, err
	}

	participants, err := r.chats.Participants(ctx, payload.ChatID)
	if err != nil {
		return models.Message{}, err
	}
	recipients := make([]int, 0, len(participants))
	sender := false
	for _, id := range participants {
		if id == payload.SenderID {
			sender = true
			continue
		}
		recipients = append(recipients, id)
	}
	if !sender {
		return models.Message{}, ErrNotParticipant
	}

	blocked, err := r.users.IsBlockedByAny(ctx, payload.SenderID, recipients)
	if err != nil {
		return models.Message{}, err
	}
	if blocked {
		return models.Message{}, ErrBlocked
	}

	sentAt := r.now().UTC()
	var autoDeleteAt *time.Time
	if window, ok := models.AutoDeleteWindow(chat.AutoDeletePolicy); ok {
		expiry := sentAt.Add(window)
		autoDeleteAt = &expiry
	}

	msg, err := r.messages.CreateMessage(ctx, repositories.CreateMessageParams{
		ChatID:       payload.ChatID,
		SenderID:     payload.SenderID,
		Content:      payload.Content,
		MessageType:  payload.MessageType,
		MediaURL:     payload.MediaURL,
		SentAt:       sentAt,
		AutoDeleteAt: autoDeleteAt,
	})
	if err != nil {
		return models.Message{}, err
	}

	if err := r.chats.TouchLastActivity(ctx, payload.ChatID); err != nil {
		log.Error().Err(err).Int("chat_id", payload.ChatID).Msg("touch last activity failed")
	}

	var senderName string
	if sender, err := r.users.GetUser(ctx, payload.SenderID); err == nil {
		senderName = sender.DisplayName()
	}

	restricted, err := r.users.HasRestrictedAny(ctx, payload.SenderID, recipients)
	if err != nil {
		return models.Message{}, err
	}
	if !restricted {
		r.rooms.Broadcast(payload.ChatID, models.EventNewMessage, models.MessageWithSender{
			Message:        msg,
			SenderUsername: senderName,
		})
	}

	r.pushOffline(ctx, msg, senderName, recipients)

	return msg, nil
}

// pushOffline notifies recipients without a live socket. Push failures do
// not fail the delivery.
func (r *Router) pushOffline(ctx context.Context, msg models.Message, senderName string, recipients []int) {
	if r.notifier == nil {
		return
	}

	title := senderName
	if title == "" {
		title = "New message"
	}
	body := push.Preview(msg.Content, msg.MessageType)

	for _, userID := range recipients {
		if _, online := r.presence.Lookup(userID); online {
			continue
		}
		err := r.notifier.PushMessage(ctx, userID, title, body, map[string]string{
			"chat_id":    strconv.Itoa(msg.ChatID),
			"message_id": strconv.Itoa(msg.ID),
		})
		if err != nil {
			observability.IncPushNotification("error")
			log.Error().Err(err).Int("user_id", userID).Int("message_id", msg.ID).Msg("offline push failed")
			continue
		}
		observability.IncPushNotification("ok")
	}
}

func validateMessage(payload models.SendMessagePayload) error {
	switch payload.MessageType {
	case models.MessageTypeText, models.MessageTypeImage, models.MessageTypeVideo, models.MessageTypeFile:
	default:
		return ErrInvalidMessageType
	}
	if payload.Content == "" && payload.MediaURL == nil {
		return ErrEmptyMessage
	}
	return nil
}
