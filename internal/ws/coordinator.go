package ws

import (
	"context"
	"errors"

	"github.com/Srijapotha/new-camme-project/internal/models"
	"github.com/Srijapotha/new-camme-project/internal/repositories"
)

var (
	// ErrNotAdmin rejects a pin change in a group chat from anyone but the
	// group admin. Private chats let either participant pin.
	ErrNotAdmin = errors.New("only the group admin can pin messages")

	ErrMessageNotInChat = errors.New("message does not belong to chat")
	ErrUnknownPinAction = errors.New("unknown pin action")
)

// Coordinator manages room membership and pinned messages.
type Coordinator struct {
	chats    repositories.ChatRepository
	messages repositories.MessageRepository
	hub      *Hub
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(chats repositories.ChatRepository, messages repositories.MessageRepository, hub *Hub) *Coordinator {
	return &Coordinator{chats: chats, messages: messages, hub: hub}
}

// JoinRoom subscribes a connection to a chat's broadcasts after checking
// membership.
func (co *Coordinator) JoinRoom(ctx context.Context, chatID, userID int, conn RoomConn) error {
	member, err := co.chats.IsParticipant(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotParticipant
	}
	co.hub.AddClient(chatID, conn)
	return nil
}

// LeaveRoom unsubscribes a connection from a chat.
func (co *Coordinator) LeaveRoom(chatID int, conn RoomConn) {
	co.hub.RemoveClient(chatID, conn)
}

// SetPin pins or unpins a message and notifies the room. In groups only the
// admin may do this.
func (co *Coordinator) SetPin(ctx context.Context, payload models.PinMessagePayload) error {
	var pinned bool
	switch payload.Action {
	case "pin":
		pinned = true
	case "unpin":
		pinned = false
	default:
		return ErrUnknownPinAction
	}

	chat, err := co.chats.GetChat(ctx, payload.ChatID)
	if err != nil {
		return err
	}
	if chat.IsGroup {
		if !chat.IsAdmin(payload.UserID) {
			return ErrNotAdmin
		}
	} else {
		member, err := co.chats.IsParticipant(ctx, payload.ChatID, payload.UserID)
		if err != nil {
			return err
		}
		if !member {
			return ErrNotParticipant
		}
	}

	msg, err := co.messages.GetMessage(ctx, payload.MessageID)
	if err != nil {
		return err
	}
	if msg.ChatID != payload.ChatID {
		return ErrMessageNotInChat
	}

	if err := co.messages.SetPinned(ctx, payload.MessageID, pinned); err != nil {
		return err
	}
	if pinned {
		err = co.chats.PinMessage(ctx, payload.ChatID, payload.MessageID)
	} else {
		err = co.chats.UnpinMessage(ctx, payload.ChatID, payload.MessageID)
	}
	if err != nil {
		return err
	}

	co.hub.Broadcast(payload.ChatID, models.EventMessagePinned, map[string]any{
		"chatId":    payload.ChatID,
		"messageId": payload.MessageID,
		"action":    payload.Action,
		"pinnedBy":  payload.UserID,
	})
	return nil
}
