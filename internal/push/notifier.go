// Package push delivers notifications to users who have no live socket.
// Notifications ride the broker; a downstream worker fans them out to
// device push providers.
package push

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Srijapotha/new-camme-project/internal/rabbitmq"
)

// Notifier sends an out-of-band notification to one user.
type Notifier interface {
	PushMessage(ctx context.Context, userID int, title, body string, data map[string]string) error
}

const routingKeyPush = "notifications.push"

// AMQPNotifier publishes push notifications to the broker exchange.
type AMQPNotifier struct {
	publisher rabbitmq.Publisher
}

func NewAMQPNotifier(publisher rabbitmq.Publisher) *AMQPNotifier {
	return &AMQPNotifier{publisher: publisher}
}

type pushEvent struct {
	UserID int               `json:"user_id"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

func (n *AMQPNotifier) PushMessage(ctx context.Context, userID int, title, body string, data map[string]string) error {
	err := n.publisher.Publish(ctx, routingKeyPush, pushEvent{
		UserID: userID,
		Title:  title,
		Body:   body,
		Data:   data,
	})
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("push publish failed")
	}
	return err
}

// Preview builds the notification body shown for a message. Media messages
// without text get a type label instead of an empty body.
func Preview(content, messageType string) string {
	if content != "" {
		return content
	}
	switch messageType {
	case "image":
		return "📷 Image"
	case "video":
		return "🎬 Video"
	case "audio":
		return "🎤 Voice message"
	case "file":
		return "📎 Attachment"
	default:
		return "New message"
	}
}
