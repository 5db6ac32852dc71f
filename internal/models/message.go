package models

import "time"

// Message kinds.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVideo = "video"
	MessageTypeFile  = "file"
)

// Message represents a chat message.
type Message struct {
	ID           int        `db:"id" json:"id"`
	ChatID       int        `db:"chat_id" json:"chat_id"`
	SenderID     int        `db:"sender_id" json:"sender_id"`
	Content      string     `db:"content" json:"content"`
	MessageType  string     `db:"message_type" json:"message_type"`
	MediaURL     *string    `db:"media_url" json:"media_url,omitempty"`
	IsPinned     bool       `db:"is_pinned" json:"is_pinned"`
	SentAt       time.Time  `db:"sent_at" json:"sent_at"`
	AutoDeleteAt *time.Time `db:"auto_delete_at" json:"auto_delete_at,omitempty"`
}

// MessageWithSender embeds a sender profile snapshot for API responses
// and socket broadcasts.
type MessageWithSender struct {
	Message
	SenderUsername string `json:"sender_username,omitempty"`
}

// ReadReceipt records that a recipient has read a message.
type ReadReceipt struct {
	MessageID int       `db:"message_id" json:"message_id"`
	UserID    int       `db:"user_id" json:"read_by"`
	ReadAt    time.Time `db:"read_at" json:"read_at"`
}
