package models

import "encoding/json"

// Socket event names, client to server.
const (
	EventJoin        = "join"
	EventJoinChat    = "joinChat"
	EventSendMessage = "sendMessage"
	EventTyping      = "typing"
	EventPinMessage  = "pinMessage"
	EventMessageRead = "messageRead"
	EventLeaveChat   = "leaveChat"
)

// Socket event names, server to client.
const (
	EventUserOnline      = "userOnline"
	EventUserOffline     = "userOffline"
	EventOnlineUsers     = "onlineUsers"
	EventNewMessage      = "newMessage"
	EventMessageError    = "messageError"
	EventUserTyping      = "userTyping"
	EventMessagePinned   = "messagePinned"
	EventMessageReadConf = "messageReadConfirmation"
	EventError           = "error"
)

// ClientEvent is an inbound socket frame.
type ClientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerEvent is an outbound socket frame.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// JoinPayload carries the join event body.
type JoinPayload struct {
	UserID int `json:"userId"`
}

// JoinChatPayload carries the joinChat event body.
type JoinChatPayload struct {
	UserID int `json:"userId"`
	ChatID int `json:"chatId"`
}

// SendMessagePayload carries the sendMessage event body.
type SendMessagePayload struct {
	ChatID      int     `json:"chatId"`
	SenderID    int     `json:"senderId"`
	Content     string  `json:"content"`
	MessageType string  `json:"messageType"`
	MediaURL    *string `json:"mediaUrl,omitempty"`
}

// TypingPayload carries the typing event body.
type TypingPayload struct {
	ReceiverID int  `json:"receiverId"`
	IsTyping   bool `json:"isTyping"`
}

// PinMessagePayload carries the pinMessage event body.
type PinMessagePayload struct {
	ChatID    int    `json:"chatId"`
	MessageID int    `json:"messageId"`
	UserID    int    `json:"userId"`
	Action    string `json:"action"`
}

// MessageReadPayload carries the messageRead event body.
type MessageReadPayload struct {
	MessageID int `json:"messageId"`
	SenderID  int `json:"senderId"`
}
