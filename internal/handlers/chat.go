package handlers

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Srijapotha/new-camme-project/internal/auth"
	"github.com/Srijapotha/new-camme-project/internal/models"
	"github.com/Srijapotha/new-camme-project/internal/repositories"
	"github.com/Srijapotha/new-camme-project/internal/ws"
)

// ChatHandler manages chat utility endpoints. Message sending itself rides
// the socket; these endpoints cover history, retention, privacy and PINs.
type ChatHandler struct {
	chats    repositories.ChatRepository
	messages repositories.MessageRepository
	users    repositories.UserRepository
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chats repositories.ChatRepository, messages repositories.MessageRepository, users repositories.UserRepository) *ChatHandler {
	return &ChatHandler{chats: chats, messages: messages, users: users}
}

func (h *ChatHandler) requireParticipant(c *gin.Context, chatID, userID int) bool {
	member, err := h.chats.IsParticipant(c.Request.Context(), chatID, userID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !member {
		respondError(c, ws.ErrNotParticipant)
		return false
	}
	return true
}

// Messages returns a chat's history with its pinned message ids.
func (h *ChatHandler) Messages(c *gin.Context) {
	var req struct {
		ChatID int `json:"chatId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	userID := c.GetInt(auth.ContextUserKey)
	if !h.requireParticipant(c, req.ChatID, userID) {
		return
	}

	msgs, err := h.messages.ListChatMessages(c.Request.Context(), req.ChatID)
	if err != nil {
		respondError(c, err)
		return
	}
	pinned, err := h.chats.PinnedMessages(c.Request.Context(), req.ChatID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messages": msgs, "pinned_message_ids": pinned})
}

// CreatePrivate creates the unique private chat with a friend, or returns
// the existing one.
func (h *ChatHandler) CreatePrivate(c *gin.Context) {
	var req struct {
		FriendID int `json:"friendId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	userID := c.GetInt(auth.ContextUserKey)
	if userID == req.FriendID {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "cannot chat with yourself"})
		return
	}

	chat, created, err := h.chats.CreateOrGetPrivateChat(c.Request.Context(), userID, req.FriendID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "chat_id": chat.ID, "created": created})
}

// SearchChats finds users by name and lists the caller's private chats.
func (h *ChatHandler) SearchChats(c *gin.Context) {
	var req struct {
		Term string `json:"term"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	userID := c.GetInt(auth.ContextUserKey)
	users, err := h.users.SearchUsers(c.Request.Context(), userID, req.Term)
	if err != nil {
		respondError(c, err)
		return
	}
	chats, err := h.chats.ListPrivateChats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": users, "chats": chats})
}

// FilterMessages returns a chat's messages inside a date range.
func (h *ChatHandler) FilterMessages(c *gin.Context) {
	var req struct {
		ChatID int       `json:"chatId" binding:"required"`
		From   time.Time `json:"from" binding:"required"`
		To     time.Time `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	userID := c.GetInt(auth.ContextUserKey)
	if !h.requireParticipant(c, req.ChatID, userID) {
		return
	}

	msgs, err := h.messages.FilterMessagesByDate(c.Request.Context(), req.ChatID, req.From, req.To)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": msgs})
}

// SetAutoDeleteSetting stores a retention policy. With a chatId it applies
// to the chat (future messages); without one it sets the caller's own
// preference, enforced by the sweeper.
func (h *ChatHandler) SetAutoDeleteSetting(c *gin.Context) {
	var req struct {
		ChatID  int    `json:"chatId"`
		Setting string `json:"setting" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !models.ValidAutoDeletePolicy(req.Setting) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid auto-delete setting"})
		return
	}

	userID := c.GetInt(auth.ContextUserKey)
	if req.ChatID != 0 {
		if !h.requireParticipant(c, req.ChatID, userID) {
			return
		}
		if err := h.chats.SetAutoDeletePolicy(c.Request.Context(), req.ChatID, req.Setting); err != nil {
			respondError(c, err)
			return
		}
	} else {
		if err := h.users.SetAutoDeleteChat(c.Request.Context(), userID, req.Setting); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "setting": req.Setting})
}

// GetAutoDeleteSetting returns the caller's preference, or the chat policy
// when a chatId is given.
func (h *ChatHandler) GetAutoDeleteSetting(c *gin.Context) {
	var req struct {
		ChatID int `json:"chatId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	userID := c.GetInt(auth.ContextUserKey)
	if req.ChatID != 0 {
		if !h.requireParticipant(c, req.ChatID, userID) {
			return
		}
		chat, err := h.chats.GetChat(c.Request.Context(), req.ChatID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "setting": chat.AutoDeletePolicy})
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "setting": user.AutoDeleteChat})
}

// BlockUser adds or removes a block-list entry.
func (h *ChatHandler) BlockUser(c *gin.Context) {
	var req struct {
		TargetID int   `json:"targetId" binding:"required"`
		Blocked  *bool `json:"blocked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	blocked := true
	if req.Blocked != nil {
		blocked = *req.Blocked
	}
	userID := c.GetInt(auth.ContextUserKey)
	if err := h.users.SetBlocked(c.Request.Context(), userID, req.TargetID, blocked); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "blocked": blocked})
}

// RestrictUser adds or removes a restricted-list entry.
func (h *ChatHandler) RestrictUser(c *gin.Context) {
	var req struct {
		TargetID   int   `json:"targetId" binding:"required"`
		Restricted *bool `json:"restricted"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	restricted := true
	if req.Restricted != nil {
		restricted = *req.Restricted
	}
	userID := c.GetInt(auth.ContextUserKey)
	if err := h.users.SetRestricted(c.Request.Context(), userID, req.TargetID, restricted); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "restricted": restricted})
}

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// SetPin stores a 4-digit PIN protecting a chat for the caller.
func (h *ChatHandler) SetPin(c *gin.Context) {
	var req struct {
		ChatID int    `json:"chatId" binding:"required"`
		Pin    string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !pinPattern.MatchString(req.Pin) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "pin must be exactly 4 digits"})
		return
	}

	userID := c.GetInt(auth.ContextUserKey)
	if !h.requireParticipant(c, req.ChatID, userID) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.users.SetChatPin(c.Request.Context(), userID, req.ChatID, string(hash)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// VerifyPin checks a chat PIN against the stored hash.
func (h *ChatHandler) VerifyPin(c *gin.Context) {
	var req struct {
		ChatID int    `json:"chatId" binding:"required"`
		Pin    string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !pinPattern.MatchString(req.Pin) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "pin must be exactly 4 digits"})
		return
	}

	userID := c.GetInt(auth.ContextUserKey)
	hash, err := h.users.GetChatPin(c.Request.Context(), userID, req.ChatID)
	if err != nil {
		respondError(c, err)
		return
	}

	valid := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Pin)) == nil
	c.JSON(http.StatusOK, gin.H{"success": true, "valid": valid})
}

// SaveMessage bookmarks a message for the caller.
func (h *ChatHandler) SaveMessage(c *gin.Context) {
	var req struct {
		MessageID int `json:"messageId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	userID := c.GetInt(auth.ContextUserKey)
	msg, err := h.messages.GetMessage(c.Request.Context(), req.MessageID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.requireParticipant(c, msg.ChatID, userID) {
		return
	}

	if err := h.users.SaveMessage(c.Request.Context(), userID, req.MessageID, time.Now().UTC()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
