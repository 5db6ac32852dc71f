package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Srijapotha/new-camme-project/internal/auth"
	"github.com/Srijapotha/new-camme-project/internal/repositories"
	"github.com/Srijapotha/new-camme-project/internal/ws"
)

// GroupHandler manages group chat endpoints. Membership changes are gated
// on the group admin.
type GroupHandler struct {
	chats repositories.ChatRepository
	users repositories.UserRepository
}

// NewGroupHandler builds a GroupHandler.
func NewGroupHandler(chats repositories.ChatRepository, users repositories.UserRepository) *GroupHandler {
	return &GroupHandler{chats: chats, users: users}
}

// Create creates a group with the caller as admin.
func (h *GroupHandler) Create(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		Theme     string `json:"theme"`
		MemberIDs []int  `json:"memberIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	userID := c.GetInt(auth.ContextUserKey)
	group, err := h.chats.CreateGroup(c.Request.Context(), userID, req.Name, req.Theme, req.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "group": group})
}

func (h *GroupHandler) requireAdmin(c *gin.Context, groupID int) bool {
	userID := c.GetInt(auth.ContextUserKey)
	group, err := h.chats.GetChat(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !group.IsAdmin(userID) {
		respondError(c, ws.ErrNotAdmin)
		return false
	}
	return true
}

// AddMember adds a user to a group, admin only.
func (h *GroupHandler) AddMember(c *gin.Context) {
	var req struct {
		GroupID int `json:"groupId" binding:"required"`
		UserID  int `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !h.requireAdmin(c, req.GroupID) {
		return
	}

	if _, err := h.users.GetUser(c.Request.Context(), req.UserID); err != nil {
		respondError(c, err)
		return
	}
	if err := h.chats.AddMember(c.Request.Context(), req.GroupID, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveMember removes a user from a group, admin only.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	var req struct {
		GroupID int `json:"groupId" binding:"required"`
		UserID  int `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !h.requireAdmin(c, req.GroupID) {
		return
	}

	if err := h.chats.RemoveMember(c.Request.Context(), req.GroupID, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MyGroups lists the groups the caller belongs to.
func (h *GroupHandler) MyGroups(c *gin.Context) {
	userID := c.GetInt(auth.ContextUserKey)
	groups, err := h.chats.ListGroupsForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "groups": groups})
}
