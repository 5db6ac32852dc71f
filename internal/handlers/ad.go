package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Srijapotha/new-camme-project/internal/auth"
	"github.com/Srijapotha/new-camme-project/internal/billing"
	"github.com/Srijapotha/new-camme-project/internal/ledger"
	"github.com/Srijapotha/new-camme-project/internal/telemetry"
)

// AdHandler exposes the ad billing endpoints.
type AdHandler struct {
	billing *billing.Service
	emitter *telemetry.AuditEmitter
}

// NewAdHandler builds an AdHandler.
func NewAdHandler(svc *billing.Service, emitter *telemetry.AuditEmitter) *AdHandler {
	return &AdHandler{billing: svc, emitter: emitter}
}

func actorID(c *gin.Context) *int {
	if userID, ok := auth.UserID(c); ok && userID != 0 {
		return &userID
	}
	return nil
}

// TrackEvent bills a batch of ad events.
func (h *AdHandler) TrackEvent(c *gin.Context) {
	var req struct {
		AdID int `json:"adId" binding:"required"`
		ledger.EventCounts
		Reaction *string `json:"reaction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.billing.TrackEvents(c.Request.Context(), req.AdID, req.EventCounts, actorID(c), req.Reaction)
	if err != nil {
		respondError(c, err)
		return
	}

	h.emitter.Emit(c.Request.Context(), "INFO", "ad events tracked", requestIDFromContext(c), userIDFromContext(c))
	c.JSON(http.StatusOK, gin.H{"success": true, "billing": result})
}

// Metrics returns the per-ad spend view.
func (h *AdHandler) Metrics(c *gin.Context) {
	var req struct {
		AdID int `json:"adId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	metrics, err := h.billing.GetMetrics(c.Request.Context(), req.AdID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "metrics": metrics})
}

// Install bills a single app install.
func (h *AdHandler) Install(c *gin.Context) {
	var req struct {
		AdID int `json:"adId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.billing.TrackInstall(c.Request.Context(), req.AdID, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "billing": result})
}

// WebsiteClick bills a single website click.
func (h *AdHandler) WebsiteClick(c *gin.Context) {
	var req struct {
		AdID int `json:"adId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.billing.TrackWebsiteClick(c.Request.Context(), req.AdID, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "billing": result})
}

// SubmitForm stores a form ad submission and bills it.
func (h *AdHandler) SubmitForm(c *gin.Context) {
	var req struct {
		AdID     int             `json:"adId" binding:"required"`
		FormData json.RawMessage `json:"formData" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.billing.TrackFormSubmission(c.Request.Context(), req.AdID, actorID(c), req.FormData)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "billing": result})
}
