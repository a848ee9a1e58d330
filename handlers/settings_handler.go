package handlers

import (
	"errors"
	"net/http"

	"fitplanner-backend/service"

	"github.com/gin-gonic/gin"
)

// SettingsHandler manages the caller's generative model API key. Keys are
// scoped to the authenticated user and kept in memory only.
type SettingsHandler struct {
	orchestrator *service.PlanOrchestrator
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(orchestrator *service.PlanOrchestrator) *SettingsHandler {
	return &SettingsHandler{orchestrator: orchestrator}
}

// APIKeyRequest is the body of PUT /api/settings/api-key
type APIKeyRequest struct {
	APIKey string `json:"apiKey"`
}

// GetAPIKeyStatus handles GET /api/settings/api-key. The key itself is never returned.
func (h *SettingsHandler) GetAPIKeyStatus(c *gin.Context) {
	isSet := h.orchestrator.HasAPIKey(c.Request.Context(), currentUserID(c))
	respondSuccess(c, http.StatusOK, gin.H{"isSet": isSet})
}

// SetAPIKey handles PUT /api/settings/api-key
func (h *SettingsHandler) SetAPIKey(c *gin.Context) {
	var req APIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.orchestrator.SetAPIKey(c.Request.Context(), currentUserID(c), req.APIKey); err != nil {
		if errors.Is(err, service.ErrEmptyAPIKey) {
			respondError(c, http.StatusBadRequest, "API_KEY_EMPTY", "API Key cannot be empty.")
			return
		}
		respondError(c, http.StatusBadRequest, "API_KEY_INVALID", "Failed to initialize with API Key. It might be invalid.")
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"isSet":   true,
		"message": "API Key saved and initialized!",
	})
}

// ClearAPIKey handles DELETE /api/settings/api-key
func (h *SettingsHandler) ClearAPIKey(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	h.orchestrator.ClearAPIKey(ctx, userID)
	respondSuccess(c, http.StatusOK, gin.H{"isSet": h.orchestrator.HasAPIKey(ctx, userID)})
}
