package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TokenMaintenanceRepository is the interface that wraps expired refresh token cleanup
type TokenMaintenanceRepository interface {
	// DeleteExpired deletes all tokens created at or before expiryTime and
	// returns the number of deleted rows.
	DeleteExpired(ctx context.Context, expiryTime time.Time) (int, error)
}

// TokenCleaningHandler handles refresh token cleanup requests
type TokenCleaningHandler struct {
	BaseHandler
	userTokenRepo      TokenMaintenanceRepository
	refreshTokenExpiry time.Duration
}

// NewTokenCleaningHandler creates a new token cleaning handler
func NewTokenCleaningHandler(
	userTokenRepo TokenMaintenanceRepository,
	logger *zap.Logger,
	refreshTokenExpiry time.Duration,
) *TokenCleaningHandler {
	return &TokenCleaningHandler{
		BaseHandler:        BaseHandler{Logger: logger},
		userTokenRepo:      userTokenRepo,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// RegisterRoutes registers token cleaning handler routes.
// The caller is expected to wrap them in the admin-only middleware.
func (h *TokenCleaningHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tokens/clean", h.CleanTokens)
}

// CleanTokens handles GET /tokens/clean
// @Summary Clean expired refresh tokens
// @Description Removes all refresh tokens older than the refresh token expiry. Admin only.
// @Tags tokens
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string "Token cleaning completed successfully"
// @Failure 401 {object} map[string]string "Unauthorized or non-admin"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /tokens/clean [get]
func (h *TokenCleaningHandler) CleanTokens(w http.ResponseWriter, r *http.Request) {
	// Tokens created before this moment can no longer verify
	expiryTime := time.Now().Add(-h.refreshTokenExpiry)

	deletedCount, err := h.userTokenRepo.DeleteExpired(r.Context(), expiryTime)
	if err != nil {
		h.Logger.Error("failed to delete expired tokens", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.Logger.Info("token cleaning completed successfully", zap.Int("deleted_count", deletedCount))
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "token cleaning completed successfully"})
}
