// Package handlers implements the HTTP layer of the user-management service
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response with a "message" field
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"message": message})
}

// statusFromError maps service errors onto the 400/401/404/500 taxonomy
func statusFromError(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "invalid email or password") ||
		strings.Contains(msg, "invalid or expired"):
		return http.StatusUnauthorized
	case strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "already exists") ||
		strings.Contains(msg, "cannot be empty") ||
		strings.Contains(msg, "no fields"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
