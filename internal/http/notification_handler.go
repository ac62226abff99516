package http

import (
	"context"
	"net/http"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// NotificationLister returns past notifications for a profile.
type NotificationLister interface {
	ListByProfile(ctx context.Context, profileID string, limit int) ([]*domain.Notification, error)
}

// NotificationHandler serves the notification history endpoint.
type NotificationHandler struct {
	notifications NotificationLister
	auth          *AuthMiddleware
	logger        logger.Logger
}

// NewNotificationHandler creates the handler.
func NewNotificationHandler(notifications NotificationLister, auth *AuthMiddleware, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, auth: auth, logger: log}
}

// RegisterRoutes registers the notification routes on the mux.
func (h *NotificationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/notifications.list", h.auth.RequireAuth(h.handleList))
}

func (h *NotificationHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	profileID := r.URL.Query().Get("profile_id")
	if profileID == "" {
		writeJSONError(w, "profile_id is required", http.StatusBadRequest)
		return
	}

	notifications, err := h.notifications.ListByProfile(r.Context(), profileID, intParam(r.URL.Query().Get("limit")))
	if err != nil {
		h.logger.Error("Failed to list notifications: " + err.Error())
		writeJSONError(w, "failed to list notifications", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}
