package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// SourceConnectionService is the part of the source service the handler uses.
type SourceConnectionService interface {
	Connect(ctx context.Context, profileID, provider, externalAccountID string) (*domain.ReviewSource, string, error)
	CompleteConnection(ctx context.Context, sourceID, accessToken, refreshToken string, expiresAt *time.Time, externalAccountID string) (*domain.ReviewSource, error)
	Disconnect(ctx context.Context, sourceID string) (*domain.ReviewSource, error)
	ListByProfile(ctx context.Context, profileID string) ([]*domain.ReviewSource, error)
}

// ReviewSourceHandler serves the source connection endpoints.
type ReviewSourceHandler struct {
	sources SourceConnectionService
	auth    *AuthMiddleware
	logger  logger.Logger
}

// NewReviewSourceHandler creates the handler.
func NewReviewSourceHandler(sources SourceConnectionService, auth *AuthMiddleware, log logger.Logger) *ReviewSourceHandler {
	return &ReviewSourceHandler{sources: sources, auth: auth, logger: log}
}

// RegisterRoutes registers the source routes on the mux.
func (h *ReviewSourceHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/sources.connect", h.auth.RequireAuth(h.handleConnect))
	mux.HandleFunc("/api/sources.callback", h.auth.RequireAuth(h.handleCallback))
	mux.HandleFunc("/api/sources.disconnect", h.auth.RequireAuth(h.handleDisconnect))
	mux.HandleFunc("/api/sources.list", h.auth.RequireAuth(h.handleList))
}

type connectSourceRequest struct {
	ProfileID         string `json:"profile_id"`
	Provider          string `json:"provider"`
	ExternalAccountID string `json:"external_account_id,omitempty"`
}

func (h *ReviewSourceHandler) handleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req connectSourceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProfileID == "" || req.Provider == "" {
		writeJSONError(w, "profile_id and provider are required", http.StatusBadRequest)
		return
	}

	source, authorizeURL, err := h.sources.Connect(r.Context(), req.ProfileID, req.Provider, req.ExternalAccountID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			writeJSONError(w, "profile not found", http.StatusNotFound)
			return
		}
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"source":        source,
		"authorize_url": authorizeURL,
	})
}

type sourceCallbackRequest struct {
	SourceID          string `json:"source_id"`
	AccessToken       string `json:"access_token"`
	RefreshToken      string `json:"refresh_token,omitempty"`
	ExpiresIn         int    `json:"expires_in,omitempty"`
	ExternalAccountID string `json:"external_account_id,omitempty"`
}

func (h *ReviewSourceHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sourceCallbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.SourceID == "" || req.AccessToken == "" {
		writeJSONError(w, "source_id and access_token are required", http.StatusBadRequest)
		return
	}

	var expiresAt *time.Time
	if req.ExpiresIn > 0 {
		t := time.Now().Add(time.Duration(req.ExpiresIn) * time.Second).UTC()
		expiresAt = &t
	}

	source, err := h.sources.CompleteConnection(r.Context(), req.SourceID, req.AccessToken, req.RefreshToken, expiresAt, req.ExternalAccountID)
	if err != nil {
		if errors.Is(err, domain.ErrSourceNotFound) {
			writeJSONError(w, "source not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to complete source connection: " + err.Error())
		writeJSONError(w, "failed to complete connection", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"source": source})
}

type disconnectSourceRequest struct {
	SourceID string `json:"source_id"`
}

func (h *ReviewSourceHandler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req disconnectSourceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.SourceID == "" {
		writeJSONError(w, "source_id is required", http.StatusBadRequest)
		return
	}

	source, err := h.sources.Disconnect(r.Context(), req.SourceID)
	if err != nil {
		if errors.Is(err, domain.ErrSourceNotFound) {
			writeJSONError(w, "source not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to disconnect source: " + err.Error())
		writeJSONError(w, "failed to disconnect source", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"source": source})
}

func (h *ReviewSourceHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	profileID := r.URL.Query().Get("profile_id")
	if profileID == "" {
		writeJSONError(w, "profile_id is required", http.StatusBadRequest)
		return
	}

	sources, err := h.sources.ListByProfile(r.Context(), profileID)
	if err != nil {
		h.logger.Error("Failed to list sources: " + err.Error())
		writeJSONError(w, "failed to list sources", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sources": sources})
}
