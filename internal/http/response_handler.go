package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// ResponseService is the part of the response service the handler uses.
type ResponseService interface {
	DraftResponse(ctx context.Context, reviewID, tone string) (*domain.ReviewResponse, error)
	UpdateDraft(ctx context.Context, responseID, tone, editedText string) (*domain.ReviewResponse, error)
	GetResponse(ctx context.Context, responseID string) (*domain.ReviewResponse, error)
	Publish(ctx context.Context, idempotencyKey string) (*domain.ReviewResponse, error)
}

// ReviewResponseHandler serves the reply drafting and publishing endpoints.
type ReviewResponseHandler struct {
	responses ResponseService
	auth      *AuthMiddleware
	logger    logger.Logger
}

// NewReviewResponseHandler creates the handler.
func NewReviewResponseHandler(responses ResponseService, auth *AuthMiddleware, log logger.Logger) *ReviewResponseHandler {
	return &ReviewResponseHandler{responses: responses, auth: auth, logger: log}
}

// RegisterRoutes registers the response routes on the mux.
func (h *ReviewResponseHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/responses.draft", h.auth.RequireAuth(h.handleDraft))
	mux.HandleFunc("/api/responses.update", h.auth.RequireAuth(h.handleUpdate))
	mux.HandleFunc("/api/responses.get", h.auth.RequireAuth(h.handleGet))
	mux.HandleFunc("/api/responses.publish", h.auth.RequireAuth(h.handlePublish))
}

type draftResponseRequest struct {
	ReviewID string `json:"review_id"`
	Tone     string `json:"tone"`
}

func (h *ReviewResponseHandler) handleDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req draftResponseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ReviewID == "" || req.Tone == "" {
		writeJSONError(w, "review_id and tone are required", http.StatusBadRequest)
		return
	}

	response, err := h.responses.DraftResponse(r.Context(), req.ReviewID, req.Tone)
	if err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			writeJSONError(w, "review not found", http.StatusNotFound)
			return
		}
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"response": response})
}

type updateResponseRequest struct {
	ResponseID string `json:"response_id"`
	Tone       string `json:"tone,omitempty"`
	EditedText string `json:"edited_text"`
}

func (h *ReviewResponseHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateResponseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ResponseID == "" {
		writeJSONError(w, "response_id is required", http.StatusBadRequest)
		return
	}

	response, err := h.responses.UpdateDraft(r.Context(), req.ResponseID, req.Tone, req.EditedText)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrResponseNotFound):
			writeJSONError(w, "response not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrResponseAlreadyPublished):
			writeJSONError(w, "response already published", http.StatusConflict)
		default:
			writeJSONError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"response": response})
}

func (h *ReviewResponseHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	response, err := h.responses.GetResponse(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrResponseNotFound) {
			writeJSONError(w, "response not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get response: " + err.Error())
		writeJSONError(w, "failed to get response", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"response": response})
}

type publishResponseRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
}

// handlePublish publishes a drafted reply. A repeated call with the same
// idempotency key returns 409 without contacting the provider.
func (h *ReviewResponseHandler) handlePublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req publishResponseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.IdempotencyKey == "" {
		writeJSONError(w, "idempotency_key is required", http.StatusBadRequest)
		return
	}

	response, err := h.responses.Publish(r.Context(), req.IdempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrResponseNotFound):
			writeJSONError(w, "response not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrResponseAlreadyPublished):
			writeJSONError(w, "response already published", http.StatusConflict)
		case errors.Is(err, domain.ErrAuthExpired):
			writeJSONError(w, "source authorization expired, reconnect the source", http.StatusBadGateway)
		default:
			h.logger.Error("Failed to publish response: " + err.Error())
			writeJSONError(w, "failed to publish response", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"response": response})
}
