package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// SyncRunner triggers review ingestion for a profile or a single source.
type SyncRunner interface {
	SyncProfile(ctx context.Context, profileID string) (*domain.SyncSummary, error)
	SyncSource(ctx context.Context, sourceID string) (*domain.SourceSyncResult, error)
}

// SentimentReader returns the stored sentiment for a review.
type SentimentReader interface {
	GetByReviewID(ctx context.Context, reviewID string) (*domain.ReviewSentiment, error)
}

// ReviewHandler serves the review and sync job endpoints.
type ReviewHandler struct {
	sync       SyncRunner
	reviewRepo domain.ReviewRepository
	jobRepo    domain.ReviewSyncJobRepository
	sentiment  SentimentReader
	auth       *AuthMiddleware
	logger     logger.Logger
}

// NewReviewHandler creates the handler.
func NewReviewHandler(
	sync SyncRunner,
	reviewRepo domain.ReviewRepository,
	jobRepo domain.ReviewSyncJobRepository,
	sentiment SentimentReader,
	auth *AuthMiddleware,
	log logger.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		sync:       sync,
		reviewRepo: reviewRepo,
		jobRepo:    jobRepo,
		sentiment:  sentiment,
		auth:       auth,
		logger:     log,
	}
}

// RegisterRoutes registers the review routes on the mux.
func (h *ReviewHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/reviews.sync", h.auth.RequireAuth(h.handleSync))
	mux.HandleFunc("/api/reviews.list", h.auth.RequireAuth(h.handleList))
	mux.HandleFunc("/api/reviews.get", h.auth.RequireAuth(h.handleGet))
	mux.HandleFunc("/api/jobs.get", h.auth.RequireAuth(h.handleGetJob))
	mux.HandleFunc("/api/jobs.list", h.auth.RequireAuth(h.handleListJobs))
}

type syncRequest struct {
	ProfileID string `json:"profile_id,omitempty"`
	SourceID  string `json:"source_id,omitempty"`
}

// handleSync syncs a whole profile or a single source, depending on which id
// the request carries.
func (h *ReviewHandler) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req syncRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	switch {
	case req.SourceID != "":
		result, err := h.sync.SyncSource(r.Context(), req.SourceID)
		if err != nil {
			if errors.Is(err, domain.ErrSourceNotFound) {
				writeJSONError(w, "source not found", http.StatusNotFound)
				return
			}
			h.logger.Error("Source sync failed: " + err.Error())
			writeJSONError(w, "sync failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"result": result})

	case req.ProfileID != "":
		summary, err := h.sync.SyncProfile(r.Context(), req.ProfileID)
		if err != nil {
			if errors.Is(err, domain.ErrProfileNotFound) {
				writeJSONError(w, "profile not found", http.StatusNotFound)
				return
			}
			h.logger.Error("Profile sync failed: " + err.Error())
			writeJSONError(w, "sync failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"summary": summary})

	default:
		writeJSONError(w, "profile_id or source_id is required", http.StatusBadRequest)
	}
}

func (h *ReviewHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	filter := domain.ReviewFilter{
		ProfileID: query.Get("profile_id"),
		SourceID:  query.Get("source_id"),
		MinRating: intParam(query.Get("min_rating")),
		MaxRating: intParam(query.Get("max_rating")),
		Limit:     intParam(query.Get("limit")),
		Offset:    intParam(query.Get("offset")),
	}
	if filter.ProfileID == "" && filter.SourceID == "" {
		writeJSONError(w, "profile_id or source_id is required", http.StatusBadRequest)
		return
	}

	reviews, total, err := h.reviewRepo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list reviews: " + err.Error())
		writeJSONError(w, "failed to list reviews", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"total":   total,
	})
}

// handleGet returns a review together with its stored sentiment.
func (h *ReviewHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	review, err := h.reviewRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrReviewNotFound) {
			writeJSONError(w, "review not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get review: " + err.Error())
		writeJSONError(w, "failed to get review", http.StatusInternalServerError)
		return
	}

	body := map[string]interface{}{"review": review}
	if sentiment, err := h.sentiment.GetByReviewID(r.Context(), id); err == nil {
		body["sentiment"] = sentiment
	}

	writeJSON(w, http.StatusOK, body)
}

func (h *ReviewHandler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSyncJobNotFound) {
			writeJSONError(w, "job not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get sync job: " + err.Error())
		writeJSONError(w, "failed to get job", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}

func (h *ReviewHandler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sourceID := r.URL.Query().Get("source_id")
	if sourceID == "" {
		writeJSONError(w, "source_id is required", http.StatusBadRequest)
		return
	}

	jobs, err := h.jobRepo.ListBySource(r.Context(), sourceID, intParam(r.URL.Query().Get("limit")))
	if err != nil {
		h.logger.Error("Failed to list sync jobs: " + err.Error())
		writeJSONError(w, "failed to list jobs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

func intParam(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
