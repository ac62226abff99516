package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// LocationScorer computes the composite location score for a profile.
type LocationScorer interface {
	Score(ctx context.Context, profile *domain.BusinessProfile) (*domain.LocationScore, error)
}

// MarketSizer estimates the addressable market for a profile.
type MarketSizer interface {
	Estimate(ctx context.Context, profile *domain.BusinessProfile, population int) (*domain.MarketSizeEstimate, error)
}

// MenuPriceScraper extracts menu prices from a competitor page.
type MenuPriceScraper interface {
	ScrapeMenu(ctx context.Context, pageURL string) ([]*domain.MenuItemPrice, error)
}

// InsightsHandler serves the location analytics endpoints.
type InsightsHandler struct {
	profileRepo domain.BusinessProfileRepository
	location    LocationScorer
	market      MarketSizer
	menu        MenuPriceScraper
	auth        *AuthMiddleware
	logger      logger.Logger
}

// NewInsightsHandler creates the handler.
func NewInsightsHandler(
	profileRepo domain.BusinessProfileRepository,
	location LocationScorer,
	market MarketSizer,
	menu MenuPriceScraper,
	auth *AuthMiddleware,
	log logger.Logger,
) *InsightsHandler {
	return &InsightsHandler{
		profileRepo: profileRepo,
		location:    location,
		market:      market,
		menu:        menu,
		auth:        auth,
		logger:      log,
	}
}

// RegisterRoutes registers the insights routes on the mux.
func (h *InsightsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/insights.location", h.auth.RequireAuth(h.handleLocation))
	mux.HandleFunc("/api/insights.market", h.auth.RequireAuth(h.handleMarket))
	mux.HandleFunc("/api/insights.menu", h.auth.RequireAuth(h.handleMenu))
}

func (h *InsightsHandler) lookupProfile(w http.ResponseWriter, r *http.Request) *domain.BusinessProfile {
	profileID := r.URL.Query().Get("profile_id")
	if profileID == "" {
		writeJSONError(w, "profile_id is required", http.StatusBadRequest)
		return nil
	}

	profile, err := h.profileRepo.GetByID(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			writeJSONError(w, "profile not found", http.StatusNotFound)
			return nil
		}
		h.logger.Error("Failed to get profile: " + err.Error())
		writeJSONError(w, "failed to get profile", http.StatusInternalServerError)
		return nil
	}
	return profile
}

func (h *InsightsHandler) handleLocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	profile := h.lookupProfile(w, r)
	if profile == nil {
		return
	}

	score, err := h.location.Score(r.Context(), profile)
	if err != nil {
		h.logger.Error("Failed to compute location score: " + err.Error())
		writeJSONError(w, "failed to compute location score", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"location_score": score})
}

func (h *InsightsHandler) handleMarket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	profile := h.lookupProfile(w, r)
	if profile == nil {
		return
	}

	population := intParam(r.URL.Query().Get("population"))
	if population == 0 {
		writeJSONError(w, "population is required", http.StatusBadRequest)
		return
	}

	estimate, err := h.market.Estimate(r.Context(), profile, population)
	if err != nil {
		h.logger.Error("Failed to estimate market size: " + err.Error())
		writeJSONError(w, "failed to estimate market size", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"market_size": estimate})
}

func (h *InsightsHandler) handleMenu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		writeJSONError(w, "url is required", http.StatusBadRequest)
		return
	}

	items, err := h.menu.ScrapeMenu(r.Context(), pageURL)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}
