package http

import (
	"errors"
	"net/http"

	"github.com/lithammer/shortuuid/v4"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// BusinessProfileHandler serves the profile endpoints.
type BusinessProfileHandler struct {
	profileRepo domain.BusinessProfileRepository
	auth        *AuthMiddleware
	logger      logger.Logger
}

// NewBusinessProfileHandler creates the handler.
func NewBusinessProfileHandler(profileRepo domain.BusinessProfileRepository, auth *AuthMiddleware, log logger.Logger) *BusinessProfileHandler {
	return &BusinessProfileHandler{profileRepo: profileRepo, auth: auth, logger: log}
}

// RegisterRoutes registers the profile routes on the mux.
func (h *BusinessProfileHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/profiles.create", h.auth.RequireAuth(h.handleCreate))
	mux.HandleFunc("/api/profiles.get", h.auth.RequireAuth(h.handleGet))
	mux.HandleFunc("/api/profiles.list", h.auth.RequireAuth(h.handleList))
	mux.HandleFunc("/api/profiles.update", h.auth.RequireAuth(h.handleUpdate))
}

type createProfileRequest struct {
	Name          string                      `json:"name"`
	Category      string                      `json:"category"`
	Address       string                      `json:"address"`
	City          string                      `json:"city"`
	State         string                      `json:"state"`
	Postcode      string                      `json:"postcode"`
	Latitude      float64                     `json:"latitude"`
	Longitude     float64                     `json:"longitude"`
	Notifications domain.NotificationSettings `json:"notifications"`
}

func (h *BusinessProfileHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	profile := &domain.BusinessProfile{
		ID:            shortuuid.New(),
		Name:          req.Name,
		Category:      req.Category,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		Postcode:      req.Postcode,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Notifications: req.Notifications,
	}
	if err := profile.Validate(); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.profileRepo.Create(r.Context(), profile); err != nil {
		h.logger.Error("Failed to create profile: " + err.Error())
		writeJSONError(w, "failed to create profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"profile": profile})
}

func (h *BusinessProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	profile, err := h.profileRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			writeJSONError(w, "profile not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get profile: " + err.Error())
		writeJSONError(w, "failed to get profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": profile})
}

func (h *BusinessProfileHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	profiles, err := h.profileRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list profiles: " + err.Error())
		writeJSONError(w, "failed to list profiles", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"profiles": profiles})
}

type updateProfileRequest struct {
	ID string `json:"id"`
	createProfileRequest
}

func (h *BusinessProfileHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		writeJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	existing, err := h.profileRepo.GetByID(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			writeJSONError(w, "profile not found", http.StatusNotFound)
			return
		}
		writeJSONError(w, "failed to get profile", http.StatusInternalServerError)
		return
	}

	existing.Name = req.Name
	existing.Category = req.Category
	existing.Address = req.Address
	existing.City = req.City
	existing.State = req.State
	existing.Postcode = req.Postcode
	existing.Latitude = req.Latitude
	existing.Longitude = req.Longitude
	existing.Notifications = req.Notifications
	if err := existing.Validate(); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.profileRepo.Update(r.Context(), existing); err != nil {
		h.logger.Error("Failed to update profile: " + err.Error())
		writeJSONError(w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": existing})
}
