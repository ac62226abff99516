package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/localpulse/localpulse/internal/domain"
	domainmocks "github.com/localpulse/localpulse/internal/domain/mocks"
	"github.com/localpulse/localpulse/pkg/logger"
)

func newProfileMux(t *testing.T, ctrl *gomock.Controller) (*http.ServeMux, *domainmocks.MockBusinessProfileRepository) {
	t.Helper()
	repo := domainmocks.NewMockBusinessProfileRepository(ctrl)
	handler := NewBusinessProfileHandler(repo, testAuth(), logger.NewNopLogger())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux, repo
}

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set("Authorization", bearerToken(t))
	return req
}

func TestProfileHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mux, repo := newProfileMux(t, ctrl)

	var created *domain.BusinessProfile
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, profile *domain.BusinessProfile) error {
			created = profile
			return nil
		})

	body := `{
		"name": "Corner Bakery",
		"category": "bakery",
		"city": "Seattle",
		"state": "WA",
		"latitude": 47.61,
		"longitude": -122.33,
		"notifications": {"instant_alerts_enabled": true, "channels": ["email"], "alert_email": "owner@example.com"}
	}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/profiles.create", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Corner Bakery", gjson.Get(rec.Body.String(), "profile.name").String())
}

func TestProfileHandler_Create_InvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mux, _ := newProfileMux(t, ctrl)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/profiles.create", `{"name": `))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileHandler_Create_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mux, _ := newProfileMux(t, ctrl)

	// Missing category fails domain validation.
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/profiles.create", `{"name": "X"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, gjson.Get(rec.Body.String(), "error").String(), "category")
}

func TestProfileHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mux, repo := newProfileMux(t, ctrl)

	repo.EXPECT().GetByID(gomock.Any(), "prof-1").Return(&domain.BusinessProfile{
		ID:   "prof-1",
		Name: "Corner Bakery",
	}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/profiles.get?id=prof-1", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "prof-1", gjson.Get(rec.Body.String(), "profile.id").String())
}

func TestProfileHandler_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mux, repo := newProfileMux(t, ctrl)

	repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrProfileNotFound)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/profiles.get?id=missing", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mux, _ := newProfileMux(t, ctrl)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/profiles.create", ""))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
