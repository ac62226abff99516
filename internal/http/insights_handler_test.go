package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/localpulse/localpulse/internal/domain"
	domainmocks "github.com/localpulse/localpulse/internal/domain/mocks"
	"github.com/localpulse/localpulse/pkg/logger"
)

type stubLocationScorer struct {
	score *domain.LocationScore
	err   error
}

func (s *stubLocationScorer) Score(context.Context, *domain.BusinessProfile) (*domain.LocationScore, error) {
	return s.score, s.err
}

type stubMarketSizer struct {
	estimate *domain.MarketSizeEstimate
	err      error

	gotPopulation int
}

func (s *stubMarketSizer) Estimate(_ context.Context, _ *domain.BusinessProfile, population int) (*domain.MarketSizeEstimate, error) {
	s.gotPopulation = population
	return s.estimate, s.err
}

type stubMenuScraper struct {
	items []*domain.MenuItemPrice
	err   error
}

func (s *stubMenuScraper) ScrapeMenu(context.Context, string) ([]*domain.MenuItemPrice, error) {
	return s.items, s.err
}

type insightsFixture struct {
	mux         *http.ServeMux
	profileRepo *domainmocks.MockBusinessProfileRepository
	location    *stubLocationScorer
	market      *stubMarketSizer
	menu        *stubMenuScraper
}

func newInsightsMux(t *testing.T, ctrl *gomock.Controller) *insightsFixture {
	t.Helper()
	f := &insightsFixture{
		profileRepo: domainmocks.NewMockBusinessProfileRepository(ctrl),
		location:    &stubLocationScorer{},
		market:      &stubMarketSizer{},
		menu:        &stubMenuScraper{},
	}
	handler := NewInsightsHandler(f.profileRepo, f.location, f.market, f.menu, testAuth(), logger.NewNopLogger())
	f.mux = http.NewServeMux()
	handler.RegisterRoutes(f.mux)
	return f
}

func TestInsightsHandler_Location(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newInsightsMux(t, ctrl)

	f.profileRepo.EXPECT().GetByID(gomock.Any(), "prof-1").Return(&domain.BusinessProfile{ID: "prof-1"}, nil)
	f.location.score = &domain.LocationScore{Safety: 75, Health: 82.5, FootTraffic: 74, Composite: 76.475}

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/insights.location?profile_id=prof-1", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 76.475, gjson.Get(rec.Body.String(), "location_score.composite").Float(), 0.001)
}

func TestInsightsHandler_Location_ProfileNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newInsightsMux(t, ctrl)

	f.profileRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrProfileNotFound)

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/insights.location?profile_id=missing", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInsightsHandler_Market(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newInsightsMux(t, ctrl)

	f.profileRepo.EXPECT().GetByID(gomock.Any(), "prof-1").Return(&domain.BusinessProfile{ID: "prof-1", Category: "bakery"}, nil)
	f.market.estimate = &domain.MarketSizeEstimate{Category: "bakery", DensityBand: "suburban", EstimatedAnnualRev: 226800}

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/insights.market?profile_id=prof-1&population=45000", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 45000, f.market.gotPopulation)
	assert.Equal(t, "suburban", gjson.Get(rec.Body.String(), "market_size.density_band").String())
}

func TestInsightsHandler_Market_MissingPopulation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newInsightsMux(t, ctrl)

	f.profileRepo.EXPECT().GetByID(gomock.Any(), "prof-1").Return(&domain.BusinessProfile{ID: "prof-1"}, nil)

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/insights.market?profile_id=prof-1", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsightsHandler_Menu(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newInsightsMux(t, ctrl)
	f.menu.items = []*domain.MenuItemPrice{{Name: "Flat White", Price: 4.5}}

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/insights.menu?url=https%3A%2F%2Fexample.com%2Fmenu", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Flat White", gjson.Get(rec.Body.String(), "items.0.name").String())
}

func TestInsightsHandler_Menu_ScrapeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newInsightsMux(t, ctrl)
	f.menu.err = errors.New("menu page returned status 404")

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/insights.menu?url=https%3A%2F%2Fexample.com%2Fmenu", ""))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
