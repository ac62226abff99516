package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

type stubWalk struct {
	score *domain.WalkScore
	err   error
	calls int
}

func (s *stubWalk) GetWalkScore(context.Context, float64, float64) (*domain.WalkScore, error) {
	s.calls++
	return s.score, s.err
}

type stubCrime struct {
	summary *domain.CrimeSummary
	err     error
}

func (s *stubCrime) GetCrimeSummary(context.Context, float64, float64) (*domain.CrimeSummary, error) {
	return s.summary, s.err
}

type stubHealth struct {
	inspections []*domain.HealthInspection
	err         error
}

func (s *stubHealth) ListInspections(context.Context, string, string) ([]*domain.HealthInspection, error) {
	return s.inspections, s.err
}

type stubTrends struct {
	points []*domain.TrendPoint
	err    error
}

func (s *stubTrends) GetInterest(context.Context, string, string) ([]*domain.TrendPoint, error) {
	return s.points, s.err
}

func scoreProfile() *domain.BusinessProfile {
	return &domain.BusinessProfile{
		ID:       "prof-1",
		Name:     "Corner Bakery",
		Category: "bakery",
		City:     "Seattle",
		State:    "WA",
		Latitude: 47.61, Longitude: -122.33,
	}
}

func TestLocationScoreService_Score(t *testing.T) {
	walk := &stubWalk{score: &domain.WalkScore{Score: 80}}
	crime := &stubCrime{summary: &domain.CrimeSummary{IncidentsPerThousand: 10, ViolentShare: 0.25}}
	health := &stubHealth{inspections: []*domain.HealthInspection{
		{Score: 90, CriticalFlags: 1},
		{Score: 80},
	}}
	trends := &stubTrends{points: []*domain.TrendPoint{{Value: 50}, {Value: 70}}}

	service := NewLocationScoreService(walk, crime, health, trends, NewCache(time.Minute), logger.NewNopLogger())

	score, err := service.Score(context.Background(), scoreProfile())
	require.NoError(t, err)

	// safety = 100 - 10*1.5 - 0.25*40 = 75
	assert.InDelta(t, 75, score.Safety, 0.001)
	// health = ((90-5) + 80) / 2 = 82.5
	assert.InDelta(t, 82.5, score.Health, 0.001)
	// foot traffic = 0.7*80 + 0.3*60 = 74
	assert.InDelta(t, 74, score.FootTraffic, 0.001)
	// composite = 0.35*75 + 0.25*82.5 + 0.40*74
	assert.InDelta(t, 76.475, score.Composite, 0.001)
	assert.False(t, score.ComputedAt.IsZero())
}

func TestLocationScoreService_UnavailableComponentsNeutral(t *testing.T) {
	down := errors.New("upstream down")
	walk := &stubWalk{err: down}
	crime := &stubCrime{err: down}
	health := &stubHealth{err: down}
	trends := &stubTrends{err: down}

	service := NewLocationScoreService(walk, crime, health, trends, NewCache(time.Minute), logger.NewNopLogger())

	score, err := service.Score(context.Background(), scoreProfile())
	require.NoError(t, err)
	assert.InDelta(t, neutralScore, score.Safety, 0.001)
	assert.InDelta(t, neutralScore, score.Health, 0.001)
	assert.InDelta(t, neutralScore, score.FootTraffic, 0.001)
	assert.InDelta(t, neutralScore, score.Composite, 0.001)
}

func TestLocationScoreService_ClampsExtremes(t *testing.T) {
	walk := &stubWalk{score: &domain.WalkScore{Score: 100}}
	crime := &stubCrime{summary: &domain.CrimeSummary{IncidentsPerThousand: 200, ViolentShare: 0.9}}
	health := &stubHealth{inspections: []*domain.HealthInspection{{Score: 100}}}
	trends := &stubTrends{points: []*domain.TrendPoint{{Value: 100}}}

	service := NewLocationScoreService(walk, crime, health, trends, NewCache(time.Minute), logger.NewNopLogger())

	score, err := service.Score(context.Background(), scoreProfile())
	require.NoError(t, err)
	assert.Equal(t, 0.0, score.Safety)
	assert.Equal(t, 100.0, score.FootTraffic)
	assert.GreaterOrEqual(t, score.Composite, 0.0)
	assert.LessOrEqual(t, score.Composite, 100.0)
}

func TestLocationScoreService_CachesPerProfile(t *testing.T) {
	walk := &stubWalk{score: &domain.WalkScore{Score: 80}}
	crime := &stubCrime{summary: &domain.CrimeSummary{}}
	health := &stubHealth{}
	trends := &stubTrends{}

	service := NewLocationScoreService(walk, crime, health, trends, NewCache(time.Minute), logger.NewNopLogger())
	ctx := context.Background()

	_, err := service.Score(ctx, scoreProfile())
	require.NoError(t, err)
	_, err = service.Score(ctx, scoreProfile())
	require.NoError(t, err)

	assert.Equal(t, 1, walk.calls)
}
