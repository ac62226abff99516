package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// Component weights for the composite location score. They must sum to 1.
const (
	weightSafety      = 0.35
	weightHealth      = 0.25
	weightFootTraffic = 0.40
)

// neutralScore is used for a component whose upstream source is unavailable,
// so one flaky API does not zero out the composite.
const neutralScore = 50.0

// LocationScoreService computes the heuristic 0-100 location score for a
// business profile from crime, health inspection and foot traffic signals.
type LocationScoreService struct {
	walk   WalkScoreProvider
	crime  CrimeProvider
	health HealthProvider
	trends TrendsProvider

	cache  *Cache
	logger logger.Logger

	now func() time.Time
}

// NewLocationScoreService creates the service. Results are cached per profile
// for the cache TTL.
func NewLocationScoreService(
	walk WalkScoreProvider,
	crime CrimeProvider,
	health HealthProvider,
	trends TrendsProvider,
	cache *Cache,
	log logger.Logger,
) *LocationScoreService {
	return &LocationScoreService{
		walk:   walk,
		crime:  crime,
		health: health,
		trends: trends,
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
}

// Score computes (or returns the cached) location score for a profile.
func (s *LocationScoreService) Score(ctx context.Context, profile *domain.BusinessProfile) (*domain.LocationScore, error) {
	key := "location-score:" + profile.ID

	value, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		return s.compute(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	return value.(*domain.LocationScore), nil
}

func (s *LocationScoreService) compute(ctx context.Context, profile *domain.BusinessProfile) (*domain.LocationScore, error) {
	safety := s.safetyScore(ctx, profile)
	health := s.healthScore(ctx, profile)
	foot := s.footTrafficScore(ctx, profile)

	score := &domain.LocationScore{
		Safety:      safety,
		Health:      health,
		FootTraffic: foot,
		Composite:   clampScore(weightSafety*safety + weightHealth*health + weightFootTraffic*foot),
		ComputedAt:  s.now().UTC(),
	}

	s.logger.WithFields(map[string]interface{}{
		"profile_id": profile.ID,
		"composite":  score.Composite,
	}).Info("Location score computed")
	return score, nil
}

// safetyScore maps crime volume and severity onto 0-100. A location with no
// reported incidents scores 100; both volume and the violent share drag the
// score down linearly.
func (s *LocationScoreService) safetyScore(ctx context.Context, profile *domain.BusinessProfile) float64 {
	summary, err := s.crime.GetCrimeSummary(ctx, profile.Latitude, profile.Longitude)
	if err != nil {
		s.componentUnavailable(profile.ID, "safety", err)
		return neutralScore
	}
	return clampScore(100 - summary.IncidentsPerThousand*1.5 - summary.ViolentShare*40)
}

// healthScore averages recent inspection scores, which are already 0-100.
// Critical violations carry an extra penalty.
func (s *LocationScoreService) healthScore(ctx context.Context, profile *domain.BusinessProfile) float64 {
	inspections, err := s.health.ListInspections(ctx, profile.Name, profile.City)
	if err != nil {
		s.componentUnavailable(profile.ID, "health", err)
		return neutralScore
	}
	if len(inspections) == 0 {
		return neutralScore
	}

	var total float64
	for _, inspection := range inspections {
		total += float64(inspection.Score) - float64(inspection.CriticalFlags)*5
	}
	return clampScore(total / float64(len(inspections)))
}

// footTrafficScore blends walkability with search interest: 70% walk score,
// 30% average trend interest (trends values are already 0-100).
func (s *LocationScoreService) footTrafficScore(ctx context.Context, profile *domain.BusinessProfile) float64 {
	var walkPart, trendPart float64
	walkOK, trendOK := false, false

	if walk, err := s.walk.GetWalkScore(ctx, profile.Latitude, profile.Longitude); err != nil {
		s.componentUnavailable(profile.ID, "walkscore", err)
	} else {
		walkPart = float64(walk.Score)
		walkOK = true
	}

	keyword := fmt.Sprintf("%s %s", profile.Category, profile.City)
	if points, err := s.trends.GetInterest(ctx, keyword, profile.State); err != nil {
		s.componentUnavailable(profile.ID, "trends", err)
	} else if len(points) > 0 {
		var total float64
		for _, point := range points {
			total += float64(point.Value)
		}
		trendPart = total / float64(len(points))
		trendOK = true
	}

	switch {
	case walkOK && trendOK:
		return clampScore(0.7*walkPart + 0.3*trendPart)
	case walkOK:
		return clampScore(walkPart)
	case trendOK:
		return clampScore(trendPart)
	default:
		return neutralScore
	}
}

func (s *LocationScoreService) componentUnavailable(profileID, component string, err error) {
	s.logger.WithFields(map[string]interface{}{
		"profile_id": profileID,
		"component":  component,
	}).Warn("Location score component unavailable: " + err.Error())
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
