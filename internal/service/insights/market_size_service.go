package insights

import (
	"context"
	"strings"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// Annual consumer spend per capita (USD) by business category. Values are
// rounded national averages; unknown categories fall back to defaultSpend.
var spendPerCapita = map[string]float64{
	"restaurant": 1460,
	"cafe":       310,
	"coffee":     310,
	"bakery":     180,
	"bar":        540,
	"salon":      260,
	"barber":     140,
	"gym":        390,
	"retail":     920,
	"grocery":    2640,
}

const defaultSpend = 400

// Density bands with population cutoffs and the share of local spend a single
// well-run business can realistically capture. Denser markets mean more
// competitors, so the capture rate shrinks as population grows.
const (
	DensityUrban    = "urban"
	DensitySuburban = "suburban"
	DensityRural    = "rural"
)

var captureByDensity = map[string]float64{
	DensityUrban:    0.012,
	DensitySuburban: 0.028,
	DensityRural:    0.065,
}

// MarketSizeService estimates the addressable market for a business from
// static spend and capture-rate tables.
type MarketSizeService struct {
	logger logger.Logger
}

// NewMarketSizeService creates the service.
func NewMarketSizeService(log logger.Logger) *MarketSizeService {
	return &MarketSizeService{logger: log}
}

// Estimate computes the market size for a profile's category in a trade area
// with the given population.
//
//	total addressable = population * spend per capita
//	estimated revenue = total addressable * capture rate for the density band
func (s *MarketSizeService) Estimate(ctx context.Context, profile *domain.BusinessProfile, population int) (*domain.MarketSizeEstimate, error) {
	if population < 0 {
		population = 0
	}

	spend := categorySpend(profile.Category)
	band := densityBand(population)
	capture := captureByDensity[band]
	total := float64(population) * spend

	estimate := &domain.MarketSizeEstimate{
		Category:           profile.Category,
		Population:         population,
		SpendPerCapita:     spend,
		TotalAddressable:   total,
		EstimatedCapture:   capture,
		EstimatedAnnualRev: total * capture,
		DensityBand:        band,
	}

	s.logger.WithFields(map[string]interface{}{
		"profile_id":   profile.ID,
		"category":     profile.Category,
		"density_band": band,
	}).Debug("Market size estimated")
	return estimate, nil
}

// categorySpend matches the profile category against the spend table. A
// category like "coffee shop" matches the "coffee" entry.
func categorySpend(category string) float64 {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if spend, ok := spendPerCapita[normalized]; ok {
		return spend
	}
	for key, spend := range spendPerCapita {
		if strings.Contains(normalized, key) {
			return spend
		}
	}
	return defaultSpend
}

func densityBand(population int) string {
	switch {
	case population >= 100000:
		return DensityUrban
	case population >= 20000:
		return DensitySuburban
	default:
		return DensityRural
	}
}
