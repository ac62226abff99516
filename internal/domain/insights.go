package domain

import "time"

// CrimeSummary aggregates reported incidents around a location.
type CrimeSummary struct {
	IncidentsPerThousand float64        `json:"incidents_per_thousand"`
	ViolentShare         float64        `json:"violent_share"`
	ByCategory           map[string]int `json:"by_category"`
	PeriodMonths         int            `json:"period_months"`
}

// HealthInspection is one inspection record for a food establishment.
type HealthInspection struct {
	EstablishmentName string    `json:"establishment_name"`
	Score             int       `json:"score"`
	Grade             string    `json:"grade"`
	Violations        int       `json:"violations"`
	CriticalFlags     int       `json:"critical_flags"`
	InspectedAt       time.Time `json:"inspected_at"`
}

// WalkScore is the walkability rating for a location.
type WalkScore struct {
	Score       int    `json:"score"`
	Description string `json:"description"`
	TransitScore int   `json:"transit_score,omitempty"`
	BikeScore    int   `json:"bike_score,omitempty"`
}

// TrendPoint is one data point of relative search interest.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Value int       `json:"value"`
}

// MenuItemPrice is one scraped menu item with its price.
type MenuItemPrice struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
}

// LocationScore is the composite heuristic score for a business location.
// Components are 0-100; Composite is a weighted sum, also clamped to 0-100.
type LocationScore struct {
	Safety      float64 `json:"safety"`
	Health      float64 `json:"health"`
	FootTraffic float64 `json:"foot_traffic"`
	Composite   float64 `json:"composite"`

	ComputedAt time.Time `json:"computed_at"`
}

// MarketSizeEstimate is the spreadsheet-style market sizing output.
type MarketSizeEstimate struct {
	Category            string  `json:"category"`
	Population          int     `json:"population"`
	SpendPerCapita      float64 `json:"spend_per_capita"`
	TotalAddressable    float64 `json:"total_addressable"`
	EstimatedCapture    float64 `json:"estimated_capture"`
	EstimatedAnnualRev  float64 `json:"estimated_annual_revenue"`
	DensityBand         string  `json:"density_band"`
}
