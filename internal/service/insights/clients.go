package insights

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/localpulse/localpulse/internal/domain"
)

// maxResponseBytes caps insight API response bodies.
const maxResponseBytes = 5 << 20

// WalkScoreProvider returns the walkability rating for coordinates.
type WalkScoreProvider interface {
	GetWalkScore(ctx context.Context, lat, lon float64) (*domain.WalkScore, error)
}

// CrimeProvider returns aggregated crime statistics for coordinates.
type CrimeProvider interface {
	GetCrimeSummary(ctx context.Context, lat, lon float64) (*domain.CrimeSummary, error)
}

// HealthProvider returns food inspection records near a business.
type HealthProvider interface {
	ListInspections(ctx context.Context, name, city string) ([]*domain.HealthInspection, error)
}

// TrendsProvider returns relative search interest over time.
type TrendsProvider interface {
	GetInterest(ctx context.Context, keyword, region string) ([]*domain.TrendPoint, error)
}

// fetcher is the shared rate-limited HTTP GET helper for insight APIs.
type fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newFetcher(requestsPerSecond float64) *fetcher {
	return &fetcher{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 2),
	}
}

func (f *fetcher) getJSON(ctx context.Context, endpoint string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("insight API returned status %d", resp.StatusCode)
	}
	return body, nil
}

// WalkScoreClient talks to the Walk Score API.
type WalkScoreClient struct {
	fetcher *fetcher
	apiKey  string
	baseURL string
}

// NewWalkScoreClient creates a Walk Score client.
func NewWalkScoreClient(apiKey string) *WalkScoreClient {
	return &WalkScoreClient{
		fetcher: newFetcher(2),
		apiKey:  apiKey,
		baseURL: "https://api.walkscore.com",
	}
}

// SetBaseURL overrides the API endpoint (for testing).
func (c *WalkScoreClient) SetBaseURL(baseURL string) { c.baseURL = baseURL }

func (c *WalkScoreClient) GetWalkScore(ctx context.Context, lat, lon float64) (*domain.WalkScore, error) {
	endpoint := fmt.Sprintf("%s/score?format=json&lat=%f&lon=%f&transit=1&bike=1&wsapikey=%s",
		c.baseURL, lat, lon, url.QueryEscape(c.apiKey))

	body, err := c.fetcher.getJSON(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("walkscore fetch failed: %w", err)
	}

	if status := gjson.GetBytes(body, "status").Int(); status != 1 {
		return nil, fmt.Errorf("walkscore returned status %d", status)
	}

	return &domain.WalkScore{
		Score:        int(gjson.GetBytes(body, "walkscore").Int()),
		Description:  gjson.GetBytes(body, "description").String(),
		TransitScore: int(gjson.GetBytes(body, "transit.score").Int()),
		BikeScore:    int(gjson.GetBytes(body, "bike.score").Int()),
	}, nil
}

// CrimeClient talks to a configurable open-data crime statistics endpoint.
type CrimeClient struct {
	fetcher  *fetcher
	endpoint string
}

// NewCrimeClient creates a crime statistics client.
func NewCrimeClient(endpoint string) *CrimeClient {
	return &CrimeClient{fetcher: newFetcher(2), endpoint: endpoint}
}

func (c *CrimeClient) GetCrimeSummary(ctx context.Context, lat, lon float64) (*domain.CrimeSummary, error) {
	endpoint := fmt.Sprintf("%s?lat=%f&lon=%f", c.endpoint, lat, lon)

	body, err := c.fetcher.getJSON(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("crime stats fetch failed: %w", err)
	}

	summary := &domain.CrimeSummary{
		IncidentsPerThousand: gjson.GetBytes(body, "incidents_per_thousand").Float(),
		ViolentShare:         gjson.GetBytes(body, "violent_share").Float(),
		PeriodMonths:         int(gjson.GetBytes(body, "period_months").Int()),
		ByCategory:           make(map[string]int),
	}
	gjson.GetBytes(body, "by_category").ForEach(func(key, value gjson.Result) bool {
		summary.ByCategory[key.String()] = int(value.Int())
		return true
	})
	return summary, nil
}

// HealthClient talks to a configurable health inspection open-data endpoint.
type HealthClient struct {
	fetcher  *fetcher
	endpoint string
}

// NewHealthClient creates a health inspections client.
func NewHealthClient(endpoint string) *HealthClient {
	return &HealthClient{fetcher: newFetcher(2), endpoint: endpoint}
}

func (c *HealthClient) ListInspections(ctx context.Context, name, city string) ([]*domain.HealthInspection, error) {
	endpoint := fmt.Sprintf("%s?name=%s&city=%s",
		c.endpoint, url.QueryEscape(name), url.QueryEscape(city))

	body, err := c.fetcher.getJSON(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("health inspections fetch failed: %w", err)
	}

	var inspections []*domain.HealthInspection
	for _, item := range gjson.GetBytes(body, "inspections").Array() {
		inspection := &domain.HealthInspection{
			EstablishmentName: item.Get("establishment_name").String(),
			Score:             int(item.Get("score").Int()),
			Grade:             item.Get("grade").String(),
			Violations:        int(item.Get("violations").Int()),
			CriticalFlags:     int(item.Get("critical_flags").Int()),
		}
		if ts := item.Get("inspected_at").String(); ts != "" {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				inspection.InspectedAt = t.UTC()
			}
		}
		inspections = append(inspections, inspection)
	}
	return inspections, nil
}

// TrendsClient talks to a configurable search interest endpoint.
type TrendsClient struct {
	fetcher  *fetcher
	endpoint string
}

// NewTrendsClient creates a search trends client.
func NewTrendsClient(endpoint string) *TrendsClient {
	return &TrendsClient{fetcher: newFetcher(1), endpoint: endpoint}
}

func (c *TrendsClient) GetInterest(ctx context.Context, keyword, region string) ([]*domain.TrendPoint, error) {
	endpoint := fmt.Sprintf("%s?keyword=%s&region=%s",
		c.endpoint, url.QueryEscape(keyword), url.QueryEscape(region))

	body, err := c.fetcher.getJSON(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("trends fetch failed: %w", err)
	}

	var points []*domain.TrendPoint
	for _, item := range gjson.GetBytes(body, "points").Array() {
		point := &domain.TrendPoint{Value: int(item.Get("value").Int())}
		if ts := item.Get("date").String(); ts != "" {
			if t, err := time.Parse("2006-01-02", ts); err == nil {
				point.Date = t.UTC()
			}
		}
		points = append(points, point)
	}
	return points, nil
}
