package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

const (
	defaultYelpBaseURL  = "https://api.yelp.com/v3"
	defaultYelpTokenURL = "https://api.yelp.com/oauth2/token"

	// yelpTimeLayout is the timestamp format in Yelp review payloads.
	yelpTimeLayout = "2006-01-02 15:04:05"
)

// YelpClient talks to the Yelp Fusion API.
type YelpClient struct {
	api    *apiClient
	creds  Credentials
	logger logger.Logger

	baseURL  string
	tokenURL string
}

// NewYelpClient creates a Yelp Fusion client.
func NewYelpClient(creds Credentials, log logger.Logger) *YelpClient {
	return &YelpClient{
		api:      newAPIClient(4, 8),
		creds:    creds,
		logger:   log,
		baseURL:  defaultYelpBaseURL,
		tokenURL: defaultYelpTokenURL,
	}
}

// SetEndpoints overrides the API and token endpoints (for testing).
func (c *YelpClient) SetEndpoints(baseURL, tokenURL string) {
	c.baseURL = baseURL
	c.tokenURL = tokenURL
}

func (c *YelpClient) Provider() string {
	return domain.ProviderYelp
}

// FetchReviews lists reviews for a business. externalAccountID is the Yelp
// business id.
func (c *YelpClient) FetchReviews(ctx context.Context, accessToken, externalAccountID string) ([]*FetchedReview, error) {
	endpoint := fmt.Sprintf("%s/businesses/%s/reviews?limit=50&sort_by=newest",
		c.baseURL, url.PathEscape(externalAccountID))

	body, err := c.api.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("yelp reviews fetch failed: %w", err)
	}

	var reviews []*FetchedReview
	for _, item := range gjson.GetBytes(body, "reviews").Array() {
		review := &FetchedReview{
			ExternalID: item.Get("id").String(),
			AuthorName: item.Get("user.name").String(),
			Rating:     int(item.Get("rating").Int()),
			Content:    item.Get("text").String(),
		}
		if ts := item.Get("time_created").String(); ts != "" {
			if t, err := time.Parse(yelpTimeLayout, ts); err == nil {
				review.ReviewedAt = t.UTC()
			}
		}
		if review.ExternalID == "" || review.Rating == 0 {
			c.logger.WithField("review_id", review.ExternalID).
				Warn("Skipping malformed yelp review")
			continue
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// RefreshToken exchanges client credentials for a fresh access token.
func (c *YelpClient) RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", c.creds.ClientID)
	data.Set("client_secret", c.creds.ClientSecret)
	data.Set("refresh_token", refreshToken)

	body, err := c.api.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("yelp token refresh failed: %w", err)
	}

	accessToken := gjson.GetBytes(body, "access_token").String()
	if accessToken == "" {
		return nil, fmt.Errorf("yelp token response missing access_token")
	}

	expiresIn := gjson.GetBytes(body, "expires_in").Int()
	return &TokenSet{
		AccessToken: accessToken,
		ExpiresAt:   time.Now().UTC().Add(time.Duration(expiresIn) * time.Second),
	}, nil
}

// PublishReply is not supported by the Yelp Fusion API.
func (c *YelpClient) PublishReply(ctx context.Context, accessToken, externalReviewID, text string) error {
	return fmt.Errorf("yelp does not support publishing replies via API")
}
