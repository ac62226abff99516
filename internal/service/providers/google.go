package providers

import (
	"bytes"
	"context"
	"encoding/json"
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
	defaultGoogleBaseURL  = "https://mybusiness.googleapis.com/v4"
	defaultGoogleTokenURL = "https://oauth2.googleapis.com/token"
)

// googleStarRatings maps the Business Profile API star enum to a numeric
// rating.
var googleStarRatings = map[string]int{
	"ONE":   1,
	"TWO":   2,
	"THREE": 3,
	"FOUR":  4,
	"FIVE":  5,
}

// GoogleClient talks to the Google Business Profile API.
type GoogleClient struct {
	api    *apiClient
	creds  Credentials
	logger logger.Logger

	// overridable for testing
	baseURL  string
	tokenURL string
}

// NewGoogleClient creates a Google Business Profile client.
func NewGoogleClient(creds Credentials, log logger.Logger) *GoogleClient {
	return &GoogleClient{
		api:      newAPIClient(5, 10),
		creds:    creds,
		logger:   log,
		baseURL:  defaultGoogleBaseURL,
		tokenURL: defaultGoogleTokenURL,
	}
}

// SetEndpoints overrides the API and token endpoints (for testing).
func (c *GoogleClient) SetEndpoints(baseURL, tokenURL string) {
	c.baseURL = baseURL
	c.tokenURL = tokenURL
}

func (c *GoogleClient) Provider() string {
	return domain.ProviderGoogle
}

// FetchReviews lists reviews for a location. externalAccountID is the
// API resource path, e.g. "accounts/123/locations/456".
func (c *GoogleClient) FetchReviews(ctx context.Context, accessToken, externalAccountID string) ([]*FetchedReview, error) {
	var reviews []*FetchedReview
	pageToken := ""

	for {
		endpoint := fmt.Sprintf("%s/%s/reviews", c.baseURL, externalAccountID)
		if pageToken != "" {
			endpoint += "?pageToken=" + url.QueryEscape(pageToken)
		}

		body, err := c.api.do(ctx, func() (*http.Request, error) {
			req, err := http.NewRequest(http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", "Bearer "+accessToken)
			return req, nil
		})
		if err != nil {
			return nil, fmt.Errorf("google reviews fetch failed: %w", err)
		}

		for _, item := range gjson.GetBytes(body, "reviews").Array() {
			review := &FetchedReview{
				ExternalID: item.Get("reviewId").String(),
				AuthorName: item.Get("reviewer.displayName").String(),
				Rating:     googleStarRatings[item.Get("starRating").String()],
				Content:    item.Get("comment").String(),
			}
			if ts := item.Get("updateTime").String(); ts != "" {
				if t, err := time.Parse(time.RFC3339, ts); err == nil {
					review.ReviewedAt = t.UTC()
				}
			}
			if review.ExternalID == "" || review.Rating == 0 {
				c.logger.WithField("review_id", review.ExternalID).
					Warn("Skipping malformed google review")
				continue
			}
			reviews = append(reviews, review)
		}

		pageToken = gjson.GetBytes(body, "nextPageToken").String()
		if pageToken == "" {
			return reviews, nil
		}
	}
}

// RefreshToken exchanges the refresh token for a new access token. Google
// does not rotate refresh tokens on this flow.
func (c *GoogleClient) RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error) {
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
		return nil, fmt.Errorf("google token refresh failed: %w", err)
	}

	accessToken := gjson.GetBytes(body, "access_token").String()
	if accessToken == "" {
		return nil, fmt.Errorf("google token response missing access_token")
	}

	expiresIn := gjson.GetBytes(body, "expires_in").Int()
	return &TokenSet{
		AccessToken: accessToken,
		ExpiresAt:   time.Now().UTC().Add(time.Duration(expiresIn) * time.Second),
	}, nil
}

// PublishReply upserts the owner reply on a review.
func (c *GoogleClient) PublishReply(ctx context.Context, accessToken, externalReviewID, text string) error {
	payload, err := json.Marshal(map[string]string{"comment": text})
	if err != nil {
		return fmt.Errorf("failed to encode reply: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/reply", c.baseURL, externalReviewID)
	_, err = c.api.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPut, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("google reply publish failed: %w", err)
	}
	return nil
}
