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

const defaultFacebookBaseURL = "https://graph.facebook.com/v19.0"

// FacebookClient talks to the Facebook Graph API for page recommendations.
type FacebookClient struct {
	api    *apiClient
	creds  Credentials
	logger logger.Logger

	baseURL string
}

// NewFacebookClient creates a Facebook Graph API client.
func NewFacebookClient(creds Credentials, log logger.Logger) *FacebookClient {
	return &FacebookClient{
		api:     newAPIClient(5, 10),
		creds:   creds,
		logger:  log,
		baseURL: defaultFacebookBaseURL,
	}
}

// SetEndpoints overrides the API endpoint (for testing).
func (c *FacebookClient) SetEndpoints(baseURL string) {
	c.baseURL = baseURL
}

func (c *FacebookClient) Provider() string {
	return domain.ProviderFacebook
}

// FetchReviews lists page ratings. externalAccountID is the page id.
// Facebook recommendations carry no star value, only a positive or negative
// flag; those map to 5 and 1 respectively when no rating is present.
func (c *FacebookClient) FetchReviews(ctx context.Context, accessToken, externalAccountID string) ([]*FetchedReview, error) {
	endpoint := fmt.Sprintf(
		"%s/%s/ratings?fields=rating,recommendation_type,review_text,created_time,reviewer,open_graph_story&access_token=%s",
		c.baseURL, url.PathEscape(externalAccountID), url.QueryEscape(accessToken))

	var reviews []*FetchedReview
	for endpoint != "" {
		body, err := c.api.do(ctx, func() (*http.Request, error) {
			return http.NewRequest(http.MethodGet, endpoint, nil)
		})
		if err != nil {
			return nil, fmt.Errorf("facebook ratings fetch failed: %w", err)
		}

		for _, item := range gjson.GetBytes(body, "data").Array() {
			review := &FetchedReview{
				ExternalID: item.Get("open_graph_story.id").String(),
				AuthorName: item.Get("reviewer.name").String(),
				Rating:     int(item.Get("rating").Int()),
				Content:    item.Get("review_text").String(),
			}
			if review.Rating == 0 {
				switch item.Get("recommendation_type").String() {
				case "positive":
					review.Rating = 5
				case "negative":
					review.Rating = 1
				}
			}
			if ts := item.Get("created_time").String(); ts != "" {
				if t, err := time.Parse("2006-01-02T15:04:05-0700", ts); err == nil {
					review.ReviewedAt = t.UTC()
				}
			}
			if review.ExternalID == "" || review.Rating == 0 {
				c.logger.WithField("review_id", review.ExternalID).
					Warn("Skipping malformed facebook rating")
				continue
			}
			reviews = append(reviews, review)
		}

		endpoint = gjson.GetBytes(body, "paging.next").String()
	}
	return reviews, nil
}

// RefreshToken exchanges a long-lived token for a fresh one.
func (c *FacebookClient) RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error) {
	data := url.Values{}
	data.Set("grant_type", "fb_exchange_token")
	data.Set("client_id", c.creds.ClientID)
	data.Set("client_secret", c.creds.ClientSecret)
	data.Set("fb_exchange_token", refreshToken)

	endpoint := c.baseURL + "/oauth/access_token"
	body, err := c.api.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(data.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("facebook token refresh failed: %w", err)
	}

	accessToken := gjson.GetBytes(body, "access_token").String()
	if accessToken == "" {
		return nil, fmt.Errorf("facebook token response missing access_token")
	}

	expiresIn := gjson.GetBytes(body, "expires_in").Int()
	return &TokenSet{
		AccessToken: accessToken,
		// Exchanged tokens also serve as the next refresh token.
		RefreshToken: accessToken,
		ExpiresAt:    time.Now().UTC().Add(time.Duration(expiresIn) * time.Second),
	}, nil
}

// PublishReply posts a comment on the recommendation story.
func (c *FacebookClient) PublishReply(ctx context.Context, accessToken, externalReviewID, text string) error {
	data := url.Values{}
	data.Set("message", text)
	data.Set("access_token", accessToken)

	endpoint := fmt.Sprintf("%s/%s/comments", c.baseURL, url.PathEscape(externalReviewID))
	_, err := c.api.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(data.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("facebook reply publish failed: %w", err)
	}
	return nil
}
