package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/lithammer/shortuuid/v4"
	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// webhookEventLowRating is the event type in outgoing webhook payloads.
const webhookEventLowRating = "review.low_rating"

// WebhookChannel delivers low-rating alerts as signed webhooks to the URL
// configured on the profile. Payloads are signed in the standard-webhooks
// format when a signing secret is configured.
type WebhookChannel struct {
	httpClient *http.Client
	signer     *standardwebhooks.Webhook
	logger     logger.Logger

	// allowPrivateURLs disables SSRF validation (for testing).
	allowPrivateURLs bool
}

// NewWebhookChannel creates a webhook channel. The signing secret may be
// empty, in which case payloads are sent unsigned.
func NewWebhookChannel(signingSecret string, log logger.Logger) (*WebhookChannel, error) {
	channel := &WebhookChannel{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     log,
	}

	if signingSecret != "" {
		signer, err := standardwebhooks.NewWebhook(signingSecret)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook signing secret: %w", err)
		}
		channel.signer = signer
	}
	return channel, nil
}

func (c *WebhookChannel) Name() string {
	return domain.NotificationChannelWebhook
}

type webhookPayload struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      webhookLowRated `json:"data"`
}

type webhookLowRated struct {
	ProfileID  string    `json:"profile_id"`
	ReviewID   string    `json:"review_id"`
	Provider   string    `json:"provider"`
	Rating     int       `json:"rating"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// Send posts the alert to the profile's webhook URL.
func (c *WebhookChannel) Send(ctx context.Context, profile *domain.BusinessProfile, review *domain.Review) error {
	url := profile.Notifications.WebhookURL
	if url == "" {
		return fmt.Errorf("profile has no webhook URL configured")
	}
	if !c.allowPrivateURLs {
		if err := domain.ValidateWebhookURL(url); err != nil {
			return fmt.Errorf("webhook URL rejected: %w", err)
		}
	}

	now := time.Now().UTC()
	payload, err := json.Marshal(webhookPayload{
		Type:      webhookEventLowRating,
		Timestamp: now,
		Data: webhookLowRated{
			ProfileID:  profile.ID,
			ReviewID:   review.ID,
			Provider:   review.Provider,
			Rating:     review.Rating,
			AuthorName: review.AuthorName,
			Content:    review.Content,
			ReviewedAt: review.ReviewedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	messageID := "msg_" + shortuuid.New()
	req.Header.Set("webhook-id", messageID)
	req.Header.Set("webhook-timestamp", strconv.FormatInt(now.Unix(), 10))
	if c.signer != nil {
		signature, err := c.signer.Sign(messageID, now, payload)
		if err != nil {
			return fmt.Errorf("failed to sign webhook payload: %w", err)
		}
		req.Header.Set("webhook-signature", signature)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
