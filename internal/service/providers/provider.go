package providers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_client.go -package mocks github.com/localpulse/localpulse/internal/service/providers Client

var (
	// ErrUnknownProvider is returned for a provider name with no registered
	// client.
	ErrUnknownProvider = errors.New("unknown review provider")

	// ErrUnauthorized is returned when the provider rejects the credentials.
	// Callers treat it as a permanent auth failure, not a retryable error.
	ErrUnauthorized = errors.New("provider rejected credentials")
)

// Credentials is the OAuth app identity used against a provider's token
// endpoint.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// TokenSet is the result of a token refresh.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// FetchedReview is a provider review normalized to the common shape.
type FetchedReview struct {
	ExternalID string
	AuthorName string
	Rating     int
	Content    string
	ReviewedAt time.Time
}

// Client is the per-provider API surface the sync pipeline depends on.
type Client interface {
	Provider() string

	// FetchReviews returns all reviews for the connected listing, normalized.
	FetchReviews(ctx context.Context, accessToken, externalAccountID string) ([]*FetchedReview, error)

	// RefreshToken exchanges a refresh token for a new token set. A provider
	// that rotates refresh tokens returns the new one; otherwise RefreshToken
	// in the result is empty and the caller keeps the old one.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error)

	// PublishReply posts a reply to a review on the provider platform.
	PublishReply(ctx context.Context, accessToken, externalReviewID, text string) error
}

// Registry holds the configured provider clients keyed by provider name.
type Registry struct {
	clients map[string]Client
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Register adds a client for its provider name, replacing any previous one.
func (r *Registry) Register(client Client) {
	r.clients[client.Provider()] = client
}

// Get returns the client for a provider name.
func (r *Registry) Get(provider string) (Client, error) {
	client, ok := r.clients[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	return client, nil
}

// StatusError is a non-2xx provider API response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider API returned status %d: %s", e.StatusCode, e.Body)
}

// Transient reports whether the status is worth retrying.
func (e *StatusError) Transient() bool {
	return e.StatusCode >= 500 || e.StatusCode == 408 || e.StatusCode == 429
}
