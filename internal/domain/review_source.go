package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localpulse/localpulse/pkg/crypto"
)

//go:generate mockgen -destination mocks/mock_review_source_repository.go -package mocks github.com/localpulse/localpulse/internal/domain ReviewSourceRepository

// Review providers supported by the sync pipeline.
const (
	ProviderGoogle   = "google"
	ProviderYelp     = "yelp"
	ProviderFacebook = "facebook"
)

// ReviewSource connection statuses.
const (
	SourceStatusPending      = "pending"
	SourceStatusConnected    = "connected"
	SourceStatusDisconnected = "disconnected"
)

// Error classification for sync failures recorded on a source.
const (
	ErrorTypeTransient = "transient"
	ErrorTypePermanent = "permanent"
	ErrorTypeUnknown   = "unknown"
)

var (
	// ErrSourceNotFound is returned when a review source does not exist.
	ErrSourceNotFound = errors.New("review source not found")

	// ErrAuthExpired signals that the stored credentials can no longer be
	// refreshed and the user must reconnect the source.
	ErrAuthExpired = errors.New("source authorization expired, reconnection required")
)

// IsValidProvider reports whether the provider name is supported.
func IsValidProvider(provider string) bool {
	switch provider {
	case ProviderGoogle, ProviderYelp, ProviderFacebook:
		return true
	}
	return false
}

// ReviewSource is a per-profile, per-provider connection to an external
// review platform. Tokens are stored encrypted; the decoded values are
// populated in memory only and never written back.
type ReviewSource struct {
	ID        string `json:"id"`
	ProfileID string `json:"profile_id"`
	Provider  string `json:"provider"`
	Status    string `json:"status"`

	// ExternalAccountID identifies the business listing on the provider side.
	ExternalAccountID string `json:"external_account_id,omitempty"`

	EncryptedAccessToken  string     `json:"-"`
	EncryptedRefreshToken string     `json:"-"`
	TokenExpiresAt        *time.Time `json:"token_expires_at,omitempty"`

	// decoded tokens, not stored in the database
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`

	LastSyncedAt  *time.Time `json:"last_synced_at,omitempty"`
	LastError     *string    `json:"last_error,omitempty"`
	LastErrorType string     `json:"last_error_type,omitempty"`
	ConsecErrors  int        `json:"consec_errors"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate validates the review source
func (s *ReviewSource) Validate() error {
	if s.ProfileID == "" {
		return fmt.Errorf("profile id is required")
	}
	if !IsValidProvider(s.Provider) {
		return fmt.Errorf("unsupported provider: %s", s.Provider)
	}
	switch s.Status {
	case SourceStatusPending, SourceStatusConnected, SourceStatusDisconnected:
	default:
		return fmt.Errorf("invalid status: %s", s.Status)
	}
	return nil
}

// EncryptTokens encrypts the in-memory tokens into the stored fields.
func (s *ReviewSource) EncryptTokens(passphrase string) error {
	if s.AccessToken != "" {
		encrypted, err := crypto.EncryptString(s.AccessToken, passphrase)
		if err != nil {
			return fmt.Errorf("failed to encrypt access token: %w", err)
		}
		s.EncryptedAccessToken = encrypted
	}
	if s.RefreshToken != "" {
		encrypted, err := crypto.EncryptString(s.RefreshToken, passphrase)
		if err != nil {
			return fmt.Errorf("failed to encrypt refresh token: %w", err)
		}
		s.EncryptedRefreshToken = encrypted
	}
	return nil
}

// DecryptTokens decrypts the stored tokens into the in-memory fields.
func (s *ReviewSource) DecryptTokens(passphrase string) error {
	if s.EncryptedAccessToken != "" {
		token, err := crypto.DecryptFromHexString(s.EncryptedAccessToken, passphrase)
		if err != nil {
			return fmt.Errorf("failed to decrypt access token: %w", err)
		}
		s.AccessToken = token
	}
	if s.EncryptedRefreshToken != "" {
		token, err := crypto.DecryptFromHexString(s.EncryptedRefreshToken, passphrase)
		if err != nil {
			return fmt.Errorf("failed to decrypt refresh token: %w", err)
		}
		s.RefreshToken = token
	}
	return nil
}

// TokenExpired reports whether the access token is expired or expires within
// the given buffer. A source without a stored expiry is treated as expired.
func (s *ReviewSource) TokenExpired(now time.Time, buffer time.Duration) bool {
	if s.TokenExpiresAt == nil {
		return true
	}
	return !now.Add(buffer).Before(*s.TokenExpiresAt)
}

// Disconnect soft-disables the source: status flips and credentials are
// cleared, but the row (and its reviews) remain.
func (s *ReviewSource) Disconnect() {
	s.Status = SourceStatusDisconnected
	s.EncryptedAccessToken = ""
	s.EncryptedRefreshToken = ""
	s.AccessToken = ""
	s.RefreshToken = ""
	s.TokenExpiresAt = nil
}

// ReviewSourceRepository persists review source connections.
type ReviewSourceRepository interface {
	Create(ctx context.Context, source *ReviewSource) error
	GetByID(ctx context.Context, id string) (*ReviewSource, error)
	ListByProfile(ctx context.Context, profileID string) ([]*ReviewSource, error)
	ListConnectedByProfile(ctx context.Context, profileID string) ([]*ReviewSource, error)

	// ListExpiringTokens returns connected sources whose token expiry falls
	// before the given cutoff (used by the background refresh sweep).
	ListExpiringTokens(ctx context.Context, cutoff time.Time) ([]*ReviewSource, error)

	Update(ctx context.Context, source *ReviewSource) error

	// UpdateTokens persists refreshed credentials without touching the rest
	// of the row.
	UpdateTokens(ctx context.Context, sourceID, encryptedAccessToken, encryptedRefreshToken string, expiresAt *time.Time) error

	// MarkSynced records a successful sync and clears the error state.
	MarkSynced(ctx context.Context, sourceID string, syncedAt time.Time) error

	// RecordError stores the last error and its classification, incrementing
	// the consecutive error counter.
	RecordError(ctx context.Context, sourceID, errMsg, errType string) error
}
