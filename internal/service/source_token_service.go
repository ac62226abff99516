package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/internal/service/providers"
	"github.com/localpulse/localpulse/pkg/logger"
)

// tokenRefreshBuffer is the time before token expiry when we should refresh.
const tokenRefreshBuffer = 5 * time.Minute

// SourceTokenService keeps review source access tokens fresh. Tokens are
// stored encrypted and only decrypted in memory for the duration of a call.
type SourceTokenService struct {
	sourceRepo domain.ReviewSourceRepository
	registry   *providers.Registry
	passphrase string
	logger     logger.Logger

	// group collapses concurrent refreshes of the same source into one
	// provider call.
	group singleflight.Group
}

// NewSourceTokenService creates a token service.
func NewSourceTokenService(
	sourceRepo domain.ReviewSourceRepository,
	registry *providers.Registry,
	passphrase string,
	log logger.Logger,
) *SourceTokenService {
	return &SourceTokenService{
		sourceRepo: sourceRepo,
		registry:   registry,
		passphrase: passphrase,
		logger:     log,
	}
}

// EnsureFreshToken returns a valid access token for the source, refreshing it
// when expired or within the refresh buffer. Exactly one refresh attempt is
// made; when it fails the caller gets ErrAuthExpired and the source must be
// reconnected by the user. Recording the failure on the source is left to the
// caller so one failed attempt counts once.
func (s *SourceTokenService) EnsureFreshToken(ctx context.Context, source *domain.ReviewSource) (string, error) {
	return s.EnsureFreshTokenWithin(ctx, source, tokenRefreshBuffer)
}

// EnsureFreshTokenWithin is EnsureFreshToken with a caller-chosen expiry
// buffer. The background sweep passes its lookahead window so tokens that
// expire inside the window are refreshed ahead of time.
func (s *SourceTokenService) EnsureFreshTokenWithin(ctx context.Context, source *domain.ReviewSource, buffer time.Duration) (string, error) {
	if source.Status != domain.SourceStatusConnected {
		return "", domain.ErrAuthExpired
	}

	if err := source.DecryptTokens(s.passphrase); err != nil {
		return "", fmt.Errorf("failed to decrypt source tokens: %w", err)
	}

	if !source.TokenExpired(time.Now().UTC(), buffer) {
		return source.AccessToken, nil
	}

	token, err, _ := s.group.Do(source.ID, func() (interface{}, error) {
		return s.refresh(ctx, source)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (s *SourceTokenService) refresh(ctx context.Context, source *domain.ReviewSource) (string, error) {
	client, err := s.registry.Get(source.Provider)
	if err != nil {
		return "", err
	}

	if source.RefreshToken == "" {
		return "", domain.ErrAuthExpired
	}

	tokens, err := client.RefreshToken(ctx, source.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuthExpired, err)
	}

	refreshToken := source.RefreshToken
	if tokens.RefreshToken != "" {
		refreshToken = tokens.RefreshToken
	}

	updated := &domain.ReviewSource{AccessToken: tokens.AccessToken, RefreshToken: refreshToken}
	if err := updated.EncryptTokens(s.passphrase); err != nil {
		return "", fmt.Errorf("failed to encrypt refreshed tokens: %w", err)
	}

	expiresAt := tokens.ExpiresAt
	if err := s.sourceRepo.UpdateTokens(ctx, source.ID,
		updated.EncryptedAccessToken, updated.EncryptedRefreshToken, &expiresAt); err != nil {
		return "", fmt.Errorf("failed to persist refreshed tokens: %w", err)
	}

	source.AccessToken = tokens.AccessToken
	source.RefreshToken = refreshToken
	source.TokenExpiresAt = &expiresAt

	s.logger.WithFields(map[string]interface{}{
		"source_id":  source.ID,
		"provider":   source.Provider,
		"expires_at": expiresAt.Format(time.RFC3339),
	}).Info("Source token refreshed")

	return tokens.AccessToken, nil
}

// IsAuthError reports whether the error chain signals expired authorization.
func IsAuthError(err error) bool {
	return errors.Is(err, domain.ErrAuthExpired) || errors.Is(err, providers.ErrUnauthorized)
}
