package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// OAuthApp is the OAuth application identity registered with one provider.
type OAuthApp struct {
	ClientID     string
	ClientSecret string
}

// OAuthApps maps provider name to its OAuth app.
type OAuthApps map[string]OAuthApp

// authorizeEndpoints are the provider consent screens the user is sent to
// when connecting a source.
var authorizeEndpoints = map[string]string{
	domain.ProviderGoogle:   "https://accounts.google.com/o/oauth2/v2/auth",
	domain.ProviderYelp:     "https://www.yelp.com/oauth2/authorize",
	domain.ProviderFacebook: "https://www.facebook.com/v19.0/dialog/oauth",
}

var authorizeScopes = map[string]string{
	domain.ProviderGoogle:   "https://www.googleapis.com/auth/business.manage",
	domain.ProviderFacebook: "pages_read_user_content,pages_manage_engagement",
}

// ReviewSourceService manages the lifecycle of provider connections: a
// source is created pending, flips to connected once the OAuth exchange
// completes, and is soft-disabled on disconnect.
type ReviewSourceService struct {
	sourceRepo  domain.ReviewSourceRepository
	profileRepo domain.BusinessProfileRepository
	apps        OAuthApps
	passphrase  string
	logger      logger.Logger
}

// NewReviewSourceService creates the source connection service.
func NewReviewSourceService(
	sourceRepo domain.ReviewSourceRepository,
	profileRepo domain.BusinessProfileRepository,
	apps OAuthApps,
	passphrase string,
	log logger.Logger,
) *ReviewSourceService {
	return &ReviewSourceService{
		sourceRepo:  sourceRepo,
		profileRepo: profileRepo,
		apps:        apps,
		passphrase:  passphrase,
		logger:      log,
	}
}

// Connect starts a provider connection for a profile. It creates a pending
// source and returns it together with the provider authorization URL the
// user must visit. The source id doubles as the OAuth state parameter.
func (s *ReviewSourceService) Connect(ctx context.Context, profileID, provider, externalAccountID string) (*domain.ReviewSource, string, error) {
	if !domain.IsValidProvider(provider) {
		return nil, "", fmt.Errorf("unsupported provider: %s", provider)
	}
	if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
		return nil, "", err
	}

	source := &domain.ReviewSource{
		ID:                shortuuid.New(),
		ProfileID:         profileID,
		Provider:          provider,
		Status:            domain.SourceStatusPending,
		ExternalAccountID: externalAccountID,
	}
	if err := source.Validate(); err != nil {
		return nil, "", err
	}
	if err := s.sourceRepo.Create(ctx, source); err != nil {
		return nil, "", err
	}

	s.logger.WithFields(map[string]interface{}{
		"source_id":  source.ID,
		"profile_id": profileID,
		"provider":   provider,
	}).Info("Source connection started")

	return source, s.authorizeURL(provider, source.ID), nil
}

func (s *ReviewSourceService) authorizeURL(provider, state string) string {
	endpoint, ok := authorizeEndpoints[provider]
	if !ok {
		return ""
	}

	params := url.Values{}
	params.Set("client_id", s.apps[provider].ClientID)
	params.Set("response_type", "code")
	params.Set("state", state)
	if scope, ok := authorizeScopes[provider]; ok {
		params.Set("scope", scope)
	}
	if provider == domain.ProviderGoogle {
		// Offline access is required so the provider issues a refresh token.
		params.Set("access_type", "offline")
		params.Set("prompt", "consent")
	}
	return endpoint + "?" + params.Encode()
}

// CompleteConnection stores the tokens obtained from the OAuth exchange and
// flips the source to connected. Reconnecting a disconnected source reuses
// the same row.
func (s *ReviewSourceService) CompleteConnection(ctx context.Context, sourceID, accessToken, refreshToken string, expiresAt *time.Time, externalAccountID string) (*domain.ReviewSource, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}

	source, err := s.sourceRepo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	source.AccessToken = accessToken
	source.RefreshToken = refreshToken
	source.TokenExpiresAt = expiresAt
	if externalAccountID != "" {
		source.ExternalAccountID = externalAccountID
	}
	if err := source.EncryptTokens(s.passphrase); err != nil {
		return nil, err
	}
	source.Status = domain.SourceStatusConnected

	if err := s.sourceRepo.Update(ctx, source); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"source_id": source.ID,
		"provider":  source.Provider,
	}).Info("Source connected")

	return source, nil
}

// Disconnect soft-disables a source: status flips and stored credentials are
// cleared, but the source and its reviews remain.
func (s *ReviewSourceService) Disconnect(ctx context.Context, sourceID string) (*domain.ReviewSource, error) {
	source, err := s.sourceRepo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	source.Disconnect()
	if err := s.sourceRepo.Update(ctx, source); err != nil {
		return nil, err
	}

	s.logger.WithField("source_id", sourceID).Info("Source disconnected")
	return source, nil
}

// GetSource returns a source by id.
func (s *ReviewSourceService) GetSource(ctx context.Context, sourceID string) (*domain.ReviewSource, error) {
	return s.sourceRepo.GetByID(ctx, sourceID)
}

// ListByProfile returns every source of a profile, regardless of status.
func (s *ReviewSourceService) ListByProfile(ctx context.Context, profileID string) ([]*domain.ReviewSource, error) {
	return s.sourceRepo.ListByProfile(ctx, profileID)
}
