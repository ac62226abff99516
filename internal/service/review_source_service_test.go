package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/domain"
	domainmocks "github.com/localpulse/localpulse/internal/domain/mocks"
	"github.com/localpulse/localpulse/pkg/logger"
)

func newSourceService(t *testing.T, ctrl *gomock.Controller) (*ReviewSourceService, *domainmocks.MockReviewSourceRepository, *domainmocks.MockBusinessProfileRepository) {
	t.Helper()

	sourceRepo := domainmocks.NewMockReviewSourceRepository(ctrl)
	profileRepo := domainmocks.NewMockBusinessProfileRepository(ctrl)
	apps := OAuthApps{
		domain.ProviderGoogle: {ClientID: "google-client", ClientSecret: "google-secret"},
	}
	service := NewReviewSourceService(sourceRepo, profileRepo, apps, testPassphrase, logger.NewNopLogger())
	return service, sourceRepo, profileRepo
}

func TestReviewSourceService_Connect(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service, sourceRepo, profileRepo := newSourceService(t, ctrl)
	ctx := context.Background()

	profileRepo.EXPECT().GetByID(ctx, "prof-1").Return(alertingProfile(), nil)

	var created *domain.ReviewSource
	sourceRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, source *domain.ReviewSource) error {
			created = source
			return nil
		})

	source, authorizeURL, err := service.Connect(ctx, "prof-1", domain.ProviderGoogle, "accounts/1/locations/2")
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, domain.SourceStatusPending, source.Status)
	assert.Equal(t, "accounts/1/locations/2", source.ExternalAccountID)

	parsed, err := url.Parse(authorizeURL)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", parsed.Host)
	assert.Equal(t, "google-client", parsed.Query().Get("client_id"))
	assert.Equal(t, source.ID, parsed.Query().Get("state"))
	assert.Equal(t, "offline", parsed.Query().Get("access_type"))
}

func TestReviewSourceService_Connect_UnknownProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service, _, _ := newSourceService(t, ctrl)

	_, _, err := service.Connect(context.Background(), "prof-1", "tripadvisor", "")
	assert.ErrorContains(t, err, "unsupported provider")
}

func TestReviewSourceService_CompleteConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service, sourceRepo, _ := newSourceService(t, ctrl)
	ctx := context.Background()

	pending := &domain.ReviewSource{
		ID:        "src-1",
		ProfileID: "prof-1",
		Provider:  domain.ProviderGoogle,
		Status:    domain.SourceStatusPending,
	}
	sourceRepo.EXPECT().GetByID(ctx, "src-1").Return(pending, nil)

	var updated *domain.ReviewSource
	sourceRepo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, source *domain.ReviewSource) error {
			updated = source
			return nil
		})

	expiry := time.Now().Add(time.Hour).UTC()
	source, err := service.CompleteConnection(ctx, "src-1", "access-token", "refresh-token", &expiry, "accounts/1/locations/2")
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, domain.SourceStatusConnected, source.Status)
	assert.NotEmpty(t, source.EncryptedAccessToken)
	assert.NotEmpty(t, source.EncryptedRefreshToken)
	assert.NotEqual(t, "access-token", source.EncryptedAccessToken)
	assert.Equal(t, "accounts/1/locations/2", source.ExternalAccountID)

	// The stored ciphertext round-trips with the same passphrase.
	decoded := &domain.ReviewSource{
		EncryptedAccessToken:  source.EncryptedAccessToken,
		EncryptedRefreshToken: source.EncryptedRefreshToken,
	}
	require.NoError(t, decoded.DecryptTokens(testPassphrase))
	assert.Equal(t, "access-token", decoded.AccessToken)
	assert.Equal(t, "refresh-token", decoded.RefreshToken)
}

func TestReviewSourceService_CompleteConnection_MissingToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service, _, _ := newSourceService(t, ctrl)

	_, err := service.CompleteConnection(context.Background(), "src-1", "", "", nil, "")
	assert.ErrorContains(t, err, "access token is required")
}

func TestReviewSourceService_Disconnect(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service, sourceRepo, _ := newSourceService(t, ctrl)
	ctx := context.Background()

	connected := connectedSource(t, "src-1")
	sourceRepo.EXPECT().GetByID(ctx, "src-1").Return(connected, nil)
	sourceRepo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, source *domain.ReviewSource) error {
			assert.Equal(t, domain.SourceStatusDisconnected, source.Status)
			assert.Empty(t, source.EncryptedAccessToken)
			assert.Empty(t, source.EncryptedRefreshToken)
			assert.Nil(t, source.TokenExpiresAt)
			return nil
		})

	source, err := service.Disconnect(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceStatusDisconnected, source.Status)
}
