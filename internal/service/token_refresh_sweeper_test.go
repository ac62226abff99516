package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/domain"
	domainmocks "github.com/localpulse/localpulse/internal/domain/mocks"
	"github.com/localpulse/localpulse/internal/service/providers"
	providermocks "github.com/localpulse/localpulse/internal/service/providers/mocks"
	"github.com/localpulse/localpulse/pkg/crypto"
	"github.com/localpulse/localpulse/pkg/logger"
)

const sweepLookahead = 30 * time.Minute

type sweeperFixture struct {
	sourceRepo *domainmocks.MockReviewSourceRepository
	client     *providermocks.MockClient
	sweeper    *TokenRefreshSweeper
}

func newSweeperFixture(t *testing.T, ctrl *gomock.Controller) *sweeperFixture {
	t.Helper()

	f := &sweeperFixture{
		sourceRepo: domainmocks.NewMockReviewSourceRepository(ctrl),
		client:     providermocks.NewMockClient(ctrl),
	}
	f.client.EXPECT().Provider().Return(domain.ProviderGoogle).AnyTimes()

	registry := providers.NewRegistry()
	registry.Register(f.client)

	log := logger.NewNopLogger()
	tokens := NewSourceTokenService(f.sourceRepo, registry, testPassphrase, log)
	f.sweeper = NewTokenRefreshSweeper(f.sourceRepo, tokens, time.Minute, sweepLookahead, log)
	return f
}

func expiringSource(t *testing.T, id string, expiresIn time.Duration) *domain.ReviewSource {
	t.Helper()

	expiry := time.Now().UTC().Add(expiresIn)
	source := &domain.ReviewSource{
		ID:                id,
		ProfileID:         "prof-1",
		Provider:          domain.ProviderGoogle,
		Status:            domain.SourceStatusConnected,
		ExternalAccountID: "accounts/1/locations/2",
		AccessToken:       "stale-access",
		RefreshToken:      "refresh-" + id,
		TokenExpiresAt:    &expiry,
	}
	require.NoError(t, source.EncryptTokens(testPassphrase))
	source.AccessToken = ""
	source.RefreshToken = ""
	return source
}

// A token expiring inside the lookahead but outside the default 5-minute
// buffer must still be refreshed by the sweep.
func TestTokenRefreshSweeper_RefreshesInsideLookahead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newSweeperFixture(t, ctrl)
	ctx := context.Background()

	source := expiringSource(t, "src-1", 20*time.Minute)

	f.sourceRepo.EXPECT().ListExpiringTokens(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, cutoff time.Time) ([]*domain.ReviewSource, error) {
			assert.WithinDuration(t, time.Now().UTC().Add(sweepLookahead), cutoff, time.Minute)
			return []*domain.ReviewSource{source}, nil
		})

	newExpiry := time.Now().UTC().Add(time.Hour)
	f.client.EXPECT().RefreshToken(ctx, "refresh-src-1").
		Return(&providers.TokenSet{AccessToken: "fresh-access", ExpiresAt: newExpiry}, nil)

	f.sourceRepo.EXPECT().UpdateTokens(ctx, "src-1", gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, encAccess, encRefresh string, expiresAt *time.Time) error {
			access, err := crypto.DecryptFromHexString(encAccess, testPassphrase)
			require.NoError(t, err)
			assert.Equal(t, "fresh-access", access)

			// The provider did not rotate the refresh token, so the stored
			// one is re-encrypted unchanged.
			refresh, err := crypto.DecryptFromHexString(encRefresh, testPassphrase)
			require.NoError(t, err)
			assert.Equal(t, "refresh-src-1", refresh)

			require.NotNil(t, expiresAt)
			assert.WithinDuration(t, newExpiry, *expiresAt, time.Second)
			return nil
		})

	f.sweeper.Sweep(ctx)
}

func TestTokenRefreshSweeper_RecordsFailureAndContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newSweeperFixture(t, ctrl)
	ctx := context.Background()

	revoked := expiringSource(t, "src-revoked", 10*time.Minute)
	healthy := expiringSource(t, "src-healthy", 20*time.Minute)

	f.sourceRepo.EXPECT().ListExpiringTokens(ctx, gomock.Any()).
		Return([]*domain.ReviewSource{revoked, healthy}, nil)

	f.client.EXPECT().RefreshToken(ctx, "refresh-src-revoked").
		Return(nil, providers.ErrUnauthorized)
	f.sourceRepo.EXPECT().RecordError(ctx, "src-revoked", gomock.Any(), domain.ErrorTypePermanent).
		Return(nil)

	// The failure does not stop the sweep.
	f.client.EXPECT().RefreshToken(ctx, "refresh-src-healthy").
		Return(&providers.TokenSet{AccessToken: "fresh-access", ExpiresAt: time.Now().UTC().Add(time.Hour)}, nil)
	f.sourceRepo.EXPECT().UpdateTokens(ctx, "src-healthy", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	f.sweeper.Sweep(ctx)
}

func TestTokenRefreshSweeper_NothingExpiring(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newSweeperFixture(t, ctrl)
	ctx := context.Background()

	f.sourceRepo.EXPECT().ListExpiringTokens(ctx, gomock.Any()).
		Return([]*domain.ReviewSource{}, nil)

	// No refresh calls expected; the controller verifies that.
	f.sweeper.Sweep(ctx)
}
