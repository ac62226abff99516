package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/internal/service"
	"github.com/localpulse/localpulse/internal/service/providers"
	"github.com/localpulse/localpulse/pkg/logger"
	"github.com/localpulse/localpulse/tests/testutil"
)

const passphrase = "integration-test-passphrase"

// recordingChannel captures alert deliveries instead of sending them.
type recordingChannel struct {
	mu   sync.Mutex
	sent []string // review IDs
}

func (c *recordingChannel) Name() string { return domain.NotificationChannelWebhook }

func (c *recordingChannel) Send(_ context.Context, _ *domain.BusinessProfile, review *domain.Review) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, review.ID)
	return nil
}

func (c *recordingChannel) Sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

// syncFixture wires the real services over in-memory repositories and a mock
// provider API.
type syncFixture struct {
	api *testutil.MockProviderAPI

	profileRepo      *testutil.MemoryProfileRepository
	sourceRepo       *testutil.MemorySourceRepository
	reviewRepo       *testutil.MemoryReviewRepository
	jobRepo          *testutil.MemorySyncJobRepository
	responseRepo     *testutil.MemoryResponseRepository
	sentimentRepo    *testutil.MemorySentimentRepository
	notificationRepo *testutil.MemoryNotificationRepository

	channel   *recordingChannel
	sentiment *service.SentimentService
	sync      *service.ReviewSyncService
	responses *service.ReviewResponseService
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	log := logger.NewNopLogger()

	f := &syncFixture{
		api:              testutil.NewMockProviderAPI(),
		profileRepo:      testutil.NewMemoryProfileRepository(),
		sourceRepo:       testutil.NewMemorySourceRepository(),
		reviewRepo:       testutil.NewMemoryReviewRepository(),
		jobRepo:          testutil.NewMemorySyncJobRepository(),
		responseRepo:     testutil.NewMemoryResponseRepository(),
		sentimentRepo:    testutil.NewMemorySentimentRepository(),
		notificationRepo: testutil.NewMemoryNotificationRepository(),
		channel:          &recordingChannel{},
	}
	t.Cleanup(f.api.Close)

	google := providers.NewGoogleClient(providers.Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}, log)
	google.SetEndpoints(f.api.BaseURL(), f.api.TokenURL())

	registry := providers.NewRegistry()
	registry.Register(google)

	tokens := service.NewSourceTokenService(f.sourceRepo, registry, passphrase, log)

	notifications := service.NewNotificationService(f.notificationRepo, log)
	notifications.RegisterChannel(f.channel)

	f.sentiment = service.NewSentimentService(f.sentimentRepo, log)
	f.sync = service.NewReviewSyncService(
		f.sourceRepo, f.reviewRepo, f.jobRepo, f.profileRepo,
		registry, tokens, f.sentiment, notifications, 2, log,
	)
	f.responses = service.NewReviewResponseService(
		f.responseRepo, f.reviewRepo, f.sourceRepo, f.profileRepo,
		registry, tokens, nil, log,
	)
	return f
}

func (f *syncFixture) seedProfile(t *testing.T) *domain.BusinessProfile {
	t.Helper()
	profile := &domain.BusinessProfile{
		ID:       "prof-1",
		Name:     "Corner Cafe",
		Category: "cafe",
		City:     "Portland",
		State:    "OR",
		Notifications: domain.NotificationSettings{
			InstantAlertsEnabled: true,
			LowRatingThreshold:   2,
			Channels:             []string{domain.NotificationChannelWebhook},
		},
	}
	require.NoError(t, f.profileRepo.Create(context.Background(), profile))
	return profile
}

func (f *syncFixture) seedConnectedSource(t *testing.T, id, accessToken, refreshToken string, expiresAt time.Time) *domain.ReviewSource {
	t.Helper()
	source := &domain.ReviewSource{
		ID:                id,
		ProfileID:         "prof-1",
		Provider:          domain.ProviderGoogle,
		Status:            domain.SourceStatusConnected,
		ExternalAccountID: "accounts/123/locations/456",
		AccessToken:       accessToken,
		RefreshToken:      refreshToken,
		TokenExpiresAt:    &expiresAt,
	}
	require.NoError(t, source.EncryptTokens(passphrase))
	source.AccessToken = ""
	source.RefreshToken = ""
	require.NoError(t, f.sourceRepo.Create(context.Background(), source))
	return source
}

func (f *syncFixture) serveReviews() {
	f.api.Reviews = []testutil.MockReview{
		{
			ReviewID:   "reviews/r-1",
			Author:     "Dana",
			StarRating: "FIVE",
			Comment:    "Great coffee, friendly staff.",
			UpdateTime: "2026-08-20T10:00:00Z",
		},
		{
			ReviewID:   "reviews/r-2",
			Author:     "Sam",
			StarRating: "ONE",
			Comment:    "Cold food and a long wait.",
			UpdateTime: "2026-08-21T12:30:00Z",
		},
	}
}

func TestSyncPipeline_FullSync(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	f.seedProfile(t)
	f.seedConnectedSource(t, "src-1", "access-1", "refresh-1", time.Now().UTC().Add(time.Hour))
	f.api.ValidAccessTokens["access-1"] = true
	f.serveReviews()

	summary, err := f.sync.SyncProfile(ctx, "prof-1")
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)

	result := summary.Results[0]
	assert.Equal(t, domain.SyncJobStatusSuccess, result.Status)
	assert.Equal(t, 2, result.FetchedCount)
	assert.Equal(t, 2, result.UpsertedCount)

	// stored token was still valid, no refresh round trip
	assert.Equal(t, 0, f.api.RefreshCalls)
	assert.Equal(t, 2, f.reviewRepo.Count())

	job, err := f.jobRepo.GetByID(ctx, result.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncJobStatusSuccess, job.Status)
	assert.NotNil(t, job.CompletedAt)

	// exactly one alert, for the one-star review
	require.Equal(t, 1, f.notificationRepo.Count())
	sent := f.channel.Sent()
	require.Len(t, sent, 1)
	lowReview, err := f.reviewRepo.GetByID(ctx, sent[0])
	require.NoError(t, err)
	assert.Equal(t, 1, lowReview.Rating)

	// sentiment is derived for every ingested review
	sentiment, err := f.sentimentRepo.GetByReviewID(ctx, lowReview.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentNegative, sentiment.Label)

	source, err := f.sourceRepo.GetByID(ctx, "src-1")
	require.NoError(t, err)
	assert.NotNil(t, source.LastSyncedAt)
	assert.Equal(t, 0, source.ConsecErrors)
}

func TestSyncPipeline_ResyncIsIdempotent(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	f.seedProfile(t)
	f.seedConnectedSource(t, "src-1", "access-1", "refresh-1", time.Now().UTC().Add(time.Hour))
	f.api.ValidAccessTokens["access-1"] = true
	f.serveReviews()

	_, err := f.sync.SyncProfile(ctx, "prof-1")
	require.NoError(t, err)

	summary, err := f.sync.SyncProfile(ctx, "prof-1")
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)

	// everything matched existing rows on the second pass
	assert.Equal(t, 2, summary.Results[0].FetchedCount)
	assert.Equal(t, 0, summary.Results[0].UpsertedCount)
	assert.Equal(t, 2, f.reviewRepo.Count())

	// the low-rating alert fired on the first ingest only
	assert.Equal(t, 1, f.notificationRepo.Count())
	assert.Len(t, f.channel.Sent(), 1)
}

func TestSyncPipeline_RefreshesExpiredToken(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	f.seedProfile(t)
	f.seedConnectedSource(t, "src-1", "access-stale", "refresh-1", time.Now().UTC().Add(-time.Hour))
	f.api.RefreshResponses["refresh-1"] = testutil.MockTokenResponse{AccessToken: "access-fresh"}
	f.serveReviews()

	summary, err := f.sync.SyncProfile(ctx, "prof-1")
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, domain.SyncJobStatusSuccess, summary.Results[0].Status)

	assert.Equal(t, 1, f.api.RefreshCalls)
	assert.Equal(t, 2, f.reviewRepo.Count())

	// the refreshed credentials were persisted encrypted
	source, err := f.sourceRepo.GetByID(ctx, "src-1")
	require.NoError(t, err)
	require.NoError(t, source.DecryptTokens(passphrase))
	assert.Equal(t, "access-fresh", source.AccessToken)
	assert.Equal(t, "refresh-1", source.RefreshToken)
	require.NotNil(t, source.TokenExpiresAt)
	assert.True(t, source.TokenExpiresAt.After(time.Now().UTC()))
}

func TestSyncPipeline_AuthFailureDoesNotAbortOtherSources(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	f.seedProfile(t)
	f.seedConnectedSource(t, "src-1", "access-stale", "refresh-revoked", time.Now().UTC().Add(-time.Hour))
	f.seedConnectedSource(t, "src-2", "access-1", "refresh-1", time.Now().UTC().Add(time.Hour))
	f.api.ValidAccessTokens["access-1"] = true
	f.serveReviews()

	summary, err := f.sync.SyncProfile(ctx, "prof-1")
	require.NoError(t, err)
	require.Len(t, summary.Results, 2)

	failed := summary.Results[0]
	assert.Equal(t, "src-1", failed.SourceID)
	assert.Equal(t, domain.SyncJobStatusFailed, failed.Status)
	assert.Equal(t, domain.SyncErrorAuthExpired, failed.ErrorCode)

	job, err := f.jobRepo.GetByID(ctx, failed.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncJobStatusFailed, job.Status)
	assert.Equal(t, domain.SyncErrorAuthExpired, job.ErrorCode)

	source, err := f.sourceRepo.GetByID(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ErrorTypePermanent, source.LastErrorType)
	assert.Equal(t, 1, source.ConsecErrors)

	// the healthy source still synced
	succeeded := summary.Results[1]
	assert.Equal(t, "src-2", succeeded.SourceID)
	assert.Equal(t, domain.SyncJobStatusSuccess, succeeded.Status)
	assert.Equal(t, 2, succeeded.UpsertedCount)
}

func TestPublishReply_OncePerIdempotencyKey(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	f.seedProfile(t)
	f.seedConnectedSource(t, "src-1", "access-1", "refresh-1", time.Now().UTC().Add(time.Hour))
	f.api.ValidAccessTokens["access-1"] = true
	f.serveReviews()

	_, err := f.sync.SyncProfile(ctx, "prof-1")
	require.NoError(t, err)

	lowReviews, _, err := f.reviewRepo.List(ctx, domain.ReviewFilter{ProfileID: "prof-1", MaxRating: 1})
	require.NoError(t, err)
	require.Len(t, lowReviews, 1)
	review := lowReviews[0]

	draft, err := f.responses.DraftResponse(ctx, review.ID, domain.ToneFriendly)
	require.NoError(t, err)
	assert.Equal(t, domain.ResponseStatusDraft, draft.Status)
	assert.Contains(t, draft.DraftText, "Corner Cafe")
	assert.Contains(t, draft.DraftText, "Sam")

	published, err := f.responses.Publish(ctx, draft.IdempotencyKey)
	require.NoError(t, err)
	assert.Equal(t, domain.ResponseStatusPublished, published.Status)
	assert.Equal(t, draft.DraftText, published.FinalText)

	assert.Equal(t, 1, f.api.PublishCount())
	assert.Equal(t, draft.DraftText, f.api.PublishedReplies["/reviews/r-2/reply"])

	replied, err := f.reviewRepo.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReplyStatusPublished, replied.ReplyStatus)

	// second publish with the same key is a conflict, not a second API call
	_, err = f.responses.Publish(ctx, draft.IdempotencyKey)
	assert.ErrorIs(t, err, domain.ErrResponseAlreadyPublished)
	assert.Equal(t, 1, f.api.PublishCount())
}
