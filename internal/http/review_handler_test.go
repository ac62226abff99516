package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/localpulse/localpulse/internal/domain"
	domainmocks "github.com/localpulse/localpulse/internal/domain/mocks"
	"github.com/localpulse/localpulse/pkg/logger"
)

type stubSyncRunner struct {
	summary *domain.SyncSummary
	result  *domain.SourceSyncResult
	err     error

	syncedProfile string
	syncedSource  string
}

func (s *stubSyncRunner) SyncProfile(_ context.Context, profileID string) (*domain.SyncSummary, error) {
	s.syncedProfile = profileID
	return s.summary, s.err
}

func (s *stubSyncRunner) SyncSource(_ context.Context, sourceID string) (*domain.SourceSyncResult, error) {
	s.syncedSource = sourceID
	return s.result, s.err
}

type stubSentimentReader struct {
	sentiment *domain.ReviewSentiment
	err       error
}

func (s *stubSentimentReader) GetByReviewID(context.Context, string) (*domain.ReviewSentiment, error) {
	return s.sentiment, s.err
}

type reviewHandlerFixture struct {
	mux        *http.ServeMux
	sync       *stubSyncRunner
	reviewRepo *domainmocks.MockReviewRepository
	jobRepo    *domainmocks.MockReviewSyncJobRepository
	sentiment  *stubSentimentReader
}

func newReviewMux(t *testing.T, ctrl *gomock.Controller) *reviewHandlerFixture {
	t.Helper()
	f := &reviewHandlerFixture{
		sync:       &stubSyncRunner{},
		reviewRepo: domainmocks.NewMockReviewRepository(ctrl),
		jobRepo:    domainmocks.NewMockReviewSyncJobRepository(ctrl),
		sentiment:  &stubSentimentReader{err: domain.ErrReviewNotFound},
	}
	handler := NewReviewHandler(f.sync, f.reviewRepo, f.jobRepo, f.sentiment, testAuth(), logger.NewNopLogger())
	f.mux = http.NewServeMux()
	handler.RegisterRoutes(f.mux)
	return f
}

func TestReviewHandler_SyncProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newReviewMux(t, ctrl)
	f.sync.summary = &domain.SyncSummary{
		Results:       []domain.SourceSyncResult{{SourceID: "src-1", Status: domain.SyncJobStatusSuccess}},
		TotalFetched:  3,
		TotalUpserted: 2,
	}

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/reviews.sync", `{"profile_id": "prof-1"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "prof-1", f.sync.syncedProfile)
	assert.Equal(t, int64(2), gjson.Get(rec.Body.String(), "summary.total_upserted").Int())
}

func TestReviewHandler_SyncSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newReviewMux(t, ctrl)
	f.sync.result = &domain.SourceSyncResult{SourceID: "src-1", Status: domain.SyncJobStatusFailed, ErrorCode: domain.SyncErrorAuthExpired}

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/reviews.sync", `{"source_id": "src-1"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "src-1", f.sync.syncedSource)
	assert.Equal(t, domain.SyncErrorAuthExpired, gjson.Get(rec.Body.String(), "result.error_code").String())
}

func TestReviewHandler_Sync_MissingIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newReviewMux(t, ctrl)

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/reviews.sync", `{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newReviewMux(t, ctrl)

	f.reviewRepo.EXPECT().List(gomock.Any(), domain.ReviewFilter{
		ProfileID: "prof-1",
		MaxRating: 2,
		Limit:     10,
	}).Return([]*domain.Review{{ID: "rev-1", Rating: 1}}, 1, nil)

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/reviews.list?profile_id=prof-1&max_rating=2&limit=10", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), gjson.Get(rec.Body.String(), "total").Int())
	assert.Equal(t, "rev-1", gjson.Get(rec.Body.String(), "reviews.0.id").String())
}

func TestReviewHandler_Get_WithSentiment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newReviewMux(t, ctrl)
	f.sentiment.err = nil
	f.sentiment.sentiment = &domain.ReviewSentiment{ReviewID: "rev-1", Label: domain.SentimentNegative}

	f.reviewRepo.EXPECT().GetByID(gomock.Any(), "rev-1").Return(&domain.Review{ID: "rev-1", Rating: 1}, nil)

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/reviews.get?id=rev-1", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.SentimentNegative, gjson.Get(rec.Body.String(), "sentiment.label").String())
}

func TestReviewHandler_GetJob_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newReviewMux(t, ctrl)

	f.jobRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrSyncJobNotFound)

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/jobs.get?id=missing", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewHandler_ListJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newReviewMux(t, ctrl)

	f.jobRepo.EXPECT().ListBySource(gomock.Any(), "src-1", 0).Return([]*domain.ReviewSyncJob{
		{ID: "job-1", Status: domain.SyncJobStatusSuccess},
	}, nil)

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/api/jobs.list?source_id=src-1", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "job-1", gjson.Get(rec.Body.String(), "jobs.0.id").String())
}
