package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/internal/service/providers"
	"github.com/localpulse/localpulse/pkg/logger"
)

// SentimentAnalyzer derives and stores sentiment for an ingested review.
type SentimentAnalyzer interface {
	AnalyzeAndStore(ctx context.Context, review *domain.Review) error
}

// LowRatingNotifier dispatches an instant alert for a low-rated review.
type LowRatingNotifier interface {
	NotifyLowRating(ctx context.Context, profile *domain.BusinessProfile, review *domain.Review) error
}

// ReviewSyncService runs the review ingestion pipeline. Sources of a profile
// are synced sequentially and one source failing never aborts the others.
type ReviewSyncService struct {
	sourceRepo  domain.ReviewSourceRepository
	reviewRepo  domain.ReviewRepository
	jobRepo     domain.ReviewSyncJobRepository
	profileRepo domain.BusinessProfileRepository

	registry  *providers.Registry
	tokens    *SourceTokenService
	sentiment SentimentAnalyzer
	notifier  LowRatingNotifier
	logger    logger.Logger

	defaultLowRatingThreshold int
}

// NewReviewSyncService creates the sync pipeline service.
func NewReviewSyncService(
	sourceRepo domain.ReviewSourceRepository,
	reviewRepo domain.ReviewRepository,
	jobRepo domain.ReviewSyncJobRepository,
	profileRepo domain.BusinessProfileRepository,
	registry *providers.Registry,
	tokens *SourceTokenService,
	sentiment SentimentAnalyzer,
	notifier LowRatingNotifier,
	defaultLowRatingThreshold int,
	log logger.Logger,
) *ReviewSyncService {
	return &ReviewSyncService{
		sourceRepo:                sourceRepo,
		reviewRepo:                reviewRepo,
		jobRepo:                   jobRepo,
		profileRepo:               profileRepo,
		registry:                  registry,
		tokens:                    tokens,
		sentiment:                 sentiment,
		notifier:                  notifier,
		defaultLowRatingThreshold: defaultLowRatingThreshold,
		logger:                    log,
	}
}

// SyncProfile syncs every connected source of a profile, one at a time, and
// returns the per-source results.
func (s *ReviewSyncService) SyncProfile(ctx context.Context, profileID string) (*domain.SyncSummary, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	sources, err := s.sourceRepo.ListConnectedByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connected sources: %w", err)
	}

	summary := &domain.SyncSummary{Results: make([]domain.SourceSyncResult, 0, len(sources))}
	for _, source := range sources {
		result := s.syncSource(ctx, profile, source)
		summary.Results = append(summary.Results, result)
		summary.TotalFetched += result.FetchedCount
		summary.TotalUpserted += result.UpsertedCount
	}
	return summary, nil
}

// SyncSource syncs a single source by id.
func (s *ReviewSyncService) SyncSource(ctx context.Context, sourceID string) (*domain.SourceSyncResult, error) {
	source, err := s.sourceRepo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByID(ctx, source.ProfileID)
	if err != nil {
		return nil, err
	}

	result := s.syncSource(ctx, profile, source)
	return &result, nil
}

func (s *ReviewSyncService) syncSource(ctx context.Context, profile *domain.BusinessProfile, source *domain.ReviewSource) domain.SourceSyncResult {
	result := domain.SourceSyncResult{
		SourceID: source.ID,
		Provider: source.Provider,
	}

	job := &domain.ReviewSyncJob{
		ID:       shortuuid.New(),
		SourceID: source.ID,
		Status:   domain.SyncJobStatusQueued,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		s.logger.WithField("source_id", source.ID).
			Error("Failed to create sync job: " + err.Error())
		result.Status = domain.SyncJobStatusFailed
		result.ErrorCode = domain.SyncErrorStorageError
		result.ErrorMessage = err.Error()
		return result
	}
	result.JobID = job.ID

	if err := s.jobRepo.MarkRunning(ctx, job.ID, time.Now().UTC()); err != nil {
		return s.failJob(ctx, source, &result, domain.SyncErrorStorageError, err)
	}

	accessToken, err := s.tokens.EnsureFreshToken(ctx, source)
	if err != nil {
		return s.failJob(ctx, source, &result, domain.SyncErrorAuthExpired, err)
	}

	client, err := s.registry.Get(source.Provider)
	if err != nil {
		return s.failJob(ctx, source, &result, domain.SyncErrorProviderError, err)
	}

	fetched, err := client.FetchReviews(ctx, accessToken, source.ExternalAccountID)
	if err != nil {
		code := domain.SyncErrorProviderError
		if IsAuthError(err) {
			code = domain.SyncErrorAuthExpired
		}
		return s.failJob(ctx, source, &result, code, err)
	}
	result.FetchedCount = len(fetched)

	upserted, err := s.ingestReviews(ctx, profile, source, fetched)
	if err != nil {
		return s.failJob(ctx, source, &result, domain.SyncErrorStorageError, err)
	}
	result.UpsertedCount = upserted

	now := time.Now().UTC()
	if err := s.jobRepo.CloseSuccess(ctx, job.ID, result.FetchedCount, upserted, now); err != nil {
		s.logger.WithField("job_id", job.ID).
			Error("Failed to close sync job: " + err.Error())
	}
	if err := s.sourceRepo.MarkSynced(ctx, source.ID, now); err != nil {
		s.logger.WithField("source_id", source.ID).
			Error("Failed to mark source synced: " + err.Error())
	}

	result.Status = domain.SyncJobStatusSuccess
	s.logger.WithFields(map[string]interface{}{
		"source_id": source.ID,
		"provider":  source.Provider,
		"fetched":   result.FetchedCount,
		"upserted":  upserted,
	}).Info("Source sync completed")

	return result
}

// ingestReviews upserts the fetched reviews and returns how many new rows
// were created. Only newly inserted low-rated reviews trigger notifications,
// so re-ingesting the same data never alerts twice.
func (s *ReviewSyncService) ingestReviews(ctx context.Context, profile *domain.BusinessProfile, source *domain.ReviewSource, fetched []*providers.FetchedReview) (int, error) {
	threshold := profile.EffectiveLowRatingThreshold(s.defaultLowRatingThreshold)
	inserted := 0

	for _, item := range fetched {
		review := &domain.Review{
			ID:          shortuuid.New(),
			SourceID:    source.ID,
			ProfileID:   profile.ID,
			Provider:    source.Provider,
			ExternalID:  item.ExternalID,
			AuthorName:  item.AuthorName,
			Rating:      item.Rating,
			Content:     item.Content,
			ReviewedAt:  item.ReviewedAt,
			ReplyStatus: domain.ReplyStatusNone,
		}
		if err := review.Validate(); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"source_id":   source.ID,
				"external_id": item.ExternalID,
				"error":       err.Error(),
			}).Warn("Skipping invalid review")
			continue
		}

		upsert, err := s.reviewRepo.Upsert(ctx, review)
		if err != nil {
			return inserted, fmt.Errorf("failed to upsert review %s: %w", item.ExternalID, err)
		}
		if upsert.Inserted {
			inserted++
		}

		if err := s.sentiment.AnalyzeAndStore(ctx, upsert.Review); err != nil {
			s.logger.WithField("review_id", upsert.Review.ID).
				Warn("Sentiment analysis failed: " + err.Error())
		}

		if upsert.Inserted && review.Rating <= threshold && profile.Notifications.InstantAlertsEnabled {
			if err := s.notifier.NotifyLowRating(ctx, profile, upsert.Review); err != nil {
				s.logger.WithField("review_id", upsert.Review.ID).
					Warn("Low rating notification failed: " + err.Error())
			}
		}
	}
	return inserted, nil
}

// failJob closes the job as failed, records the error on the source and
// fills the result. The caller continues with the next source.
func (s *ReviewSyncService) failJob(ctx context.Context, source *domain.ReviewSource, result *domain.SourceSyncResult, code string, cause error) domain.SourceSyncResult {
	now := time.Now().UTC()
	msg := cause.Error()

	if err := s.jobRepo.CloseFailed(ctx, result.JobID, code, msg, now); err != nil {
		s.logger.WithField("job_id", result.JobID).
			Error("Failed to close sync job as failed: " + err.Error())
	}
	if err := s.sourceRepo.RecordError(ctx, source.ID, msg, classifySyncError(code, cause)); err != nil {
		s.logger.WithField("source_id", source.ID).
			Error("Failed to record source error: " + err.Error())
	}

	s.logger.WithFields(map[string]interface{}{
		"source_id":  source.ID,
		"provider":   source.Provider,
		"error_code": code,
		"error":      msg,
	}).Warn("Source sync failed")

	result.Status = domain.SyncJobStatusFailed
	result.ErrorCode = code
	result.ErrorMessage = msg
	return *result
}

// classifySyncError maps a sync failure to the transient/permanent/unknown
// classification recorded on the source.
func classifySyncError(code string, err error) string {
	if code == domain.SyncErrorAuthExpired {
		return domain.ErrorTypePermanent
	}

	var statusErr *providers.StatusError
	if errors.As(err, &statusErr) {
		if providers.IsTransient(err) {
			return domain.ErrorTypeTransient
		}
		return domain.ErrorTypePermanent
	}

	return classifyErrorMessage(err)
}

// classifyErrorMessage falls back to string matching for errors that carry
// no structured status.
func classifyErrorMessage(err error) string {
	if err == nil {
		return domain.ErrorTypeUnknown
	}

	errLower := strings.ToLower(err.Error())

	transientPatterns := []string{
		"timeout",
		"rate limit",
		"429",
		"503",
		"502",
		"temporary",
		"connection refused",
		"connection reset",
		"no such host",
		"service unavailable",
		"try again",
	}
	for _, pattern := range transientPatterns {
		if strings.Contains(errLower, pattern) {
			return domain.ErrorTypeTransient
		}
	}

	permanentPatterns := []string{
		"invalid credentials",
		"401",
		"403",
		"forbidden",
		"unauthorized",
		"access denied",
		"revoked",
		"expired",
		"invalid token",
	}
	for _, pattern := range permanentPatterns {
		if strings.Contains(errLower, pattern) {
			return domain.ErrorTypePermanent
		}
	}

	return domain.ErrorTypeUnknown
}
