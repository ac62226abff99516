package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/localpulse/localpulse/internal/domain"
)

// In-memory repository implementations for integration tests. They mirror the
// semantics of the Postgres repositories: idempotent review upsert keyed by
// (source_id, external_id), terminal-state guards on sync jobs and the
// publish-once rule on responses.

// MemoryProfileRepository implements domain.BusinessProfileRepository.
type MemoryProfileRepository struct {
	mu       sync.Mutex
	profiles map[string]*domain.BusinessProfile
}

func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{profiles: make(map[string]*domain.BusinessProfile)}
}

func (r *MemoryProfileRepository) Create(_ context.Context, profile *domain.BusinessProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *profile
	r.profiles[profile.ID] = &clone
	return nil
}

func (r *MemoryProfileRepository) GetByID(_ context.Context, id string) (*domain.BusinessProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *profile
	return &clone, nil
}

func (r *MemoryProfileRepository) Update(_ context.Context, profile *domain.BusinessProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.ID]; !ok {
		return domain.ErrProfileNotFound
	}
	clone := *profile
	r.profiles[profile.ID] = &clone
	return nil
}

func (r *MemoryProfileRepository) List(_ context.Context) ([]*domain.BusinessProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.BusinessProfile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		clone := *profile
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MemorySourceRepository implements domain.ReviewSourceRepository.
type MemorySourceRepository struct {
	mu      sync.Mutex
	sources map[string]*domain.ReviewSource
}

func NewMemorySourceRepository() *MemorySourceRepository {
	return &MemorySourceRepository{sources: make(map[string]*domain.ReviewSource)}
}

func (r *MemorySourceRepository) Create(_ context.Context, source *domain.ReviewSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *source
	r.sources[source.ID] = &clone
	return nil
}

func (r *MemorySourceRepository) GetByID(_ context.Context, id string) (*domain.ReviewSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	source, ok := r.sources[id]
	if !ok {
		return nil, domain.ErrSourceNotFound
	}
	clone := *source
	return &clone, nil
}

func (r *MemorySourceRepository) ListByProfile(_ context.Context, profileID string) ([]*domain.ReviewSource, error) {
	return r.list(profileID, false), nil
}

func (r *MemorySourceRepository) ListConnectedByProfile(_ context.Context, profileID string) ([]*domain.ReviewSource, error) {
	return r.list(profileID, true), nil
}

func (r *MemorySourceRepository) list(profileID string, connectedOnly bool) []*domain.ReviewSource {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ReviewSource
	for _, source := range r.sources {
		if source.ProfileID != profileID {
			continue
		}
		if connectedOnly && source.Status != domain.SourceStatusConnected {
			continue
		}
		clone := *source
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MemorySourceRepository) ListExpiringTokens(_ context.Context, cutoff time.Time) ([]*domain.ReviewSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ReviewSource
	for _, source := range r.sources {
		if source.Status != domain.SourceStatusConnected || source.TokenExpiresAt == nil {
			continue
		}
		if source.TokenExpiresAt.Before(cutoff) {
			clone := *source
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemorySourceRepository) Update(_ context.Context, source *domain.ReviewSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sources[source.ID]; !ok {
		return domain.ErrSourceNotFound
	}
	clone := *source
	r.sources[source.ID] = &clone
	return nil
}

func (r *MemorySourceRepository) UpdateTokens(_ context.Context, sourceID, encryptedAccessToken, encryptedRefreshToken string, expiresAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	source, ok := r.sources[sourceID]
	if !ok {
		return domain.ErrSourceNotFound
	}
	source.EncryptedAccessToken = encryptedAccessToken
	source.EncryptedRefreshToken = encryptedRefreshToken
	source.TokenExpiresAt = expiresAt
	source.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemorySourceRepository) MarkSynced(_ context.Context, sourceID string, syncedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	source, ok := r.sources[sourceID]
	if !ok {
		return domain.ErrSourceNotFound
	}
	source.LastSyncedAt = &syncedAt
	source.LastError = nil
	source.LastErrorType = ""
	source.ConsecErrors = 0
	return nil
}

func (r *MemorySourceRepository) RecordError(_ context.Context, sourceID, errMsg, errType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	source, ok := r.sources[sourceID]
	if !ok {
		return domain.ErrSourceNotFound
	}
	source.LastError = &errMsg
	source.LastErrorType = errType
	source.ConsecErrors++
	return nil
}

// MemoryReviewRepository implements domain.ReviewRepository.
type MemoryReviewRepository struct {
	mu      sync.Mutex
	reviews map[string]*domain.Review // keyed by review ID
	byKey   map[string]string         // (source_id, external_id) -> review ID
}

func NewMemoryReviewRepository() *MemoryReviewRepository {
	return &MemoryReviewRepository{
		reviews: make(map[string]*domain.Review),
		byKey:   make(map[string]string),
	}
}

func upsertKey(sourceID, externalID string) string {
	return sourceID + "\x00" + externalID
}

func (r *MemoryReviewRepository) Upsert(_ context.Context, review *domain.Review) (*domain.UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := upsertKey(review.SourceID, review.ExternalID)
	if existingID, ok := r.byKey[key]; ok {
		existing := r.reviews[existingID]
		existing.AuthorName = review.AuthorName
		existing.Rating = review.Rating
		existing.Content = review.Content
		existing.ReviewedAt = review.ReviewedAt
		existing.UpdatedAt = time.Now().UTC()
		clone := *existing
		return &domain.UpsertResult{Review: &clone, Inserted: false}, nil
	}

	clone := *review
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	clone.UpdatedAt = clone.CreatedAt
	r.reviews[clone.ID] = &clone
	r.byKey[key] = clone.ID
	out := clone
	return &domain.UpsertResult{Review: &out, Inserted: true}, nil
}

func (r *MemoryReviewRepository) GetByID(_ context.Context, id string) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	clone := *review
	return &clone, nil
}

func (r *MemoryReviewRepository) List(_ context.Context, filter domain.ReviewFilter) ([]*domain.Review, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Review
	for _, review := range r.reviews {
		if filter.ProfileID != "" && review.ProfileID != filter.ProfileID {
			continue
		}
		if filter.SourceID != "" && review.SourceID != filter.SourceID {
			continue
		}
		if filter.MinRating > 0 && review.Rating < filter.MinRating {
			continue
		}
		if filter.MaxRating > 0 && review.Rating > filter.MaxRating {
			continue
		}
		clone := *review
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ReviewedAt.After(matched[j].ReviewedAt)
	})

	total := len(matched)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *MemoryReviewRepository) UpdateReplyStatus(_ context.Context, reviewID, replyStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[reviewID]
	if !ok {
		return domain.ErrReviewNotFound
	}
	review.ReplyStatus = replyStatus
	review.UpdatedAt = time.Now().UTC()
	return nil
}

// Count returns the number of stored reviews.
func (r *MemoryReviewRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reviews)
}

// MemorySyncJobRepository implements domain.ReviewSyncJobRepository.
type MemorySyncJobRepository struct {
	mu   sync.Mutex
	jobs map[string]*domain.ReviewSyncJob
}

func NewMemorySyncJobRepository() *MemorySyncJobRepository {
	return &MemorySyncJobRepository{jobs: make(map[string]*domain.ReviewSyncJob)}
}

func (r *MemorySyncJobRepository) Create(_ context.Context, job *domain.ReviewSyncJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *job
	r.jobs[job.ID] = &clone
	return nil
}

func (r *MemorySyncJobRepository) MarkRunning(_ context.Context, jobID string, startedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrSyncJobNotFound
	}
	if job.IsTerminal() {
		return domain.ErrSyncJobTerminal
	}
	job.Status = domain.SyncJobStatusRunning
	job.StartedAt = &startedAt
	return nil
}

func (r *MemorySyncJobRepository) CloseSuccess(_ context.Context, jobID string, fetched, upserted int, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrSyncJobNotFound
	}
	if job.IsTerminal() {
		return domain.ErrSyncJobTerminal
	}
	job.Status = domain.SyncJobStatusSuccess
	job.FetchedCount = fetched
	job.UpsertedCount = upserted
	job.CompletedAt = &completedAt
	return nil
}

func (r *MemorySyncJobRepository) CloseFailed(_ context.Context, jobID, errorCode, errorMessage string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrSyncJobNotFound
	}
	if job.IsTerminal() {
		return domain.ErrSyncJobTerminal
	}
	job.Status = domain.SyncJobStatusFailed
	job.ErrorCode = errorCode
	job.ErrorMessage = errorMessage
	job.CompletedAt = &completedAt
	return nil
}

func (r *MemorySyncJobRepository) GetByID(_ context.Context, jobID string) (*domain.ReviewSyncJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, domain.ErrSyncJobNotFound
	}
	clone := *job
	return &clone, nil
}

func (r *MemorySyncJobRepository) ListBySource(_ context.Context, sourceID string, limit int) ([]*domain.ReviewSyncJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ReviewSyncJob
	for _, job := range r.jobs {
		if job.SourceID != sourceID {
			continue
		}
		clone := *job
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MemoryResponseRepository implements domain.ReviewResponseRepository.
type MemoryResponseRepository struct {
	mu        sync.Mutex
	responses map[string]*domain.ReviewResponse // keyed by response ID
	byKey     map[string]string                 // idempotency key -> response ID
}

func NewMemoryResponseRepository() *MemoryResponseRepository {
	return &MemoryResponseRepository{
		responses: make(map[string]*domain.ReviewResponse),
		byKey:     make(map[string]string),
	}
}

func (r *MemoryResponseRepository) CreateDraft(_ context.Context, response *domain.ReviewResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[response.IdempotencyKey]; ok {
		return domain.ErrResponseAlreadyPublished
	}
	clone := *response
	r.responses[response.ID] = &clone
	r.byKey[response.IdempotencyKey] = response.ID
	return nil
}

func (r *MemoryResponseRepository) Update(_ context.Context, response *domain.ReviewResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.responses[response.ID]; !ok {
		return domain.ErrResponseNotFound
	}
	clone := *response
	r.responses[response.ID] = &clone
	return nil
}

func (r *MemoryResponseRepository) GetByID(_ context.Context, id string) (*domain.ReviewResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	response, ok := r.responses[id]
	if !ok {
		return nil, domain.ErrResponseNotFound
	}
	clone := *response
	return &clone, nil
}

func (r *MemoryResponseRepository) GetByIdempotencyKey(_ context.Context, key string) (*domain.ReviewResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byKey[key]
	if !ok {
		return nil, domain.ErrResponseNotFound
	}
	clone := *r.responses[id]
	return &clone, nil
}

func (r *MemoryResponseRepository) Publish(_ context.Context, idempotencyKey, finalText string, publishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byKey[idempotencyKey]
	if !ok {
		return domain.ErrResponseNotFound
	}
	response := r.responses[id]
	if response.Status == domain.ResponseStatusPublished {
		return domain.ErrResponseAlreadyPublished
	}
	response.Status = domain.ResponseStatusPublished
	response.FinalText = finalText
	response.PublishedAt = &publishedAt
	response.UpdatedAt = publishedAt
	return nil
}

// MemorySentimentRepository implements domain.ReviewSentimentRepository.
type MemorySentimentRepository struct {
	mu         sync.Mutex
	sentiments map[string]*domain.ReviewSentiment // keyed by review ID
}

func NewMemorySentimentRepository() *MemorySentimentRepository {
	return &MemorySentimentRepository{sentiments: make(map[string]*domain.ReviewSentiment)}
}

func (r *MemorySentimentRepository) Upsert(_ context.Context, sentiment *domain.ReviewSentiment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *sentiment
	r.sentiments[sentiment.ReviewID] = &clone
	return nil
}

func (r *MemorySentimentRepository) GetByReviewID(_ context.Context, reviewID string) (*domain.ReviewSentiment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sentiment, ok := r.sentiments[reviewID]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	clone := *sentiment
	return &clone, nil
}

// MemoryNotificationRepository implements domain.NotificationRepository.
type MemoryNotificationRepository struct {
	mu            sync.Mutex
	notifications []*domain.Notification
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{}
}

func (r *MemoryNotificationRepository) Create(_ context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *notification
	r.notifications = append(r.notifications, &clone)
	return nil
}

func (r *MemoryNotificationRepository) ListByProfile(_ context.Context, profileID string, limit int) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].ProfileID != profileID {
			continue
		}
		clone := *r.notifications[i]
		out = append(out, &clone)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Count returns the number of stored notifications.
func (r *MemoryNotificationRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notifications)
}
