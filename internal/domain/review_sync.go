package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_review_sync_job_repository.go -package mocks github.com/localpulse/localpulse/internal/domain ReviewSyncJobRepository

// Sync job statuses. queued and running are open; success and failed are
// terminal and must never be overwritten.
const (
	SyncJobStatusQueued  = "queued"
	SyncJobStatusRunning = "running"
	SyncJobStatusSuccess = "success"
	SyncJobStatusFailed  = "failed"
)

// Error codes recorded on failed sync jobs.
const (
	SyncErrorAuthExpired   = "auth_expired"
	SyncErrorProviderError = "provider_error"
	SyncErrorStorageError  = "storage_error"
)

var (
	// ErrSyncJobNotFound is returned when a sync job does not exist.
	ErrSyncJobNotFound = errors.New("sync job not found")

	// ErrSyncJobTerminal is returned when attempting to close a job that has
	// already reached a terminal state.
	ErrSyncJobTerminal = errors.New("sync job already in terminal state")
)

// ReviewSyncJob is one sync attempt for one source.
type ReviewSyncJob struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	Status   string `json:"status"`

	FetchedCount  int `json:"fetched_count"`
	UpsertedCount int `json:"upserted_count"`

	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IsTerminal reports whether the job reached a final state.
func (j *ReviewSyncJob) IsTerminal() bool {
	return j.Status == SyncJobStatusSuccess || j.Status == SyncJobStatusFailed
}

// Validate validates the sync job
func (j *ReviewSyncJob) Validate() error {
	if j.SourceID == "" {
		return fmt.Errorf("source id is required")
	}
	switch j.Status {
	case SyncJobStatusQueued, SyncJobStatusRunning, SyncJobStatusSuccess, SyncJobStatusFailed:
	default:
		return fmt.Errorf("invalid status: %s", j.Status)
	}
	return nil
}

// SourceSyncResult is the per-source outcome of one sync call.
type SourceSyncResult struct {
	SourceID string `json:"source_id"`
	Provider string `json:"provider"`
	JobID    string `json:"job_id"`
	Status   string `json:"status"`

	FetchedCount  int    `json:"fetched_count"`
	UpsertedCount int    `json:"upserted_count"`
	ErrorCode     string `json:"error_code,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

// SyncSummary aggregates per-source results for the caller.
type SyncSummary struct {
	Results       []SourceSyncResult `json:"results"`
	TotalFetched  int                `json:"total_fetched"`
	TotalUpserted int                `json:"total_upserted"`
}

// ReviewSyncJobRepository persists sync job lifecycle state.
type ReviewSyncJobRepository interface {
	Create(ctx context.Context, job *ReviewSyncJob) error
	MarkRunning(ctx context.Context, jobID string, startedAt time.Time) error

	// CloseSuccess and CloseFailed only affect jobs still in an open state;
	// they return ErrSyncJobTerminal when the job already finished.
	CloseSuccess(ctx context.Context, jobID string, fetched, upserted int, completedAt time.Time) error
	CloseFailed(ctx context.Context, jobID, errorCode, errorMessage string, completedAt time.Time) error

	GetByID(ctx context.Context, jobID string) (*ReviewSyncJob, error)
	ListBySource(ctx context.Context, sourceID string, limit int) ([]*ReviewSyncJob, error)
}
