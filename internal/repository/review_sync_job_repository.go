package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/localpulse/localpulse/internal/domain"
)

type reviewSyncJobRepository struct {
	db *sql.DB
}

// NewReviewSyncJobRepository creates a Postgres-backed sync job repository.
func NewReviewSyncJobRepository(db *sql.DB) domain.ReviewSyncJobRepository {
	return &reviewSyncJobRepository{db: db}
}

var syncJobColumns = []string{
	"id", "source_id", "status", "fetched_count", "upserted_count",
	"error_code", "error_message", "created_at", "started_at", "completed_at",
}

func scanSyncJob(row sq.RowScanner) (*domain.ReviewSyncJob, error) {
	var j domain.ReviewSyncJob
	err := row.Scan(
		&j.ID, &j.SourceID, &j.Status, &j.FetchedCount, &j.UpsertedCount,
		&j.ErrorCode, &j.ErrorMessage, &j.CreatedAt, &j.StartedAt, &j.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *reviewSyncJobRepository) Create(ctx context.Context, job *domain.ReviewSyncJob) error {
	job.CreatedAt = time.Now().UTC()

	query, args, err := psql.Insert("review_sync_jobs").
		Columns(syncJobColumns...).
		Values(
			job.ID, job.SourceID, job.Status, job.FetchedCount, job.UpsertedCount,
			job.ErrorCode, job.ErrorMessage, job.CreatedAt, job.StartedAt, job.CompletedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create sync job: %w", err)
	}
	return nil
}

func (r *reviewSyncJobRepository) MarkRunning(ctx context.Context, jobID string, startedAt time.Time) error {
	query, args, err := psql.Update("review_sync_jobs").
		Set("status", domain.SyncJobStatusRunning).
		Set("started_at", startedAt).
		Where(sq.Eq{"id": jobID, "status": domain.SyncJobStatusQueued}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}
	return r.checkClosed(ctx, result, jobID)
}

// CloseSuccess closes an open job as success. Jobs in a terminal state are
// never overwritten.
func (r *reviewSyncJobRepository) CloseSuccess(ctx context.Context, jobID string, fetched, upserted int, completedAt time.Time) error {
	query, args, err := psql.Update("review_sync_jobs").
		Set("status", domain.SyncJobStatusSuccess).
		Set("fetched_count", fetched).
		Set("upserted_count", upserted).
		Set("completed_at", completedAt).
		Where(sq.Eq{
			"id":     jobID,
			"status": []string{domain.SyncJobStatusQueued, domain.SyncJobStatusRunning},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to close job as success: %w", err)
	}
	return r.checkClosed(ctx, result, jobID)
}

// CloseFailed closes an open job as failed with an error code and message.
func (r *reviewSyncJobRepository) CloseFailed(ctx context.Context, jobID, errorCode, errorMessage string, completedAt time.Time) error {
	query, args, err := psql.Update("review_sync_jobs").
		Set("status", domain.SyncJobStatusFailed).
		Set("error_code", errorCode).
		Set("error_message", errorMessage).
		Set("completed_at", completedAt).
		Where(sq.Eq{
			"id":     jobID,
			"status": []string{domain.SyncJobStatusQueued, domain.SyncJobStatusRunning},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to close job as failed: %w", err)
	}
	return r.checkClosed(ctx, result, jobID)
}

// checkClosed distinguishes "job missing" from "job already terminal" when
// an update matched zero rows.
func (r *reviewSyncJobRepository) checkClosed(ctx context.Context, result sql.Result, jobID string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	job, err := r.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.IsTerminal() {
		return domain.ErrSyncJobTerminal
	}
	return domain.ErrSyncJobNotFound
}

func (r *reviewSyncJobRepository) GetByID(ctx context.Context, jobID string) (*domain.ReviewSyncJob, error) {
	query, args, err := psql.Select(syncJobColumns...).
		From("review_sync_jobs").
		Where(sq.Eq{"id": jobID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	job, err := scanSyncJob(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, domain.ErrSyncJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync job: %w", err)
	}
	return job, nil
}

func (r *reviewSyncJobRepository) ListBySource(ctx context.Context, sourceID string, limit int) ([]*domain.ReviewSyncJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query, args, err := psql.Select(syncJobColumns...).
		From("review_sync_jobs").
		Where(sq.Eq{"source_id": sourceID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.ReviewSyncJob
	for rows.Next() {
		job, err := scanSyncJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
