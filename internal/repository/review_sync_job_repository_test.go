package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/domain"
)

func TestReviewSyncJobRepository_CloseSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewSyncJobRepository(db)

	mock.ExpectExec("UPDATE review_sync_jobs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.CloseSuccess(context.Background(), "job-1", 12, 3, time.Now().UTC())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewSyncJobRepository_CloseSuccess_TerminalJobUntouched(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewSyncJobRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE review_sync_jobs").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM review_sync_jobs").
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows(syncJobColumns).
			AddRow("job-1", "src-1", "failed", 0, 0, "provider_error", "boom", now, now, now))

	err = repo.CloseSuccess(context.Background(), "job-1", 12, 3, now)
	assert.ErrorIs(t, err, domain.ErrSyncJobTerminal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewSyncJobRepository_CloseFailed_MissingJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewSyncJobRepository(db)

	mock.ExpectExec("UPDATE review_sync_jobs").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM review_sync_jobs").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(syncJobColumns))

	err = repo.CloseFailed(context.Background(), "missing", domain.SyncErrorProviderError, "boom", time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrSyncJobNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewSyncJobRepository_MarkRunning(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewSyncJobRepository(db)

	mock.ExpectExec("UPDATE review_sync_jobs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.MarkRunning(context.Background(), "job-1", time.Now().UTC())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewSyncJobRepository_ListBySource(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewSyncJobRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM review_sync_jobs").
		WithArgs("src-1").
		WillReturnRows(sqlmock.NewRows(syncJobColumns).
			AddRow("job-2", "src-1", "success", 5, 2, "", "", now, now, now).
			AddRow("job-1", "src-1", "failed", 0, 0, "auth_expired", "token refresh failed", now, now, now))

	jobs, err := repo.ListBySource(context.Background(), "src-1", 0)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, domain.SyncJobStatusSuccess, jobs[0].Status)
	assert.True(t, jobs[1].IsTerminal())
	assert.NoError(t, mock.ExpectationsWereMet())
}
