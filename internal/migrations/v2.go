package migrations

import (
	"context"
	"fmt"
)

// V2Migration creates the sync job, review response and sentiment tables.
//
// The unique index on review_responses.idempotency_key backs the
// publish-at-most-once guarantee.
type V2Migration struct{}

func (m *V2Migration) GetMajorVersion() float64 {
	return 2.0
}

func (m *V2Migration) Update(ctx context.Context, db DBExecutor) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS review_sync_jobs (
			id VARCHAR(32) PRIMARY KEY,
			source_id VARCHAR(32) NOT NULL REFERENCES review_sources(id),
			status VARCHAR(16) NOT NULL DEFAULT 'queued',
			fetched_count INTEGER NOT NULL DEFAULT 0,
			upserted_count INTEGER NOT NULL DEFAULT 0,
			error_code VARCHAR(32) NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			started_at TIMESTAMPTZ DEFAULT NULL,
			completed_at TIMESTAMPTZ DEFAULT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create review_sync_jobs table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_sync_jobs_source_created
		ON review_sync_jobs (source_id, created_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("failed to create sync jobs index: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS review_responses (
			id VARCHAR(32) PRIMARY KEY,
			review_id VARCHAR(32) NOT NULL REFERENCES reviews(id),
			tone VARCHAR(16) NOT NULL,
			draft_text TEXT NOT NULL DEFAULT '',
			edited_text TEXT NOT NULL DEFAULT '',
			final_text TEXT NOT NULL DEFAULT '',
			idempotency_key VARCHAR(64) NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'draft',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			published_at TIMESTAMPTZ DEFAULT NULL,
			UNIQUE (idempotency_key)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create review_responses table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS review_sentiments (
			review_id VARCHAR(32) PRIMARY KEY REFERENCES reviews(id),
			label VARCHAR(16) NOT NULL,
			score DOUBLE PRECISION NOT NULL DEFAULT 0,
			themes JSONB NOT NULL DEFAULT '[]',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create review_sentiments table: %w", err)
	}

	return nil
}

func init() {
	Register(&V2Migration{})
}
