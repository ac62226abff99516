package migrations

import (
	"context"
	"fmt"
)

// V1Migration creates the core tables: business profiles, review sources and
// reviews.
//
// Key constraints:
// - review_sources: one row per (profile_id, provider)
// - reviews: unique (source_id, external_id) backing the idempotent upsert
type V1Migration struct{}

func (m *V1Migration) GetMajorVersion() float64 {
	return 1.0
}

func (m *V1Migration) Update(ctx context.Context, db DBExecutor) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS business_profiles (
			id VARCHAR(32) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(64) NOT NULL,
			address VARCHAR(255) NOT NULL DEFAULT '',
			city VARCHAR(128) NOT NULL DEFAULT '',
			state VARCHAR(64) NOT NULL DEFAULT '',
			postcode VARCHAR(32) NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			notifications JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create business_profiles table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS review_sources (
			id VARCHAR(32) PRIMARY KEY,
			profile_id VARCHAR(32) NOT NULL REFERENCES business_profiles(id),
			provider VARCHAR(32) NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'pending',
			external_account_id VARCHAR(255) NOT NULL DEFAULT '',
			encrypted_access_token TEXT NOT NULL DEFAULT '',
			encrypted_refresh_token TEXT NOT NULL DEFAULT '',
			token_expires_at TIMESTAMPTZ DEFAULT NULL,
			last_synced_at TIMESTAMPTZ DEFAULT NULL,
			last_error TEXT DEFAULT NULL,
			last_error_type VARCHAR(16) NOT NULL DEFAULT '',
			consec_errors INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (profile_id, provider)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create review_sources table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS reviews (
			id VARCHAR(32) PRIMARY KEY,
			source_id VARCHAR(32) NOT NULL REFERENCES review_sources(id),
			profile_id VARCHAR(32) NOT NULL REFERENCES business_profiles(id),
			provider VARCHAR(32) NOT NULL,
			external_id VARCHAR(255) NOT NULL,
			author_name VARCHAR(255) NOT NULL DEFAULT '',
			rating INTEGER NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			reviewed_at TIMESTAMPTZ NOT NULL,
			reply_status VARCHAR(16) NOT NULL DEFAULT 'none',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (source_id, external_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create reviews table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_reviews_profile_reviewed
		ON reviews (profile_id, reviewed_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("failed to create reviews index: %w", err)
	}

	return nil
}

func init() {
	Register(&V1Migration{})
}
