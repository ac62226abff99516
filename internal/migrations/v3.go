package migrations

import (
	"context"
	"fmt"
)

// V3Migration adds the notifications table for low-rating alerts.
type V3Migration struct{}

func (m *V3Migration) GetMajorVersion() float64 {
	return 3.0
}

func (m *V3Migration) Update(ctx context.Context, db DBExecutor) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS notifications (
			id VARCHAR(32) PRIMARY KEY,
			profile_id VARCHAR(32) NOT NULL REFERENCES business_profiles(id),
			kind VARCHAR(32) NOT NULL,
			review_id VARCHAR(32) NOT NULL REFERENCES reviews(id),
			channels JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create notifications table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_notifications_profile_created
		ON notifications (profile_id, created_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("failed to create notifications index: %w", err)
	}

	return nil
}

func init() {
	Register(&V3Migration{})
}
