package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/localpulse/localpulse/internal/domain"
)

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a Postgres-backed notification repository.
func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	notification.CreatedAt = time.Now().UTC()

	query, args, err := psql.Insert("notifications").
		Columns("id", "profile_id", "kind", "review_id", "channels", "created_at").
		Values(
			notification.ID, notification.ProfileID, notification.Kind,
			notification.ReviewID, notification.Channels, notification.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListByProfile(ctx context.Context, profileID string, limit int) ([]*domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query, args, err := psql.Select("id", "profile_id", "kind", "review_id", "channels", "created_at").
		From("notifications").
		Where(sq.Eq{"profile_id": profileID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.ProfileID, &n.Kind, &n.ReviewID, &n.Channels, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}
