package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/localpulse/localpulse/internal/domain"
)

type reviewSentimentRepository struct {
	db *sql.DB
}

// NewReviewSentimentRepository creates a Postgres-backed sentiment repository.
func NewReviewSentimentRepository(db *sql.DB) domain.ReviewSentimentRepository {
	return &reviewSentimentRepository{db: db}
}

func (r *reviewSentimentRepository) Upsert(ctx context.Context, sentiment *domain.ReviewSentiment) error {
	sentiment.UpdatedAt = time.Now().UTC()

	query, args, err := psql.Insert("review_sentiments").
		Columns("review_id", "label", "score", "themes", "updated_at").
		Values(sentiment.ReviewID, sentiment.Label, sentiment.Score, sentiment.Themes, sentiment.UpdatedAt).
		Suffix(`
			ON CONFLICT (review_id) DO UPDATE SET
				label = EXCLUDED.label,
				score = EXCLUDED.score,
				themes = EXCLUDED.themes,
				updated_at = EXCLUDED.updated_at
		`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert sentiment: %w", err)
	}
	return nil
}

func (r *reviewSentimentRepository) GetByReviewID(ctx context.Context, reviewID string) (*domain.ReviewSentiment, error) {
	query, args, err := psql.Select("review_id", "label", "score", "themes", "updated_at").
		From("review_sentiments").
		Where(sq.Eq{"review_id": reviewID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var s domain.ReviewSentiment
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.ReviewID, &s.Label, &s.Score, &s.Themes, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sentiment: %w", err)
	}
	return &s, nil
}
