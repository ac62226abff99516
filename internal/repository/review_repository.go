package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/localpulse/localpulse/internal/domain"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a Postgres-backed review repository.
func NewReviewRepository(db *sql.DB) domain.ReviewRepository {
	return &reviewRepository{db: db}
}

var reviewColumns = []string{
	"id", "source_id", "profile_id", "provider", "external_id",
	"author_name", "rating", "content", "reviewed_at", "reply_status",
	"created_at", "updated_at",
}

func scanReview(row sq.RowScanner) (*domain.Review, error) {
	var rv domain.Review
	err := row.Scan(
		&rv.ID, &rv.SourceID, &rv.ProfileID, &rv.Provider, &rv.ExternalID,
		&rv.AuthorName, &rv.Rating, &rv.Content, &rv.ReviewedAt, &rv.ReplyStatus,
		&rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// Upsert inserts or updates a review keyed by (source_id, external_id).
// The xmax = 0 check distinguishes a fresh insert from a conflict update;
// the notification rule depends on that distinction.
func (r *reviewRepository) Upsert(ctx context.Context, review *domain.Review) (*domain.UpsertResult, error) {
	now := time.Now().UTC()

	query, args, err := psql.Insert("reviews").
		Columns(reviewColumns...).
		Values(
			review.ID, review.SourceID, review.ProfileID, review.Provider,
			review.ExternalID, review.AuthorName, review.Rating, review.Content,
			review.ReviewedAt, review.ReplyStatus, now, now,
		).
		Suffix(`
			ON CONFLICT (source_id, external_id) DO UPDATE SET
				author_name = EXCLUDED.author_name,
				rating = EXCLUDED.rating,
				content = EXCLUDED.content,
				reviewed_at = EXCLUDED.reviewed_at,
				updated_at = EXCLUDED.updated_at
			RETURNING id, (xmax = 0) AS inserted
		`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build upsert query: %w", err)
	}

	var id string
	var inserted bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id, &inserted); err != nil {
		return nil, fmt.Errorf("failed to upsert review: %w", err)
	}

	// The stored row keeps its original id on conflict updates.
	review.ID = id

	return &domain.UpsertResult{Review: review, Inserted: inserted}, nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query, args, err := psql.Select(reviewColumns...).
		From("reviews").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	review, err := scanReview(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, domain.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

func (r *reviewRepository) List(ctx context.Context, filter domain.ReviewFilter) ([]*domain.Review, int, error) {
	where := sq.And{}
	if filter.ProfileID != "" {
		where = append(where, sq.Eq{"profile_id": filter.ProfileID})
	}
	if filter.SourceID != "" {
		where = append(where, sq.Eq{"source_id": filter.SourceID})
	}
	if filter.MinRating > 0 {
		where = append(where, sq.GtOrEq{"rating": filter.MinRating})
	}
	if filter.MaxRating > 0 {
		where = append(where, sq.LtOrEq{"rating": filter.MaxRating})
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").
		From("reviews").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	builder := psql.Select(reviewColumns...).
		From("reviews").
		Where(where).
		OrderBy("reviewed_at DESC").
		Limit(uint64(limit))
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, total, rows.Err()
}

func (r *reviewRepository) UpdateReplyStatus(ctx context.Context, reviewID, replyStatus string) error {
	query, args, err := psql.Update("reviews").
		Set("reply_status", replyStatus).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": reviewID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update reply status: %w", err)
	}
	return checkRowsAffected(result, domain.ErrReviewNotFound)
}
