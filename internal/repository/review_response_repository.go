package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/localpulse/localpulse/internal/domain"
)

type reviewResponseRepository struct {
	db *sql.DB
}

// NewReviewResponseRepository creates a Postgres-backed response repository.
func NewReviewResponseRepository(db *sql.DB) domain.ReviewResponseRepository {
	return &reviewResponseRepository{db: db}
}

var responseColumns = []string{
	"id", "review_id", "tone", "draft_text", "edited_text", "final_text",
	"idempotency_key", "status", "created_at", "updated_at", "published_at",
}

func scanResponse(row sq.RowScanner) (*domain.ReviewResponse, error) {
	var resp domain.ReviewResponse
	err := row.Scan(
		&resp.ID, &resp.ReviewID, &resp.Tone, &resp.DraftText, &resp.EditedText,
		&resp.FinalText, &resp.IdempotencyKey, &resp.Status,
		&resp.CreatedAt, &resp.UpdatedAt, &resp.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *reviewResponseRepository) CreateDraft(ctx context.Context, response *domain.ReviewResponse) error {
	now := time.Now().UTC()
	response.CreatedAt = now
	response.UpdatedAt = now
	response.Status = domain.ResponseStatusDraft

	query, args, err := psql.Insert("review_responses").
		Columns(responseColumns...).
		Values(
			response.ID, response.ReviewID, response.Tone, response.DraftText,
			response.EditedText, response.FinalText, response.IdempotencyKey,
			response.Status, response.CreatedAt, response.UpdatedAt, response.PublishedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrResponseAlreadyPublished
		}
		return fmt.Errorf("failed to create response draft: %w", err)
	}
	return nil
}

func (r *reviewResponseRepository) Update(ctx context.Context, response *domain.ReviewResponse) error {
	response.UpdatedAt = time.Now().UTC()

	query, args, err := psql.Update("review_responses").
		Set("tone", response.Tone).
		Set("draft_text", response.DraftText).
		Set("edited_text", response.EditedText).
		Set("updated_at", response.UpdatedAt).
		Where(sq.Eq{"id": response.ID, "status": domain.ResponseStatusDraft}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update response: %w", err)
	}
	return checkRowsAffected(result, domain.ErrResponseNotFound)
}

func (r *reviewResponseRepository) GetByID(ctx context.Context, id string) (*domain.ReviewResponse, error) {
	return r.getBy(ctx, sq.Eq{"id": id})
}

func (r *reviewResponseRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.ReviewResponse, error) {
	return r.getBy(ctx, sq.Eq{"idempotency_key": key})
}

func (r *reviewResponseRepository) getBy(ctx context.Context, where sq.Eq) (*domain.ReviewResponse, error) {
	query, args, err := psql.Select(responseColumns...).
		From("review_responses").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	response, err := scanResponse(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, domain.ErrResponseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get response: %w", err)
	}
	return response, nil
}

// Publish atomically flips a draft to published. The status guard in the
// WHERE clause makes a second publish with the same idempotency key match
// zero rows, which is then reported as a conflict.
func (r *reviewResponseRepository) Publish(ctx context.Context, idempotencyKey, finalText string, publishedAt time.Time) error {
	query, args, err := psql.Update("review_responses").
		Set("status", domain.ResponseStatusPublished).
		Set("final_text", finalText).
		Set("published_at", publishedAt).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{
			"idempotency_key": idempotencyKey,
			"status":          domain.ResponseStatusDraft,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build publish query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to publish response: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	existing, err := r.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return err
	}
	if existing.Status == domain.ResponseStatusPublished {
		return domain.ErrResponseAlreadyPublished
	}
	return domain.ErrResponseNotFound
}
