package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/localpulse/localpulse/internal/domain"
)

type reviewSourceRepository struct {
	db *sql.DB
}

// NewReviewSourceRepository creates a Postgres-backed review source repository.
func NewReviewSourceRepository(db *sql.DB) domain.ReviewSourceRepository {
	return &reviewSourceRepository{db: db}
}

var reviewSourceColumns = []string{
	"id", "profile_id", "provider", "status", "external_account_id",
	"encrypted_access_token", "encrypted_refresh_token", "token_expires_at",
	"last_synced_at", "last_error", "last_error_type", "consec_errors",
	"created_at", "updated_at",
}

func scanReviewSource(row sq.RowScanner) (*domain.ReviewSource, error) {
	var s domain.ReviewSource
	err := row.Scan(
		&s.ID, &s.ProfileID, &s.Provider, &s.Status, &s.ExternalAccountID,
		&s.EncryptedAccessToken, &s.EncryptedRefreshToken, &s.TokenExpiresAt,
		&s.LastSyncedAt, &s.LastError, &s.LastErrorType, &s.ConsecErrors,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *reviewSourceRepository) Create(ctx context.Context, source *domain.ReviewSource) error {
	now := time.Now().UTC()
	source.CreatedAt = now
	source.UpdatedAt = now

	query, args, err := psql.Insert("review_sources").
		Columns(reviewSourceColumns...).
		Values(
			source.ID, source.ProfileID, source.Provider, source.Status,
			source.ExternalAccountID, source.EncryptedAccessToken,
			source.EncryptedRefreshToken, source.TokenExpiresAt,
			source.LastSyncedAt, source.LastError, source.LastErrorType,
			source.ConsecErrors, source.CreatedAt, source.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("source already exists for this profile and provider: %w", err)
		}
		return fmt.Errorf("failed to create review source: %w", err)
	}
	return nil
}

func (r *reviewSourceRepository) GetByID(ctx context.Context, id string) (*domain.ReviewSource, error) {
	query, args, err := psql.Select(reviewSourceColumns...).
		From("review_sources").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	source, err := scanReviewSource(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, domain.ErrSourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review source: %w", err)
	}
	return source, nil
}

func (r *reviewSourceRepository) ListByProfile(ctx context.Context, profileID string) ([]*domain.ReviewSource, error) {
	return r.list(ctx, sq.Eq{"profile_id": profileID})
}

func (r *reviewSourceRepository) ListConnectedByProfile(ctx context.Context, profileID string) ([]*domain.ReviewSource, error) {
	return r.list(ctx, sq.Eq{"profile_id": profileID, "status": domain.SourceStatusConnected})
}

func (r *reviewSourceRepository) ListExpiringTokens(ctx context.Context, cutoff time.Time) ([]*domain.ReviewSource, error) {
	return r.list(ctx, sq.And{
		sq.Eq{"status": domain.SourceStatusConnected},
		sq.NotEq{"token_expires_at": nil},
		sq.Lt{"token_expires_at": cutoff},
	})
}

func (r *reviewSourceRepository) list(ctx context.Context, where interface{}) ([]*domain.ReviewSource, error) {
	query, args, err := psql.Select(reviewSourceColumns...).
		From("review_sources").
		Where(where).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list review sources: %w", err)
	}
	defer rows.Close()

	var sources []*domain.ReviewSource
	for rows.Next() {
		source, err := scanReviewSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review source: %w", err)
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

func (r *reviewSourceRepository) Update(ctx context.Context, source *domain.ReviewSource) error {
	source.UpdatedAt = time.Now().UTC()

	query, args, err := psql.Update("review_sources").
		Set("status", source.Status).
		Set("external_account_id", source.ExternalAccountID).
		Set("encrypted_access_token", source.EncryptedAccessToken).
		Set("encrypted_refresh_token", source.EncryptedRefreshToken).
		Set("token_expires_at", source.TokenExpiresAt).
		Set("last_error", source.LastError).
		Set("last_error_type", source.LastErrorType).
		Set("consec_errors", source.ConsecErrors).
		Set("updated_at", source.UpdatedAt).
		Where(sq.Eq{"id": source.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update review source: %w", err)
	}
	return checkRowsAffected(result, domain.ErrSourceNotFound)
}

func (r *reviewSourceRepository) UpdateTokens(ctx context.Context, sourceID, encryptedAccessToken, encryptedRefreshToken string, expiresAt *time.Time) error {
	query, args, err := psql.Update("review_sources").
		Set("encrypted_access_token", encryptedAccessToken).
		Set("encrypted_refresh_token", encryptedRefreshToken).
		Set("token_expires_at", expiresAt).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": sourceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update tokens: %w", err)
	}
	return checkRowsAffected(result, domain.ErrSourceNotFound)
}

func (r *reviewSourceRepository) MarkSynced(ctx context.Context, sourceID string, syncedAt time.Time) error {
	query, args, err := psql.Update("review_sources").
		Set("last_synced_at", syncedAt).
		Set("last_error", nil).
		Set("last_error_type", "").
		Set("consec_errors", 0).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": sourceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to mark source synced: %w", err)
	}
	return checkRowsAffected(result, domain.ErrSourceNotFound)
}

func (r *reviewSourceRepository) RecordError(ctx context.Context, sourceID, errMsg, errType string) error {
	query, args, err := psql.Update("review_sources").
		Set("last_error", errMsg).
		Set("last_error_type", errType).
		Set("consec_errors", sq.Expr("consec_errors + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": sourceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to record source error: %w", err)
	}
	return checkRowsAffected(result, domain.ErrSourceNotFound)
}

// checkRowsAffected converts a zero-row update into the given not-found error.
func checkRowsAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
