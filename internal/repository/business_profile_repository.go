package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/localpulse/localpulse/internal/domain"
)

type businessProfileRepository struct {
	db *sql.DB
}

// NewBusinessProfileRepository creates a Postgres-backed profile repository.
func NewBusinessProfileRepository(db *sql.DB) domain.BusinessProfileRepository {
	return &businessProfileRepository{db: db}
}

var profileColumns = []string{
	"id", "name", "category", "address", "city", "state", "postcode",
	"latitude", "longitude", "notifications", "created_at", "updated_at",
}

func scanProfile(row sq.RowScanner) (*domain.BusinessProfile, error) {
	var p domain.BusinessProfile
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Address, &p.City, &p.State, &p.Postcode,
		&p.Latitude, &p.Longitude, &p.Notifications, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *businessProfileRepository) Create(ctx context.Context, profile *domain.BusinessProfile) error {
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query, args, err := psql.Insert("business_profiles").
		Columns(profileColumns...).
		Values(
			profile.ID, profile.Name, profile.Category, profile.Address,
			profile.City, profile.State, profile.Postcode,
			profile.Latitude, profile.Longitude, profile.Notifications,
			profile.CreatedAt, profile.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create business profile: %w", err)
	}
	return nil
}

func (r *businessProfileRepository) GetByID(ctx context.Context, id string) (*domain.BusinessProfile, error) {
	query, args, err := psql.Select(profileColumns...).
		From("business_profiles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business profile: %w", err)
	}
	return profile, nil
}

func (r *businessProfileRepository) Update(ctx context.Context, profile *domain.BusinessProfile) error {
	profile.UpdatedAt = time.Now().UTC()

	query, args, err := psql.Update("business_profiles").
		Set("name", profile.Name).
		Set("category", profile.Category).
		Set("address", profile.Address).
		Set("city", profile.City).
		Set("state", profile.State).
		Set("postcode", profile.Postcode).
		Set("latitude", profile.Latitude).
		Set("longitude", profile.Longitude).
		Set("notifications", profile.Notifications).
		Set("updated_at", profile.UpdatedAt).
		Where(sq.Eq{"id": profile.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update business profile: %w", err)
	}
	return checkRowsAffected(result, domain.ErrProfileNotFound)
}

func (r *businessProfileRepository) List(ctx context.Context) ([]*domain.BusinessProfile, error) {
	query, args, err := psql.Select(profileColumns...).
		From("business_profiles").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list business profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.BusinessProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}
