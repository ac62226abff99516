package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/localpulse/localpulse/pkg/logger"
)

// DBExecutor is the subset of *sql.DB / *sql.Tx used by migrations.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Migration is one versioned schema change.
type Migration interface {
	// GetMajorVersion returns the migration version; migrations run in
	// ascending version order.
	GetMajorVersion() float64

	// Update applies the schema change. Statements must be idempotent
	// (IF NOT EXISTS) so a partially applied migration can re-run.
	Update(ctx context.Context, db DBExecutor) error
}

var registry []Migration

// Register adds a migration to the registry. Called from init() in each
// migration file.
func Register(m Migration) {
	registry = append(registry, m)
}

// GetMigrations returns all registered migrations sorted by version.
func GetMigrations() []Migration {
	sorted := make([]Migration, len(registry))
	copy(sorted, registry)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].GetMajorVersion() < sorted[j].GetMajorVersion()
	})
	return sorted
}

// Run applies all migrations above the current schema version.
func Run(ctx context.Context, db *sql.DB, log logger.Logger) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version DOUBLE PRECISION NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var current float64
	row := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range GetMigrations() {
		version := m.GetMajorVersion()
		if version <= current {
			continue
		}

		log.WithField("version", version).Info("Applying migration")

		if err := m.Update(ctx, db); err != nil {
			return fmt.Errorf("migration v%g failed: %w", version, err)
		}

		if _, err := db.ExecContext(ctx, `DELETE FROM schema_version`); err != nil {
			return fmt.Errorf("failed to clear schema version: %w", err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}

	return nil
}

// resetRegistry is used by tests.
func resetRegistry() {
	registry = nil
}
