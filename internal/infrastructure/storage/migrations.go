package storage

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database schema migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up:      migration001InitialSchema,
	},
	{
		Version: 2,
		Name:    "add_breakdown_indexes",
		Up:      migration002AddBreakdownIndexes,
	},
	{
		Version: 3,
		Name:    "backfill_empty_attributes",
		Up:      migration003BackfillEmptyAttributes,
	},
}

// runMigrations executes all pending migrations
func (s *Storage) runMigrations() error {
	// Ensure migrations table exists
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Get applied migrations
	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	// Run pending migrations
	for _, migration := range allMigrations {
		if applied[migration.Version] {
			continue // Already applied
		}

		log.Printf("Running migration %d: %s", migration.Version, migration.Name)

		// Run migration in transaction
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		// Execute migration
		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		// Record migration
		_, err = tx.Exec(`
			INSERT INTO schema_migrations (version, name) VALUES (?, ?)
		`, migration.Version, migration.Name)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		// Commit
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		log.Printf("Migration %d complete", migration.Version)
	}

	return nil
}

// ensureMigrationsTable creates the schema_migrations table
func (s *Storage) ensureMigrationsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	_, err := s.db.Exec(query)
	return err
}

// getAppliedMigrations returns a set of applied migration versions
func (s *Storage) getAppliedMigrations() (map[int]bool, error) {
	applied := make(map[int]bool)

	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// ================================================================
// MIGRATION FUNCTIONS
// ================================================================

// migration001InitialSchema creates the ingest_runs and purchases tables.
// ingest_runs comes first so purchases can reference it.
func migration001InitialSchema(db *sql.Tx) error {
	queries := []string{
		// Ingest run tracking
		`CREATE TABLE IF NOT EXISTS ingest_runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			source_info TEXT DEFAULT '',
			started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			completed_at TIMESTAMP,
			rows_loaded INTEGER DEFAULT 0,
			rows_skipped INTEGER DEFAULT 0,
			status TEXT DEFAULT 'running',
			error_text TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_ingest_runs_started
		 ON ingest_runs(started_at DESC)`,

		// Purchase rows; purchase_date is stored as RFC3339 UTC text
		`CREATE TABLE IF NOT EXISTS purchases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id TEXT NOT NULL,
			amount REAL NOT NULL,
			purchase_date TEXT NOT NULL,
			region TEXT DEFAULT '',
			category TEXT DEFAULT '',
			gender TEXT DEFAULT '',
			age INTEGER DEFAULT 0,
			payment_method TEXT DEFAULT '',
			run_id TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (run_id) REFERENCES ingest_runs(id)
		)`,

		// Indexes for common queries
		`CREATE INDEX IF NOT EXISTS idx_purchases_customer_id
		 ON purchases(customer_id)`,

		`CREATE INDEX IF NOT EXISTS idx_purchases_date
		 ON purchases(purchase_date)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// migration002AddBreakdownIndexes adds indexes for the attribute breakdown queries
func migration002AddBreakdownIndexes(db *sql.Tx) error {
	queries := []string{
		`CREATE INDEX IF NOT EXISTS idx_purchases_region
		 ON purchases(region)`,

		`CREATE INDEX IF NOT EXISTS idx_purchases_category
		 ON purchases(category)`,

		`CREATE INDEX IF NOT EXISTS idx_purchases_run_id
		 ON purchases(run_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// migration003BackfillEmptyAttributes converts NULL attribute values to empty
// strings so the Go code can scan these columns without sql.NullString.
// run_id, completed_at and error_text are intentionally left nullable since
// NULL has meaning there.
func migration003BackfillEmptyAttributes(db *sql.Tx) error {
	queries := []string{
		`UPDATE purchases SET region = '' WHERE region IS NULL`,
		`UPDATE purchases SET category = '' WHERE category IS NULL`,
		`UPDATE purchases SET gender = '' WHERE gender IS NULL`,
		`UPDATE purchases SET payment_method = '' WHERE payment_method IS NULL`,
		`UPDATE purchases SET age = 0 WHERE age IS NULL`,

		`UPDATE ingest_runs SET source_info = '' WHERE source_info IS NULL`,
		`UPDATE ingest_runs SET rows_loaded = 0 WHERE rows_loaded IS NULL`,
		`UPDATE ingest_runs SET rows_skipped = 0 WHERE rows_skipped IS NULL`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("backfill query failed: %w", err)
		}
	}

	return nil
}
