// file: internal/database/migrations.go
// version: 2.0.0
// guid: d0283779-d812-4394-b52d-36338d9cc3f6

package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/classificacaofinal/classificacao/internal/logging"
)

// MigrationFunc represents a migration operation
type MigrationFunc func(tx *sql.Tx) error

// Migration represents a single database migration
type Migration struct {
	Version     int
	Description string
	Up          MigrationFunc
}

// MigrationRecord tracks applied migrations
type MigrationRecord struct {
	Version     int       `json:"version"`
	Description string    `json:"description"`
	AppliedAt   time.Time `json:"applied_at"`
}

// migrations is the ordered list of all migrations
var migrations = []Migration{
	{
		Version:     1,
		Description: "Contests, results and result extras",
		Up:          migration001Up,
	},
	{
		Version:     2,
		Description: "Users and sessions",
		Up:          migration002Up,
	},
	{
		Version:     3,
		Description: "Lookup indexes for names, tokens and sessions",
		Up:          migration003Up,
	},
}

// RunMigrations applies all pending migrations, each in its own transaction.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at DATETIME NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	pending := []Migration{}
	for _, m := range migrations {
		if m.Version > currentVersion {
			pending = append(pending, m)
		}
	}
	if len(pending) == 0 {
		logging.Log.Debugf("Database is up to date (version %d)", currentVersion)
		return nil
	}

	logging.Log.Infof("Applying %d migrations from version %d", len(pending), currentVersion)
	for _, m := range pending {
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
		logging.Log.WithField("version", m.Version).Infof("Migration applied: %s", m.Description)
	}
	return nil
}

func applyMigration(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := m.Up(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
		m.Version, m.Description, time.Now().UTC(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit()
}

// getCurrentVersion retrieves the current schema version
func getCurrentVersion(db *sql.DB) (int, error) {
	var version sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, err
	}
	return int(version.Int64), nil
}

// AppliedMigrations lists the migrations recorded in the database.
func AppliedMigrations(db *sql.DB) ([]MigrationRecord, error) {
	rows, err := db.Query("SELECT version, description, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []MigrationRecord
	for rows.Next() {
		var r MigrationRecord
		if err := rows.Scan(&r.Version, &r.Description, &r.AppliedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func migration001Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS contests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		banca TEXT NOT NULL,
		site TEXT NOT NULL,
		edital_url TEXT NOT NULL,
		cargo TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contest_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contest_id INTEGER NOT NULL REFERENCES contests(id) ON DELETE CASCADE,
		category TEXT NOT NULL CHECK (category IN ('Ampla', 'PPP', 'PCD', 'Indígenas')),
		position INTEGER NOT NULL CHECK (position > 0),
		name TEXT NOT NULL,
		final_score REAL NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE (contest_id, category, position)
	);

	CREATE TABLE IF NOT EXISTS contest_results_extra (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contest_result_id INTEGER NOT NULL UNIQUE REFERENCES contest_results(id) ON DELETE CASCADE,
		situacao TEXT,
		vai_assumir TEXT,
		outras_listas TEXT,
		contatos TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME
	);
	`)
	return err
}

func migration002Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE COLLATE NOCASE,
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		provider TEXT NOT NULL DEFAULT 'local',
		role TEXT NOT NULL DEFAULT 'comum',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		email_confirmed BOOLEAN NOT NULL DEFAULT 0,
		confirmation_token TEXT,
		confirmation_sent_at DATETIME,
		picture TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		ip TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		revoked BOOLEAN NOT NULL DEFAULT 0
	);
	`)
	return err
}

func migration003Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE INDEX IF NOT EXISTS idx_contest_results_contest ON contest_results(contest_id, category, position);
	CREATE INDEX IF NOT EXISTS idx_contest_results_category ON contest_results(category, position);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_confirmation_token ON users(confirmation_token) WHERE confirmation_token IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
	`)
	return err
}
