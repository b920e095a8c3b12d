package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is a single forward-only schema step.
type migration struct {
	version int
	name    string
	apply   func(tx *sql.Tx) error
}

// migrations lists every schema step in order. Never edit an applied step; append a new one.
var migrations = []migration{
	{
		version: 1,
		name:    "baseline",
		apply: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS account (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				failed_logins INTEGER NOT NULL DEFAULT 0,
				locked_until TEXT
			);

			CREATE TABLE IF NOT EXISTS member (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				membership_date TEXT NOT NULL
			);`)
			return err
		},
	},
	{
		version: 2,
		name:    "member_email_index",
		apply: func(tx *sql.Tx) error {
			_, err := tx.Exec("CREATE INDEX IF NOT EXISTS idx_member_email ON member(email)")
			return err
		},
	},
	{
		version: 3,
		name:    "audit_event",
		apply: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS audit_event (
				id TEXT PRIMARY KEY,
				timestamp TEXT NOT NULL,
				category TEXT NOT NULL,
				action TEXT NOT NULL,
				actor_id TEXT NOT NULL,
				actor_email TEXT NOT NULL DEFAULT '',
				resource_id TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				ip_address TEXT NOT NULL DEFAULT ''
			);
			CREATE INDEX IF NOT EXISTS idx_audit_resource ON audit_event(resource_id, timestamp);`)
			return err
		},
	},
}

// LatestSchemaVersion returns the version the migration chain ends at.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion reads the applied schema version (0 for a fresh database).
// PRE: db is a valid database connection
// POST: Returns the highest applied version
func SchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return 0, fmt.Errorf("failed to create schema_version: %w", err)
	}
	var version sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		return 0, err
	}
	return int(version.Int64), nil
}

// MigrateDB applies every pending migration, each in its own transaction.
// PRE: db is a valid database connection
// POST: Schema is at LatestSchemaVersion; already-applied steps are skipped
func MigrateDB(db *sql.DB, dbPath string) error {
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		slog.Info("schema_migrated", "db", dbPath, "version", m.version, "name", m.name)
	}
	return nil
}
