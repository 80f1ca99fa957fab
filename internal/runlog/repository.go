// Package runlog provides persistent history for locally executed report
// runs, so operators can see when reports were generated and how many
// alerts each one found without opening the spreadsheets.
//
// Storage is backed by a SQLite database at ~/.config/status-report/runs.db
// (or the platform-equivalent path returned by os.UserConfigDir). The
// Lambda path never opens it; there is no durable disk there.
package runlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	appDir = "status-report"
	dbFile = "runs.db"
)

// pathOverride, when non-empty, replaces the default database path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the database path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// Repository defines the persistence interface for run records.
type Repository interface {
	// Save inserts a run record, assigning its ID.
	Save(record *RunRecord) error

	// ListRecent returns the most recent n runs, newest first.
	ListRecent(n int) ([]RunRecord, error)

	// DeleteOlderThan removes runs older than d. Returns the number of
	// records removed.
	DeleteOlderThan(d time.Duration) (int64, error)

	// Close releases database resources.
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// DefaultPath returns the default database path.
func DefaultPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("runlog: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, dbFile), nil
}

// Open creates or opens the run repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
// The parent directory is created if it does not exist.
func OpenAt(path string) (*SQLiteRepository, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("runlog: failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("runlog: failed to open database: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

// migrate creates the runs table if it doesn't exist.
func (r *SQLiteRepository) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS runs (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			account           TEXT    NOT NULL DEFAULT '',
			region            TEXT    NOT NULL DEFAULT '',
			total_instances   INTEGER NOT NULL DEFAULT 0,
			running_instances INTEGER NOT NULL DEFAULT 0,
			warnings          INTEGER NOT NULL DEFAULT 0,
			criticals         INTEGER NOT NULL DEFAULT 0,
			report_key        TEXT    NOT NULL DEFAULT '',
			status            TEXT    NOT NULL DEFAULT 'success',
			error_message     TEXT    NOT NULL DEFAULT '',
			created_at        TEXT    NOT NULL DEFAULT (datetime('now'))
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("runlog: migration failed: %w", err)
	}
	return nil
}

// Save inserts a new run record and assigns its ID.
func (r *SQLiteRepository) Save(record *RunRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.Exec(`
		INSERT INTO runs (account, region, total_instances, running_instances, warnings, criticals, report_key, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Account, record.Region, record.TotalInstances, record.RunningInstances,
		record.Warnings, record.Criticals, record.ReportKey, record.Status, record.ErrorMessage,
		record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("runlog: insert failed: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("runlog: failed to get last insert ID: %w", err)
	}
	record.ID = id
	return nil
}

// ListRecent returns the most recent n runs, newest first.
func (r *SQLiteRepository) ListRecent(n int) ([]RunRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, account, region, total_instances, running_instances, warnings, criticals,
		       report_key, status, error_message, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("runlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// DeleteOlderThan removes runs older than d.
func (r *SQLiteRepository) DeleteOlderThan(d time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-d).Format(time.RFC3339Nano)
	result, err := r.db.Exec(`DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("runlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// scanRows scans multiple rows into RunRecords.
func scanRows(rows *sql.Rows) ([]RunRecord, error) {
	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		var createdStr string
		err := rows.Scan(
			&record.ID, &record.Account, &record.Region, &record.TotalInstances,
			&record.RunningInstances, &record.Warnings, &record.Criticals,
			&record.ReportKey, &record.Status, &record.ErrorMessage, &createdStr,
		)
		if err != nil {
			return nil, fmt.Errorf("runlog: scan failed: %w", err)
		}
		record.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, record)
	}
	return records, rows.Err()
}
