// Package sqlite provides SQLite-based persistent storage for the
// task store. Uses WAL mode for crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/nutshell-sh/nutshell/internal/domain"
)

// StatementError carries the failing statement for diagnosis.
type StatementError struct {
	Err error
	SQL string
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %q: %v", e.SQL, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db     *sql.DB
	logger domain.Logger
}

// Open creates or opens the SQLite database at path. Enables WAL
// mode, foreign keys, and a 5-second busy timeout.
func Open(path string, logger domain.Logger) (*DB, error) {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db, logger: logger}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error { return d.db.Close() }

// migrate runs idempotent schema migrations. The three tables share
// the start instant as key and are mutated together.
func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS time_span (
			start INTEGER PRIMARY KEY,
			"end" INTEGER CHECK ("end" > start)
		)`,
		`CREATE TABLE IF NOT EXISTS tagged (
			tag   TEXT,
			start INTEGER,
			FOREIGN KEY(start) REFERENCES time_span(start)
		)`,
		`CREATE TABLE IF NOT EXISTS running (
			name  TEXT,
			start INTEGER,
			FOREIGN KEY(start) REFERENCES time_span(start)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tagged_start ON tagged(start)`,
		`CREATE INDEX IF NOT EXISTS idx_running_start ON running(start)`,
	}
	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return &StatementError{SQL: m, Err: err}
		}
	}
	return nil
}

// Exec runs a statement, wrapping failures with the statement text.
func (d *DB) Exec(query string, args ...any) (sql.Result, error) {
	res, err := d.db.Exec(query, args...)
	if err != nil {
		d.logger.Error("sqlite", fmt.Sprintf("exec %q: %v", query, err))
		return nil, &StatementError{SQL: query, Err: err}
	}
	return res, nil
}

// Query runs a query, wrapping failures with the statement text.
func (d *DB) Query(query string, args ...any) (*sql.Rows, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		d.logger.Error("sqlite", fmt.Sprintf("query %q: %v", query, err))
		return nil, &StatementError{SQL: query, Err: err}
	}
	return rows, nil
}

// QueryRow runs a single-row query.
func (d *DB) QueryRow(query string, args ...any) *sql.Row {
	return d.db.QueryRow(query, args...)
}

// Begin opens a transaction for multi-table mutations.
func (d *DB) Begin() (*sql.Tx, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}
