// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk. There is no network,
// no separate server process, and no installation beyond the driver, which
// makes it the default backend for local development and tests.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/taskflow-api/internal/config"
	"github.com/aanand-mishra/taskflow-api/internal/storage"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB, a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// schema is idempotent: safe to run on every startup.
//
// The UNIQUE constraint on students.email is the real guarantee of email
// uniqueness. The handler's look-up-then-insert is only there to produce a
// friendly error in the common case.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		name       TEXT     NOT NULL,
		email      TEXT     NOT NULL UNIQUE,
		age        INTEGER  NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT     PRIMARY KEY,
		user_id     TEXT     NOT NULL,
		title       TEXT     NOT NULL,
		description TEXT,
		completed   BOOLEAN  NOT NULL DEFAULT 0,
		priority    TEXT     NOT NULL DEFAULT 'medium',
		category    TEXT     NOT NULL DEFAULT 'personal',
		due_date    TEXT,
		created_at  DATETIME NOT NULL,
		updated_at  DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks (user_id)`,
}

// New opens the SQLite database at cfg.Storage.Path, creates the tables if
// they do not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	path := cfg.Storage.Path

	if err := ensureDirForSQLite(path); err != nil {
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}

	// sql.Open does NOT open a real connection yet; it only validates the
	// driver name.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// SQLite allows one writer at a time. A single connection serialises
	// writes in the pool instead of failing with "database is locked",
	// and keeps ":memory:" databases from splitting per connection.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite.New: create schema: %w", err)
		}
	}

	return &SQLite{Db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// timestamp is the server-side clock for created_at / updated_at.
// Microsecond precision keeps values identical across backends.
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// ensureDirForSQLite creates the parent directory of the database file.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
