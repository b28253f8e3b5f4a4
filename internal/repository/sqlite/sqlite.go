// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite, a pure-Go translation of the SQLite C
// sources, so there is no cgo and cross-compilation stays trivial. Tests
// use a file under t.TempDir(): with ":memory:" each pooled connection
// gets its own empty database.
//
// All uniqueness rules (user email/username, quote content+author,
// bookmark pairs, one question per user per day) are UNIQUE constraints in
// the schema. Application code converts constraint violations into
// apperror.ErrConflict rather than attempting check-then-act.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and hands out the per-entity
// repositories that share it.
type DB struct {
	conn *sql.DB
}

// New opens the database, applies the pragmas, and creates the schema.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight; the default
	// rollback journal locks the whole file per write.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: creating schema: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Defer it wherever New succeeds.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns the user repository backed by this connection.
func (db *DB) Users() *UserDB { return &UserDB{conn: db.conn} }

// Diaries returns the diary repository backed by this connection.
func (db *DB) Diaries() *DiaryDB { return &DiaryDB{conn: db.conn} }

// Quotes returns the quote/bookmark repository backed by this connection.
func (db *DB) Quotes() *QuoteDB { return &QuoteDB{conn: db.conn} }

// Questions returns the question repository backed by this connection.
func (db *DB) Questions() *QuestionDB { return &QuestionDB{conn: db.conn} }

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start.
func (db *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_active     INTEGER NOT NULL DEFAULT 1,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS diaries (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title      TEXT NOT NULL,
			content    TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_diaries_user_id ON diaries(user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS quotes (
			id         TEXT PRIMARY KEY,
			content    TEXT NOT NULL,
			-- Authorless quotes store '' here, not NULL: SQLite treats
			-- NULLs as distinct in UNIQUE constraints, which would defeat
			-- the (content, author) identity key.
			author     TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (content, author)
		)`,
		`CREATE TABLE IF NOT EXISTS bookmarks (
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			quote_id   TEXT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, quote_id)
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id            TEXT PRIMARY KEY,
			question_text TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS question_records (
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			asked_on    TEXT NOT NULL,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, asked_on)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE (or primary
// key) constraint failure.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
