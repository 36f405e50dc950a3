// Package sqlite implements the repository interfaces on SQLite.
//
// WHY modernc.org/sqlite?
// It is a pure-Go translation of the SQLite C sources — no CGo, no C
// compiler, cross-compiles anywhere Go does. The driver registers itself
// with database/sql under the name "sqlite" via the blank import below.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements every repository
// interface. One type for all tables keeps transactions that span tables
// (registration seeding, session grading) on a single connection pool.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection; the pool must not open
	// a second one or queries would see an empty schema.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// Force an immediate connection so a bad path surfaces here, not on
	// the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets concurrent readers proceed while a write is in flight —
	// the store's own locking is all the cross-request coordination this
	// service relies on.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// exercise_results.exercise_id references exercises.id.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers should defer this right after
// New so the WAL is flushed on every exit path.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema idempotently. CREATE TABLE IF NOT EXISTS is
// safe to run on every start.
func (db *DB) migrate() error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id       INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT NOT NULL,
				email    TEXT NOT NULL UNIQUE,
				password TEXT NOT NULL,
				is_admin INTEGER NOT NULL DEFAULT 0
			);
		`},
		{"sessions", `
			CREATE TABLE IF NOT EXISTS sessions (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				email      TEXT NOT NULL,
				token      TEXT NOT NULL UNIQUE,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_sessions_email ON sessions(email);
		`},
		{"flashcards", `
			CREATE TABLE IF NOT EXISTS flashcards (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				email      TEXT NOT NULL,
				unit       INTEGER NOT NULL,
				front      TEXT NOT NULL,
				back       TEXT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_flashcards_email_unit ON flashcards(email, unit);
		`},
		{"default_flashcards", `
			CREATE TABLE IF NOT EXISTS default_flashcards (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				unit       INTEGER NOT NULL,
				front      TEXT NOT NULL,
				back       TEXT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`},
		{"exercises", `
			CREATE TABLE IF NOT EXISTS exercises (
				id             INTEGER PRIMARY KEY AUTOINCREMENT,
				unit           INTEGER NOT NULL,
				question       TEXT NOT NULL,
				option_a       TEXT NOT NULL,
				option_b       TEXT NOT NULL,
				option_c       TEXT NOT NULL,
				option_d       TEXT NOT NULL,
				correct_answer TEXT NOT NULL,
				created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`},
		{"exercise_results", `
			CREATE TABLE IF NOT EXISTS exercise_results (
				id           INTEGER PRIMARY KEY AUTOINCREMENT,
				email        TEXT NOT NULL,
				exercise_id  INTEGER NOT NULL REFERENCES exercises(id),
				user_answer  TEXT NOT NULL,
				is_correct   INTEGER NOT NULL,
				session_id   TEXT,
				completed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_exercise_results_email ON exercise_results(email);
			CREATE INDEX IF NOT EXISTS idx_exercise_results_session ON exercise_results(session_id);
		`},
		{"exercise_sessions", `
			CREATE TABLE IF NOT EXISTS exercise_sessions (
				id              INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id      TEXT NOT NULL UNIQUE,
				email           TEXT NOT NULL,
				unit            INTEGER NOT NULL,
				total_questions INTEGER NOT NULL,
				correct_answers INTEGER NOT NULL,
				completed_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_exercise_sessions_email ON exercise_sessions(email);
		`},
	}

	for _, s := range stmts {
		if _, err := db.conn.Exec(s.sql); err != nil {
			return fmt.Errorf("creating %s table: %w", s.name, err)
		}
	}

	return nil
}
