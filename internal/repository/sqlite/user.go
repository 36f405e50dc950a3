package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quizzmate/backend/internal/apperror"
	"github.com/quizzmate/backend/internal/model"
	"github.com/quizzmate/backend/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateWithSeededCards registers a new user and copies every current
// default flashcard into their deck.
//
// The whole operation is one transaction: if any of the seeded card
// inserts fails, the user row is rolled back too — a half-seeded account
// never persists. The copy is a one-time snapshot; later edits to the
// templates do not touch cards that were already copied.
func (db *DB) CreateWithSeededCards(ctx context.Context, user *model.User) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning registration tx: %w", err)
	}
	defer tx.Rollback()

	// Duplicate-email check inside the transaction. The UNIQUE constraint
	// would also catch it, but checking first lets us return a clean
	// conflict instead of a driver error.
	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, user.Email,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("sqlite: checking email %s: %w", user.Email, err)
	}
	if exists > 0 {
		return apperror.Conflict("Email already registered")
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, email, password, is_admin) VALUES (?, ?, ?, 0)`,
		user.Username, user.Email, user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}
	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}

	// Snapshot the current templates into the new user's deck.
	rows, err := tx.QueryContext(ctx,
		`SELECT unit, front, back FROM default_flashcards`)
	if err != nil {
		return fmt.Errorf("sqlite: reading default flashcards: %w", err)
	}
	defer rows.Close()

	type card struct {
		unit        int
		front, back string
	}
	var seeds []card
	for rows.Next() {
		var c card
		if err := rows.Scan(&c.unit, &c.front, &c.back); err != nil {
			return fmt.Errorf("sqlite: scanning default flashcard: %w", err)
		}
		seeds = append(seeds, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: iterating default flashcards: %w", err)
	}

	for _, c := range seeds {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO flashcards (email, unit, front, back) VALUES (?, ?, ?, ?)`,
			user.Email, c.unit, c.front, c.back,
		); err != nil {
			return fmt.Errorf("sqlite: seeding flashcard for %s: %w", user.Email, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing registration: %w", err)
	}
	return nil
}

// VerifyCredentials matches email and password hash in one query, the way
// the login endpoint checks them. A miss on either is indistinguishable.
func (db *DB) VerifyCredentials(ctx context.Context, email, passwordHash string) (*model.User, error) {
	var u model.User
	var isAdmin int

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password, is_admin
		 FROM users WHERE email = ? AND password = ?`,
		email, passwordHash,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &isAdmin)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.Unauthenticated("Invalid credentials")
		}
		return nil, fmt.Errorf("sqlite: verifying credentials for %s: %w", email, err)
	}

	u.IsAdmin = isAdmin != 0
	return &u, nil
}

// GetByEmail returns the user for the given email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	var isAdmin int

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password, is_admin FROM users WHERE email = ?`,
		email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &isAdmin)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", email, err)
	}

	u.IsAdmin = isAdmin != 0
	return &u, nil
}

// EnsureAdmin inserts the bootstrap administrator if absent. Safe to call
// on every start.
func (db *DB) EnsureAdmin(ctx context.Context, username, email, passwordHash string) error {
	var exists int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, email,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("sqlite: checking admin %s: %w", email, err)
	}
	if exists > 0 {
		return nil
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (username, email, password, is_admin) VALUES (?, ?, ?, 1)`,
		username, email, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting admin %s: %w", email, err)
	}
	return nil
}
