package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quizzmate/backend/internal/apperror"
	"github.com/quizzmate/backend/internal/repository"
)

// compile-time check that *DB implements repository.SessionRepository
var _ repository.SessionRepository = (*DB)(nil)

// CreateSession persists one token→email mapping. Each login gets its own
// row, so the same account can be signed in from several devices at once.
// The UNIQUE constraint on token is a backstop; with 256 bits of entropy a
// collision is treated as unreachable.
func (db *DB) CreateSession(ctx context.Context, email, token string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO sessions (email, token) VALUES (?, ?)`,
		email, token,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting session for %s: %w", email, err)
	}
	return nil
}

// EmailByToken resolves a bearer token to the email it was issued for.
func (db *DB) EmailByToken(ctx context.Context, token string) (string, error) {
	var email string
	err := db.conn.QueryRowContext(ctx,
		`SELECT email FROM sessions WHERE token = ?`, token,
	).Scan(&email)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", apperror.Unauthenticated("unknown token")
		}
		return "", fmt.Errorf("sqlite: resolving token: %w", err)
	}
	return email, nil
}

// DeleteSessionsByEmail revokes every outstanding session for the email.
// The count lets the caller distinguish "logged out" from "was not logged
// in to begin with".
func (db *DB) DeleteSessionsByEmail(ctx context.Context, email string) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM sessions WHERE email = ?`, email,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting sessions for %s: %w", email, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return count, nil
}
