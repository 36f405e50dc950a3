// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage provides the implementation; tests
// substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/quizzmate/backend/internal/model"
)

// UserRepository persists user identities and password hashes.
type UserRepository interface {
	// CreateWithSeededCards registers a new user and, in the same
	// transaction, copies every current default flashcard into the new
	// user's deck. Returns apperror.ErrConflict if the email is taken.
	CreateWithSeededCards(ctx context.Context, user *model.User) error

	// VerifyCredentials returns the user matching email+passwordHash, or
	// apperror.ErrUnauthenticated if no such pair exists.
	VerifyCredentials(ctx context.Context, email, passwordHash string) (*model.User, error)

	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// EnsureAdmin inserts the bootstrap administrator if no user with
	// that email exists. Idempotent across restarts.
	EnsureAdmin(ctx context.Context, username, email, passwordHash string) error
}

// SessionRepository maps opaque bearer tokens to emails.
type SessionRepository interface {
	CreateSession(ctx context.Context, email, token string) error

	// EmailByToken resolves a token to the email it was issued for, or
	// apperror.ErrUnauthenticated for unknown tokens.
	EmailByToken(ctx context.Context, token string) (string, error)

	// DeleteSessionsByEmail revokes every session for the email and
	// returns how many were removed.
	DeleteSessionsByEmail(ctx context.Context, email string) (int64, error)
}

// FlashcardRepository is CRUD over per-user flashcards. Every method
// filters by the owner's email; update/delete on zero affected rows is
// reported as not-found, never as a silent no-op.
type FlashcardRepository interface {
	ListFlashcards(ctx context.Context, email string, unit int) ([]model.Flashcard, error)
	CreateFlashcard(ctx context.Context, card *model.Flashcard) error
	UpdateFlashcard(ctx context.Context, email string, id int64, front, back string) error
	DeleteFlashcard(ctx context.Context, email string, id int64) error
}

// DefaultFlashcardRepository is admin-writable CRUD over the templates
// seeded into new users' decks. unit == 0 lists all units.
type DefaultFlashcardRepository interface {
	ListDefaultFlashcards(ctx context.Context, unit int) ([]model.DefaultFlashcard, error)
	CreateDefaultFlashcard(ctx context.Context, card *model.DefaultFlashcard) error
	UpdateDefaultFlashcard(ctx context.Context, id int64, front, back string) error
	DeleteDefaultFlashcard(ctx context.Context, id int64) error
}

// ExerciseRepository is CRUD over the shared exercise pool.
// unit == 0 lists all units.
type ExerciseRepository interface {
	ListExercises(ctx context.Context, unit int) ([]model.Exercise, error)
	CreateExercise(ctx context.Context, ex *model.Exercise) error
	UpdateExercise(ctx context.Context, ex *model.Exercise) error
	DeleteExercise(ctx context.Context, id int64) error
}

// ResultRepository records answered questions and graded sessions.
type ResultRepository interface {
	// CreateResult records one ad-hoc answer (outside or inside a session).
	CreateResult(ctx context.Context, result *model.ExerciseResult) error

	// CreateExerciseSession inserts the session row and all its result
	// rows in one transaction: either everything commits or nothing does.
	CreateExerciseSession(ctx context.Context, session *model.ExerciseSession, results []model.ExerciseResult) error
}

// StatsRepository runs the aggregate queries behind the statistics
// endpoints.
type StatsRepository interface {
	UserOverallStats(ctx context.Context, email string) (model.OverallStats, error)
	UserUnitStats(ctx context.Context, email string) ([]model.UnitStats, error)
	AdminExerciseStats(ctx context.Context) (model.AdminExerciseStats, error)
	PerUserAttemptStats(ctx context.Context) ([]model.UserAttemptStats, error)
	AdminOverview(ctx context.Context) (model.AdminOverview, error)
}
