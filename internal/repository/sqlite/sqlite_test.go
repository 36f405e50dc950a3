package sqlite

import (
	"context"
	"testing"

	"github.com/quizzmate/backend/internal/model"
)

// newTestDB opens a fresh in-memory database with the full schema. Each
// test gets its own database, destroyed when the connection closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser registers a user (with default-card seeding) and fails
// the test on error.
func createTestUser(t *testing.T, db *DB, username, email string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash-" + email,
	}
	if err := db.CreateWithSeededCards(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return user
}

// createTestExercise inserts a multiple-choice question.
func createTestExercise(t *testing.T, db *DB, unit int, question string) *model.Exercise {
	t.Helper()
	ex := &model.Exercise{
		Unit:          unit,
		Question:      question,
		OptionA:       "a",
		OptionB:       "b",
		OptionC:       "c",
		OptionD:       "d",
		CorrectAnswer: "A",
	}
	if err := db.CreateExercise(context.Background(), ex); err != nil {
		t.Fatalf("failed to create test exercise: %v", err)
	}
	return ex
}

// createTestSession records a graded quiz attempt for email.
func createTestSession(t *testing.T, db *DB, email, sessionID string, unit, total, correct int) {
	t.Helper()
	session := &model.ExerciseSession{
		SessionID:      sessionID,
		Email:          email,
		Unit:           unit,
		TotalQuestions: total,
		CorrectAnswers: correct,
	}
	if err := db.CreateExerciseSession(context.Background(), session, nil); err != nil {
		t.Fatalf("failed to create test session %s: %v", sessionID, err)
	}
}
