package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/quizzmate/backend/internal/apperror"
	"github.com/quizzmate/backend/internal/model"
)

func TestCreateExerciseAndList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ex := createTestExercise(t, db, 1, "what is 'dog'?")
	if ex.ID == 0 {
		t.Error("CreateExercise() did not set ex.ID")
	}

	exercises, err := db.ListExercises(ctx, 1)
	if err != nil {
		t.Fatalf("ListExercises() error = %v", err)
	}
	if len(exercises) != 1 {
		t.Fatalf("ListExercises() returned %d, want 1", len(exercises))
	}
	if exercises[0].Question != "what is 'dog'?" {
		t.Errorf("Question = %q", exercises[0].Question)
	}
	if exercises[0].CorrectAnswer != "A" {
		t.Errorf("CorrectAnswer = %q, want A", exercises[0].CorrectAnswer)
	}
}

func TestListExercises_AllUnits(t *testing.T) {
	db := newTestDB(t)

	createTestExercise(t, db, 1, "q1")
	createTestExercise(t, db, 2, "q2")
	createTestExercise(t, db, 3, "q3")

	all, err := db.ListExercises(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListExercises(0) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListExercises(0) returned %d, want 3", len(all))
	}
}

func TestUpdateExercise(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ex := createTestExercise(t, db, 1, "old question")

	ex.Question = "new question"
	ex.CorrectAnswer = "C"
	if err := db.UpdateExercise(ctx, ex); err != nil {
		t.Fatalf("UpdateExercise() error = %v", err)
	}

	exercises, _ := db.ListExercises(ctx, 1)
	if exercises[0].Question != "new question" || exercises[0].CorrectAnswer != "C" {
		t.Errorf("exercise after update = %+v", exercises[0])
	}
}

func TestUpdateExercise_NotFound(t *testing.T) {
	db := newTestDB(t)

	ex := &model.Exercise{ID: 9999, Question: "ghost", CorrectAnswer: "A"}
	err := db.UpdateExercise(context.Background(), ex)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDeleteExercise(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ex := createTestExercise(t, db, 1, "doomed")

	if err := db.DeleteExercise(ctx, ex.ID); err != nil {
		t.Fatalf("DeleteExercise() error = %v", err)
	}

	exercises, _ := db.ListExercises(ctx, 1)
	if len(exercises) != 0 {
		t.Errorf("%d exercises remain after delete, want 0", len(exercises))
	}
}

func TestDeleteExercise_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.DeleteExercise(context.Background(), 9999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateResult(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ex := createTestExercise(t, db, 1, "q")

	result := &model.ExerciseResult{
		Email:      "alice@example.com",
		ExerciseID: ex.ID,
		UserAnswer: "B",
		IsCorrect:  false,
	}
	if err := db.CreateResult(ctx, result); err != nil {
		t.Fatalf("CreateResult() error = %v", err)
	}
	if result.ID == 0 {
		t.Error("CreateResult() did not set result.ID")
	}
}

func TestCreateExerciseSession(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ex1 := createTestExercise(t, db, 1, "q1")
	ex2 := createTestExercise(t, db, 1, "q2")

	sid := "session-abc"
	session := &model.ExerciseSession{
		SessionID:      sid,
		Email:          "alice@example.com",
		Unit:           1,
		TotalQuestions: 2,
		CorrectAnswers: 1,
	}
	results := []model.ExerciseResult{
		{Email: "alice@example.com", ExerciseID: ex1.ID, UserAnswer: "A", IsCorrect: true, SessionID: &sid},
		{Email: "alice@example.com", ExerciseID: ex2.ID, UserAnswer: "B", IsCorrect: false, SessionID: &sid},
	}

	if err := db.CreateExerciseSession(ctx, session, results); err != nil {
		t.Fatalf("CreateExerciseSession() error = %v", err)
	}
	if session.ID == 0 {
		t.Error("CreateExerciseSession() did not set session.ID")
	}

	overall, err := db.UserOverallStats(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("UserOverallStats() error = %v", err)
	}
	if overall.Total != 1 || overall.TotalQuestions != 2 || overall.Correct != 1 {
		t.Errorf("overall = %+v, want 1 session, 2 questions, 1 correct", overall)
	}
}

func TestCreateExerciseSession_RollsBackOnBadResult(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ex := createTestExercise(t, db, 1, "q1")

	sid := "session-partial"
	session := &model.ExerciseSession{
		SessionID:      sid,
		Email:          "alice@example.com",
		Unit:           1,
		TotalQuestions: 2,
		CorrectAnswers: 2,
	}
	// The second result violates the exercise_id foreign key, so the whole
	// session must be rolled back, including the first result and the
	// session row itself.
	results := []model.ExerciseResult{
		{Email: "alice@example.com", ExerciseID: ex.ID, UserAnswer: "A", IsCorrect: true, SessionID: &sid},
		{Email: "alice@example.com", ExerciseID: 9999, UserAnswer: "A", IsCorrect: true, SessionID: &sid},
	}

	if err := db.CreateExerciseSession(ctx, session, results); err == nil {
		t.Fatal("CreateExerciseSession() should fail on a dangling exercise_id")
	}

	overall, err := db.UserOverallStats(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("UserOverallStats() error = %v", err)
	}
	if overall.Total != 0 {
		t.Errorf("a partial session persisted: %+v", overall)
	}

	stats, err := db.AdminExerciseStats(ctx)
	if err != nil {
		t.Fatalf("AdminExerciseStats() error = %v", err)
	}
	if stats.TotalAttempts != 0 {
		t.Errorf("%d orphan result rows persisted, want 0", stats.TotalAttempts)
	}
}

func TestCreateExerciseSession_DuplicateSessionID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	createTestSession(t, db, "alice@example.com", "dup-id", 1, 3, 2)

	session := &model.ExerciseSession{
		SessionID:      "dup-id",
		Email:          "alice@example.com",
		Unit:           1,
		TotalQuestions: 1,
		CorrectAnswers: 1,
	}
	if err := db.CreateExerciseSession(ctx, session, nil); err == nil {
		t.Fatal("CreateExerciseSession() should reject a duplicate session_id")
	}

	// The original session survives unchanged.
	overall, _ := db.UserOverallStats(ctx, "alice@example.com")
	if overall.Total != 1 || overall.TotalQuestions != 3 {
		t.Errorf("overall = %+v, want the original session only", overall)
	}
}
