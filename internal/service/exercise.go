package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quizzmate/backend/internal/apperror"
	"github.com/quizzmate/backend/internal/auth"
	"github.com/quizzmate/backend/internal/model"
	"github.com/quizzmate/backend/internal/repository"
)

// validAnswers constrains correct_answer to the four option letters.
var validAnswers = map[string]bool{"A": true, "B": true, "C": true, "D": true}

// ExerciseService owns the shared exercise pool, ad-hoc answer recording,
// and the transactional session grader.
type ExerciseService struct {
	exercises repository.ExerciseRepository
	results   repository.ResultRepository
	tokens    *auth.TokenSource
	logger    *slog.Logger
}

func NewExerciseService(
	exercises repository.ExerciseRepository,
	results repository.ResultRepository,
	tokens *auth.TokenSource,
	logger *slog.Logger,
) *ExerciseService {
	return &ExerciseService{
		exercises: exercises,
		results:   results,
		tokens:    tokens,
		logger:    logger,
	}
}

// ListByUnit returns one unit's exercises for quiz-taking. Unit is
// required here; admins use List for the unfiltered view.
func (s *ExerciseService) ListByUnit(ctx context.Context, unit int) ([]model.Exercise, error) {
	if unit <= 0 {
		return nil, apperror.ValidationFailed("unit", "Unit parameter is required")
	}
	return s.list(ctx, unit)
}

// List returns exercises with an optional unit filter (0 = all units).
func (s *ExerciseService) List(ctx context.Context, unit int) ([]model.Exercise, error) {
	if unit < 0 {
		return nil, apperror.ValidationFailed("unit", "Unit must be positive")
	}
	return s.list(ctx, unit)
}

func (s *ExerciseService) list(ctx context.Context, unit int) ([]model.Exercise, error) {
	exercises, err := s.exercises.ListExercises(ctx, unit)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	return exercises, nil
}

// Add creates a new exercise (admin-gated at the route level).
func (s *ExerciseService) Add(ctx context.Context, ex *model.Exercise) error {
	if err := validateExercise(ex, true); err != nil {
		return err
	}
	if err := s.exercises.CreateExercise(ctx, ex); err != nil {
		return fmt.Errorf("adding exercise: %w", err)
	}
	s.logger.Info("exercise added",
		slog.Int64("id", ex.ID),
		slog.Int("unit", ex.Unit),
	)
	return nil
}

// Update rewrites an existing exercise. The unit is immutable, matching
// the update endpoint's contract.
func (s *ExerciseService) Update(ctx context.Context, ex *model.Exercise) error {
	if err := validateExercise(ex, false); err != nil {
		return err
	}
	return s.exercises.UpdateExercise(ctx, ex)
}

func (s *ExerciseService) Delete(ctx context.Context, id int64) error {
	if err := s.exercises.DeleteExercise(ctx, id); err != nil {
		return err
	}
	s.logger.Info("exercise deleted", slog.Int64("id", id))
	return nil
}

// SubmitAnswer records one ad-hoc answered question, optionally tagged
// with an existing session id. is_correct is caller-asserted and stored
// as given — the server never re-grades against correct_answer.
func (s *ExerciseService) SubmitAnswer(ctx context.Context, ownerEmail string, exerciseID int64, userAnswer string, isCorrect bool, sessionID *string) error {
	userAnswer = strings.TrimSpace(userAnswer)
	if exerciseID <= 0 || userAnswer == "" {
		return apperror.ValidationFailed("", "Exercise ID and answer are required")
	}

	result := &model.ExerciseResult{
		Email:      ownerEmail,
		ExerciseID: exerciseID,
		UserAnswer: userAnswer,
		IsCorrect:  isCorrect,
		SessionID:  sessionID,
	}
	if err := s.results.CreateResult(ctx, result); err != nil {
		return fmt.Errorf("recording answer: %w", err)
	}
	return nil
}

// SubmitSession records a whole graded quiz attempt as one atomic unit:
// one session row plus one result row per answer, all sharing a fresh
// session id. Aggregates are computed here, before the write, so the
// stored totals always match the stored results.
func (s *ExerciseService) SubmitSession(ctx context.Context, ownerEmail string, unit int, answers []model.AnswerResult) (string, error) {
	if len(answers) == 0 || unit <= 0 {
		return "", apperror.ValidationFailed("", "Results and unit are required")
	}

	sessionID, err := s.tokens.QuizSessionID()
	if err != nil {
		return "", fmt.Errorf("issuing session id: %w", err)
	}

	correct := 0
	results := make([]model.ExerciseResult, 0, len(answers))
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
		results = append(results, model.ExerciseResult{
			Email:      ownerEmail,
			ExerciseID: a.ExerciseID,
			UserAnswer: a.UserAnswer,
			IsCorrect:  a.IsCorrect,
			SessionID:  &sessionID,
		})
	}

	session := &model.ExerciseSession{
		SessionID:      sessionID,
		Email:          ownerEmail,
		Unit:           unit,
		TotalQuestions: len(answers),
		CorrectAnswers: correct,
	}
	if err := s.results.CreateExerciseSession(ctx, session, results); err != nil {
		s.logger.Error("session submit failed",
			slog.String("email", ownerEmail),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("recording session: %w", err)
	}

	s.logger.Info("exercise session recorded",
		slog.String("sessionID", sessionID),
		slog.String("email", ownerEmail),
		slog.Int("questions", session.TotalQuestions),
		slog.Int("correct", session.CorrectAnswers),
	)
	return sessionID, nil
}

func validateExercise(ex *model.Exercise, requireUnit bool) error {
	if ex.Question == "" || ex.OptionA == "" || ex.OptionB == "" ||
		ex.OptionC == "" || ex.OptionD == "" || ex.CorrectAnswer == "" ||
		(requireUnit && ex.Unit <= 0) {
		return apperror.ValidationFailed("", "All fields are required")
	}
	if !validAnswers[ex.CorrectAnswer] {
		return apperror.ValidationFailed("correct_answer", "Correct answer must be A, B, C, or D")
	}
	return nil
}
