package sqlite

import (
	"context"
	"fmt"

	"github.com/quizzmate/backend/internal/apperror"
	"github.com/quizzmate/backend/internal/model"
	"github.com/quizzmate/backend/internal/repository"
)

var (
	_ repository.ExerciseRepository = (*DB)(nil)
	_ repository.ResultRepository   = (*DB)(nil)
)

// ListExercises returns exercises, optionally filtered by unit (unit == 0
// means all). The correct answer is included — any authenticated user may
// read it, which is why grading trusts the client.
func (db *DB) ListExercises(ctx context.Context, unit int) ([]model.Exercise, error) {
	query := `SELECT id, unit, question, option_a, option_b, option_c, option_d, correct_answer
		 FROM exercises ORDER BY id`
	args := []any{}
	if unit > 0 {
		query = `SELECT id, unit, question, option_a, option_b, option_c, option_d, correct_answer
			 FROM exercises WHERE unit = ? ORDER BY id`
		args = append(args, unit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing exercises: %w", err)
	}
	defer rows.Close()

	exercises := []model.Exercise{}
	for rows.Next() {
		var ex model.Exercise
		if err := rows.Scan(&ex.ID, &ex.Unit, &ex.Question,
			&ex.OptionA, &ex.OptionB, &ex.OptionC, &ex.OptionD,
			&ex.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("sqlite: scanning exercise: %w", err)
		}
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating exercises: %w", err)
	}
	return exercises, nil
}

func (db *DB) CreateExercise(ctx context.Context, ex *model.Exercise) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO exercises (unit, question, option_a, option_b, option_c, option_d, correct_answer)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ex.Unit, ex.Question, ex.OptionA, ex.OptionB, ex.OptionC, ex.OptionD, ex.CorrectAnswer,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting exercise: %w", err)
	}
	ex.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new exercise id: %w", err)
	}
	return nil
}

func (db *DB) UpdateExercise(ctx context.Context, ex *model.Exercise) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE exercises
		 SET question = ?, option_a = ?, option_b = ?, option_c = ?, option_d = ?, correct_answer = ?
		 WHERE id = ?`,
		ex.Question, ex.OptionA, ex.OptionB, ex.OptionC, ex.OptionD, ex.CorrectAnswer, ex.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating exercise %d: %w", ex.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Exercise", ex.ID)
	}
	return nil
}

func (db *DB) DeleteExercise(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM exercises WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting exercise %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Exercise", id)
	}
	return nil
}

// CreateResult records one answered question. is_correct is stored exactly
// as asserted by the caller; no verification against correct_answer.
func (db *DB) CreateResult(ctx context.Context, result *model.ExerciseResult) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO exercise_results (email, exercise_id, user_answer, is_correct, session_id)
		 VALUES (?, ?, ?, ?, ?)`,
		result.Email, result.ExerciseID, result.UserAnswer, boolToInt(result.IsCorrect), result.SessionID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting exercise result: %w", err)
	}
	result.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new result id: %w", err)
	}
	return nil
}

// CreateExerciseSession writes the session row and all of its result rows
// in one transaction. On any failure the deferred Rollback undoes
// everything — no partial session or orphan results can persist.
func (db *DB) CreateExerciseSession(ctx context.Context, session *model.ExerciseSession, results []model.ExerciseResult) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning session tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO exercise_sessions (session_id, email, unit, total_questions, correct_answers)
		 VALUES (?, ?, ?, ?, ?)`,
		session.SessionID, session.Email, session.Unit,
		session.TotalQuestions, session.CorrectAnswers,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting exercise session: %w", err)
	}
	session.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new session id: %w", err)
	}

	for i := range results {
		r := &results[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO exercise_results (email, exercise_id, user_answer, is_correct, session_id)
			 VALUES (?, ?, ?, ?, ?)`,
			r.Email, r.ExerciseID, r.UserAnswer, boolToInt(r.IsCorrect), session.SessionID,
		); err != nil {
			return fmt.Errorf("sqlite: inserting session result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing exercise session: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
