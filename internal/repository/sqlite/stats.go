package sqlite

import (
	"context"
	"fmt"

	"github.com/quizzmate/backend/internal/model"
	"github.com/quizzmate/backend/internal/repository"
)

// compile-time check that *DB implements repository.StatsRepository
var _ repository.StatsRepository = (*DB)(nil)

// UserOverallStats aggregates the user's graded sessions. The SUMs are
// NULL when no sessions exist, hence the COALESCE. Accuracy is computed by
// the service layer, not here.
func (db *DB) UserOverallStats(ctx context.Context, email string) (model.OverallStats, error) {
	var s model.OverallStats
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(total_questions), 0),
		        COALESCE(SUM(correct_answers), 0)
		 FROM exercise_sessions WHERE email = ?`,
		email,
	).Scan(&s.Total, &s.TotalQuestions, &s.Correct)
	if err != nil {
		return model.OverallStats{}, fmt.Errorf("sqlite: aggregating sessions for %s: %w", email, err)
	}
	return s, nil
}

// UserUnitStats groups the same session aggregation by unit, ascending.
func (db *DB) UserUnitStats(ctx context.Context, email string) ([]model.UnitStats, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT unit, COUNT(*), SUM(total_questions), SUM(correct_answers)
		 FROM exercise_sessions
		 WHERE email = ?
		 GROUP BY unit
		 ORDER BY unit`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: aggregating unit sessions for %s: %w", email, err)
	}
	defer rows.Close()

	stats := []model.UnitStats{}
	for rows.Next() {
		var u model.UnitStats
		if err := rows.Scan(&u.Unit, &u.Attempts, &u.Total, &u.Correct); err != nil {
			return nil, fmt.Errorf("sqlite: scanning unit stats: %w", err)
		}
		stats = append(stats, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating unit stats: %w", err)
	}
	return stats, nil
}

// AdminExerciseStats totals individual attempts (exercise_results rows)
// across all users, plus the size of the exercise pool. Accuracy is
// computed by the service layer.
func (db *DB) AdminExerciseStats(ctx context.Context) (model.AdminExerciseStats, error) {
	var s model.AdminExerciseStats

	err := db.conn.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM exercises),
		        (SELECT COUNT(*) FROM exercise_results),
		        (SELECT COUNT(*) FROM exercise_results WHERE is_correct = 1)`,
	).Scan(&s.TotalExercises, &s.TotalAttempts, &s.CorrectAttempts)
	if err != nil {
		return model.AdminExerciseStats{}, fmt.Errorf("sqlite: aggregating exercise stats: %w", err)
	}
	return s, nil
}

// PerUserAttemptStats joins every non-admin user against their attempts.
// The LEFT JOIN keeps users with zero attempts in the result (with zero
// counts), ordered by total attempts descending.
func (db *DB) PerUserAttemptStats(ctx context.Context) ([]model.UserAttemptStats, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT u.email, u.username,
		        COUNT(er.id),
		        COALESCE(SUM(er.is_correct), 0)
		 FROM users u
		 LEFT JOIN exercise_results er ON u.email = er.email
		 WHERE u.is_admin = 0
		 GROUP BY u.email, u.username
		 ORDER BY COUNT(er.id) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: aggregating per-user stats: %w", err)
	}
	defer rows.Close()

	stats := []model.UserAttemptStats{}
	for rows.Next() {
		var u model.UserAttemptStats
		if err := rows.Scan(&u.Email, &u.Username, &u.TotalAttempts, &u.CorrectAttempts); err != nil {
			return nil, fmt.Errorf("sqlite: scanning per-user stats: %w", err)
		}
		stats = append(stats, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating per-user stats: %w", err)
	}
	return stats, nil
}

// AdminOverview counts the content and non-admin accounts for the admin
// dashboard.
func (db *DB) AdminOverview(ctx context.Context) (model.AdminOverview, error) {
	var o model.AdminOverview
	err := db.conn.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM users WHERE is_admin = 0),
		        (SELECT COUNT(*) FROM flashcards),
		        (SELECT COUNT(*) FROM default_flashcards),
		        (SELECT COUNT(DISTINCT unit) FROM default_flashcards)`,
	).Scan(&o.TotalUsers, &o.TotalFlashcards, &o.TotalDefaultCards, &o.TotalUnits)
	if err != nil {
		return model.AdminOverview{}, fmt.Errorf("sqlite: aggregating overview: %w", err)
	}
	return o, nil
}
