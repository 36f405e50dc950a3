package model

// OverallStats aggregates a user's graded sessions.
// Total counts sessions, not individual questions.
type OverallStats struct {
	Total          int     `json:"total"`
	TotalQuestions int     `json:"total_questions"`
	Correct        int     `json:"correct"`
	Accuracy       float64 `json:"accuracy"` // percentage in [0,100], 2 decimals
}

// UnitStats is the per-unit breakdown of the same session aggregation.
type UnitStats struct {
	Unit     int `json:"unit"`
	Attempts int `json:"attempts"`
	Total    int `json:"total"`
	Correct  int `json:"correct"`
}

// UserStatistics is the payload of GET /exercises/statistics.
type UserStatistics struct {
	Overall OverallStats `json:"overall"`
	ByUnit  []UnitStats  `json:"by_unit"`
}

// AdminExerciseStats aggregates over individual exercise_results rows
// (not sessions) across all users.
type AdminExerciseStats struct {
	TotalExercises  int     `json:"total_exercises"`
	TotalAttempts   int     `json:"total_attempts"`
	CorrectAttempts int     `json:"correct_attempts"`
	Accuracy        float64 `json:"accuracy"`
}

// UserAttemptStats is one non-admin user's attempt totals. Users with zero
// attempts still appear (outer join) with zero counts.
type UserAttemptStats struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	TotalAttempts   int    `json:"total_attempts"`
	CorrectAttempts int    `json:"correct_attempts"`
}

// AdminOverview is the payload of GET /admin/stats.
type AdminOverview struct {
	TotalUsers        int `json:"total_users"`
	TotalFlashcards   int `json:"total_flashcards"`
	TotalDefaultCards int `json:"total_default_cards"`
	TotalUnits        int `json:"total_units"`
}
