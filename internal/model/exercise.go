package model

import "time"

// Exercise is a multiple-choice question shared across all users.
// Only admins may create, update, or delete exercises; any authenticated
// user may read them (the correct answer is sent to the client, which is
// why grading trusts the client's is_correct flag).
type Exercise struct {
	ID            int64  `json:"id"             db:"id"`
	Unit          int    `json:"unit"           db:"unit"`
	Question      string `json:"question"       db:"question"`
	OptionA       string `json:"option_a"       db:"option_a"`
	OptionB       string `json:"option_b"       db:"option_b"`
	OptionC       string `json:"option_c"       db:"option_c"`
	OptionD       string `json:"option_d"       db:"option_d"`
	CorrectAnswer string `json:"correct_answer" db:"correct_answer"` // one of A, B, C, D
}

// ExerciseResult records one answered question. It may exist on its own
// (ad-hoc single submit) or belong to a graded session via SessionID.
// Rows are insert-only — never mutated.
type ExerciseResult struct {
	ID          int64     `json:"id"          db:"id"`
	Email       string    `json:"email"       db:"email"` // owner
	ExerciseID  int64     `json:"exercise_id" db:"exercise_id"`
	UserAnswer  string    `json:"user_answer" db:"user_answer"`
	IsCorrect   bool      `json:"is_correct"  db:"is_correct"` // caller-asserted, stored as given
	SessionID   *string   `json:"session_id"  db:"session_id"` // nil for ad-hoc results
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
}

// ExerciseSession is one graded quiz attempt: a batch of results recorded
// atomically under a shared session id. Immutable after creation.
// TotalQuestions always equals the number of ExerciseResult rows sharing
// SessionID, and CorrectAnswers the count of those marked correct.
type ExerciseSession struct {
	ID             int64     `json:"id"              db:"id"`
	SessionID      string    `json:"session_id"      db:"session_id"`
	Email          string    `json:"email"           db:"email"`
	Unit           int       `json:"unit"            db:"unit"`
	TotalQuestions int       `json:"total_questions" db:"total_questions"`
	CorrectAnswers int       `json:"correct_answers" db:"correct_answers"`
	CompletedAt    time.Time `json:"completed_at"    db:"completed_at"`
}

// AnswerResult is one item of a session submission.
type AnswerResult struct {
	ExerciseID int64  `json:"exercise_id"`
	UserAnswer string `json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`
}
