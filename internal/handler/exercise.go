package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/quizzmate/backend/internal/auth"
	"github.com/quizzmate/backend/internal/model"
	"github.com/quizzmate/backend/internal/service"
)

// ExerciseHandler serves quiz-taking: listing a unit's exercises,
// recording answers, and the caller's own statistics.
type ExerciseHandler struct {
	exercises *service.ExerciseService
	stats     *service.StatsService
	logger    *slog.Logger
}

func NewExerciseHandler(exercises *service.ExerciseService, stats *service.StatsService, logger *slog.Logger) *ExerciseHandler {
	return &ExerciseHandler{exercises: exercises, stats: stats, logger: logger}
}

type submitAnswerRequest struct {
	ExerciseID int64   `json:"exercise_id"`
	UserAnswer string  `json:"user_answer"`
	IsCorrect  bool    `json:"is_correct"`
	SessionID  *string `json:"session_id"`
}

type submitSessionRequest struct {
	Unit    int                  `json:"unit"`
	Results []model.AnswerResult `json:"results"`
}

// HandleList returns one unit's exercises, correct answers included —
// the client grades locally.
//
// HTTP: GET /exercises?unit=N
func (h *ExerciseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.IdentityFromContext(r.Context()); !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	exercises, err := h.exercises.ListByUnit(r.Context(), queryInt(r, "unit"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"success": true, "exercises": exercises})
}

// HandleSubmitAnswer records a single ad-hoc answer.
//
// HTTP: POST /exercises/submit
func (h *ExerciseHandler) HandleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid JSON body")
		return
	}

	err := h.exercises.SubmitAnswer(r.Context(), identity.Email,
		req.ExerciseID, req.UserAnswer, req.IsCorrect, req.SessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"success": true})
}

// HandleSubmitSession records a whole graded quiz attempt atomically and
// returns the new session id.
//
// HTTP: POST /exercises/submit-session
func (h *ExerciseHandler) HandleSubmitSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	var req submitSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid JSON body")
		return
	}

	sessionID, err := h.exercises.SubmitSession(r.Context(), identity.Email, req.Unit, req.Results)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"success": true, "session_id": sessionID})
}

// HandleStatistics returns the caller's session-based accuracy rollup.
//
// HTTP: GET /exercises/statistics
func (h *ExerciseHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	stats, err := h.stats.UserStatistics(r.Context(), identity.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"overall": stats.Overall,
		"by_unit": stats.ByUnit,
	})
}
