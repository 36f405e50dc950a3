package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/quizzmate/backend/internal/model"
	"github.com/quizzmate/backend/internal/service"
)

// AdminHandler serves the admin-only surface: dashboard counters, the
// default-flashcard templates, the shared exercise pool, and cross-user
// statistics. Admin gating is done by the RequireAdmin middleware on the
// route group — by the time these run, the caller is a verified admin.
type AdminHandler struct {
	cards     *service.FlashcardService
	exercises *service.ExerciseService
	stats     *service.StatsService
	logger    *slog.Logger
}

func NewAdminHandler(
	cards *service.FlashcardService,
	exercises *service.ExerciseService,
	stats *service.StatsService,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		cards:     cards,
		exercises: exercises,
		stats:     stats,
		logger:    logger,
	}
}

type exerciseRequest struct {
	Unit          int    `json:"unit"`
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"`
}

// HandleStats returns the dashboard counters.
//
// HTTP: GET /admin/stats
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	overview, err := h.stats.Overview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "stats": overview})
}

// HandleListDefaults lists template cards, optionally for one unit.
//
// HTTP: GET /admin/default-flashcards[?unit=N]
func (h *AdminHandler) HandleListDefaults(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cards.ListDefaults(r.Context(), queryInt(r, "unit"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "cards": cards})
}

// HandleAddDefault creates a template card. Only users registering after
// this call receive it.
//
// HTTP: POST /admin/default-flashcards
func (h *AdminHandler) HandleAddDefault(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid JSON body")
		return
	}

	card, err := h.cards.AddDefault(r.Context(), req.Unit, req.Front, req.Back)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		"success": true,
		"message": "Default flashcard added",
		"card":    card,
	})
}

// HandleUpdateDefault rewrites a template card.
//
// HTTP: PUT /admin/default-flashcards/{id}
func (h *AdminHandler) HandleUpdateDefault(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid card ID")
		return
	}

	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid JSON body")
		return
	}

	if err := h.cards.UpdateDefault(r.Context(), id, req.Front, req.Back); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Default flashcard updated")
}

// HandleDeleteDefault removes a template card.
//
// HTTP: DELETE /admin/default-flashcards/{id}
func (h *AdminHandler) HandleDeleteDefault(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid card ID")
		return
	}

	if err := h.cards.DeleteDefault(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Default flashcard deleted")
}

// HandleListExercises lists exercises, all units unless ?unit is given.
//
// HTTP: GET /admin/exercises[?unit=N]
func (h *AdminHandler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.exercises.List(r.Context(), queryInt(r, "unit"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "exercises": exercises})
}

// HandleAddExercise creates an exercise.
//
// HTTP: POST /admin/exercises
func (h *AdminHandler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	var req exerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid JSON body")
		return
	}

	ex := model.Exercise{
		Unit:          req.Unit,
		Question:      req.Question,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectAnswer: req.CorrectAnswer,
	}
	if err := h.exercises.Add(r.Context(), &ex); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		"success":  true,
		"message":  "Exercise added",
		"exercise": ex,
	})
}

// HandleUpdateExercise rewrites an exercise (unit unchanged).
//
// HTTP: PUT /admin/exercises/{id}
func (h *AdminHandler) HandleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid exercise ID")
		return
	}

	var req exerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid JSON body")
		return
	}

	ex := model.Exercise{
		ID:            id,
		Question:      req.Question,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectAnswer: req.CorrectAnswer,
	}
	if err := h.exercises.Update(r.Context(), &ex); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Exercise updated")
}

// HandleDeleteExercise removes an exercise.
//
// HTTP: DELETE /admin/exercises/{id}
func (h *AdminHandler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid exercise ID")
		return
	}

	if err := h.exercises.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Exercise deleted")
}

// HandleExerciseStatistics returns attempt totals across all users plus
// the per-user breakdown, most active users first.
//
// HTTP: GET /admin/exercises/statistics
func (h *AdminHandler) HandleExerciseStatistics(w http.ResponseWriter, r *http.Request) {
	totals, perUser, err := h.stats.AdminExerciseStatistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success":    true,
		"stats":      totals,
		"user_stats": perUser,
	})
}
