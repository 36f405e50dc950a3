package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/quizzmate/backend/internal/auth"
	"github.com/quizzmate/backend/internal/service"
)

// FlashcardHandler serves the caller's personal deck. Every operation is
// scoped to the identity the auth middleware put in the request context.
type FlashcardHandler struct {
	cards  *service.FlashcardService
	logger *slog.Logger
}

func NewFlashcardHandler(cards *service.FlashcardService, logger *slog.Logger) *FlashcardHandler {
	return &FlashcardHandler{cards: cards, logger: logger}
}

type cardRequest struct {
	Unit  int    `json:"unit"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// HandleList returns the caller's cards for one unit.
//
// HTTP: GET /flashcards?unit=N
func (h *FlashcardHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	unit := queryInt(r, "unit")
	cards, err := h.cards.List(r.Context(), identity.Email, unit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"success": true, "cards": cards})
}

// HandleAdd creates a card in the caller's deck.
//
// HTTP: POST /flashcards
func (h *FlashcardHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid JSON body")
		return
	}

	card, err := h.cards.Add(r.Context(), identity.Email, req.Unit, req.Front, req.Back)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		"success": true,
		"message": "Flashcard added",
		"card":    card,
	})
}

// HandleUpdate rewrites one of the caller's cards. A foreign or unknown
// id is a 404 — indistinguishable on purpose.
//
// HTTP: PUT /flashcards/{id}
func (h *FlashcardHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

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

	if err := h.cards.Update(r.Context(), identity.Email, id, req.Front, req.Back); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, true, "Flashcard updated")
}

// HandleDelete removes one of the caller's cards.
//
// HTTP: DELETE /flashcards/{id}
func (h *FlashcardHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Unauthorized")
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid card ID")
		return
	}

	if err := h.cards.Delete(r.Context(), identity.Email, id); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, true, "Flashcard deleted")
}

// queryInt reads an integer query parameter; missing or malformed values
// come back as 0 and fail the service's required-field check.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}

// pathID reads the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
