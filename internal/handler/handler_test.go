package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/quizzmate/backend/internal/auth"
	"github.com/quizzmate/backend/internal/handler"
	"github.com/quizzmate/backend/internal/model"
	"github.com/quizzmate/backend/internal/repository/sqlite"
	"github.com/quizzmate/backend/internal/service"
)

// testEnv wires every handler against real services over an in-memory
// database, so handler tests exercise the same stack as production minus
// the router and middleware.
type testEnv struct {
	db        *sqlite.DB
	auth      *service.AuthService
	cards     *handler.FlashcardHandler
	exercises *handler.ExerciseHandler
	admin     *handler.AdminHandler
	authH     *handler.AuthHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	tokens := auth.NewTokenSource()

	authService := service.NewAuthService(db, db, tokens, logger)
	cardService := service.NewFlashcardService(db, db, logger)
	exerciseService := service.NewExerciseService(db, db, tokens, logger)
	statsService := service.NewStatsService(db, logger)

	return &testEnv{
		db:        db,
		auth:      authService,
		cards:     handler.NewFlashcardHandler(cardService, logger),
		exercises: handler.NewExerciseHandler(exerciseService, statsService, logger),
		admin:     handler.NewAdminHandler(cardService, exerciseService, statsService, logger),
		authH:     handler.NewAuthHandler(authService, logger),
	}
}

// registerUser creates an account directly through the service layer.
func (env *testEnv) registerUser(t *testing.T, username, email string) {
	t.Helper()
	if err := env.auth.Register(context.Background(), username, email, "password"); err != nil {
		t.Fatalf("failed to register %s: %v", email, err)
	}
}

// authedRequest builds a request whose context carries the identity, the
// way RequireAuth would have left it.
func authedRequest(method, target, email string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	ctx := auth.ContextWithIdentity(req.Context(), &model.Identity{Username: "tester", Email: email})
	return req.WithContext(ctx)
}

// jsonRequest builds an unauthenticated JSON request.
func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeBody unmarshals the recorded response body into a generic map.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}
