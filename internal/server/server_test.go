package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/quizzmate/backend/internal/config"
)

// newTestServer builds a full server over an in-memory database, with the
// bootstrap admin seeded, and returns its handler for httptest driving.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.Config{
		Port:          0,
		DBPath:        ":memory:",
		AdminEmail:    "admin@quizzmate.com",
		AdminPassword: "admin123",
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	srv, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	t.Cleanup(func() { srv.db.Close() })

	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return body
}

// login returns a bearer token for the given credentials.
func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	rr := doJSON(t, h, http.MethodPost, "/login", "", map[string]string{
		"email": email, "password": password,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login as %s failed with status %d: %s", email, rr.Code, rr.Body.String())
	}
	token, _ := decodeJSON(t, rr)["token"].(string)
	if token == "" {
		t.Fatalf("login as %s returned no token", email)
	}
	return token
}

func TestFullFlow_RegisterLoginFlashcards(t *testing.T) {
	h := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/register", "", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("register status = %d: %s", rr.Code, rr.Body.String())
	}

	token := login(t, h, "alice@example.com", "secret")

	// Protected route with the token.
	rr = doJSON(t, h, http.MethodPost, "/flashcards", token, map[string]any{
		"unit": 1, "front": "dog", "back": "Hund",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add flashcard status = %d: %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, h, http.MethodGet, "/flashcards?unit=1", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list flashcards status = %d", rr.Code)
	}
	cards, _ := decodeJSON(t, rr)["cards"].([]any)
	if len(cards) != 1 {
		t.Errorf("listed %d cards, want 1", len(cards))
	}
}

func TestFullFlow_AuthRejections(t *testing.T) {
	h := newTestServer(t)

	// No token at all.
	rr := doJSON(t, h, http.MethodGet, "/flashcards?unit=1", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rr.Code)
	}

	// Garbage token.
	rr = doJSON(t, h, http.MethodGet, "/flashcards?unit=1", "garbage", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", rr.Code)
	}
}

func TestFullFlow_LogoutRevokesToken(t *testing.T) {
	h := newTestServer(t)

	doJSON(t, h, http.MethodPost, "/register", "", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret",
	})
	token := login(t, h, "alice@example.com", "secret")

	rr := doJSON(t, h, http.MethodPost, "/logout", "", map[string]string{
		"email": "alice@example.com",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("logout status = %d: %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, h, http.MethodGet, "/flashcards?unit=1", token, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("token after logout: status = %d, want 401", rr.Code)
	}
}

func TestFullFlow_AdminGate(t *testing.T) {
	h := newTestServer(t)

	doJSON(t, h, http.MethodPost, "/register", "", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret",
	})
	userToken := login(t, h, "alice@example.com", "secret")

	// Regular user is forbidden.
	rr := doJSON(t, h, http.MethodGet, "/admin/stats", userToken, nil)
	if rr.Code != http.StatusForbidden {
		t.Errorf("user on /admin/stats: status = %d, want 403", rr.Code)
	}

	// The bootstrap admin gets through.
	adminToken := login(t, h, "admin@quizzmate.com", "admin123")
	rr = doJSON(t, h, http.MethodGet, "/admin/stats", adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin on /admin/stats: status = %d: %s", rr.Code, rr.Body.String())
	}

	body := decodeJSON(t, rr)
	if body["success"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestFullFlow_AdminLoginFlagsAdmin(t *testing.T) {
	h := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/login", "", map[string]string{
		"email": "admin@quizzmate.com", "password": "admin123",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("admin login status = %d: %s", rr.Code, rr.Body.String())
	}
	body := decodeJSON(t, rr)
	if body["is_admin"] != true {
		t.Errorf("is_admin = %v, want true", body["is_admin"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/login", "", map[string]string{
		"email": "admin@quizzmate.com", "password": "admin123",
	})
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("response is missing the X-Request-ID header")
	}
}
