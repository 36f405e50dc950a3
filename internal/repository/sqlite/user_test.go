package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/quizzmate/backend/internal/apperror"
	"github.com/quizzmate/backend/internal/model"
)

func TestCreateWithSeededCards(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "alice", "alice@example.com")

	if user.ID == 0 {
		t.Error("CreateWithSeededCards() did not set user.ID")
	}

	found, err := db.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.Username != "alice" {
		t.Errorf("Username = %q, want %q", found.Username, "alice")
	}
	if found.IsAdmin {
		t.Error("new user should not be an admin")
	}
}

func TestCreateWithSeededCards_CopiesDefaults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Two templates exist before registration.
	for _, c := range []model.DefaultFlashcard{
		{Unit: 1, Front: "hello", Back: "hallo"},
		{Unit: 2, Front: "world", Back: "Welt"},
	} {
		card := c
		if err := db.CreateDefaultFlashcard(ctx, &card); err != nil {
			t.Fatalf("CreateDefaultFlashcard: %v", err)
		}
	}

	createTestUser(t, db, "alice", "alice@example.com")

	cards, err := db.ListFlashcards(ctx, "alice@example.com", 1)
	if err != nil {
		t.Fatalf("ListFlashcards() error = %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("unit 1 has %d cards, want 1", len(cards))
	}
	if cards[0].Front != "hello" || cards[0].Back != "hallo" {
		t.Errorf("seeded card = %q/%q, want hello/hallo", cards[0].Front, cards[0].Back)
	}
}

func TestCreateWithSeededCards_SnapshotNotLive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	createTestUser(t, db, "early", "early@example.com")

	// A template added after registration must not appear in the
	// existing deck, only in decks created afterwards.
	card := &model.DefaultFlashcard{Unit: 3, Front: "late", Back: "spaet"}
	if err := db.CreateDefaultFlashcard(ctx, card); err != nil {
		t.Fatalf("CreateDefaultFlashcard: %v", err)
	}

	createTestUser(t, db, "late", "late@example.com")

	earlyCards, err := db.ListFlashcards(ctx, "early@example.com", 3)
	if err != nil {
		t.Fatalf("ListFlashcards(early) error = %v", err)
	}
	if len(earlyCards) != 0 {
		t.Errorf("early user received %d cards from a later template, want 0", len(earlyCards))
	}

	lateCards, err := db.ListFlashcards(ctx, "late@example.com", 3)
	if err != nil {
		t.Fatalf("ListFlashcards(late) error = %v", err)
	}
	if len(lateCards) != 1 {
		t.Errorf("late user received %d cards, want 1", len(lateCards))
	}
}

func TestCreateWithSeededCards_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	createTestUser(t, db, "alice", "alice@example.com")

	dup := &model.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "other"}
	err := db.CreateWithSeededCards(context.Background(), dup)

	if err == nil {
		t.Fatal("CreateWithSeededCards() should reject a duplicate email")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestVerifyCredentials(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created := createTestUser(t, db, "alice", "alice@example.com")

	user, err := db.VerifyCredentials(ctx, "alice@example.com", created.PasswordHash)
	if err != nil {
		t.Fatalf("VerifyCredentials() error = %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want alice@example.com", user.Email)
	}
}

func TestVerifyCredentials_Mismatch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	createTestUser(t, db, "alice", "alice@example.com")

	tests := []struct {
		name        string
		email, hash string
	}{
		{"wrong hash", "alice@example.com", "wrong-hash"},
		{"unknown email", "nobody@example.com", "hash-alice@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.VerifyCredentials(ctx, tt.email, tt.hash)
			if !errors.Is(err, apperror.ErrUnauthenticated) {
				t.Errorf("error = %v, want ErrUnauthenticated", err)
			}
		})
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := db.EnsureAdmin(ctx, "admin", "admin@quizzmate.com", "admin-hash"); err != nil {
			t.Fatalf("EnsureAdmin() call %d error = %v", i+1, err)
		}
	}

	admin, err := db.GetByEmail(ctx, "admin@quizzmate.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if !admin.IsAdmin {
		t.Error("bootstrap admin does not have the admin flag")
	}
	if admin.PasswordHash != "admin-hash" {
		t.Errorf("PasswordHash = %q, want admin-hash", admin.PasswordHash)
	}
}

func TestEnsureAdmin_DoesNotOverwrite(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.EnsureAdmin(ctx, "admin", "admin@quizzmate.com", "original"); err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}
	// Second call with a different hash must leave the row alone.
	if err := db.EnsureAdmin(ctx, "admin", "admin@quizzmate.com", "changed"); err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}

	admin, err := db.GetByEmail(ctx, "admin@quizzmate.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if admin.PasswordHash != "original" {
		t.Errorf("PasswordHash = %q, want original", admin.PasswordHash)
	}
}
