package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quizzmate/backend/internal/apperror"
	"github.com/quizzmate/backend/internal/model"
	"github.com/quizzmate/backend/internal/repository"
)

// FlashcardService owns the rules for personal decks and the admin-curated
// default templates. Ownership scoping is done in the repository WHERE
// clauses; this layer never receives an owner from the client, only the
// authenticated identity's email.
type FlashcardService struct {
	cards    repository.FlashcardRepository
	defaults repository.DefaultFlashcardRepository
	logger   *slog.Logger
}

func NewFlashcardService(
	cards repository.FlashcardRepository,
	defaults repository.DefaultFlashcardRepository,
	logger *slog.Logger,
) *FlashcardService {
	return &FlashcardService{
		cards:    cards,
		defaults: defaults,
		logger:   logger,
	}
}

// List returns the caller's cards for one unit. Unit is required.
func (s *FlashcardService) List(ctx context.Context, ownerEmail string, unit int) ([]model.Flashcard, error) {
	if unit <= 0 {
		return nil, apperror.ValidationFailed("unit", "Unit parameter is required")
	}
	cards, err := s.cards.ListFlashcards(ctx, ownerEmail, unit)
	if err != nil {
		return nil, fmt.Errorf("listing flashcards: %w", err)
	}
	return cards, nil
}

// Add creates a card in the caller's deck.
func (s *FlashcardService) Add(ctx context.Context, ownerEmail string, unit int, front, back string) (*model.Flashcard, error) {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" || back == "" || unit <= 0 {
		return nil, apperror.ValidationFailed("", "Front, back, and unit are required")
	}

	card := &model.Flashcard{
		Email: ownerEmail,
		Unit:  unit,
		Front: front,
		Back:  back,
	}
	if err := s.cards.CreateFlashcard(ctx, card); err != nil {
		s.logger.Error("failed to add flashcard",
			slog.String("email", ownerEmail),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("adding flashcard: %w", err)
	}

	s.logger.Info("flashcard added",
		slog.Int64("id", card.ID),
		slog.String("email", ownerEmail),
		slog.Int("unit", unit),
	)
	return card, nil
}

// Update rewrites the caller's own card; a foreign or missing id comes
// back as not-found.
func (s *FlashcardService) Update(ctx context.Context, ownerEmail string, id int64, front, back string) error {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" || back == "" {
		return apperror.ValidationFailed("", "Front and back are required")
	}
	return s.cards.UpdateFlashcard(ctx, ownerEmail, id, front, back)
}

// Delete removes the caller's own card.
func (s *FlashcardService) Delete(ctx context.Context, ownerEmail string, id int64) error {
	if err := s.cards.DeleteFlashcard(ctx, ownerEmail, id); err != nil {
		return err
	}
	s.logger.Info("flashcard deleted",
		slog.Int64("id", id),
		slog.String("email", ownerEmail),
	)
	return nil
}

// ListDefaults returns templates; unit 0 lists every unit. Admin gating
// happens in the middleware, not here.
func (s *FlashcardService) ListDefaults(ctx context.Context, unit int) ([]model.DefaultFlashcard, error) {
	if unit < 0 {
		return nil, apperror.ValidationFailed("unit", "Unit must be positive")
	}
	cards, err := s.defaults.ListDefaultFlashcards(ctx, unit)
	if err != nil {
		return nil, fmt.Errorf("listing default flashcards: %w", err)
	}
	return cards, nil
}

// AddDefault creates a template card. It affects only users who register
// AFTER this call — existing decks keep their snapshot.
func (s *FlashcardService) AddDefault(ctx context.Context, unit int, front, back string) (*model.DefaultFlashcard, error) {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" || back == "" || unit <= 0 {
		return nil, apperror.ValidationFailed("", "Front, back, and unit are required")
	}

	card := &model.DefaultFlashcard{Unit: unit, Front: front, Back: back}
	if err := s.defaults.CreateDefaultFlashcard(ctx, card); err != nil {
		return nil, fmt.Errorf("adding default flashcard: %w", err)
	}

	s.logger.Info("default flashcard added",
		slog.Int64("id", card.ID),
		slog.Int("unit", unit),
	)
	return card, nil
}

func (s *FlashcardService) UpdateDefault(ctx context.Context, id int64, front, back string) error {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" || back == "" {
		return apperror.ValidationFailed("", "Front and back are required")
	}
	return s.defaults.UpdateDefaultFlashcard(ctx, id, front, back)
}

func (s *FlashcardService) DeleteDefault(ctx context.Context, id int64) error {
	if err := s.defaults.DeleteDefaultFlashcard(ctx, id); err != nil {
		return err
	}
	s.logger.Info("default flashcard deleted", slog.Int64("id", id))
	return nil
}
