package sqlite

import (
	"context"
	"fmt"

	"github.com/quizzmate/backend/internal/apperror"
	"github.com/quizzmate/backend/internal/model"
	"github.com/quizzmate/backend/internal/repository"
)

var (
	_ repository.FlashcardRepository        = (*DB)(nil)
	_ repository.DefaultFlashcardRepository = (*DB)(nil)
)

// ListFlashcards returns the caller's cards for one unit. The email filter
// is the ownership boundary — rows belonging to other users are invisible,
// not merely hidden by the handler.
func (db *DB) ListFlashcards(ctx context.Context, email string, unit int) ([]model.Flashcard, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, email, unit, front, back
		 FROM flashcards
		 WHERE email = ? AND unit = ?
		 ORDER BY id`,
		email, unit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing flashcards: %w", err)
	}
	defer rows.Close()

	cards := []model.Flashcard{}
	for rows.Next() {
		var c model.Flashcard
		if err := rows.Scan(&c.ID, &c.Email, &c.Unit, &c.Front, &c.Back); err != nil {
			return nil, fmt.Errorf("sqlite: scanning flashcard: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating flashcards: %w", err)
	}
	return cards, nil
}

// CreateFlashcard inserts a card for card.Email and fills in the new id.
func (db *DB) CreateFlashcard(ctx context.Context, card *model.Flashcard) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO flashcards (email, unit, front, back) VALUES (?, ?, ?, ?)`,
		card.Email, card.Unit, card.Front, card.Back,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting flashcard: %w", err)
	}
	card.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new flashcard id: %w", err)
	}
	return nil
}

// UpdateFlashcard rewrites front/back of the caller's own card. The WHERE
// clause re-filters by email, so guessing another user's card id changes
// nothing — zero affected rows comes back as not-found.
func (db *DB) UpdateFlashcard(ctx context.Context, email string, id int64, front, back string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE flashcards SET front = ?, back = ? WHERE id = ? AND email = ?`,
		front, back, id, email,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating flashcard %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotOwned("Card")
	}
	return nil
}

// DeleteFlashcard removes the caller's own card. Same ownership re-filter
// as UpdateFlashcard.
func (db *DB) DeleteFlashcard(ctx context.Context, email string, id int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM flashcards WHERE id = ? AND email = ?`,
		id, email,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting flashcard %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotOwned("Card")
	}
	return nil
}

// ListDefaultFlashcards returns templates, optionally filtered by unit
// (unit == 0 means all).
func (db *DB) ListDefaultFlashcards(ctx context.Context, unit int) ([]model.DefaultFlashcard, error) {
	query := `SELECT id, unit, front, back FROM default_flashcards ORDER BY id`
	args := []any{}
	if unit > 0 {
		query = `SELECT id, unit, front, back FROM default_flashcards WHERE unit = ? ORDER BY id`
		args = append(args, unit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing default flashcards: %w", err)
	}
	defer rows.Close()

	cards := []model.DefaultFlashcard{}
	for rows.Next() {
		var c model.DefaultFlashcard
		if err := rows.Scan(&c.ID, &c.Unit, &c.Front, &c.Back); err != nil {
			return nil, fmt.Errorf("sqlite: scanning default flashcard: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating default flashcards: %w", err)
	}
	return cards, nil
}

func (db *DB) CreateDefaultFlashcard(ctx context.Context, card *model.DefaultFlashcard) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO default_flashcards (unit, front, back) VALUES (?, ?, ?)`,
		card.Unit, card.Front, card.Back,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting default flashcard: %w", err)
	}
	card.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new default flashcard id: %w", err)
	}
	return nil
}

func (db *DB) UpdateDefaultFlashcard(ctx context.Context, id int64, front, back string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE default_flashcards SET front = ?, back = ? WHERE id = ?`,
		front, back, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating default flashcard %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Card", id)
	}
	return nil
}

func (db *DB) DeleteDefaultFlashcard(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM default_flashcards WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting default flashcard %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Card", id)
	}
	return nil
}
