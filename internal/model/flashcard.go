package model

// Flashcard is a single front/back vocabulary card owned by one user.
// Ownership is structural: every read and write path filters by Email,
// never by a caller-supplied identity.
type Flashcard struct {
	ID    int64  `json:"id"    db:"id"`
	Email string `json:"email" db:"email"` // owner
	Unit  int    `json:"unit"  db:"unit"`
	Front string `json:"front" db:"front"`
	Back  string `json:"back"  db:"back"`
}

// DefaultFlashcard is an admin-curated template. At registration time every
// current template is copied (not referenced) into the new user's deck, so
// later template edits never touch existing users' cards.
type DefaultFlashcard struct {
	ID    int64  `json:"id"    db:"id"`
	Unit  int    `json:"unit"  db:"unit"`
	Front string `json:"front" db:"front"`
	Back  string `json:"back"  db:"back"`
}
