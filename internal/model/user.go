// Package model defines the data structures used throughout the application.
package model

// User represents a registered account.
//
// WHY Email AS THE OWNERSHIP KEY?
// Every owned row (flashcards, exercise results, sessions) carries the
// owner's email rather than the numeric user id. Email is UNIQUE in the
// users table, so it identifies an account just as well, and it matches
// the wire format the frontend already speaks.
//
// PasswordHash holds the hex-encoded SHA-256 digest of the password.
// It is never serialized to JSON.
type User struct {
	ID           int64  `json:"id"       db:"id"`
	Username     string `json:"username" db:"username"`
	Email        string `json:"email"    db:"email"`
	PasswordHash string `json:"-"        db:"password"`
	IsAdmin      bool   `json:"is_admin" db:"is_admin"`
}

// Identity is the authenticated caller resolved from a bearer token.
//
// It deliberately does NOT carry the admin flag: admin status is re-read
// from the users table on every admin-gated request, so revoking the flag
// takes effect on the very next request instead of whenever the token dies.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
