package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Entropy sizes in bytes. Session tokens get 256 bits; quiz session ids
// live in a separate, smaller 128-bit space. Both are large enough that a
// collision is treated as unreachable — uniqueness comes from the random
// space, not from a retry loop.
const (
	sessionTokenBytes = 32
	quizSessionBytes  = 16
)

// TokenSource generates the opaque random identifiers used by the session
// registry and the exercise grader. It is a struct (not free functions) so
// it can be injected as a dependency and swapped for a deterministic fake
// in tests.
type TokenSource struct{}

func NewTokenSource() *TokenSource {
	return &TokenSource{}
}

// SessionToken returns a new bearer token: 32 random bytes, hex-encoded
// (64 characters).
func (ts *TokenSource) SessionToken() (string, error) {
	return randomHex(sessionTokenBytes)
}

// QuizSessionID returns a new exercise-session identifier: 16 random
// bytes, hex-encoded (32 characters).
func (ts *TokenSource) QuizSessionID() (string, error) {
	return randomHex(quizSessionBytes)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform's entropy source is
		// broken; nothing sensible can be issued.
		return "", fmt.Errorf("auth: reading random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
