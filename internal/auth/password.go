// Package auth provides credential hashing, token generation, and the
// HTTP middleware that resolves bearer tokens to identities.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the hex-encoded SHA-256 digest of the plaintext.
//
// KNOWN WEAKNESS — KEPT ON PURPOSE:
// This is an unsalted, non-iterated digest. It is NOT credential-grade
// hashing (bcrypt/argon2 would be), but it is the defined contract of the
// stored credentials: every existing password row and the bootstrap admin
// hash were produced by exactly this function, so changing the algorithm
// would lock out every registered user. Do not "fix" this without a
// migration plan for the stored hashes.
func HashPassword(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
