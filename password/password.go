// Package password provides the pluggable credential hashers used by the
// engine. SHA256 matches the record format of existing deployments;
// Argon2 is the recommended replacement for new stores.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hasher turns a plaintext password into its stored form and verifies a
// candidate against a stored hash. Implementations must be safe for
// concurrent use.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// SHA256 is the legacy deterministic hasher: a single unsalted SHA-256
// digest, hex encoded.
//
// This is deliberately weak — fast, unsalted, identical inputs collide
// across users — and is kept only for compatibility with records already
// written in this format. New deployments should configure Argon2; note
// that switching changes the stored hash format and existing records
// will no longer verify.
type SHA256 struct{}

// NewSHA256 returns the legacy hasher.
func NewSHA256() *SHA256 {
	return &SHA256{}
}

func (*SHA256) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (*SHA256) Verify(password, encoded string) (bool, error) {
	sum := sha256.Sum256([]byte(password))
	computed := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(computed), []byte(encoded)) == 1, nil
}
