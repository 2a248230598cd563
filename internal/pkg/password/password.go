// Package password holds credential hashing for officer accounts: bcrypt for
// stored passwords, SHA-256 digests for refresh tokens.
package password

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor applied to officer passwords
const DefaultCost = 12

// Hash derives a bcrypt hash of the plaintext at DefaultCost
func Hash(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether the plaintext matches the stored bcrypt hash
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashToken returns the hex SHA-256 digest of a refresh token. Only the
// digest is ever written to the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidatePassword reports whether a candidate password meets the minimum
// length of 8 characters
func ValidatePassword(plain string) bool {
	return len(plain) >= 8
}
