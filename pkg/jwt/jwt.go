package jwt

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

func NewJTI() string {
	return uuid.NewString()
}

// Sha256Hex is used to store refresh tokens hashed, never raw.
func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
