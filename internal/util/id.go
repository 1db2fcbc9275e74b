package util

import (
	"crypto/rand"
	"encoding/hex"
)

const idLength = 24

// NewID returns a 24-character hex id (12 random bytes).
func NewID() string {
	b := make([]byte, idLength/2)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// IsID reports whether s has the shape produced by NewID.
func IsID(s string) bool {
	if len(s) != idLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
