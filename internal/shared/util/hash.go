package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a filesystem-safe identifier for an identity key such as a phone number.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ShortKey returns the first 12 hex characters of HashKey, used to reference identities in logs
// without writing phone numbers.
func ShortKey(s string) string {
	if s == "" {
		return ""
	}
	return HashKey(s)[:12]
}
