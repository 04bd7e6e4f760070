package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const fingerprintLength = 12

// HashString creates a SHA-256 hash of the input string
func HashString(input string) string {
	h := sha256.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a short, case-insensitive hash of a personal value such
// as an email address, so log lines can be correlated without storing it.
func Fingerprint(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return ""
	}
	return HashString(normalized)[:fingerprintLength]
}
