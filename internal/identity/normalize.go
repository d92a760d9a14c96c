package identity

import "strings"

// NormalizeEmail performs case-insensitive canonicalization.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeNumber trims whitespace from a phone-like identifier.
// Digits-only validation is the API layer's concern.
func NormalizeNumber(s string) string {
	return strings.TrimSpace(s)
}
