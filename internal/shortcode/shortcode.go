// Package shortcode generates candidate short identifiers and validates
// aliases and target URLs. Collision handling is the caller's responsibility.
package shortcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"regexp"
)

// DefaultLength is the length of generated short codes.
const DefaultLength = 6

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var aliasPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

// Generate returns a random code of the given length drawn uniformly from the
// 62-symbol alphanumeric alphabet. It has no persistence side effects.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	max := big.NewInt(int64(len(alphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random code: %w", err)
		}
		code[i] = alphabet[n.Int64()]
	}

	return string(code), nil
}

// IsValidAlias reports whether s is an acceptable custom alias: 3-20
// characters, ASCII letters, digits, hyphens and underscores only.
func IsValidAlias(s string) bool {
	return aliasPattern.MatchString(s)
}

// IsValidURL reports whether s parses as an absolute http or https URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
