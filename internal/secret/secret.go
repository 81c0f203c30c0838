// Package secret generates placeholder secrets for provisional accounts.
// A provisional profile must never leave the core password-less: the
// registration step that consumes it replaces the placeholder with a real
// secret chosen by the member.
package secret

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// PlaceholderLength is the length of generated placeholder secrets.
	PlaceholderLength = 16
)

// GeneratePlaceholder returns a random alphanumeric secret drawn from
// crypto/rand.
func GeneratePlaceholder() (string, error) {
	buf := make([]byte, PlaceholderLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to draw random secret byte: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}

	return string(buf), nil
}
