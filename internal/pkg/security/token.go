package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// GenerateSecureToken returns a hex string of the given byte length,
// suitable for password-reset tokens.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}
