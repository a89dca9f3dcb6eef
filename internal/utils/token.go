package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenByteLen is the amount of randomness in every opaque token:
// 32 bytes (256 bits), hex-encoded to 64 characters.
const tokenByteLen = 32

// GenerateToken returns a cryptographically secure opaque token suitable
// for session, password-reset, and CSRF identifiers.
//
// Returns an error only if the operating system's entropy source fails.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenByteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating random token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
