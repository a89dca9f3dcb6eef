package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_LengthAndEncoding(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)

	// 32 random bytes hex-encoded
	assert.Len(t, token, 64)
	_, err = hex.DecodeString(token)
	assert.NoError(t, err)
}

func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for range 100 {
		token, err := GenerateToken()
		require.NoError(t, err)

		_, dup := seen[token]
		require.False(t, dup, "token %q generated twice", token)
		seen[token] = struct{}{}
	}
}
