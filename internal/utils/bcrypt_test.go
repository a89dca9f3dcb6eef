package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testCost keeps the hashing rounds low so the suite stays fast; the
// verification semantics do not depend on the work factor.
const testCost = bcrypt.MinCost

func TestNewPasswordHasher_RejectsOutOfRangeCost(t *testing.T) {
	_, err := NewPasswordHasher(bcrypt.MaxCost + 1)
	require.Error(t, err)

	_, err = NewPasswordHasher(bcrypt.MinCost - 1)
	require.Error(t, err)
}

func TestPasswordHasher_HashThenVerify(t *testing.T) {
	hasher, err := NewPasswordHasher(testCost)
	require.NoError(t, err)

	hash, salt, err := hasher.Hash("P@ssw0rd1")
	require.NoError(t, err)

	assert.True(t, hasher.Verify("P@ssw0rd1", hash))
	assert.False(t, hasher.Verify("P@ssw0rd2", hash))
	assert.True(t, strings.HasPrefix(hash, salt), "salt must be the digest prefix")
}

func TestPasswordHasher_FreshSaltPerCall(t *testing.T) {
	hasher, err := NewPasswordHasher(testCost)
	require.NoError(t, err)

	first, firstSalt, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, secondSalt, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same password must differ")
	assert.NotEqual(t, firstSalt, secondSalt)
}

func TestPasswordHasher_VerifyRejectsGarbageHash(t *testing.T) {
	hasher, err := NewPasswordHasher(testCost)
	require.NoError(t, err)

	assert.False(t, hasher.Verify("anything", "not-a-bcrypt-digest"))
	assert.False(t, hasher.Verify("anything", ""))
}
