package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt digests are self-describing: the first 29 bytes carry the version,
// the cost, and the salt. That prefix is what gets recorded in the users.salt
// column.
const bcryptSaltPrefixLen = 29

// PasswordHasher derives and verifies bcrypt password digests with a fixed,
// process-wide work factor. The cost is set once at construction from
// configuration and never changes afterwards.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher constructs a PasswordHasher with the given bcrypt cost.
//
// Returns an error if cost lies outside the range bcrypt accepts; a
// misconfigured work factor must abort startup rather than silently fall
// back to a default.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	return &PasswordHasher{cost: cost}, nil
}

// Hash derives a salted one-way digest of password.
//
// bcrypt generates a fresh random salt per call, so two hashes of the same
// password never match. The returned salt is the digest's self-describing
// prefix, recorded separately for audit parity with the schema.
func (h *PasswordHasher) Hash(password string) (hash string, salt string, err error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", "", fmt.Errorf("error hashing password: %w", err)
	}

	return string(digest), string(digest[:bcryptSaltPrefixLen]), nil
}

// Verify reports whether password matches the stored bcrypt digest.
// The comparison is constant-time with respect to the digest contents.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
