package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid. All of them are fatal at
// startup; none occur per request.
var (
	// ErrMissingTokenSignKey indicates that no credential signing key was
	// provided by any configuration source.
	ErrMissingTokenSignKey = errors.New("missing token sign key")
	// ErrInvalidBcryptCost indicates a bcrypt work factor outside the range
	// the algorithm accepts.
	ErrInvalidBcryptCost = errors.New("invalid bcrypt cost")
	// ErrInvalidLockoutThreshold indicates a non-positive account lockout
	// threshold.
	ErrInvalidLockoutThreshold = errors.New("invalid lockout threshold")
	// ErrInvalidTokenDurations indicates a non-positive session, reset-token,
	// or CSRF-token TTL.
	ErrInvalidTokenDurations = errors.New("invalid token durations")
)
