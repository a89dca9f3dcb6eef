// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// A broken security policy must never make it past process start: a missing
// signing key, an out-of-range bcrypt cost, or a non-positive lockout
// threshold each abort startup with a configuration error.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Auth.TokenSignKey == "" {
		return ErrMissingTokenSignKey
	}

	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return ErrInvalidBcryptCost
	}

	if cfg.Auth.LockoutThreshold < 1 {
		return ErrInvalidLockoutThreshold
	}

	if cfg.Auth.SessionDuration <= 0 || cfg.Auth.ResetTokenDuration <= 0 || cfg.Auth.CsrfTokenDuration <= 0 {
		return ErrInvalidTokenDurations
	}

	return nil
}
