package config

import "time"

// Built-in policy defaults. Any value left unset by environment, flags,
// and the JSON file falls back to these.
const (
	// DefaultLockoutThreshold is the number of consecutive failed logins
	// that locks an account.
	DefaultLockoutThreshold = 5

	// DefaultBcryptCost is the bcrypt work factor used when none is
	// configured.
	DefaultBcryptCost = 10

	// DefaultSessionDuration keeps a login session valid for seven days.
	DefaultSessionDuration = 7 * 24 * time.Hour

	// DefaultResetTokenDuration is the TTL of password-reset tokens.
	DefaultResetTokenDuration = time.Hour

	// DefaultCsrfTokenDuration is the TTL of CSRF tokens.
	DefaultCsrfTokenDuration = time.Hour

	// DefaultSweepInterval is how often expired token rows are garbage
	// collected.
	DefaultSweepInterval = time.Hour
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Auth: Auth{
			TokenIssuer:        "go-auth-keeper",
			BcryptCost:         DefaultBcryptCost,
			LockoutThreshold:   DefaultLockoutThreshold,
			SessionDuration:    DefaultSessionDuration,
			ResetTokenDuration: DefaultResetTokenDuration,
			CsrfTokenDuration:  DefaultCsrfTokenDuration,
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		RateLimit: RateLimit{
			CredentialWindow: 15 * time.Minute,
			CredentialLimit:  5,
			GeneralWindow:    time.Hour,
			GeneralLimit:     1000,
		},
		Workers: Workers{
			SweepInterval: DefaultSweepInterval,
		},
	}
}
