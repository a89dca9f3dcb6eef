package models

import "time"

// User represents an account entity used for authentication.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// Username is the display name chosen at registration.
	Username string `json:"username"`

	// Email is the unique address the account is registered under.
	// It is the login identifier.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt digest of the user's password.
	// This value MUST be a derived value, never plaintext.
	// It is never exposed via JSON.
	PasswordHash string `json:"-"`

	// Salt is the per-user salt recorded alongside the hash.
	// Never exposed via JSON.
	Salt string `json:"-"`

	// FailedLoginAttempts counts consecutive failed password checks.
	// Reset to zero on a successful login or a password reset.
	FailedLoginAttempts int `json:"-"`

	// Locked blocks login regardless of credential correctness
	// until the flag is cleared out of band.
	Locked bool `json:"-"`

	// LastLogin is the timestamp of the most recent successful login.
	LastLogin time.Time `json:"last_login,omitzero"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// Summary returns the non-sensitive projection of the user that is safe
// to hand to the boundary layer.
func (u User) Summary() UserSummary {
	return UserSummary{
		UserID:   u.UserID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// UserSummary is the boundary-facing view of an account: identity only,
// no credential or lockout state.
type UserSummary struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
