package models

import "time"

// PasswordResetToken is a single-use token authorizing a password change.
// It is usable while Used is false and the expiry lies in the future;
// once consumed it is permanently unusable even if not yet expired.
type PasswordResetToken struct {
	TokenID   int64     `json:"-"`
	UserID    int64     `json:"user_id"`
	Token     string    `json:"-"`
	Used      bool      `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Usable reports whether the token may still authorize a reset at the
// given instant.
func (t PasswordResetToken) Usable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

// TableName returns the name of the database table
// associated with the PasswordResetToken model.
func (t PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
