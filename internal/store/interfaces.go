package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-auth-keeper/models"
)

// UserRepository is the credential store: it owns durable user records,
// including the password hash, the failed-attempt counter, and the lockout
// flag. The authentication engine is its only caller.
type UserRepository interface {
	// CreateUser persists a new account and returns it with server-assigned
	// fields populated. A duplicate email surfaces as [ErrEmailAlreadyExists].
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail returns the account registered under email or
	// [ErrNoUserWasFound].
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// FindUserByID returns the account with the given id or
	// [ErrNoUserWasFound].
	FindUserByID(ctx context.Context, userID int64) (models.User, error)

	// IncrementFailedAttempts atomically increments the failed-attempt
	// counter and returns the new value. The read-modify-write happens in a
	// single statement so concurrent failures never observe the same count.
	IncrementFailedAttempts(ctx context.Context, userID int64) (int, error)

	// LockAccount sets the lockout flag. Idempotent.
	LockAccount(ctx context.Context, userID int64) error

	// UpdateLastLogin records a successful login: sets the last-login
	// timestamp and resets the failed-attempt counter to zero.
	UpdateLastLogin(ctx context.Context, userID int64, now time.Time) error

	// UpdatePasswordAndResetCounter consumes the reset token and applies the
	// new password in one transaction: the token is marked used (only if
	// still unused and unexpired), the user's hash and salt are replaced,
	// the failed-attempt counter is reset, and every session of the user is
	// invalidated. Returns the owning user id, or [ErrNoResetTokenWasFound]
	// when the token cannot be consumed.
	UpdatePasswordAndResetCounter(ctx context.Context, token, hash, salt string, now time.Time) (int64, error)
}

// SessionRepository owns the sessions table exclusively.
type SessionRepository interface {
	// Create issues a fresh opaque token and persists the session.
	Create(ctx context.Context, userID int64, ipAddress, userAgent string, expiresAt time.Time) (models.Session, error)

	// FindActiveByToken resolves token to a session that is active and
	// unexpired at instant now. Any other row state returns
	// [ErrNoSessionWasFound]; this method is the sole authorization gate.
	FindActiveByToken(ctx context.Context, token string, now time.Time) (models.Session, error)

	// Invalidate deactivates the session with the given token. Deactivating
	// an already-inactive or missing session is a no-op.
	Invalidate(ctx context.Context, token string) error

	// InvalidateAllForUser deactivates every session owned by userID.
	InvalidateAllForUser(ctx context.Context, userID int64) error
}

// ResetTokenRepository owns the password_reset_tokens table exclusively.
// Consumption happens inside [UserRepository.UpdatePasswordAndResetCounter]
// so that it commits atomically with the password change.
type ResetTokenRepository interface {
	// Create issues a fresh opaque token for userID with the given expiry.
	Create(ctx context.Context, userID int64, expiresAt time.Time) (models.PasswordResetToken, error)

	// FindActiveByToken returns the token row if it is unconsumed and
	// unexpired at instant now, [ErrNoResetTokenWasFound] otherwise.
	FindActiveByToken(ctx context.Context, token string, now time.Time) (models.PasswordResetToken, error)

	// DeleteExpired removes rows past their expiry and reports how many
	// were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// CsrfTokenRepository owns the csrf_tokens table exclusively.
type CsrfTokenRepository interface {
	// Create issues a fresh opaque token bound to userID.
	Create(ctx context.Context, userID int64, expiresAt time.Time) (models.CsrfToken, error)

	// ConsumeValid deletes the token in the same statement that validates
	// it, so a token validates at most once. Returns true iff the token
	// existed, belonged to userID, and was unexpired at instant now.
	ConsumeValid(ctx context.Context, userID int64, token string, now time.Time) (bool, error)

	// DeleteExpired removes rows past their expiry and reports how many
	// were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// LoginHistoryRepository records the append-only audit trail of login
// attempts. Rows are never mutated or deleted.
type LoginHistoryRepository interface {
	// Append records one attempt. userID is nil when the email resolved to
	// no account.
	Append(ctx context.Context, userID *int64, ipAddress, userAgent string, success bool) error

	// ListForUser returns the most recent attempts of userID,
	// newest first, at most limit rows.
	ListForUser(ctx context.Context, userID int64, limit uint64) ([]models.LoginHistoryEntry, error)
}
