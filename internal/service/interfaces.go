package service

import (
	"context"

	"github.com/MKhiriev/go-auth-keeper/models"
)

// AuthService is the authentication engine exposed to the boundary layer.
// Every method returns a typed result or one of the sentinel failures in
// errors.go; raw storage errors never leak through unwrapped.
type AuthService interface {
	// Register creates a new account. The password is hashed with a fresh
	// per-user salt before persistence; the plaintext is never stored or
	// logged. No session is created.
	Register(ctx context.Context, username, email, password string) (models.User, error)

	// Login authenticates by email and password, escalating repeated
	// failures to an account lockout. On success it records the attempt,
	// opens a session, and returns the signed credential together with a
	// non-sensitive user summary.
	Login(ctx context.Context, email, password, ipAddress, userAgent string) (models.Credential, models.UserSummary, error)

	// Logout deactivates the session with the given opaque token.
	// Safe to call with a token that resolves to no active session.
	Logout(ctx context.Context, sessionToken string) error

	// Authenticate verifies a signed credential string: the signature and
	// claims must validate AND the embedded session token must resolve to
	// an active, unexpired session.
	Authenticate(ctx context.Context, credentialString string) (models.Credential, error)

	// RequestPasswordReset issues a reset token for the account registered
	// under email. When no such account exists it returns an empty token
	// and no error, so the boundary can answer uniformly.
	RequestPasswordReset(ctx context.Context, email string) (string, error)

	// ResetPassword atomically consumes the reset token, replaces the
	// password, and invalidates every session of the owning user.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// GenerateCsrfToken mints a single-use token bound to userID.
	GenerateCsrfToken(ctx context.Context, userID int64) (string, error)

	// ValidateCsrfToken reports whether token is valid for userID and
	// consumes it in the same operation; a token validates at most once.
	ValidateCsrfToken(ctx context.Context, userID int64, token string) (bool, error)

	// LoginHistory returns the newest login attempts of userID, at most
	// limit rows.
	LoginHistory(ctx context.Context, userID int64, limit uint64) ([]models.LoginHistoryEntry, error)
}

// PasswordHasher is the one-way hashing collaborator of the engine.
type PasswordHasher interface {
	// Hash derives a salted digest of password with a fresh salt.
	Hash(password string) (hash string, salt string, err error)

	// Verify reports whether password matches hash, in constant time with
	// respect to the digest contents.
	Verify(password, hash string) bool
}
