package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/config"
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/store"
	"github.com/MKhiriev/go-auth-keeper/internal/utils"
	"github.com/MKhiriev/go-auth-keeper/models"
)

// authService is the concrete implementation of AuthService.
// It orchestrates the credential store, the session and token registries,
// the login-history recorder, the password hasher, and the clock. The
// service holds no mutable state of its own; every durable transition goes
// through the storage collaborators, which are the serialization points for
// concurrent requests.
type authService struct {
	// users is the credential store: password hashes, lockout state, and
	// the failed-attempt counter.
	users store.UserRepository

	// sessions, resetTokens, and csrfTokens are the three token registries.
	// Each owns its table exclusively.
	sessions    store.SessionRepository
	resetTokens store.ResetTokenRepository
	csrfTokens  store.CsrfTokenRepository

	// history is the append-only audit of login attempts.
	history store.LoginHistoryRepository

	// hasher derives and verifies password digests with the configured
	// work factor.
	hasher PasswordHasher

	// clock is the single time source for expiry decisions.
	clock Clock

	// tokenSignKey is the HMAC secret used to sign and verify session
	// credentials.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued credential.
	tokenIssuer string

	// lockoutThreshold is the failed-attempt count at which the account
	// gets locked.
	lockoutThreshold int

	// sessionDuration, resetTokenDuration, and csrfTokenDuration are the
	// TTLs applied when minting each kind of token.
	sessionDuration    time.Duration
	resetTokenDuration time.Duration
	csrfTokenDuration  time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs the authentication engine wired to the given
// repositories and populated with the security policy from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(storages *store.Storages, hasher PasswordHasher, clock Clock, cfg config.Auth, logger *logger.Logger) AuthService {
	return &authService{
		users:              storages.UserRepository,
		sessions:           storages.SessionRepository,
		resetTokens:        storages.ResetTokenRepository,
		csrfTokens:         storages.CsrfTokenRepository,
		history:            storages.LoginHistoryRepository,
		hasher:             hasher,
		clock:              clock,
		tokenSignKey:       cfg.TokenSignKey,
		tokenIssuer:        cfg.TokenIssuer,
		lockoutThreshold:   cfg.LockoutThreshold,
		sessionDuration:    cfg.SessionDuration,
		resetTokenDuration: cfg.ResetTokenDuration,
		csrfTokenDuration:  cfg.CsrfTokenDuration,
		logger:             logger,
	}
}

// Register creates a new user account.
//
// It hashes the password with a fresh per-user salt and delegates
// persistence to the credential store. The plaintext password is never
// stored or logged.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - ErrInvalidDataProvided if username, email, or password is empty.
//   - store.ErrEmailAlreadyExists if the email is taken.
//   - ErrStorageUnavailable wrapping any other storage fault.
func (a *authService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	if username == "" || email == "" || password == "" {
		log.Error().Str("username", username).Str("email", email).Msg("invalid registration data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	hash, salt, err := a.hasher.Hash(password)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	registeredUser, err := a.users.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return models.User{}, err
		}
		log.Err(err).Str("email", email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return registeredUser, nil
}

// Login authenticates an existing user and opens a session.
//
// The flow, in order:
//  1. Look up the account by email. An unknown email records a failed
//     history entry with a null user id and fails with
//     ErrInvalidCredentials — indistinguishable from a wrong password.
//  2. A locked account fails with ErrAccountLocked without touching the
//     attempt counter.
//  3. A wrong password atomically increments the counter and records a
//     failed history entry; reaching the lockout threshold locks the
//     account and fails with ErrAccountLocked, otherwise
//     ErrInvalidCredentials.
//  4. A correct password resets the counter, stamps last-login, records a
//     successful history entry, creates the session, and returns the
//     signed credential binding the user to the session token.
//
// At most one session row and one history row are written per call.
func (a *authService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (models.Credential, models.UserSummary, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		log.Error().Str("email", email).Msg("invalid login data provided")
		return models.Credential{}, models.UserSummary{}, ErrInvalidDataProvided
	}

	user, err := a.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			if histErr := a.history.Append(ctx, nil, ipAddress, userAgent, false); histErr != nil {
				return models.Credential{}, models.UserSummary{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, histErr)
			}
			return models.Credential{}, models.UserSummary{}, ErrInvalidCredentials
		}
		log.Err(err).Msg("user search by email failed")
		return models.Credential{}, models.UserSummary{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if user.Locked {
		log.Warn().Int64("id", user.UserID).Msg("login attempt on locked account")
		return models.Credential{}, models.UserSummary{}, ErrAccountLocked
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return models.Credential{}, models.UserSummary{}, a.handleFailedPassword(ctx, user, ipAddress, userAgent)
	}

	now := a.clock.Now()

	if err := a.users.UpdateLastLogin(ctx, user.UserID, now); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("updating last login failed")
		return models.Credential{}, models.UserSummary{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if err := a.history.Append(ctx, &user.UserID, ipAddress, userAgent, true); err != nil {
		return models.Credential{}, models.UserSummary{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	session, err := a.sessions.Create(ctx, user.UserID, ipAddress, userAgent, now.Add(a.sessionDuration))
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("session creation failed")
		return models.Credential{}, models.UserSummary{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	credential, err := utils.GenerateCredential(a.tokenIssuer, user.UserID, session.Token, now, session.ExpiresAt, a.tokenSignKey)
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("credential signing failed")
		return models.Credential{}, models.UserSummary{}, fmt.Errorf("%w: %w", ErrCredentialCreationFailed, err)
	}

	log.Debug().Int64("id", user.UserID).Msg("user successfully logged in")

	return credential, user.Summary(), nil
}

// handleFailedPassword applies the lockout escalation for one wrong
// password: atomic counter increment, history row, and — once the counter
// reaches the threshold — the lock itself. The increment happens in a
// single conditional statement at the store, so concurrent failures can
// never both observe the pre-threshold count.
func (a *authService) handleFailedPassword(ctx context.Context, user models.User, ipAddress, userAgent string) error {
	log := logger.FromContext(ctx)

	newCount, err := a.users.IncrementFailedAttempts(ctx, user.UserID)
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("incrementing failed attempts failed")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if err := a.history.Append(ctx, &user.UserID, ipAddress, userAgent, false); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if newCount >= a.lockoutThreshold {
		if err := a.users.LockAccount(ctx, user.UserID); err != nil {
			log.Err(err).Int64("id", user.UserID).Msg("locking account failed")
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		log.Warn().Int64("id", user.UserID).Int("attempts", newCount).Msg("account locked after repeated failures")
		return ErrAccountLocked
	}

	return ErrInvalidCredentials
}

// Logout deactivates the session with the given opaque token. Deactivating
// an already-inactive or unknown session is a no-op.
func (a *authService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return ErrInvalidDataProvided
	}

	if err := a.sessions.Invalidate(ctx, sessionToken); err != nil {
		logger.FromContext(ctx).Err(err).Msg("session invalidation failed")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return nil
}

// Authenticate verifies a signed credential string.
//
// Verification requires both the signature and claims to validate AND the
// embedded session token to resolve to an active, unexpired session row.
// Any parse or claim failure is normalised to ErrInvalidOrExpiredToken so
// that callers never inspect low-level JWT errors; a dead session surfaces
// as ErrSessionNotFound.
func (a *authService) Authenticate(ctx context.Context, credentialString string) (models.Credential, error) {
	credential, err := utils.ValidateAndParseCredential(credentialString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Credential{}, ErrInvalidOrExpiredToken
	}

	if _, err := a.sessions.FindActiveByToken(ctx, credential.SessionToken, a.clock.Now()); err != nil {
		if errors.Is(err, store.ErrNoSessionWasFound) {
			return models.Credential{}, ErrSessionNotFound
		}
		logger.FromContext(ctx).Err(err).Msg("session lookup failed")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return credential, nil
}

// RequestPasswordReset issues a reset token for the account registered
// under email.
//
// When no such account exists it returns an empty token and no error: the
// boundary answers identically either way, so the endpoint reveals nothing
// about which emails are registered. Unlike login, nothing is appended to
// the history — reset requests are not login attempts.
func (a *authService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	log := logger.FromContext(ctx)

	if email == "" {
		return "", ErrInvalidDataProvided
	}

	user, err := a.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return "", nil
		}
		log.Err(err).Msg("user search by email failed")
		return "", fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	resetToken, err := a.resetTokens.Create(ctx, user.UserID, a.clock.Now().Add(a.resetTokenDuration))
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("reset token creation failed")
		return "", fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return resetToken.Token, nil
}

// ResetPassword consumes the reset token and applies the new password.
//
// The three effects — marking the token used, replacing the hash and salt,
// and invalidating every session of the user — commit as one transaction
// inside the credential store. A second use of the same token, or an
// expired one, fails with ErrInvalidOrExpiredToken.
func (a *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	log := logger.FromContext(ctx)

	if token == "" || newPassword == "" {
		return ErrInvalidDataProvided
	}

	hash, salt, err := a.hasher.Hash(newPassword)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return fmt.Errorf("password hashing failed: %w", err)
	}

	userID, err := a.users.UpdatePasswordAndResetCounter(ctx, token, hash, salt, a.clock.Now())
	if err != nil {
		if errors.Is(err, store.ErrNoResetTokenWasFound) {
			return ErrInvalidOrExpiredToken
		}
		log.Err(err).Msg("password reset transaction failed")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	log.Info().Int64("id", userID).Msg("password reset completed, all sessions invalidated")

	return nil
}

// GenerateCsrfToken mints a single-use token bound to userID with the
// configured TTL.
func (a *authService) GenerateCsrfToken(ctx context.Context, userID int64) (string, error) {
	csrfToken, err := a.csrfTokens.Create(ctx, userID, a.clock.Now().Add(a.csrfTokenDuration))
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("id", userID).Msg("csrf token creation failed")
		return "", fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return csrfToken.Token, nil
}

// ValidateCsrfToken reports whether token is valid for userID. A successful
// validation consumes the token in the same conditional statement, so from
// the caller's perspective validate and consume are one atomic step and a
// token validates at most once.
func (a *authService) ValidateCsrfToken(ctx context.Context, userID int64, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	ok, err := a.csrfTokens.ConsumeValid(ctx, userID, token, a.clock.Now())
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("id", userID).Msg("csrf token validation failed")
		return false, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return ok, nil
}

// LoginHistory returns the newest login attempts of userID, at most limit
// rows.
func (a *authService) LoginHistory(ctx context.Context, userID int64, limit uint64) ([]models.LoginHistoryEntry, error) {
	entries, err := a.history.ListForUser(ctx, userID, limit)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("id", userID).Msg("login history listing failed")
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return entries, nil
}
