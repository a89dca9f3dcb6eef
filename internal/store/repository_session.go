package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/utils"
	"github.com/MKhiriev/go-auth-keeper/models"
)

// sessionRepository is the PostgreSQL-backed implementation of
// [SessionRepository]. It is the only component that writes to the
// "sessions" table directly; the password-reset transaction in
// [userRepository] reuses its invalidation statement.
type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection and logger.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// Create mints a fresh 256-bit opaque token and persists the session row.
func (r *sessionRepository) Create(ctx context.Context, userID int64, ipAddress, userAgent string, expiresAt time.Time) (models.Session, error) {
	log := logger.FromContext(ctx)

	token, err := utils.GenerateToken()
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.Create").Msg("error generating session token")
		return models.Session{}, err
	}

	session := models.Session{
		UserID:    userID,
		Token:     token,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Active:    true,
		ExpiresAt: expiresAt,
	}

	row := r.db.QueryRowContext(ctx, createSession, userID, token, ipAddress, userAgent, expiresAt)
	if err := row.Scan(&session.SessionID, &session.CreatedAt); err != nil {
		log.Err(err).Str("func", "*sessionRepository.Create").Msg("error: scanning error")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return session, nil
}

// FindActiveByToken resolves token to a usable session. The active and
// unexpired predicates are part of the query, so an inactive or expired row
// is indistinguishable from a missing one — both yield
// [ErrNoSessionWasFound].
func (r *sessionRepository) FindActiveByToken(ctx context.Context, token string, now time.Time) (models.Session, error) {
	log := logger.FromContext(ctx)

	var session models.Session
	row := r.db.QueryRowContext(ctx, findActiveSessionByToken, token, now)

	err := row.Scan(
		&session.SessionID,
		&session.UserID,
		&session.Token,
		&session.IPAddress,
		&session.UserAgent,
		&session.Active,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrNoSessionWasFound
		}
		log.Err(err).Str("func", "*sessionRepository.FindActiveByToken").Msg("error: scanning error")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return session, nil
}

// Invalidate deactivates the session with the given token. Zero affected
// rows is not an error: deactivating an unknown or already-inactive session
// is idempotent.
func (r *sessionRepository) Invalidate(ctx context.Context, token string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, invalidateSession, token); err != nil {
		log.Err(err).Str("func", "*sessionRepository.Invalidate").Msg("error invalidating session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// InvalidateAllForUser deactivates every session owned by userID.
func (r *sessionRepository) InvalidateAllForUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, invalidateUserSessions, userID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.InvalidateAllForUser").Msg("error invalidating user sessions")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
