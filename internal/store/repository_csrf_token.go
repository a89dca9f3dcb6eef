package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/utils"
	"github.com/MKhiriev/go-auth-keeper/models"
)

// csrfTokenRepository is the PostgreSQL-backed implementation of
// [CsrfTokenRepository].
type csrfTokenRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewCsrfTokenRepository constructs a [CsrfTokenRepository] backed by the
// provided database connection and logger.
func NewCsrfTokenRepository(db *DB, logger *logger.Logger) CsrfTokenRepository {
	logger.Debug().Msg("creating csrf token repository")
	return &csrfTokenRepository{
		db:     db,
		logger: logger,
	}
}

// Create mints a fresh 256-bit opaque token bound to userID.
func (r *csrfTokenRepository) Create(ctx context.Context, userID int64, expiresAt time.Time) (models.CsrfToken, error) {
	log := logger.FromContext(ctx)

	token, err := utils.GenerateToken()
	if err != nil {
		log.Err(err).Str("func", "*csrfTokenRepository.Create").Msg("error generating csrf token")
		return models.CsrfToken{}, err
	}

	csrfToken := models.CsrfToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}

	row := r.db.QueryRowContext(ctx, createCsrfToken, userID, token, expiresAt)
	if err := row.Scan(&csrfToken.TokenID, &csrfToken.CreatedAt); err != nil {
		log.Err(err).Str("func", "*csrfTokenRepository.Create").Msg("error: scanning error")
		return models.CsrfToken{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return csrfToken, nil
}

// ConsumeValid validates and deletes the token in a single conditional
// DELETE: the row must belong to userID and be unexpired at instant now.
// Of two concurrent uses of the same token exactly one sees an affected
// row; the other validates false.
func (r *csrfTokenRepository) ConsumeValid(ctx context.Context, userID int64, token string, now time.Time) (bool, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, consumeCsrfToken, userID, token, now)
	if err != nil {
		log.Err(err).Str("func", "*csrfTokenRepository.ConsumeValid").Msg("error consuming csrf token")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unexpected DB error: %w", err)
	}

	return affected == 1, nil
}

// DeleteExpired garbage-collects rows whose expiry has passed.
func (r *csrfTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteExpiredCsrfTokens, now)
	if err != nil {
		log.Err(err).Str("func", "*csrfTokenRepository.DeleteExpired").Msg("error deleting expired csrf tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return deleted, nil
}
