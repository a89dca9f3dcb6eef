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

// resetTokenRepository is the PostgreSQL-backed implementation of
// [ResetTokenRepository].
type resetTokenRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewResetTokenRepository constructs a [ResetTokenRepository] backed by the
// provided database connection and logger.
func NewResetTokenRepository(db *DB, logger *logger.Logger) ResetTokenRepository {
	logger.Debug().Msg("creating reset token repository")
	return &resetTokenRepository{
		db:     db,
		logger: logger,
	}
}

// Create mints a fresh 256-bit opaque token and persists it for userID.
func (r *resetTokenRepository) Create(ctx context.Context, userID int64, expiresAt time.Time) (models.PasswordResetToken, error) {
	log := logger.FromContext(ctx)

	token, err := utils.GenerateToken()
	if err != nil {
		log.Err(err).Str("func", "*resetTokenRepository.Create").Msg("error generating reset token")
		return models.PasswordResetToken{}, err
	}

	resetToken := models.PasswordResetToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}

	row := r.db.QueryRowContext(ctx, createResetToken, userID, token, expiresAt)
	if err := row.Scan(&resetToken.TokenID, &resetToken.CreatedAt); err != nil {
		log.Err(err).Str("func", "*resetTokenRepository.Create").Msg("error: scanning error")
		return models.PasswordResetToken{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return resetToken, nil
}

// FindActiveByToken returns the token row if it is still consumable at
// instant now. Absent, consumed, and expired rows all yield
// [ErrNoResetTokenWasFound]. Expired rows that the sweeper has not removed
// yet are filtered here, never treated as valid.
func (r *resetTokenRepository) FindActiveByToken(ctx context.Context, token string, now time.Time) (models.PasswordResetToken, error) {
	log := logger.FromContext(ctx)

	var resetToken models.PasswordResetToken
	row := r.db.QueryRowContext(ctx, findActiveResetToken, token, now)

	err := row.Scan(
		&resetToken.TokenID,
		&resetToken.UserID,
		&resetToken.Token,
		&resetToken.Used,
		&resetToken.ExpiresAt,
		&resetToken.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PasswordResetToken{}, ErrNoResetTokenWasFound
		}
		log.Err(err).Str("func", "*resetTokenRepository.FindActiveByToken").Msg("error: scanning error")
		return models.PasswordResetToken{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return resetToken, nil
}

// DeleteExpired garbage-collects rows whose expiry has passed.
func (r *resetTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteExpiredResetTokens, now)
	if err != nil {
		log.Err(err).Str("func", "*resetTokenRepository.DeleteExpired").Msg("error deleting expired reset tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return deleted, nil
}
