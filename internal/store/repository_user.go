package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookups, and the lockout counter against the
// "users" table, and hosts the password-reset transaction because that
// transaction spans the users, password_reset_tokens, and sessions tables.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Username, user.Email, user.PasswordHash, user.Salt)

	// create user in db
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	saved, err := scanUserRow(row)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.User{}, ErrEmailAlreadyExists
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.User{}, err
	}

	return saved, nil
}

// FindUserByEmail retrieves the user record registered under the given email.
//
// An empty result set is reported as [ErrNoUserWasFound]; any other
// driver-level error is wrapped as "unexpected DB error".
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, findUserByEmail, email)
}

// FindUserByID retrieves the user record with the given identifier.
// Error semantics match [userRepository.FindUserByEmail].
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findUser(ctx, findUserByID, userID)
}

func (r *userRepository) findUser(ctx context.Context, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.findUser").Msg("error: row is nil")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	foundUser, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.findUser").Msg("error: scanning error")
		return models.User{}, err
	}

	return foundUser, nil
}

// IncrementFailedAttempts bumps the failed-attempt counter in a single
// conditional UPDATE and returns the post-increment value. Expressing the
// read-modify-write as one statement makes the database the serialization
// point: N concurrent failures yield counts 1..N with no duplicates.
func (r *userRepository) IncrementFailedAttempts(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx)

	var newCount int
	row := r.db.QueryRowContext(ctx, incrementFailedAttempts, userID)
	if err := row.Scan(&newCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.IncrementFailedAttempts").Msg("error incrementing failed attempts")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return newCount, nil
}

// LockAccount sets the lockout flag. The operation is idempotent: locking an
// already locked account changes nothing.
func (r *userRepository) LockAccount(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, lockAccount, userID); err != nil {
		log.Err(err).Str("func", "*userRepository.LockAccount").Msg("error locking account")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// UpdateLastLogin records a successful login: it stamps last_login and
// resets the failed-attempt counter in the same statement.
func (r *userRepository) UpdateLastLogin(ctx context.Context, userID int64, now time.Time) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, updateLastLogin, userID, now); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateLastLogin").Msg("error updating last login")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// UpdatePasswordAndResetCounter applies a password reset as one transaction:
//
//  1. consume the reset token — a conditional UPDATE keyed on the
//     unused/unexpired predicate, so of two concurrent resets with the same
//     token exactly one succeeds;
//  2. replace the user's hash and salt and zero the failed-attempt counter;
//  3. invalidate every session of the user.
//
// A login that started before the commit may still complete against the old
// hash; one starting after sees the new hash and no salvageable session.
//
// Returns the owning user id, [ErrNoResetTokenWasFound] when the token is
// absent, already used, or expired, or a wrapped transaction error.
func (r *userRepository) UpdatePasswordAndResetCounter(ctx context.Context, token, hash, salt string, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePasswordAndResetCounter").Msg("error beginning transaction")
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var userID int64
	if err := tx.QueryRowContext(ctx, consumeResetToken, token, now).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoResetTokenWasFound
		}
		log.Err(err).Str("func", "*userRepository.UpdatePasswordAndResetCounter").Msg("error consuming reset token")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	if _, err := tx.ExecContext(ctx, updatePassword, userID, hash, salt); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePasswordAndResetCounter").Msg("error updating password")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err := tx.ExecContext(ctx, invalidateUserSessions, userID); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePasswordAndResetCounter").Msg("error invalidating sessions")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePasswordAndResetCounter").Msg("error committing transaction")
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return userID, nil
}

// scanUserRow scans the canonical users column set into a [models.User].
// last_login is nullable: a user who has never logged in keeps the zero
// time.
func scanUserRow(row *sql.Row) (models.User, error) {
	var user models.User
	var lastLogin sql.NullTime

	err := row.Scan(
		&user.UserID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Salt,
		&user.FailedLoginAttempts,
		&user.Locked,
		&lastLogin,
		&user.CreatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}

	return user, nil
}
