package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/models"
)

// loginHistoryRepository is the PostgreSQL-backed implementation of
// [LoginHistoryRepository]. The table is append-only; no update or delete
// statement exists for it anywhere in the codebase.
type loginHistoryRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewLoginHistoryRepository constructs a [LoginHistoryRepository] backed by
// the provided database connection and logger.
func NewLoginHistoryRepository(db *DB, logger *logger.Logger) LoginHistoryRepository {
	logger.Debug().Msg("creating login history repository")
	return &loginHistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Append records one login attempt. A nil userID is stored as NULL — the
// attempt targeted an email with no matching account.
func (r *loginHistoryRepository) Append(ctx context.Context, userID *int64, ipAddress, userAgent string, success bool) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, appendLoginHistory, userID, ipAddress, userAgent, success); err != nil {
		log.Err(err).Str("func", "*loginHistoryRepository.Append").Msg("error appending login history")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// ListForUser returns the newest attempts of userID, at most limit rows.
func (r *loginHistoryRepository) ListForUser(ctx context.Context, userID int64, limit uint64) ([]models.LoginHistoryEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("entry_id", "user_id", "ip_address", "user_agent", "success", "created_at").
		From(models.LoginHistoryEntry{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(limit).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*loginHistoryRepository.ListForUser").Msg("error building query")
		return nil, fmt.Errorf("error building sql query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*loginHistoryRepository.ListForUser").Msg("error executing query")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	var entries []models.LoginHistoryEntry
	for rows.Next() {
		var entry models.LoginHistoryEntry
		if err := rows.Scan(&entry.EntryID, &entry.UserID, &entry.IPAddress, &entry.UserAgent, &entry.Success, &entry.CreatedAt); err != nil {
			log.Err(err).Str("func", "*loginHistoryRepository.ListForUser").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return entries, nil
}
