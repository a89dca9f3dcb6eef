package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// newTestDB returns a DB wrapping an sqlmock connection. Queries are
// matched by exact string equality against the constants in
// sql_queries.go.
func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &DB{DB: conn, logger: logger.Nop()}, mock
}

// pgError fabricates a driver-level PostgreSQL error with the given code.
func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func userColumns() []string {
	return []string{"user_id", "username", "email", "password_hash", "salt", "failed_login_attempts", "is_locked", "last_login", "created_at"}
}
