package store

import "github.com/MKhiriev/go-auth-keeper/internal/logger"

// Storages aggregates every repository over the shared database handle.
// It is constructed once at startup and injected into the service layer.
type Storages struct {
	UserRepository         UserRepository
	SessionRepository      SessionRepository
	ResetTokenRepository   ResetTokenRepository
	CsrfTokenRepository    CsrfTokenRepository
	LoginHistoryRepository LoginHistoryRepository
}

// NewStorages wires all repositories to the given database connection.
func NewStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		UserRepository:         NewUserRepository(db, logger),
		SessionRepository:      NewSessionRepository(db, logger),
		ResetTokenRepository:   NewResetTokenRepository(db, logger),
		CsrfTokenRepository:    NewCsrfTokenRepository(db, logger),
		LoginHistoryRepository: NewLoginHistoryRepository(db, logger),
	}
}
