package service

import (
	"github.com/MKhiriev/go-auth-keeper/internal/config"
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/store"
)

// Services aggregates the business-logic layer. It is constructed once at
// startup and injected into the transport layer.
type Services struct {
	AuthService AuthService
}

// NewServices wires the authentication engine to the given storages and
// security policy.
func NewServices(storages *store.Storages, hasher PasswordHasher, clock Clock, cfg config.Auth, logger *logger.Logger) *Services {
	return &Services{
		AuthService: NewAuthService(storages, hasher, clock, cfg, logger),
	}
}
