package http

import (
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/ratelimit"
	"github.com/MKhiriev/go-auth-keeper/internal/service"
)

type Handler struct {
	services *service.Services

	// credentialLimiter guards the endpoints that accept credentials;
	// generalLimiter covers the rest of the API.
	credentialLimiter *ratelimit.Limiter
	generalLimiter    *ratelimit.Limiter

	logger *logger.Logger
}

func NewHandler(services *service.Services, credentialLimiter, generalLimiter *ratelimit.Limiter, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:          services,
		credentialLimiter: credentialLimiter,
		generalLimiter:    generalLimiter,
		logger:            logger,
	}
}
