// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, CSRF protection, rate limiting,
// logging, and tracing concerns are all handled at this layer before
// requests are forwarded to the service layer.
package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/service"
	"github.com/MKhiriev/go-auth-keeper/internal/utils"
)

// auth is an HTTP middleware that enforces session-credential authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer
// credential, verifies it via [service.AuthService.Authenticate] — which
// checks the signature AND resolves the embedded session token to an active,
// unexpired session — and on success stores the user's ID and the session
// token in the request context before delegating to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized in the
// following cases:
//   - The "Authorization" header is absent ([ErrEmptyAuthorizationHeader]).
//   - The header value cannot be parsed as a bearer token
//     ([ErrInvalidAuthorizationHeader] or [ErrEmptyToken]).
//   - The credential is malformed, forged, or expired
//     ([service.ErrInvalidOrExpiredToken]).
//   - The backing session is inactive or gone, e.g. after a logout or a
//     password reset ([service.ErrSessionNotFound]).
//
// All rejection events are logged using the context-scoped logger obtained
// via [logger.FromRequest].
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		credentialString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		credential, err := h.services.AuthService.Authenticate(ctx, credentialString)

		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidOrExpiredToken):
				log.Err(err).Msg("invalid or expired credential")
				http.Error(w, service.ErrInvalidOrExpiredToken.Error(), http.StatusUnauthorized)
				return
			case errors.Is(err, service.ErrSessionNotFound):
				log.Err(err).Msg("session is no longer active")
				http.Error(w, service.ErrSessionNotFound.Error(), http.StatusUnauthorized)
				return
			default:
				log.Err(err).Msg("error occurred during credential verification")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
		}

		// Store the authenticated user's ID and the opaque session token in
		// the context so that downstream handlers can retrieve them without
		// re-parsing the credential.
		ctx = context.WithValue(ctx, utils.UserIDCtxKey, credential.UserID)
		ctx = context.WithValue(ctx, utils.SessionTokenCtxKey, credential.SessionToken)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value.
//
// The header is expected to follow the standard format:
//
//	Authorization: <scheme> <token>
//
// It returns the following sentinel errors:
//   - [ErrInvalidAuthorizationHeader] — if the header contains fewer than
//     two space-separated parts (i.e. the token is missing entirely).
//   - [ErrEmptyToken] — if the second part exists but is an empty string.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
