package http

import (
	"net/http"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/utils"
)

const csrfTokenHeader = "X-Csrf-Token"

// requireCsrf is an HTTP middleware that enforces single-use CSRF tokens on
// state-changing authenticated routes. It must run after [Handler.auth],
// which puts the user's ID into the request context.
//
// The token travels in the "X-Csrf-Token" header. Validation consumes the
// token, so every guarded request needs a fresh one from the csrf-token
// endpoint. A missing or invalid token is rejected with HTTP 403 Forbidden.
func (h *Handler) requireCsrf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		ctx := r.Context()

		userID, ok := utils.GetUserIDFromContext(ctx)
		if !ok {
			log.Error().Msg("no user id in request context")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		token := r.Header.Get(csrfTokenHeader)
		if token == "" {
			log.Err(ErrMissingCsrfToken).Send()
			http.Error(w, ErrMissingCsrfToken.Error(), http.StatusForbidden)
			return
		}

		valid, err := h.services.AuthService.ValidateCsrfToken(ctx, userID, token)
		if err != nil {
			log.Err(err).Msg("error occurred during csrf token validation")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if !valid {
			log.Error().Int64("id", userID).Msg("invalid csrf token")
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
