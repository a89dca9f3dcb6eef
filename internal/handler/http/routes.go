package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Use(h.withRateLimit(h.credentialLimiter, true))

		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/password-reset/request", h.requestPasswordReset)
		r.Post("/api/auth/password-reset/confirm", h.confirmPasswordReset)
	})

	// routes behind session authentication
	router.Group(func(r chi.Router) {
		r.Use(h.withRateLimit(h.generalLimiter, false))
		r.Use(h.auth)

		r.Get("/api/auth/csrf-token", h.csrfToken)
		r.Get("/api/auth/login-history", h.loginHistory)

		r.With(h.requireCsrf).Post("/api/auth/logout", h.logout)
	})

	return router
}
