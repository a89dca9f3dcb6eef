package http

import (
	"net/http"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/ratelimit"
)

// withRateLimit applies a fixed-window limiter keyed by client IP.
//
// failClosed controls what happens when the limiter itself fails (redis
// unreachable): credential endpoints refuse the request with HTTP 503
// rather than letting an attacker disable throttling by overloading redis;
// everything else degrades open and lets the request through.
func (h *Handler) withRateLimit(limiter *ratelimit.Limiter, failClosed bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromRequest(r)

			allowed, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				log.Err(err).Msg("rate limiter unavailable")
				if failClosed {
					http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				log.Warn().Str("ip", clientIP(r)).Msg("rate limit exceeded")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
