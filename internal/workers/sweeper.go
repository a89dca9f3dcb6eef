package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/service"
	"github.com/MKhiriev/go-auth-keeper/internal/store"
)

// tokenSweeper periodically deletes expired password-reset and CSRF rows.
// Expiry is already enforced at read time by every repository query, so the
// sweeper is pure garbage collection: a missed run never lets a dead token
// validate, it only leaves rows on disk a little longer.
type tokenSweeper struct {
	ctx         context.Context
	resetTokens store.ResetTokenRepository
	csrfTokens  store.CsrfTokenRepository
	clock       service.Clock
	interval    time.Duration
	logger      *logger.Logger
}

func newTokenSweeper(ctx context.Context, resetTokens store.ResetTokenRepository, csrfTokens store.CsrfTokenRepository, clock service.Clock, interval time.Duration, logger *logger.Logger) *tokenSweeper {
	logger.Debug().Dur("interval", interval).Msg("creating token sweeper")
	return &tokenSweeper{
		ctx:         ctx,
		resetTokens: resetTokens,
		csrfTokens:  csrfTokens,
		clock:       clock,
		interval:    interval,
		logger:      logger,
	}
}

// Run starts the sweep loop in its own goroutine. The loop performs one
// sweep immediately, then one per interval, and exits when the context
// handed to the constructor is cancelled.
func (s *tokenSweeper) Run() {
	go func() {
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				s.logger.Info().Msg("token sweeper stopped")
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *tokenSweeper) sweep() {
	now := s.clock.Now()

	deletedReset, err := s.resetTokens.DeleteExpired(s.ctx, now)
	if err != nil {
		s.logger.Err(err).Msg("error sweeping expired reset tokens")
	}

	deletedCsrf, err := s.csrfTokens.DeleteExpired(s.ctx, now)
	if err != nil {
		s.logger.Err(err).Msg("error sweeping expired csrf tokens")
	}

	s.logger.Debug().
		Int64("reset_tokens", deletedReset).
		Int64("csrf_tokens", deletedCsrf).
		Msg("expired tokens swept")
}
