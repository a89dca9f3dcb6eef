package workers

import (
	"context"

	"github.com/MKhiriev/go-auth-keeper/internal/config"
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/service"
	"github.com/MKhiriev/go-auth-keeper/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles every background worker of the application.
// Currently that is the expired-token sweeper.
func NewWorkers(ctx context.Context, storages *store.Storages, clock service.Clock, cfg config.Workers, logger *logger.Logger) *Workers {
	logger.Info().Msg("creating workers...")

	return &Workers{
		workers: []Worker{
			newTokenSweeper(ctx, storages.ResetTokenRepository, storages.CsrfTokenRepository, clock, cfg.SweepInterval, logger),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
