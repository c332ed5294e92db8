// Package worker contains background deliveries that run alongside the HTTP
// server.
package worker

import (
	"context"
	"log/slog"
	"time"

	"usermap/internal/delivery"
	"usermap/internal/domain/repository"

	"go.uber.org/fx"
)

const sweepInterval = time.Hour

// sessionSweeper periodically removes expired session rows. Expired sessions
// are already rejected at lookup time; the sweeper just keeps the table from
// growing without bound.
type sessionSweeper struct {
	sessionRepo repository.SessionRepository
	logger      *slog.Logger
}

// SweeperParams holds dependencies for the session sweeper
type SweeperParams struct {
	fx.In

	SessionRepo repository.SessionRepository
	Logger      *slog.Logger
}

// NewSessionSweeper creates the session sweeper delivery.
func NewSessionSweeper(params SweeperParams) (delivery.Delivery, error) {
	return &sessionSweeper{
		sessionRepo: params.SessionRepo,
		logger:      params.Logger,
	}, nil
}

// Serve sweeps on an interval until the context ends.
func (s *sessionSweeper) Serve(ctx context.Context) error {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	s.logger.Info("Starting session sweeper", slog.Duration("interval", sweepInterval))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.sessionRepo.DeleteExpired(ctx); err != nil {
				s.logger.Error("Failed to sweep expired sessions", slog.Any("error", err))
			}
		}
	}
}
