package worker

import (
	"context"
	"log/slog"
	"time"

	"qrpass/internal/qr"
)

// Sweeper periodically purges replay claims older than the retention
// window so the processed-payload set stays bounded. Retention only needs
// to exceed the longest payload TTL in circulation; after a payload has
// expired the replay record no longer protects anything.
type Sweeper struct {
	replay    qr.ReplayStore
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger
}

func NewSweeper(replay qr.ReplayStore, interval, retention time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		replay:    replay,
		interval:  interval,
		retention: retention,
		logger:    logger,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("replay sweeper started",
		"interval", s.interval,
		"retention", s.retention,
	)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if err := s.Sweep(ctx); err != nil {
		s.logger.Error("replay sweep failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("replay sweeper stopping")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error("replay sweep failed", "error", err)
			}
		}
	}
}

// Sweep runs a single purge pass.
func (s *Sweeper) Sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-s.retention)

	purged, err := s.replay.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	if purged > 0 {
		s.logger.Info("purged replay records", "purged", purged)
	}
	return nil
}
