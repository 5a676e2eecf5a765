package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shortify-be/internal/repository"
)

// Sweeper periodically deactivates expired URL entries. It is the eventual
// cleanup behind the resolver's live expiry check, so correctness never
// depends on its timing.
type Sweeper struct {
	repo     repository.URLRepository
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
}

// NewSweeper creates a sweeper running at the given interval.
func NewSweeper(repo repository.URLRepository, log *zap.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		repo:     repo,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("expiration sweeper started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiration sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep deactivates every entry whose expiration has passed.
func (s *Sweeper) Sweep() {
	deactivated, err := s.repo.DeactivateExpired(s.now())
	if err != nil {
		s.log.Error("expiration sweep failed", zap.Error(err))
		return
	}
	if deactivated > 0 {
		s.log.Info("deactivated expired URLs", zap.Int64("count", deactivated))
	}
}
