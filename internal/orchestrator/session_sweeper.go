package orchestrator

import (
	"context"
	"time"
)

// RunSessionSweeper deletes stored sessions idle for longer than SessionTTL.
// It returns immediately when no store or TTL is configured.
func (s *Service) RunSessionSweeper(ctx context.Context, interval time.Duration) {
	if s == nil || !s.sessions.Enabled() || s.cfg.SessionTTL <= 0 {
		return
	}

	if interval < time.Minute {
		interval = time.Minute
	}
	if interval > s.cfg.SessionTTL {
		interval = s.cfg.SessionTTL
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.logger.Info("session sweeper started", "interval", interval, "ttl", s.cfg.SessionTTL)

	for {
		select {
		case <-ctx.Done():
			return
		case tickAt := <-ticker.C:
			s.sweepSessions(ctx, tickAt.UTC())
		}
	}
}

func (s *Service) sweepSessions(ctx context.Context, now time.Time) {
	if _, err := s.sessions.Sweep(ctx, now, s.cfg.SessionTTL); err != nil {
		s.logger.Warn("session sweep failed", "error", err)
	}
}
