package core

// scheduler.go runs the retention job that removes expired uploads.
//
// The job runs once on start and then every CheckInterval until the context
// is cancelled. Failures are logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig controls how long uploads are kept.
type RetentionConfig struct {
	MaxAge        time.Duration // How long an upload stays available (default: 168h)
	CheckInterval time.Duration // How often to purge (default: 1h)
}

const (
	defaultRetentionMaxAge   = 7 * 24 * time.Hour
	defaultRetentionInterval = time.Hour
)

// StartRetentionScheduler blocks, purging expired uploads until ctx is done.
// Run it in its own goroutine.
func (s *Service) StartRetentionScheduler(ctx context.Context, cfg RetentionConfig) {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultRetentionMaxAge
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = defaultRetentionInterval
	}

	slog.Info("retention scheduler started",
		"max_age", cfg.MaxAge.String(),
		"check_interval", cfg.CheckInterval.String(),
	)

	s.runRetentionJob(ctx, cfg.MaxAge)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention scheduler stopped")
			return
		case <-ticker.C:
			s.runRetentionJob(ctx, cfg.MaxAge)
		}
	}
}

// runRetentionJob performs one purge and returns the number of removed uploads.
func (s *Service) runRetentionJob(ctx context.Context, maxAge time.Duration) int64 {
	start := time.Now()
	cutoff := s.now().Add(-maxAge)

	purged, err := s.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("retention purge failed", "error", err)
		}
		return 0
	}

	slog.Info("expired uploads purged",
		"uploads_purged", purged,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return purged
}
