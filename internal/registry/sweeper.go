package registry

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often idle widgets are looked for.
const DefaultSweepInterval = time.Minute

// RunSweeper evicts idle widgets every interval until ctx is done. It
// blocks and always returns nil, so it can run under an errgroup.
func (r *Registry) RunSweeper(ctx context.Context, interval, ttl time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	slog.Info("Widget sweeper started", "interval", interval, "ttl", ttl)

	for {
		select {
		case now := <-ticker.C:
			if n := r.Sweep(now, ttl); n > 0 {
				slog.Info("Widget sweeper evicted idle widgets", "count", n, "remaining", r.Len())
			}
		case <-ctx.Done():
			slog.Info("Widget sweeper shutting down", "reason", ctx.Err())
			return nil
		}
	}
}
