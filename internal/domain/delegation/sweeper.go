package delegation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sentrypolicy/authzcore/internal/domain/clock"
)

// Sweeper periodically purges terminal (Revoked/Expired) delegation
// records past a retention window. Grounded on the same background
// cleanup-goroutine shape the memory rate limiter uses: a ticker loop
// stoppable from either context cancellation or an explicit Stop call.
type Sweeper struct {
	Store     Store
	Clock     clock.Clock
	Retention time.Duration
	Interval  time.Duration

	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewSweeper builds a Sweeper purging records older than retention, every
// interval.
func NewSweeper(store Store, retention, interval time.Duration) *Sweeper {
	return &Sweeper{
		Store:     store,
		Clock:     clock.System{},
		Retention: retention,
		Interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start runs the sweep loop in a background goroutine until ctx is done or
// Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.sweepOnce(ctx)
			}
		}
	}()
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	purged, err := s.Store.Sweep(ctx, s.Retention, s.Clock.Now())
	if err != nil {
		slog.Error("delegation sweep failed", "error", err)
		return
	}
	if purged > 0 {
		slog.Debug("delegation sweep completed", "purged", purged)
	}
}

// Stop halts the sweep loop and waits for it to exit. Safe to call more
// than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
}
