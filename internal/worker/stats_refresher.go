package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/anyschool/order-service/internal/domain/model"
)

// StatsSource exposes the subset of application functionality the refresher needs.
type StatsSource interface {
	OrderStats(ctx context.Context) (*model.OrderStats, error)
}

// StatsRefresher keeps a periodically refreshed snapshot of the purchasing
// dashboard stats. It only reads; order transitions are never driven from
// the background.
type StatsRefresher struct {
	source   StatsSource
	interval time.Duration
	logger   *slog.Logger

	mu       sync.RWMutex
	snapshot *model.OrderStats

	wg     sync.WaitGroup
	cancel context.CancelFunc
	runMu  sync.Mutex
}

// NewStatsRefresher constructs the refresher.
func NewStatsRefresher(source StatsSource, interval time.Duration, logger *slog.Logger) *StatsRefresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &StatsRefresher{source: source, interval: interval, logger: logger}
}

// Start launches the background refresh loop. The loop outlives ctx: it runs
// until Stop is called.
func (r *StatsRefresher) Start(ctx context.Context) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(runCtx)
}

// Stop waits for the refresh loop to finish.
func (r *StatsRefresher) Stop() {
	r.runMu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.runMu.Unlock()

	r.wg.Wait()
}

// Latest returns the most recent snapshot, or nil before the first refresh.
func (r *StatsRefresher) Latest() *model.OrderStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

func (r *StatsRefresher) loop(ctx context.Context) {
	defer r.wg.Done()

	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *StatsRefresher) refresh(ctx context.Context) {
	stats, err := r.source.OrderStats(ctx)
	if err != nil {
		r.logger.Error("stats refresh failed", slog.String("error", err.Error()))
		return
	}
	r.mu.Lock()
	r.snapshot = stats
	r.mu.Unlock()
}
