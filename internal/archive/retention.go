package archive

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/graphiti-systems/graphiti/internal/logging"
	"github.com/graphiti-systems/graphiti/internal/metrics"
	"github.com/graphiti-systems/graphiti/internal/models"
)

// Retention prunes archived batches by age or count. Prune failures are
// logged and reported as zero deleted; a later sweep retries naturally.
type Retention struct {
	store  BatchStore
	logger *logging.Logger

	mu        sync.Mutex
	period    models.RetentionPeriod
	keepCount int

	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewRetention creates a retention manager over the given store.
func NewRetention(store BatchStore, period models.RetentionPeriod, keepCount int, logger *logging.Logger) *Retention {
	if logger == nil {
		logger = logging.Default()
	}
	return &Retention{
		store:     store,
		logger:    logger.With(logging.Component("retention")),
		period:    period,
		keepCount: keepCount,
		stopChan:  make(chan struct{}),
	}
}

// SetPeriod updates the active retention period.
func (r *Retention) SetPeriod(period models.RetentionPeriod) {
	r.mu.Lock()
	r.period = period
	r.mu.Unlock()
}

// Period returns the active retention period.
func (r *Retention) Period() models.RetentionPeriod {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.period
}

// PruneByRetention deletes all batches older than now minus the period
// and returns the number deleted. An unlimited period is a no-op.
func (r *Retention) PruneByRetention(ctx context.Context, period models.RetentionPeriod) int {
	window, ok := period.Duration()
	if !ok {
		return 0
	}
	cutoff := time.Now().Add(-window)

	metas, err := r.store.List(ctx)
	if err != nil {
		r.logger.Error("retention prune failed to list batches", logging.Error(err))
		return 0
	}

	deleted := 0
	for _, meta := range metas {
		if !meta.Timestamp.Before(cutoff) {
			continue
		}
		if err := r.store.Delete(ctx, meta.BatchID); err != nil {
			r.logger.Error("retention prune failed to delete batch",
				logging.BatchID(meta.BatchID), logging.Error(err))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		metrics.BatchesPruned.Add(float64(deleted))
		r.logger.Info("pruned archived batches by age", logging.Count(deleted))
	}
	return deleted
}

// PruneByCount deletes the oldest batches beyond keep, sorted ascending
// by timestamp. It is the fallback policy when retention is unlimited.
func (r *Retention) PruneByCount(ctx context.Context, keep int) int {
	if keep < 0 {
		keep = 0
	}

	metas, err := r.store.List(ctx)
	if err != nil {
		r.logger.Error("count prune failed to list batches", logging.Error(err))
		return 0
	}
	if len(metas) <= keep {
		return 0
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Timestamp.Before(metas[j].Timestamp)
	})

	deleted := 0
	for _, meta := range metas[:len(metas)-keep] {
		if err := r.store.Delete(ctx, meta.BatchID); err != nil {
			r.logger.Error("count prune failed to delete batch",
				logging.BatchID(meta.BatchID), logging.Error(err))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		metrics.BatchesPruned.Add(float64(deleted))
		r.logger.Info("pruned archived batches by count", logging.Count(deleted))
	}
	return deleted
}

// Sweep applies the configured policy once: a bounded period prunes by
// age, unlimited falls back to the keep-count bound.
func (r *Retention) Sweep(ctx context.Context) int {
	r.mu.Lock()
	period := r.period
	keep := r.keepCount
	r.mu.Unlock()

	if period == models.RetentionUnlimited {
		return r.PruneByCount(ctx, keep)
	}
	return r.PruneByRetention(ctx, period)
}

// Start runs the sweep loop until Stop is called.
func (r *Retention) Start(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Sweep(context.Background())
			case <-r.stopChan:
				return
			}
		}
	}()
}

// Stop terminates the sweep loop and waits for it to finish.
func (r *Retention) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
	r.wg.Wait()
}
