// Package engine owns the hot event buffer and orchestrates correlation
// indexing, debounced recomputation, and archival hand-off.
package engine

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/graphiti-systems/graphiti/internal/archive"
	"github.com/graphiti-systems/graphiti/internal/clock"
	"github.com/graphiti-systems/graphiti/internal/correlation"
	"github.com/graphiti-systems/graphiti/internal/graph"
	"github.com/graphiti-systems/graphiti/internal/logging"
	"github.com/graphiti-systems/graphiti/internal/metrics"
	"github.com/graphiti-systems/graphiti/internal/models"
	"github.com/graphiti-systems/graphiti/internal/settings"
)

// Defaults mirror the engine's configuration knobs.
const (
	DefaultBatchSize  = 100
	DefaultDebounce   = 200 * time.Millisecond
	DefaultHistoryCap = 300

	storeTimeout = 30 * time.Second
)

// Options configures a new Engine. Zero values fall back to defaults.
type Options struct {
	// Enabled is the initial capture gate.
	Enabled bool
	// BatchSize is the archival batch size; the hot buffer is bounded
	// at 2*BatchSize-1 after settling.
	BatchSize int
	// Debounce is the quiescence interval before recomputation.
	Debounce time.Duration
	// HistoryCap bounds the metrics snapshot history.
	HistoryCap int

	// Batches is the durable cold tier. Optional; without it evicted
	// events are dropped with a warning.
	Batches archive.BatchStore
	// Settings persists the enable flag optimistically. Optional.
	Settings settings.Store

	Clock  clock.Clock
	Logger *logging.Logger
}

func (o *Options) defaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.HistoryCap <= 0 {
		o.HistoryCap = DefaultHistoryCap
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.Logger == nil {
		o.Logger = logging.Default()
	}
}

// Engine is the single owner of the hot event set, the correlation
// index, the derived graph, and the rolling metrics. One mutex guards
// all of them so ingestion, queries, and the debounce callback observe
// a consistent ordering. Archival goroutines are the only work spawned
// concurrently with ingestion; they are fire-and-forget by design.
type Engine struct {
	mu sync.Mutex

	enabled    bool
	batchSize  int
	debounce   time.Duration
	events     []models.Event
	index      *correlation.Index
	history    *metrics.History
	current    models.MetricsSnapshot
	graphState models.Graph
	filters    models.Filters
	viewState  models.ViewState
	drilldown  []models.Event

	timer clock.Timer

	batches  archive.BatchStore
	settings settings.Store
	clock    clock.Clock
	logger   *logging.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	opts.defaults()
	return &Engine{
		enabled:   opts.Enabled,
		batchSize: opts.BatchSize,
		debounce:  opts.Debounce,
		index:     correlation.NewIndex(),
		history:   metrics.NewHistory(opts.HistoryCap),
		batches:   opts.Batches,
		settings:  opts.Settings,
		clock:     opts.Clock,
		logger:    opts.Logger.With(logging.Component("engine")),
	}
}

// IngestEvent appends one pre-normalized event to the hot buffer. It is
// a no-op while capture is disabled. An empty ID is assigned a UUID.
// When the hot count reaches twice the batch size, the oldest batch is
// evicted and handed to the cold tier asynchronously; archival failures
// are logged and the events are lost.
func (e *Engine) IngestEvent(ev models.Event) {
	e.mu.Lock()

	if !e.enabled {
		e.mu.Unlock()
		metrics.EventsDroppedDisabled.Inc()
		return
	}

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = e.clock.Now()
	}

	e.events = append(e.events, ev)
	e.index.Add(ev.ID, &ev)
	metrics.EventsIngested.WithLabelValues(string(ev.Category)).Inc()

	var evicted []models.Event
	if len(e.events) >= 2*e.batchSize {
		evicted = make([]models.Event, e.batchSize)
		copy(evicted, e.events[:e.batchSize])
		e.events = append(e.events[:0:0], e.events[e.batchSize:]...)
	}

	e.scheduleRecomputeLocked()
	e.mu.Unlock()

	if len(evicted) > 0 {
		go e.archiveBatch(evicted)
	}
}

// IngestBatch ingests events in order. There is no cross-event
// atomicity: a batch may be partially archived mid-sequence.
func (e *Engine) IngestBatch(events []models.Event) {
	for _, ev := range events {
		e.IngestEvent(ev)
	}
}

// archiveBatch flushes evicted events to the cold tier. The eviction has
// already happened, so a failed write permanently loses the batch; the
// contract is best effort, log only.
func (e *Engine) archiveBatch(events []models.Event) {
	if e.batches == nil {
		e.logger.Warn("no batch store configured, dropping evicted events", logging.Count(len(events)))
		metrics.ArchiveFailures.Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	id, err := e.batches.Put(ctx, events)
	if err != nil {
		e.logger.Error("failed to archive evicted events, batch lost",
			logging.Count(len(events)), logging.Error(err))
		metrics.ArchiveFailures.Inc()
		return
	}

	metrics.BatchesArchived.Inc()
	e.logger.Debug("archived event batch", logging.BatchID(id), logging.Count(len(events)))
}

// scheduleRecomputeLocked arms or re-arms the debounce timer. Callers
// hold e.mu.
func (e *Engine) scheduleRecomputeLocked() {
	if e.timer == nil {
		e.timer = e.clock.AfterFunc(e.debounce, e.recompute)
		return
	}
	e.timer.Reset(e.debounce)
}

// recompute rebuilds the rolling metrics and the derived graph from the
// current hot set. It runs on the debounce timer's goroutine.
func (e *Engine) recompute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recomputeLocked()
}

func (e *Engine) recomputeLocked() {
	now := e.clock.Now()

	snap := metrics.Compute(e.events, now)
	e.current = snap
	e.history.Append(snap)
	metrics.Publish(snap)

	e.graphState = graph.Build(e.events, e.filters, e.viewState.FocusedKey, e.index, now)
}

// SetEnabled toggles the capture gate. Enabling does not replay or
// backfill; it only allows future ingestion. The flag is persisted
// optimistically through the settings store.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	changed := e.enabled != enabled
	e.enabled = enabled
	e.mu.Unlock()

	if changed {
		e.logger.Info("capture gate changed", "enabled", enabled)
		e.persistEnabled(enabled)
	}
}

// persistEnabled writes the enable flag through the settings store.
// Failures are logged only; the in-memory state is already applied.
func (e *Engine) persistEnabled(enabled bool) {
	if e.settings == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := e.settings.Set(ctx, settings.KeyEnabled, strconv.FormatBool(enabled)); err != nil {
			e.logger.Error("failed to persist enable flag", logging.Error(err))
		}
	}()
}

// ClearEvents destroys both tiers: the hot buffer, correlation index,
// metrics, metrics history, derived graph, and drilldown are reset, and
// the durable store receives an unconditional clear. In-flight archival
// work is not cancelled; a write that completes after the clear leaves
// a stray batch behind.
func (e *Engine) ClearEvents(ctx context.Context) {
	e.mu.Lock()
	e.events = nil
	e.index.Reset()
	e.history.Reset()
	e.current = models.MetricsSnapshot{Timestamp: e.clock.Now()}
	e.graphState = models.Graph{}
	e.drilldown = nil
	metrics.Publish(e.current)
	e.mu.Unlock()

	if e.batches == nil {
		return
	}
	if err := e.batches.Clear(ctx); err != nil {
		e.logger.Error("failed to clear durable batch store", logging.Error(err))
	}
}
