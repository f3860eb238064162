package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphiti-systems/graphiti/internal/clock"
	"github.com/graphiti-systems/graphiti/internal/models"
)

// recordingStore captures archived batches and clears for assertions.
type recordingStore struct {
	mu      sync.Mutex
	batches [][]models.Event
	cleared int
	putErr  error
	putDone chan struct{}
}

func newRecordingStore() *recordingStore {
	return &recordingStore{putDone: make(chan struct{}, 16)}
}

func (s *recordingStore) Put(ctx context.Context, events []models.Event) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.putDone <- struct{}{} }()
	if s.putErr != nil {
		return 0, s.putErr
	}
	s.batches = append(s.batches, events)
	return int64(len(s.batches)), nil
}

func (s *recordingStore) Get(ctx context.Context, id int64) (*models.ArchivedBatch, error) {
	return nil, nil
}

func (s *recordingStore) List(ctx context.Context) ([]models.BatchMeta, error) {
	return nil, nil
}

func (s *recordingStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches), nil
}

func (s *recordingStore) Delete(ctx context.Context, id int64) error { return nil }

func (s *recordingStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared++
	return nil
}

func (s *recordingStore) waitPut(t *testing.T) {
	t.Helper()
	select {
	case <-s.putDone:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for archival")
	}
}

func (s *recordingStore) archived() [][]models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]models.Event, len(s.batches))
	copy(out, s.batches)
	return out
}

func newTestEngine(t *testing.T, batchSize int) (*Engine, *clock.Fake, *recordingStore) {
	t.Helper()
	fc := clock.NewFake(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	store := newRecordingStore()
	eng := New(Options{
		Enabled:   true,
		BatchSize: batchSize,
		Debounce:  200 * time.Millisecond,
		Batches:   store,
		Clock:     fc,
	})
	return eng, fc, store
}

func event(id, agentID, taskID string) models.Event {
	return models.Event{
		ID:       id,
		Category: models.CategoryAgent,
		AgentID:  agentID,
		TaskID:   taskID,
		Severity: models.SeverityInfo,
	}
}

// While disabled, any sequence of mutating calls leaves all state
// unchanged.
func TestEngine_DisabledGate(t *testing.T) {
	eng, fc, store := newTestEngine(t, 5)
	eng.SetEnabled(false)

	eng.IngestEvent(event("e1", "a1", ""))
	eng.IngestBatch([]models.Event{event("e2", "a2", "t1")})
	eng.SetFilters(models.Filters{ErrorsOnly: true})
	eng.SetFocusedCorrelation("agent:a1")
	eng.SelectNode("agent:a1")
	fc.Advance(time.Second)

	assert.Empty(t, eng.Events())
	assert.Empty(t, eng.Graph().Nodes)
	assert.Empty(t, eng.Graph().Edges)
	assert.Empty(t, eng.MetricsHistory())
	assert.Empty(t, eng.GetCorrelatedEvents("agent:a1"))
	assert.Equal(t, models.Filters{}, eng.Filters())
	assert.Equal(t, models.ViewState{}, eng.ViewState())
	assert.Equal(t, 0, len(store.archived()))
}

func TestEngine_EnableDoesNotBackfill(t *testing.T) {
	eng, _, _ := newTestEngine(t, 5)
	eng.SetEnabled(false)
	eng.IngestEvent(event("dropped", "a1", ""))

	eng.SetEnabled(true)
	assert.Empty(t, eng.Events())

	eng.IngestEvent(event("kept", "a1", ""))
	assert.Len(t, eng.Events(), 1)
}

// The hot buffer is bounded: at 2*batchSize the oldest batchSize events
// are evicted in one step and handed to the cold tier.
func TestEngine_EvictionBound(t *testing.T) {
	const batchSize = 5
	eng, _, store := newTestEngine(t, batchSize)

	for i := 0; i < 2*batchSize-1; i++ {
		eng.IngestEvent(event(fmt.Sprintf("e%d", i), "a1", ""))
		assert.LessOrEqual(t, len(eng.Events()), 2*batchSize-1)
	}
	assert.Len(t, eng.Events(), 2*batchSize-1)

	// The tipping event triggers a single eviction of the oldest batch.
	eng.IngestEvent(event("tip", "a1", ""))
	store.waitPut(t)

	hot := eng.Events()
	assert.Len(t, hot, batchSize)
	assert.Equal(t, "e5", hot[0].ID)
	assert.Equal(t, "tip", hot[batchSize-1].ID)

	batches := store.archived()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], batchSize)
	assert.Equal(t, "e0", batches[0][0].ID)
	assert.Equal(t, "e4", batches[0][batchSize-1].ID)
}

// Archival failure is logged and swallowed: the eviction stands and the
// events are gone from both tiers.
func TestEngine_ArchivalFailureDoesNotRollBack(t *testing.T) {
	const batchSize = 3
	eng, _, store := newTestEngine(t, batchSize)
	store.putErr = assert.AnError

	for i := 0; i < 2*batchSize; i++ {
		eng.IngestEvent(event(fmt.Sprintf("e%d", i), "a1", ""))
	}
	store.waitPut(t)

	assert.Len(t, eng.Events(), batchSize)
	assert.Empty(t, store.archived())
}

func TestEngine_CorrelatedEvents(t *testing.T) {
	eng, _, _ := newTestEngine(t, 100)

	eng.IngestEvent(event("e1", "A", "T"))
	eng.IngestEvent(event("e2", "A", ""))
	eng.IngestEvent(event("e3", "B", "T"))

	byAgent := eng.GetCorrelatedEvents("agent:A")
	require.Len(t, byAgent, 2)
	assert.Equal(t, "e1", byAgent[0].ID)
	assert.Equal(t, "e2", byAgent[1].ID)

	byTask := eng.GetCorrelatedEvents("task:T")
	require.Len(t, byTask, 2)
	assert.Equal(t, "e1", byTask[0].ID)
	assert.Equal(t, "e3", byTask[1].ID)

	assert.Empty(t, eng.GetCorrelatedEvents("agent:missing"))
}

// Archived events stay indexed but are excluded from correlation reads:
// only the hot buffer is resolved.
func TestEngine_CorrelatedEventsExcludeArchived(t *testing.T) {
	const batchSize = 2
	eng, _, store := newTestEngine(t, batchSize)

	for i := 0; i < 2*batchSize; i++ {
		eng.IngestEvent(event(fmt.Sprintf("e%d", i), "A", ""))
	}
	store.waitPut(t)

	got := eng.GetCorrelatedEvents("agent:A")
	require.Len(t, got, batchSize)
	assert.Equal(t, "e2", got[0].ID)
	assert.Equal(t, "e3", got[1].ID)
}

// A burst of ingestions coalesces into a single recompute once the
// system is quiescent for the debounce interval.
func TestEngine_DebounceCoalesces(t *testing.T) {
	eng, fc, _ := newTestEngine(t, 100)

	for i := 0; i < 50; i++ {
		eng.IngestEvent(event(fmt.Sprintf("e%d", i), "a1", "t1"))
		fc.Advance(50 * time.Millisecond) // below the debounce interval
	}
	assert.Empty(t, eng.MetricsHistory(), "no recompute while bursting")

	fc.Advance(200 * time.Millisecond)
	history := eng.MetricsHistory()
	require.Len(t, history, 1)
	assert.Equal(t, 50, history[0].TotalEvents)

	assert.NotEmpty(t, eng.Graph().Nodes)
}

func TestEngine_RecomputeBuildsGraph(t *testing.T) {
	eng, fc, _ := newTestEngine(t, 100)

	ev := event("e1", "planner", "t1")
	ev.Category = models.CategoryTask
	ev.Payload = map[string]any{"status": "in_progress"}
	ev.Timestamp = fc.Now()
	eng.IngestEvent(ev)

	fc.Advance(250 * time.Millisecond)

	g := eng.Graph()
	var ids []string
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"agent:planner", "task:t1"}, ids)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "agent:planner->task:t1:assigned_to", g.Edges[0].ID)
}

// The traffic scenario settles at avgLatency 100 and errorRate 0.10
// after the debounce window.
func TestEngine_TrafficMetricsScenario(t *testing.T) {
	eng, fc, _ := newTestEngine(t, 200)

	for i := 0; i < 200; i++ {
		duration := 50.0
		if i%2 == 1 {
			duration = 150.0
		}
		status := 200
		if i%10 == 0 {
			status = 500
		}
		eng.IngestEvent(models.Event{
			ID:        fmt.Sprintf("t%d", i),
			Timestamp: fc.Now(),
			Category:  models.CategoryTraffic,
			Severity:  models.SeverityInfo,
			Duration:  &duration,
			Status:    &status,
		})
	}

	fc.Advance(200 * time.Millisecond)

	snap := eng.Metrics()
	assert.Equal(t, 200, snap.TotalEvents)
	assert.InDelta(t, 100.0, snap.AvgLatency, 0.001)
	assert.InDelta(t, 0.10, snap.ErrorRate, 0.001)
}

func TestEngine_SelectNodeDrilldown(t *testing.T) {
	eng, fc, _ := newTestEngine(t, 100)

	eng.IngestEvent(event("e1", "A", "T"))
	eng.IngestEvent(event("e2", "B", ""))
	fc.Advance(250 * time.Millisecond)

	eng.SelectNode("agent:A")
	drill := eng.DrilldownEvents()
	require.Len(t, drill, 1)
	assert.Equal(t, "e1", drill[0].ID)
	assert.Equal(t, "agent:A", eng.ViewState().SelectedNodeID)

	eng.SelectNode("")
	assert.Empty(t, eng.DrilldownEvents())
}

func TestEngine_FocusRestrictsGraph(t *testing.T) {
	eng, fc, _ := newTestEngine(t, 100)

	eng.IngestEvent(event("e1", "X", "t1"))
	eng.IngestEvent(event("e2", "Y", "t2"))
	eng.SetFocusedCorrelation("agent:X")
	fc.Advance(250 * time.Millisecond)

	g := eng.Graph()
	var ids []string
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"agent:X", "task:t1"}, ids)
}

// ClearEvents resets every derived structure and issues a durable-store
// clear.
func TestEngine_ClearEvents(t *testing.T) {
	eng, fc, store := newTestEngine(t, 100)

	eng.IngestEvent(event("e1", "A", "T"))
	fc.Advance(250 * time.Millisecond)
	require.NotEmpty(t, eng.Graph().Nodes)
	require.NotEmpty(t, eng.MetricsHistory())

	eng.ClearEvents(context.Background())

	assert.Empty(t, eng.Events())
	assert.Empty(t, eng.Graph().Nodes)
	assert.Empty(t, eng.Graph().Edges)
	assert.Empty(t, eng.MetricsHistory())
	assert.Zero(t, eng.Metrics().TotalEvents)
	assert.Empty(t, eng.DrilldownEvents())
	assert.Empty(t, eng.GetCorrelatedEvents("agent:A"))
	assert.Equal(t, 1, store.cleared)
}

func TestEngine_IngestAssignsID(t *testing.T) {
	eng, _, _ := newTestEngine(t, 100)

	eng.IngestEvent(models.Event{Category: models.CategoryAgent, AgentID: "a1"})
	events := eng.Events()
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestEngine_IngestBatchInOrder(t *testing.T) {
	eng, _, _ := newTestEngine(t, 100)

	eng.IngestBatch([]models.Event{
		event("first", "a", ""),
		event("second", "a", ""),
		event("third", "a", ""),
	})

	events := eng.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "first", events[0].ID)
	assert.Equal(t, "third", events[2].ID)
}
