package graph

import (
	"time"

	"github.com/graphiti-systems/graphiti/internal/models"
)

// edgeSet accumulates co-occurrence edges in first-seen order.
type edgeSet struct {
	byID  map[string]*edgeAgg
	order []string
}

type edgeAgg struct {
	source       string
	target       string
	kind         models.EdgeKind
	count        int
	errorCount   int
	lastSeen     time.Time
	latencySum   float64
	latencyCount int
}

func newEdgeSet() *edgeSet {
	return &edgeSet{byID: make(map[string]*edgeAgg)}
}

func (s *edgeSet) observe(srcKind models.NodeKind, srcName string, dstKind models.NodeKind, dstName string, kind models.EdgeKind, e *models.Event) {
	source := string(srcKind) + ":" + srcName
	target := string(dstKind) + ":" + dstName
	id := source + "->" + target + ":" + string(kind)

	agg, ok := s.byID[id]
	if !ok {
		agg = &edgeAgg{source: source, target: target, kind: kind}
		s.byID[id] = agg
		s.order = append(s.order, id)
	}

	agg.count++
	if e.IsError() {
		agg.errorCount++
	}
	if e.Timestamp.After(agg.lastSeen) {
		agg.lastSeen = e.Timestamp
	}
	if e.Duration != nil {
		agg.latencySum += *e.Duration
		agg.latencyCount++
	}
}

func (s *edgeSet) edges(now time.Time) []models.Edge {
	out := make([]models.Edge, 0, len(s.order))
	for _, id := range s.order {
		agg := s.byID[id]
		edge := models.Edge{
			ID:         id,
			Source:     agg.source,
			Target:     agg.target,
			Kind:       agg.kind,
			Count:      agg.count,
			ErrorCount: agg.errorCount,
			Status:     models.EdgeStatusIdle,
		}
		if agg.latencyCount > 0 {
			edge.AvgLatency = agg.latencySum / float64(agg.latencyCount)
		}
		if agg.errorCount > 0 {
			edge.Status = models.EdgeStatusError
		} else if now.Sub(agg.lastSeen) <= edgeActivityWindow {
			edge.Status = models.EdgeStatusActive
		}
		out = append(out, edge)
	}
	return out
}
