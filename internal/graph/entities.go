package graph

import (
	"time"

	"github.com/graphiti-systems/graphiti/internal/models"
)

// entitySet accumulates per-entity aggregates in first-seen order so the
// derived node list is stable for identical inputs.
type entitySet struct {
	kind  models.NodeKind
	byID  map[string]*entityAgg
	order []string
}

type entityAgg struct {
	name         string
	count        int
	errorCount   int
	lastSeen     time.Time
	latencySum   float64
	latencyCount int
	taskStatus   string
	keys         []string
	keySeen      map[string]struct{}
}

func newEntitySet(kind models.NodeKind) *entitySet {
	return &entitySet{kind: kind, byID: make(map[string]*entityAgg)}
}

func (s *entitySet) observe(name string, e *models.Event) {
	agg, ok := s.byID[name]
	if !ok {
		agg = &entityAgg{name: name, keySeen: make(map[string]struct{})}
		s.byID[name] = agg
		s.order = append(s.order, name)
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
	// Last write wins: the most recent task event determines node status.
	if s.kind == models.NodeTask && e.Category == models.CategoryTask {
		if st := e.PayloadString("status"); st != "" {
			agg.taskStatus = st
		}
	}
	for _, key := range e.CorrelationKeys() {
		if _, seen := agg.keySeen[key]; !seen {
			agg.keySeen[key] = struct{}{}
			agg.keys = append(agg.keys, key)
		}
	}
}

func (s *entitySet) len() int { return len(s.order) }

func (s *entitySet) nodes() []models.Node {
	out := make([]models.Node, 0, len(s.order))
	for _, name := range s.order {
		agg := s.byID[name]
		node := models.Node{
			ID:              string(s.kind) + ":" + name,
			Kind:            s.kind,
			Label:           name,
			Count:           agg.count,
			ErrorCount:      agg.errorCount,
			LastSeen:        agg.lastSeen,
			Status:          s.status(agg),
			CorrelationKeys: agg.keys,
		}
		if agg.latencyCount > 0 {
			node.AvgLatency = agg.latencySum / float64(agg.latencyCount)
		}
		out = append(out, node)
	}
	return out
}

func (s *entitySet) status(agg *entityAgg) models.NodeStatus {
	if s.kind == models.NodeTask {
		switch agg.taskStatus {
		case "completed":
			return models.NodeStatusSuccess
		case "failed":
			return models.NodeStatusError
		case "in_progress":
			return models.NodeStatusActive
		case "blocked":
			return models.NodeStatusBlocked
		default:
			return models.NodeStatusPending
		}
	}
	if agg.errorCount > 0 {
		return models.NodeStatusError
	}
	return models.NodeStatusActive
}
