// Package graph derives the filtered, aggregated entity graph from the
// hot event set, the correlation index, and the active filters/focus.
package graph

import (
	"time"

	"github.com/graphiti-systems/graphiti/internal/correlation"
	"github.com/graphiti-systems/graphiti/internal/models"
)

// edgeActivityWindow bounds how recent an event must be for an edge to
// be considered active rather than idle.
const edgeActivityWindow = 30 * time.Second

// Build derives the node/edge graph. Given identical inputs the returned
// node and edge sets have identical membership; ordering follows first
// appearance in the event sequence.
func Build(events []models.Event, filters models.Filters, focusedKey string, index *correlation.Index, now time.Time) models.Graph {
	filtered := applyFilters(events, filters, focusedKey, index)

	agents := newEntitySet(models.NodeAgent)
	tasks := newEntitySet(models.NodeTask)
	tools := newEntitySet(models.NodeTool)
	edges := newEdgeSet()

	for i := range filtered {
		e := &filtered[i]

		if e.AgentID != "" {
			agents.observe(e.AgentID, e)
		}
		if e.TaskID != "" {
			tasks.observe(e.TaskID, e)
		}
		if e.Category == models.CategoryTool {
			name := e.PayloadString("toolName")
			if name == "" {
				name = e.Type
			}
			if name != "" {
				tools.observe(name, e)
			}
			if e.AgentID != "" && name != "" {
				edges.observe(models.NodeAgent, e.AgentID, models.NodeTool, name, models.EdgeTriggers, e)
			}
		}
		if e.AgentID != "" && e.TaskID != "" {
			edges.observe(models.NodeAgent, e.AgentID, models.NodeTask, e.TaskID, models.EdgeAssignedTo, e)
		}
	}

	nodes := make([]models.Node, 0, agents.len()+tasks.len()+tools.len())
	nodes = append(nodes, agents.nodes()...)
	nodes = append(nodes, tasks.nodes()...)
	nodes = append(nodes, tools.nodes()...)
	layout(nodes)

	return models.Graph{Nodes: nodes, Edges: edges.edges(now)}
}

// applyFilters runs the filter predicates and then the focus restriction.
func applyFilters(events []models.Event, filters models.Filters, focusedKey string, index *correlation.Index) []models.Event {
	out := make([]models.Event, 0, len(events))
	for i := range events {
		if filters.Match(&events[i]) {
			out = append(out, events[i])
		}
	}

	if focusedKey == "" || index == nil || !index.Has(focusedKey) {
		return out
	}

	ids := index.IDs(focusedKey)
	focused := out[:0]
	for i := range out {
		if _, ok := ids[out[i].ID]; ok {
			focused = append(focused, out[i])
		}
	}
	return focused
}
