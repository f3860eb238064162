package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Filters restricts the event set the graph is derived from. Empty
// allow-lists mean no restriction.
type Filters struct {
	Categories []Category `json:"categories,omitempty"`
	Severities []Severity `json:"severities,omitempty"`
	Sources    []string   `json:"sources,omitempty"`
	Agents     []string   `json:"agents,omitempty"`
	Tasks      []string   `json:"tasks,omitempty"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	Search     string     `json:"search,omitempty"`
	ErrorsOnly bool       `json:"errors_only,omitempty"`
}

// ViewState holds the focus and selection driving drilldown.
type ViewState struct {
	FocusedKey     string `json:"focused_key,omitempty"`
	SelectedNodeID string `json:"selected_node_id,omitempty"`
}

// Match reports whether the event passes every filter predicate. The
// time window is inclusive on both ends.
func (f *Filters) Match(e *Event) bool {
	if len(f.Categories) > 0 && !containsCategory(f.Categories, e.Category) {
		return false
	}
	if len(f.Severities) > 0 && !containsSeverity(f.Severities, e.Severity) {
		return false
	}
	if len(f.Sources) > 0 && !containsString(f.Sources, e.Source) {
		return false
	}
	if len(f.Agents) > 0 && !containsString(f.Agents, e.AgentID) {
		return false
	}
	if len(f.Tasks) > 0 && !containsString(f.Tasks, e.TaskID) {
		return false
	}
	if f.From != nil && e.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Timestamp.After(*f.To) {
		return false
	}
	if f.ErrorsOnly && !e.IsError() {
		return false
	}
	if f.Search != "" && !matchSearch(e, f.Search) {
		return false
	}
	return true
}

// matchSearch does a case-insensitive substring match across the event
// type, agent ID, task ID, and the JSON rendering of the payload.
func matchSearch(e *Event, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(e.Type), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(e.AgentID), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(e.TaskID), needle) {
		return true
	}
	if e.Payload != nil {
		if raw, err := json.Marshal(e.Payload); err == nil {
			return strings.Contains(strings.ToLower(string(raw)), needle)
		}
	}
	return false
}

func containsCategory(list []Category, c Category) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

func containsSeverity(list []Severity, s Severity) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
