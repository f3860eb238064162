package models

import "time"

// Category classifies the subsystem an event originated from.
type Category string

const (
	CategoryTraffic  Category = "traffic"
	CategoryAgent    Category = "agent"
	CategoryTask     Category = "task"
	CategoryTool     Category = "tool"
	CategoryHook     Category = "hook"
	CategoryProtocol Category = "protocol"
	CategorySession  Category = "session"
	CategoryMemory   Category = "memory"
	CategorySystem   Category = "system"
)

// Severity is the event severity level.
type Severity string

const (
	SeverityDebug    Severity = "debug"
	SeverityInfo     Severity = "info"
	SeverityWarn     Severity = "warn"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Event is a normalized telemetry record. Events are immutable once
// ingested; producers are responsible for schema validity.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Category  Category  `json:"category"`
	Type      string    `json:"type"`

	// Correlation identifiers. Any non-empty identifier contributes a
	// prefixed key to the correlation index.
	SessionID     string `json:"session_id,omitempty"`
	ThreadID      string `json:"thread_id,omitempty"`
	RunID         string `json:"run_id,omitempty"`
	TaskID        string `json:"task_id,omitempty"`
	AgentID       string `json:"agent_id,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`

	Source   string         `json:"source,omitempty"`
	Severity Severity       `json:"severity"`
	Payload  map[string]any `json:"payload,omitempty"`

	Duration *float64 `json:"duration,omitempty"` // milliseconds
	Status   *int     `json:"status,omitempty"`   // HTTP-style status code
	Tags     []string `json:"tags,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Correlation key prefixes.
const (
	KeySession     = "session:"
	KeyThread      = "thread:"
	KeyRun         = "run:"
	KeyTask        = "task:"
	KeyAgent       = "agent:"
	KeyCorrelation = "correlation:"
)

// CorrelationKeys derives the prefixed correlation keys for the event,
// one per non-empty identifier, in a fixed order.
func (e *Event) CorrelationKeys() []string {
	keys := make([]string, 0, 6)
	if e.SessionID != "" {
		keys = append(keys, KeySession+e.SessionID)
	}
	if e.ThreadID != "" {
		keys = append(keys, KeyThread+e.ThreadID)
	}
	if e.RunID != "" {
		keys = append(keys, KeyRun+e.RunID)
	}
	if e.TaskID != "" {
		keys = append(keys, KeyTask+e.TaskID)
	}
	if e.AgentID != "" {
		keys = append(keys, KeyAgent+e.AgentID)
	}
	if e.CorrelationID != "" {
		keys = append(keys, KeyCorrelation+e.CorrelationID)
	}
	return keys
}

// PayloadString returns a string payload field, or "" if absent or not a
// string.
func (e *Event) PayloadString(field string) string {
	if e.Payload == nil {
		return ""
	}
	if v, ok := e.Payload[field].(string); ok {
		return v
	}
	return ""
}

// IsError reports whether the event carries error or critical severity.
func (e *Event) IsError() bool {
	return e.Severity == SeverityError || e.Severity == SeverityCritical
}
