package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent_CorrelationKeys(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected []string
	}{
		{
			name:     "no identifiers",
			event:    Event{ID: "e1"},
			expected: []string{},
		},
		{
			name:     "agent only",
			event:    Event{ID: "e2", AgentID: "planner"},
			expected: []string{"agent:planner"},
		},
		{
			name: "all identifiers",
			event: Event{
				ID:            "e3",
				SessionID:     "s1",
				ThreadID:      "th1",
				RunID:         "r1",
				TaskID:        "t1",
				AgentID:       "a1",
				CorrelationID: "c1",
			},
			expected: []string{
				"session:s1", "thread:th1", "run:r1",
				"task:t1", "agent:a1", "correlation:c1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.expected, tt.event.CorrelationKeys())
		})
	}
}

func TestEvent_IsError(t *testing.T) {
	assert.False(t, (&Event{Severity: SeverityInfo}).IsError())
	assert.False(t, (&Event{Severity: SeverityWarn}).IsError())
	assert.True(t, (&Event{Severity: SeverityError}).IsError())
	assert.True(t, (&Event{Severity: SeverityCritical}).IsError())
}

func TestEvent_PayloadString(t *testing.T) {
	ev := Event{Payload: map[string]any{"status": "in_progress", "count": 3}}
	assert.Equal(t, "in_progress", ev.PayloadString("status"))
	assert.Equal(t, "", ev.PayloadString("count"))
	assert.Equal(t, "", ev.PayloadString("missing"))
	assert.Equal(t, "", (&Event{}).PayloadString("status"))
}

func TestRetentionPeriod(t *testing.T) {
	d, ok := Retention1h.Duration()
	assert.True(t, ok)
	assert.Equal(t, time.Hour, d)

	d, ok = Retention7d.Duration()
	assert.True(t, ok)
	assert.Equal(t, 7*24*time.Hour, d)

	_, ok = RetentionUnlimited.Duration()
	assert.False(t, ok)

	assert.True(t, RetentionUnlimited.Valid())
	assert.True(t, Retention90d.Valid())
	assert.False(t, RetentionPeriod("2h").Valid())
}
