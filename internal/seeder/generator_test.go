package seeder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphiti-systems/graphiti/internal/models"
)

func TestGenerator_Count(t *testing.T) {
	g := NewGenerator(Profile{})
	events := g.Generate(200, time.Hour)
	assert.Len(t, events, 200)
}

func TestGenerator_EventsAreCorrelated(t *testing.T) {
	g := NewGenerator(Profile{Agents: 2, Tasks: 3})
	events := g.Generate(100, time.Hour)

	for _, ev := range events {
		assert.NotEmpty(t, ev.ID)
		assert.Equal(t, g.sessionID, ev.SessionID)
		assert.Equal(t, g.runID, ev.RunID)
		assert.NotEmpty(t, ev.AgentID)
		assert.NotEmpty(t, ev.CorrelationKeys())
	}
}

func TestGenerator_AgentPoolBounded(t *testing.T) {
	g := NewGenerator(Profile{Agents: 2, Tasks: 2})
	events := g.Generate(100, time.Hour)

	agents := map[string]struct{}{}
	tasks := map[string]struct{}{}
	for _, ev := range events {
		agents[ev.AgentID] = struct{}{}
		if ev.TaskID != "" {
			tasks[ev.TaskID] = struct{}{}
		}
	}
	assert.LessOrEqual(t, len(agents), 2)
	assert.LessOrEqual(t, len(tasks), 2)
}

func TestGenerator_TimestampsWithinSpread(t *testing.T) {
	spread := time.Hour
	before := time.Now().Add(-spread - time.Minute)

	g := NewGenerator(Profile{})
	events := g.Generate(50, spread)
	after := time.Now().Add(time.Minute)

	for _, ev := range events {
		assert.True(t, ev.Timestamp.After(before), "timestamp too old: %v", ev.Timestamp)
		assert.True(t, ev.Timestamp.Before(after), "timestamp in the future: %v", ev.Timestamp)
	}
}

func TestGenerator_TrafficEventsCarryMetrics(t *testing.T) {
	g := NewGenerator(Profile{TrafficRatio: 1})
	events := g.Generate(50, time.Hour)

	for _, ev := range events {
		require.Equal(t, models.CategoryTraffic, ev.Category)
		require.NotNil(t, ev.Duration)
		require.NotNil(t, ev.Status)
		assert.Contains(t, []int{200, 500}, *ev.Status)
	}
}

func TestGenerator_ToolEventsNameTool(t *testing.T) {
	g := NewGenerator(Profile{ToolRatio: 1})
	events := g.Generate(50, time.Hour)

	for _, ev := range events {
		require.Equal(t, models.CategoryTool, ev.Category)
		name, ok := ev.Payload["toolName"].(string)
		require.True(t, ok)
		assert.Contains(t, toolNames, name)
	}
}

func TestLoadProfile_Defaults(t *testing.T) {
	p, err := LoadProfile("")
	require.NoError(t, err)
	assert.Equal(t, "seeder", p.Source)
	assert.Equal(t, 3, p.Agents)
	assert.Equal(t, 5, p.Tasks)
	assert.InDelta(t, 0.1, p.ErrorRatio, 1e-9)
}

func TestLoadProfile_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source: loadgen
agents: 7
error_ratio: 0.25
traffic_ratio: 0.5
task_ratio: 0.5
`), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "loadgen", p.Source)
	assert.Equal(t, 7, p.Agents)
	assert.Equal(t, 5, p.Tasks)
	assert.InDelta(t, 0.25, p.ErrorRatio, 1e-9)
	assert.InDelta(t, 0.5, p.TrafficRatio, 1e-9)
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
