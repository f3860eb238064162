// Package seeder generates synthetic telemetry for exercising a running
// graphiti instance.
package seeder

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/graphiti-systems/graphiti/internal/models"
)

var toolNames = []string{
	"read_file", "write_file", "search", "bash", "web_fetch",
	"memory_store", "memory_recall", "plan",
}

var taskStatuses = []string{"in_progress", "completed", "failed", "blocked", "pending"}

// Generator produces correlated synthetic events: a fixed pool of agents
// and tasks shares session and run IDs so the derived graph has edges.
type Generator struct {
	profile   Profile
	sessionID string
	runID     string
	agents    []string
	tasks     []string
}

// NewGenerator creates a generator for the given profile.
func NewGenerator(profile Profile) *Generator {
	profile.defaults()

	agents := make([]string, profile.Agents)
	for i := range agents {
		agents[i] = fmt.Sprintf("%s-%d", gofakeit.Adjective(), i+1)
	}
	tasks := make([]string, profile.Tasks)
	for i := range tasks {
		tasks[i] = fmt.Sprintf("task-%s", gofakeit.UUID()[:8])
	}

	return &Generator{
		profile:   profile,
		sessionID: uuid.New().String(),
		runID:     uuid.New().String(),
		agents:    agents,
		tasks:     tasks,
	}
}

// Generate produces count events jittered backwards over the time
// spread, oldest first.
func (g *Generator) Generate(count int, spread time.Duration) []models.Event {
	events := make([]models.Event, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, g.event(i, count, spread))
	}
	return events
}

func (g *Generator) event(index, total int, spread time.Duration) models.Event {
	ev := models.Event{
		ID:        uuid.New().String(),
		Timestamp: jitteredTime(index, total, spread),
		Source:    g.profile.Source,
		Severity:  models.SeverityInfo,
		SessionID: g.sessionID,
		RunID:     g.runID,
		AgentID:   g.agents[rand.Intn(len(g.agents))],
	}

	isError := rand.Float64() < g.profile.ErrorRatio

	switch g.pickCategory() {
	case models.CategoryTraffic:
		ev.Category = models.CategoryTraffic
		ev.Type = "request"
		duration := 20 + rand.Float64()*400
		ev.Duration = &duration
		status := 200
		if isError {
			status = 500
			ev.Severity = models.SeverityError
		}
		ev.Status = &status
		ev.Payload = map[string]any{
			"method": gofakeit.HTTPMethod(),
			"path":   "/" + gofakeit.Word(),
		}
	case models.CategoryTask:
		ev.Category = models.CategoryTask
		ev.Type = "task_update"
		ev.TaskID = g.tasks[rand.Intn(len(g.tasks))]
		status := taskStatuses[rand.Intn(len(taskStatuses))]
		if isError {
			status = "failed"
			ev.Severity = models.SeverityError
		}
		ev.Payload = map[string]any{
			"status": status,
			"title":  gofakeit.Sentence(4),
		}
	case models.CategoryTool:
		ev.Category = models.CategoryTool
		ev.Type = "tool_call"
		duration := 5 + rand.Float64()*200
		ev.Duration = &duration
		if isError {
			ev.Severity = models.SeverityError
			ev.Error = gofakeit.Error().Error()
		}
		ev.Payload = map[string]any{
			"toolName": toolNames[rand.Intn(len(toolNames))],
			"input":    gofakeit.Sentence(6),
		}
	case models.CategoryAgent:
		ev.Category = models.CategoryAgent
		ev.Type = "agent_message"
		ev.Payload = map[string]any{
			"message": gofakeit.Sentence(8),
		}
		if isError {
			ev.Severity = models.SeverityError
		}
	default:
		ev.Category = models.CategoryHook
		ev.Type = "hook_fired"
		ev.Payload = map[string]any{
			"hook": gofakeit.Word(),
		}
	}

	return ev
}

func (g *Generator) pickCategory() models.Category {
	r := rand.Float64()
	switch {
	case r < g.profile.TrafficRatio:
		return models.CategoryTraffic
	case r < g.profile.TrafficRatio+g.profile.TaskRatio:
		return models.CategoryTask
	case r < g.profile.TrafficRatio+g.profile.TaskRatio+g.profile.ToolRatio:
		return models.CategoryTool
	case r < g.profile.TrafficRatio+g.profile.TaskRatio+g.profile.ToolRatio+g.profile.AgentRatio:
		return models.CategoryAgent
	default:
		return models.CategoryHook
	}
}

// jitteredTime spaces events evenly over the spread with ±40% jitter,
// placed backwards from now so the newest event is the last generated.
func jitteredTime(index, total int, spread time.Duration) time.Time {
	now := time.Now()
	if spread <= 0 || total <= 0 {
		return now
	}

	baseInterval := float64(spread) / float64(total)
	baseOffset := time.Duration(float64(index) * baseInterval)

	jitterRange := baseInterval * 0.4
	jitter := time.Duration((rand.Float64()*2.0 - 1.0) * jitterRange)

	totalOffset := baseOffset + jitter
	if totalOffset < 0 {
		totalOffset = 0
	}
	if totalOffset > spread {
		totalOffset = spread
	}

	return now.Add(-(spread - totalOffset))
}
