package models

import "time"

// MetricsSnapshot is a point-in-time capture of the rolling metrics.
type MetricsSnapshot struct {
	Timestamp         time.Time `json:"timestamp"`
	RequestsPerSecond int       `json:"requests_per_second"`
	AvgLatency        float64   `json:"avg_latency"`
	ErrorRate         float64   `json:"error_rate"`
	ActiveAgents      int       `json:"active_agents"`
	ActiveTasks       int       `json:"active_tasks"`
	TotalEvents       int       `json:"total_events"`
}
