package models

import "time"

// NodeKind identifies the entity class a node represents.
type NodeKind string

const (
	NodeAgent NodeKind = "agent"
	NodeTask  NodeKind = "task"
	NodeTool  NodeKind = "tool"
)

// NodeStatus is the derived lifecycle status of a node.
type NodeStatus string

const (
	NodeStatusActive  NodeStatus = "active"
	NodeStatusSuccess NodeStatus = "success"
	NodeStatusError   NodeStatus = "error"
	NodeStatusBlocked NodeStatus = "blocked"
	NodeStatusPending NodeStatus = "pending"
	NodeStatusIdle    NodeStatus = "idle"
)

// Node is a derived graph entity. Nodes are rebuilt on every recompute
// pass and are never persisted.
type Node struct {
	ID              string     `json:"id"` // "kind:name"
	Kind            NodeKind   `json:"kind"`
	Label           string     `json:"label"`
	Count           int        `json:"count"`
	ErrorCount      int        `json:"error_count"`
	LastSeen        time.Time  `json:"last_seen"`
	AvgLatency      float64    `json:"avg_latency"`
	Status          NodeStatus `json:"status"`
	CorrelationKeys []string   `json:"correlation_keys"`
	X               float64    `json:"x"`
	Y               float64    `json:"y"`
}

// EdgeKind identifies the relationship an edge represents.
type EdgeKind string

const (
	EdgeAssignedTo EdgeKind = "assigned_to"
	EdgeTriggers   EdgeKind = "triggers"
)

// EdgeStatus is the derived activity status of an edge.
type EdgeStatus string

const (
	EdgeStatusActive EdgeStatus = "active"
	EdgeStatusError  EdgeStatus = "error"
	EdgeStatusIdle   EdgeStatus = "idle"
)

// Edge is a derived relationship between two nodes.
type Edge struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	Kind       EdgeKind   `json:"kind"`
	Count      int        `json:"count"`
	ErrorCount int        `json:"error_count"`
	AvgLatency float64    `json:"avg_latency"`
	Status     EdgeStatus `json:"status"`
}

// Graph bundles the derived node and edge sets.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
