package models

import "time"

// ArchivedBatch is an immutable group of events flushed from the hot
// buffer to durable storage.
type ArchivedBatch struct {
	BatchID   int64     `json:"batch_id"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
	Events    []Event   `json:"events"`
}

// BatchMeta is the listing view of an archived batch.
type BatchMeta struct {
	BatchID   int64     `json:"batch_id"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// Snapshot is a user-named point-in-time capture of an event subset
// together with the filter and view state at capture time. Snapshots are
// keyed by a caller-supplied string and never auto-pruned.
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Events    []Event   `json:"events"`
	Filters   Filters   `json:"filters"`
	ViewState ViewState `json:"view_state"`
}

// SnapshotMeta is the listing view of a snapshot.
type SnapshotMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Count     int       `json:"count"`
}

// RetentionPeriod controls how long archived batches are kept.
type RetentionPeriod string

const (
	Retention1h        RetentionPeriod = "1h"
	Retention24h       RetentionPeriod = "24h"
	Retention7d        RetentionPeriod = "7d"
	Retention30d       RetentionPeriod = "30d"
	Retention90d       RetentionPeriod = "90d"
	RetentionUnlimited RetentionPeriod = "unlimited"
)

// Duration returns the retention window. ok is false for unlimited and
// unrecognized periods.
func (p RetentionPeriod) Duration() (time.Duration, bool) {
	switch p {
	case Retention1h:
		return time.Hour, true
	case Retention24h:
		return 24 * time.Hour, true
	case Retention7d:
		return 7 * 24 * time.Hour, true
	case Retention30d:
		return 30 * 24 * time.Hour, true
	case Retention90d:
		return 90 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// Valid reports whether the period is one of the recognized values.
func (p RetentionPeriod) Valid() bool {
	if p == RetentionUnlimited {
		return true
	}
	_, ok := p.Duration()
	return ok
}
