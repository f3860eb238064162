// Package archive provides the durable batch store, the named snapshot
// store, and the retention manager for the cold tier.
package archive

import (
	"context"

	"github.com/graphiti-systems/graphiti/internal/models"
)

// BatchStore is an append-only batch store keyed by an auto-incrementing
// integer with a secondary time index.
type BatchStore interface {
	// Put appends a batch and returns its new batch ID.
	Put(ctx context.Context, events []models.Event) (int64, error)
	// Get returns a batch, or nil if the ID is unknown.
	Get(ctx context.Context, batchID int64) (*models.ArchivedBatch, error)
	// List returns batch metadata ordered by insertion (batch ID).
	List(ctx context.Context) ([]models.BatchMeta, error)
	// Count returns the number of stored batches.
	Count(ctx context.Context) (int, error)
	// Delete removes a single batch.
	Delete(ctx context.Context, batchID int64) error
	// Clear removes every batch and resets the ID sequence.
	Clear(ctx context.Context) error
}

// SnapshotStore is a named snapshot collection keyed by caller-supplied
// string IDs with upsert semantics. Snapshots are never auto-pruned.
type SnapshotStore interface {
	Put(ctx context.Context, snap models.Snapshot) error
	Get(ctx context.Context, id string) (*models.Snapshot, error)
	List(ctx context.Context) ([]models.SnapshotMeta, error)
	Delete(ctx context.Context, id string) error
}
