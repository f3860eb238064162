package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/graphiti-systems/graphiti/internal/models"
)

const (
	keySnapshotSet = "graphiti:snapshots"
	keySnapshotFmt = "graphiti:snapshot:%s"
)

// RedisSnapshotStore implements SnapshotStore on a Redis instance.
type RedisSnapshotStore struct {
	client *redis.Client
}

// NewRedisSnapshotStore creates a snapshot store on the given client.
func NewRedisSnapshotStore(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

func (s *RedisSnapshotStore) Put(ctx context.Context, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot %q: %w", snap.ID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, snapshotKey(snap.ID), data, 0)
	pipe.SAdd(ctx, keySnapshotSet, snap.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store snapshot %q: %w", snap.ID, err)
	}
	return nil
}

func (s *RedisSnapshotStore) Get(ctx context.Context, id string) (*models.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %q: %w", id, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %q: %w", id, err)
	}
	return &snap, nil
}

func (s *RedisSnapshotStore) List(ctx context.Context) ([]models.SnapshotMeta, error) {
	ids, err := s.client.SMembers(ctx, keySnapshotSet).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	metas := make([]models.SnapshotMeta, 0, len(ids))
	for _, id := range ids {
		snap, err := s.Get(ctx, id)
		if err != nil || snap == nil {
			continue
		}
		metas = append(metas, models.SnapshotMeta{
			ID:        snap.ID,
			Name:      snap.Name,
			CreatedAt: snap.CreatedAt,
			Count:     len(snap.Events),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		if metas[i].CreatedAt.Equal(metas[j].CreatedAt) {
			return metas[i].ID < metas[j].ID
		}
		return metas[i].CreatedAt.Before(metas[j].CreatedAt)
	})
	return metas, nil
}

func (s *RedisSnapshotStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, snapshotKey(id))
	pipe.SRem(ctx, keySnapshotSet, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete snapshot %q: %w", id, err)
	}
	return nil
}

func snapshotKey(id string) string {
	return fmt.Sprintf(keySnapshotFmt, id)
}
