package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/graphiti-systems/graphiti/internal/models"
)

// Redis key layout. The sorted set indexes batch IDs by timestamp so
// retention pruning is a range query.
const (
	keyBatchSeq   = "graphiti:batches:seq"
	keyBatchIndex = "graphiti:batches:index"
	keyBatchFmt   = "graphiti:batch:%d"
)

// RedisBatchStore implements BatchStore on a Redis instance.
type RedisBatchStore struct {
	client *redis.Client
}

// NewRedisBatchStore creates a batch store on the given client.
func NewRedisBatchStore(client *redis.Client) *RedisBatchStore {
	return &RedisBatchStore{client: client}
}

func (s *RedisBatchStore) Put(ctx context.Context, events []models.Event) (int64, error) {
	id, err := s.client.Incr(ctx, keyBatchSeq).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate batch id: %w", err)
	}

	batch := models.ArchivedBatch{
		BatchID:   id,
		Timestamp: time.Now().UTC(),
		Count:     len(events),
		Events:    events,
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal batch %d: %w", id, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, batchKey(id), data, 0)
	pipe.ZAdd(ctx, keyBatchIndex, redis.Z{
		Score:  float64(batch.Timestamp.UnixMilli()),
		Member: strconv.FormatInt(id, 10),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to store batch %d: %w", id, err)
	}

	return id, nil
}

func (s *RedisBatchStore) Get(ctx context.Context, batchID int64) (*models.ArchivedBatch, error) {
	data, err := s.client.Get(ctx, batchKey(batchID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch %d: %w", batchID, err)
	}

	var batch models.ArchivedBatch
	if err := json.Unmarshal([]byte(data), &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal batch %d: %w", batchID, err)
	}
	return &batch, nil
}

func (s *RedisBatchStore) List(ctx context.Context) ([]models.BatchMeta, error) {
	members, err := s.client.ZRangeWithScores(ctx, keyBatchIndex, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}

	metas := make([]models.BatchMeta, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(fmt.Sprint(m.Member), 10, 64)
		if err != nil {
			continue
		}
		metas = append(metas, models.BatchMeta{
			BatchID:   id,
			Timestamp: time.UnixMilli(int64(m.Score)).UTC(),
		})
	}

	// Insertion order is batch ID order; the time index may tie.
	sort.Slice(metas, func(i, j int) bool { return metas[i].BatchID < metas[j].BatchID })

	// Counts live in the batch payloads; fill them in one round trip.
	if len(metas) > 0 {
		keys := make([]string, len(metas))
		for i, meta := range metas {
			keys[i] = batchKey(meta.BatchID)
		}
		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to load batch payloads: %w", err)
		}
		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				continue
			}
			var batch models.ArchivedBatch
			if err := json.Unmarshal([]byte(raw), &batch); err == nil {
				metas[i].Count = batch.Count
			}
		}
	}

	return metas, nil
}

func (s *RedisBatchStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.ZCard(ctx, keyBatchIndex).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count batches: %w", err)
	}
	return int(n), nil
}

func (s *RedisBatchStore) Delete(ctx context.Context, batchID int64) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, batchKey(batchID))
	pipe.ZRem(ctx, keyBatchIndex, strconv.FormatInt(batchID, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete batch %d: %w", batchID, err)
	}
	return nil
}

func (s *RedisBatchStore) Clear(ctx context.Context) error {
	members, err := s.client.ZRange(ctx, keyBatchIndex, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to enumerate batches for clear: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, member := range members {
		if id, err := strconv.ParseInt(member, 10, 64); err == nil {
			pipe.Del(ctx, batchKey(id))
		}
	}
	pipe.Del(ctx, keyBatchIndex)
	pipe.Del(ctx, keyBatchSeq)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear batches: %w", err)
	}
	return nil
}

func batchKey(id int64) string {
	return fmt.Sprintf(keyBatchFmt, id)
}
