package archive

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphiti-systems/graphiti/internal/models"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func makeEvents(n int) []models.Event {
	events := make([]models.Event, n)
	for i := range events {
		events[i] = models.Event{
			ID:        fmt.Sprintf("e%d", i),
			Timestamp: time.Now().UTC(),
			Category:  models.CategoryAgent,
			Severity:  models.SeverityInfo,
		}
	}
	return events
}

func TestRedisBatchStore_PutGet(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisBatchStore(client)
	ctx := context.Background()

	id, err := store.Put(ctx, makeEvents(3))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id2, err := store.Put(ctx, makeEvents(2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), id2)

	batch, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Equal(t, int64(1), batch.BatchID)
	assert.Equal(t, 3, batch.Count)
	assert.Len(t, batch.Events, 3)

	missing, err := store.Get(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRedisBatchStore_ListAndCount(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisBatchStore(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Put(ctx, makeEvents(i+1))
		require.NoError(t, err)
	}

	metas, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 3)
	// Insertion order by batch ID.
	assert.Equal(t, int64(1), metas[0].BatchID)
	assert.Equal(t, int64(3), metas[2].BatchID)
	assert.Equal(t, 1, metas[0].Count)
	assert.Equal(t, 3, metas[2].Count)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRedisBatchStore_DeleteAndClear(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisBatchStore(client)
	ctx := context.Background()

	id, err := store.Put(ctx, makeEvents(1))
	require.NoError(t, err)
	_, err = store.Put(ctx, makeEvents(1))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.Clear(ctx))
	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// The sequence resets too: the next batch starts at 1 again.
	id, err = store.Put(ctx, makeEvents(1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestRedisSnapshotStore_RoundTrip(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisSnapshotStore(client)
	ctx := context.Background()

	snap := models.Snapshot{
		ID:        "before-refactor",
		Name:      "Before refactor",
		CreatedAt: time.Now().UTC(),
		Events:    makeEvents(2),
		Filters:   models.Filters{ErrorsOnly: true},
		ViewState: models.ViewState{FocusedKey: "agent:planner"},
	}
	require.NoError(t, store.Put(ctx, snap))

	got, err := store.Get(ctx, "before-refactor")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Before refactor", got.Name)
	assert.Len(t, got.Events, 2)
	assert.True(t, got.Filters.ErrorsOnly)
	assert.Equal(t, "agent:planner", got.ViewState.FocusedKey)

	// Upsert semantics: same ID overwrites.
	snap.Name = "Renamed"
	require.NoError(t, store.Put(ctx, snap))
	got, err = store.Get(ctx, "before-refactor")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	metas, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, 2, metas[0].Count)

	require.NoError(t, store.Delete(ctx, "before-refactor"))
	got, err = store.Get(ctx, "before-refactor")
	require.NoError(t, err)
	assert.Nil(t, got)

	metas, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestRedisSnapshotStore_MissingIsNil(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisSnapshotStore(client)

	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}
