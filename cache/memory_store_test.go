package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/api/cache"
	taskhive_errors "github.com/taskhive/taskhive/api/errors"
)

func TestMemoryStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()

	require.NoError(t, store.Set(ctx, "taskmanagement:task:1", `{"id":"1"}`, time.Minute))

	value, err := store.Get(ctx, "taskmanagement:task:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, value)
}

func TestMemoryStore_MissingKey(t *testing.T) {
	store := cache.NewMemoryStore()

	_, err := store.Get(context.Background(), "taskmanagement:task:absent")
	assert.ErrorIs(t, err, taskhive_errors.ErrKeyNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()

	require.NoError(t, store.Set(ctx, "taskmanagement:task:1", "v", 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	_, err := store.Get(ctx, "taskmanagement:task:1")
	assert.ErrorIs(t, err, taskhive_errors.ErrKeyNotFound)
}

func TestMemoryStore_ZeroTTLDoesNotExpire(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()

	require.NoError(t, store.Set(ctx, "taskmanagement:task:1", "v", 0))
	time.Sleep(15 * time.Millisecond)

	value, err := store.Get(ctx, "taskmanagement:task:1")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()

	require.NoError(t, store.Set(ctx, "taskmanagement:task:1", "v", time.Minute))
	require.NoError(t, store.Delete(ctx, "taskmanagement:task:1"))

	_, err := store.Get(ctx, "taskmanagement:task:1")
	assert.ErrorIs(t, err, taskhive_errors.ErrKeyNotFound)

	// Deleting an absent key is not an error
	assert.NoError(t, store.Delete(ctx, "taskmanagement:task:1"))
}

func TestMemoryStore_KeysByPrefix(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()

	require.NoError(t, store.Set(ctx, "taskmanagement:task:1", "a", time.Minute))
	require.NoError(t, store.Set(ctx, "taskmanagement:task:2", "b", time.Minute))
	require.NoError(t, store.Set(ctx, "taskmanagement:user_tasks:7", "c", time.Minute))

	keys, err := store.Keys(ctx, "taskmanagement:task:*")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, "taskmanagement:task:1")
	assert.Contains(t, keys, "taskmanagement:task:2")

	keys, err = store.Keys(ctx, "taskmanagement:user_tasks:7")
	require.NoError(t, err)
	assert.Equal(t, []string{"taskmanagement:user_tasks:7"}, keys)
}
