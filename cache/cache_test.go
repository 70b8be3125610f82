package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Slug   string `json:"slug"`
	Active bool   `json:"isActive"`
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	store := NewRedisStore(RedisOptions{Addr: mr.Addr()})
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestStores(t *testing.T) {
	redisStore, _ := newRedisStore(t)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}

	for name, store := range stores {
		store := store
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var got profile
			err := store.GetJSON(ctx, StoreProfileKey("pizzaria"), &got)
			assert.ErrorIs(t, err, ErrMiss)

			want := profile{Slug: "pizzaria", Active: true}
			require.NoError(t, store.SetJSON(ctx, StoreProfileKey("pizzaria"), want, time.Minute))
			require.NoError(t, store.GetJSON(ctx, StoreProfileKey("pizzaria"), &got))
			assert.Equal(t, want, got)

			require.NoError(t, store.Delete(ctx, StoreProfileKey("pizzaria")))
			assert.ErrorIs(t, store.GetJSON(ctx, StoreProfileKey("pizzaria"), &got), ErrMiss)

			assert.NoError(t, store.Delete(ctx))
		})
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.SetJSON(ctx, "k", 1, time.Minute))
	require.NoError(t, store.SetJSON(ctx, "forever", 2, 0))

	now = now.Add(2 * time.Minute)

	var v int
	assert.ErrorIs(t, store.GetJSON(ctx, "k", &v), ErrMiss)
	require.NoError(t, store.GetJSON(ctx, "forever", &v))
	assert.Equal(t, 2, v)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetJSON(ctx, OrdersKey("s1"), []int{1, 2}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var v []int
	assert.ErrorIs(t, store.GetJSON(ctx, OrdersKey("s1"), &v), ErrMiss)
	assert.NoError(t, store.Ping(ctx))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "store_profile_pizzaria", StoreProfileKey("pizzaria"))
	assert.Equal(t, "orders_cache_s1", OrdersKey("s1"))
	assert.Equal(t, "metadata_cache_s1", MetadataKey("s1"))
	assert.Equal(t, "staff_session_abc", SessionKey("abc"))
	assert.Equal(t, "staff_revoked_w1", StaffRevokedKey("w1"))
}
