package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/pal-assistant/internal/config"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := NewRedis(config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	t.Cleanup(r.Close)
	return mr, r
}

func TestRedisKV(t *testing.T) {
	ctx := context.Background()
	mr, r := newTestRedis(t)

	store := NewKeyValueStore(r)
	require.IsType(t, &RedisKV{}, store)

	_, ok, err := store.Get(ctx, "servicenow-config")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "servicenow-config", `{"baseUrl":"https://x"}`))
	val, ok, err := store.Get(ctx, "servicenow-config")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"baseUrl":"https://x"}`, val)
	assert.Zero(t, mr.TTL("servicenow-config"))

	require.NoError(t, store.Delete(ctx, "servicenow-config"))
	assert.False(t, mr.Exists("servicenow-config"))
	_, ok, err = store.Get(ctx, "servicenow-config")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Ping(ctx))
}

func TestRedisKVSurfacesServerErrors(t *testing.T) {
	ctx := context.Background()
	mr, r := newTestRedis(t)
	store := NewKeyValueStore(r)

	mr.SetError("LOADING dataset in memory")
	_, ok, err := store.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, store.Set(ctx, "k", "v"))
}

func TestRedisStatus(t *testing.T) {
	ctx := context.Background()
	mr, r := newTestRedis(t)

	status, ok := r.Status(ctx)
	assert.True(t, ok)
	assert.Equal(t, StatusOK, status)

	mr.Close()
	status, ok = r.Status(ctx)
	assert.False(t, ok)
	assert.NotEqual(t, StatusOK, status)
}
