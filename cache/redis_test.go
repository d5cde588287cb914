//go:build integration

package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"github.com/shitamachi/fcm-bridge/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	client, err := InitRedis(ctx, config_entries.CacheConfig{RedisAddr: "localhost:6379"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	prefix := "fcm_bridge_test:" + uuid.NewString() + ":"
	s := NewRedisStore(client, prefix)
	t.Cleanup(func() { client.Del(ctx, prefix+"token") })

	_, err = s.Get(ctx, "token")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "token", "xyz123"))
	v, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "xyz123", v)

	raw, err := client.Get(ctx, prefix+"token").Result()
	require.NoError(t, err)
	assert.Equal(t, "xyz123", raw)
}
