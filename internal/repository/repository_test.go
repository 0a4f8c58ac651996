package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ivanoskov/atm_bot/internal/config"
)

func TestNewStateStore(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	t.Run("memory", func(t *testing.T) {
		store, err := NewStateStore(ctx, &config.Config{StateBackend: config.BackendMemory}, logger)
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, err := NewStateStore(ctx, &config.Config{StateBackend: config.BackendRedis, RedisAddr: mr.Addr()}, logger)
		require.NoError(t, err)
		assert.IsType(t, &RedisStore{}, store)
		_ = store.(*RedisStore).Close()
	})

	t.Run("supabase", func(t *testing.T) {
		store, err := NewStateStore(ctx, &config.Config{
			StateBackend: config.BackendSupabase,
			SupabaseURL:  "http://localhost:54321",
			SupabaseKey:  "key",
		}, logger)
		require.NoError(t, err)
		assert.IsType(t, &SupabaseStore{}, store)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewStateStore(ctx, &config.Config{StateBackend: "sqlite"}, logger)
		assert.Error(t, err)
	})
}
