package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRateLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("development env skips limiting", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		allowed, err := CheckRateLimit(ctx, nil, "res", "ip:1.2.3.4", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("enforces limit in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

		for i := 0; i < 3; i++ {
			allowed, err := CheckRateLimit(ctx, rdb, "res", "user:1", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := CheckRateLimit(ctx, rdb, "res", "user:1", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		// A different caller has their own window.
		allowed, err = CheckRateLimit(ctx, rdb, "res", "user:2", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("window expires", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

		allowed, err := CheckRateLimit(ctx, rdb, "res", "user:1", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = CheckRateLimit(ctx, rdb, "res", "user:1", 1, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		mr.FastForward(2 * time.Minute)

		allowed, err = CheckRateLimit(ctx, rdb, "res", "user:1", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("nil client errors in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, err := CheckRateLimit(ctx, nil, "res", "user:1", 1, time.Minute)
		assert.Error(t, err)
	})
}
