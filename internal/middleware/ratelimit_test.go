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
	t.Setenv("APP_ENV", "development")

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "fourth request should be blocked")

	// a different caller has its own budget
	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	// the window expires
	mr.FastForward(2 * time.Minute)
	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckRateLimitFailsOpen(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	ctx := context.Background()

	// no Redis at all
	allowed, err := CheckRateLimit(ctx, nil, "login", "ip:1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	// Redis down
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 1, time.Minute)
	assert.Error(t, err)
	assert.True(t, allowed)
}

func TestCheckRateLimitBypassInTests(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	allowed, err := CheckRateLimit(context.Background(), nil, "login", "ip:1.2.3.4", 0, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}
