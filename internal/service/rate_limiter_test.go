package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	// DB 15 is reserved for tests
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skip("Redis not available for testing")
	}
	client.FlushDB(ctx)
	return client
}

func TestRateLimiter_Basic(t *testing.T) {
	redisClient := setupTestRedis(t)
	defer redisClient.Close()

	ctx := context.Background()
	limiter := NewRateLimiter(redisClient)

	t.Run("allows requests within limit", func(t *testing.T) {
		key := "test:user1"
		limit := 3
		window := 10 * time.Second

		for i := 0; i < limit; i++ {
			allowed, _ := limiter.CheckLimit(ctx, key, limit, window)
			assert.True(t, allowed, "Request %d should be allowed", i+1)
		}

		allowed, resetAt := limiter.CheckLimit(ctx, key, limit, window)
		assert.False(t, allowed, "Request should be rate limited")
		assert.True(t, resetAt.After(time.Now()), "Reset time should be in future")
	})

	t.Run("sliding window behavior", func(t *testing.T) {
		key := "test:user2"
		limit := 2
		window := 2 * time.Second

		allowed, _ := limiter.CheckLimit(ctx, key, limit, window)
		assert.True(t, allowed)
		allowed, _ = limiter.CheckLimit(ctx, key, limit, window)
		assert.True(t, allowed)

		allowed, _ = limiter.CheckLimit(ctx, key, limit, window)
		assert.False(t, allowed)

		time.Sleep(2100 * time.Millisecond)

		allowed, _ = limiter.CheckLimit(ctx, key, limit, window)
		assert.True(t, allowed)
	})

	t.Run("different keys are independent", func(t *testing.T) {
		limit := 1
		window := 10 * time.Second

		allowed, _ := limiter.CheckLimit(ctx, "test:independent1", limit, window)
		assert.True(t, allowed)
		allowed, _ = limiter.CheckLimit(ctx, "test:independent1", limit, window)
		assert.False(t, allowed)

		allowed, _ = limiter.CheckLimit(ctx, "test:independent2", limit, window)
		assert.True(t, allowed)
	})
}

func TestRateLimiter_LoginLimit(t *testing.T) {
	redisClient := setupTestRedis(t)
	defer redisClient.Close()

	ctx := context.Background()
	limiter := NewRateLimiter(redisClient)
	clientIP := "192.168.1.100"

	for i := 0; i < LoginLimit.Max; i++ {
		allowed, _ := limiter.Allow(ctx, LoginLimit, clientIP)
		assert.True(t, allowed, "Request %d should be allowed", i+1)
	}

	allowed, resetAt := limiter.Allow(ctx, LoginLimit, clientIP)
	assert.False(t, allowed, "Should be rate limited after %d attempts", LoginLimit.Max)
	assert.True(t, resetAt.After(time.Now()))

	allowed, _ = limiter.Allow(ctx, AccessLimit, clientIP)
	assert.True(t, allowed, "limits are tracked per action")
}

func TestRateLimiter_DeniesOnRedisFailure(t *testing.T) {
	invalidClient := redis.NewClient(&redis.Options{
		Addr: "localhost:9999",
	})
	defer invalidClient.Close()

	limiter := NewRateLimiter(invalidClient)

	allowed, resetAt := limiter.CheckLimit(context.Background(), "test:key", 1, time.Minute)
	require.False(t, allowed, "Should deny request on Redis failure")
	require.True(t, resetAt.After(time.Now()), "Should return valid reset time")
}
