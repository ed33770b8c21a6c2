package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ahermangesh/floatchat/internal/config"
)

// RateLimiter decides whether a request may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit applies per-client sliding-window rate limiting. A limiter
// failure lets the request through so a Redis outage does not take the
// API down with it.
func RateLimit(cfg config.RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 100
	}

	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP() + ":" + c.Request.URL.Path

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.RequestsPerSecond, time.Second)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     429,
				"message":  "rate limit exceeded",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}

// NewRateLimitMiddleware wires the Redis sliding-window limiter.
func NewRateLimitMiddleware(cfg config.RateLimitConfig, redisClient *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled || redisClient == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return RateLimit(cfg, &redisRateLimiter{client: redisClient})
}

type redisRateLimiter struct {
	client *redis.Client
}

// Allow implements a sliding window over a sorted set keyed by request
// timestamps.
func (r *redisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now().UnixNano()
	windowStart := now - window.Nanoseconds()

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now),
		Member: now,
	})
	countCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window*2)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return countCmd.Val() <= int64(limit), nil
}
