package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"helpnet/utils"
)

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Redis     *redis.Client
	Requests  int
	Window    time.Duration
	KeyPrefix string
}

// RateLimiter throttles requests with a fixed window counter in Redis so
// limits hold across instances.
type RateLimiter struct {
	config RateLimitConfig
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit"
	}
	return &RateLimiter{config: config}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.key(c)

		allowed, remaining, resetIn, err := rl.check(c.Request.Context(), key)
		if err != nil {
			// Fail open; throttling is protection, not correctness.
			logrus.Errorf("Rate limit check failed: %v", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(resetIn).Unix(), 10))

		if !allowed {
			utils.ErrorResponse(c, utils.NewRateLimitError("Too many requests, slow down"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// key prefers the authenticated user, falling back to the client IP for
// unauthenticated routes.
func (rl *RateLimiter) key(c *gin.Context) string {
	if userID := c.GetString(ContextUserID); userID != "" {
		return fmt.Sprintf("%s:user:%s", rl.config.KeyPrefix, userID)
	}
	return fmt.Sprintf("%s:ip:%s", rl.config.KeyPrefix, c.ClientIP())
}

func (rl *RateLimiter) check(ctx context.Context, key string) (allowed bool, remaining int64, resetIn time.Duration, err error) {
	pipe := rl.config.Redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, err
	}

	count := incr.Val()
	ttl, err := rl.config.Redis.TTL(ctx, key).Result()
	if err != nil {
		ttl = rl.config.Window
	}

	remaining = int64(rl.config.Requests) - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= int64(rl.config.Requests), remaining, ttl, nil
}

// GlobalRateLimit is the limiter applied to the whole API. Requests and
// window come from configuration; non-positive values fall back to 300/min.
func GlobalRateLimit(redisClient *redis.Client, requests int, window time.Duration) gin.HandlerFunc {
	if requests <= 0 {
		requests = 300
	}
	if window <= 0 {
		window = time.Minute
	}
	return NewRateLimiter(RateLimitConfig{
		Redis:     redisClient,
		Requests:  requests,
		Window:    window,
		KeyPrefix: "rate_limit:global",
	}).Middleware()
}

// EmergencyRateLimit guards emergency creation against runaway clients while
// staying loose enough for genuine repeat reports.
func EmergencyRateLimit(redisClient *redis.Client) gin.HandlerFunc {
	return NewRateLimiter(RateLimitConfig{
		Redis:     redisClient,
		Requests:  10,
		Window:    time.Minute,
		KeyPrefix: "rate_limit:emergency",
	}).Middleware()
}
