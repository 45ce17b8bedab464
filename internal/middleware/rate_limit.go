package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/chatline/messenger-backend/internal/common"
	pkglogger "github.com/chatline/messenger-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateWindow = time.Minute

// RateDecision is the outcome of one limiter check
type RateDecision struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// RateLimiter counts hits for a key inside a sliding window
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateDecision, error)
}

// slidingWindowScript is an atomic sliding window counter over a sorted set
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('PEXPIRE', key, window + 1000)
    return {1, limit - count - 1, now + window}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local reset_at = now + window
if #oldest >= 2 then
    reset_at = tonumber(oldest[2]) + window
end
return {0, 0, reset_at}
`)

// RedisRateLimiter sliding window limiter backed by a Lua script
type RedisRateLimiter struct {
	client redis.Scripter
}

// NewRedisRateLimiter returns nil when client is nil so callers can pass it through unchanged
func NewRedisRateLimiter(client *redis.Client) RateLimiter {
	if client == nil {
		return nil
	}
	return &RedisRateLimiter{client: client}
}

// Allow implements RateLimiter
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (RateDecision, error) {
	now := time.Now().UnixMilli()
	result, err := slidingWindowScript.Run(ctx, l.client, []string{key}, limit, window.Milliseconds(), now).Int64Slice()
	if err != nil {
		return RateDecision{}, err
	}
	if len(result) != 3 {
		return RateDecision{}, fmt.Errorf("unexpected rate limit reply: %v", result)
	}
	return RateDecision{
		Allowed:   result[0] == 1,
		Remaining: result[1],
		ResetAt:   time.UnixMilli(result[2]),
	}, nil
}

// AuthRateLimit limits sign-in and sign-up attempts per client IP.
// limiter == nil or limit <= 0 disables it. Limiter errors fail open.
func AuthRateLimit(limiter RateLimiter, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := "ratelimit:auth:" + c.ClientIP()
		decision, err := limiter.Allow(c.Request.Context(), key, limit, rateWindow)
		if err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))

		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			common.ErrorResponse(c, http.StatusTooManyRequests, "Too many attempts, try again later", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
