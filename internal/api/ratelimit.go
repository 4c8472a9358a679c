package api

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hbomb79/Reel/internal/fault"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/hbomb79/Reel/pkg/sync"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const redisTimeout = 200 * time.Millisecond

// RateLimiter enforces a fixed-window request limit per client IP. When a
// redis client is provided the window counters are shared through redis,
// otherwise (or when redis fails) they are held in memory.
type RateLimiter struct {
	limit  int
	window time.Duration
	redis  *redis.Client
	now    func() time.Time

	counts     sync.TypedSyncMap[string, *atomic.Int64]
	lastBucket atomic.Int64
}

func NewRateLimiter(limit int, window time.Duration, client *redis.Client) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}

	return &RateLimiter{limit: limit, window: window, redis: client, now: time.Now}
}

// WithClock replaces the clock used to determine the current window.
func (limiter *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	limiter.now = now
	return limiter
}

// Allow records a request for the IP given and reports whether it is within
// the limit. The duration returned is the time remaining until the current
// window resets.
func (limiter *RateLimiter) Allow(ctx context.Context, ip string) (bool, time.Duration) {
	if limiter.limit <= 0 {
		return true, 0
	}

	now := limiter.now()
	width := limiter.window.Nanoseconds()
	bucket := now.UnixNano() / width
	resetIn := time.Duration((bucket+1)*width - now.UnixNano())

	count := limiter.increment(ctx, ip, bucket)
	return count <= int64(limiter.limit), resetIn
}

// Middleware rejects requests exceeding the limit with a RateLimited fault,
// setting the Retry-After header. Requests for which skip returns true are
// not counted.
func (limiter *RateLimiter) Middleware(skip func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			if skip != nil && skip(ec) {
				return next(ec)
			}

			ip := ec.RealIP()
			allowed, resetIn := limiter.Allow(ec.Request().Context(), ip)
			if !allowed {
				retryAfter := int(math.Ceil(resetIn.Seconds()))
				ec.Response().Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
				log.Emit(logger.DEBUG, "Rate limit exceeded for %s (retry after %ds)\n", ip, retryAfter)
				return fault.New(fault.RateLimited, "rate limit of %d requests per %s exceeded", limiter.limit, limiter.window)
			}

			return next(ec)
		}
	}
}

func (limiter *RateLimiter) increment(ctx context.Context, ip string, bucket int64) int64 {
	key := fmt.Sprintf("reel:ratelimit:%s:%d", ip, bucket)
	if limiter.redis != nil {
		redisCtx, cancel := context.WithTimeout(ctx, redisTimeout)
		defer cancel()

		count, err := limiter.redis.Incr(redisCtx, key).Result()
		if err == nil {
			if count == 1 {
				_ = limiter.redis.Expire(redisCtx, key, limiter.window+5*time.Second).Err()
			}
			return count
		}

		log.Emit(logger.WARNING, "Redis rate limit counter unavailable, falling back to memory: %v\n", err)
	}

	limiter.prune(bucket)
	counter, _ := limiter.counts.LoadOrStore(key, &atomic.Int64{})
	return counter.Add(1)
}

// prune drops in-memory counters from previous windows the first time a new
// window is observed.
func (limiter *RateLimiter) prune(bucket int64) {
	for {
		previous := limiter.lastBucket.Load()
		if bucket <= previous {
			return
		}
		if limiter.lastBucket.CompareAndSwap(previous, bucket) {
			break
		}
	}

	suffix := ":" + strconv.FormatInt(bucket, 10)
	limiter.counts.Range(func(key string, _ *atomic.Int64) bool {
		if !strings.HasSuffix(key, suffix) {
			limiter.counts.Delete(key)
		}
		return true
	})
}
