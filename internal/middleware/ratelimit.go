package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

// window is the state of one caller's counter after a hit
type window struct {
	count int64
	ttl   time.Duration
}

func (c RateLimitConfig) remaining(win window) int {
	return max(c.RequestsPerWindow-int(win.count), 0)
}

// hit counts one request against key and starts the window on first use.
// INCR and TTL run in one MULTI so the reported ttl matches the count.
func hit(ctx context.Context, rdb *redis.Client, key string, length time.Duration) (window, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return window{}, err
	}

	win := window{count: incr.Val(), ttl: ttl.Val()}
	if win.ttl < 0 {
		if err := rdb.Expire(ctx, key, length).Err(); err != nil {
			return window{}, err
		}
		win.ttl = length
	}
	return win, nil
}

func rateLimitKey(r *http.Request, prefix string) string {
	if identity := IdentityFromContext(r.Context()); identity != nil {
		return prefix + ":user:" + identity.UserID
	}
	return prefix + ":" + r.RemoteAddr
}

// RateLimitMiddleware applies a fixed window counter kept in Redis. Callers
// are keyed by user id when authenticated, by remote address otherwise.
// Requests pass through when Redis cannot be reached.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	limit := strconv.Itoa(config.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r, config.KeyPrefix)

			win, err := hit(r.Context(), redisClient, key, config.Window)
			if err != nil {
				logger.Error("Rate limit store unavailable", zap.Error(err), zap.String("key", key))
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(config.remaining(win)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(win.ttl).Unix(), 10))

			if win.count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("key", key),
					zap.Int64("count", win.count),
					zap.Int("limit", config.RequestsPerWindow),
				)
				h.Set("Retry-After", strconv.Itoa(int(win.ttl.Round(time.Second).Seconds())))
				RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
