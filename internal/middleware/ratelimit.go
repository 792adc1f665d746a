package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/paddock/internal/handlers"
	"github.com/HammerMeetNail/paddock/internal/logging"
)

// HitCounter counts requests for a key within a fixed window.
type HitCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter keeps window counters in Redis, expiring each with its window.
type RedisCounter struct {
	client redis.UniversalClient
}

func NewRedisCounter(client redis.UniversalClient) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(r *http.Request) string

type RateLimiter struct {
	counter  HitCounter
	limit    int
	window   time.Duration
	prefix   string
	keyFunc  KeyFunc
	failOpen bool
	now      func() time.Time
	logger   *logging.Logger
}

// NewRateLimiter builds a limiter. A nil counter disables limiting when
// failOpen is set and rejects every request otherwise.
func NewRateLimiter(counter HitCounter, limit int, window time.Duration, prefix string, keyFunc KeyFunc, failOpen bool) *RateLimiter {
	if keyFunc == nil {
		keyFunc = ClientIPKey(false)
	}
	return &RateLimiter{
		counter:  counter,
		limit:    limit,
		window:   window,
		prefix:   prefix,
		keyFunc:  keyFunc,
		failOpen: failOpen,
		now:      time.Now,
		logger:   logging.Default.WithField("component", "ratelimit"),
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		now := rl.now()
		windowStart := now.Truncate(rl.window)
		resetAt := windowStart.Add(rl.window)
		key := fmt.Sprintf("%s%s:%d", rl.prefix, rl.keyFunc(r), windowStart.Unix())

		count, err := rl.hit(r.Context(), key)
		if err != nil {
			rl.logger.Warn("rate limiter unavailable", logging.Fields{"error": err.Error(), "fail_open": rl.failOpen})
			if rl.failOpen {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
			return
		}

		remaining := int64(rl.limit) - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if count > int64(rl.limit) {
			retry := int64(resetAt.Sub(now).Seconds())
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.FormatInt(retry, 10))
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) hit(ctx context.Context, key string) (int64, error) {
	if rl.counter == nil {
		return 0, fmt.Errorf("no counter configured")
	}
	return rl.counter.Hit(ctx, key, rl.window)
}

// ClientIPKey buckets by client address. Forwarding headers are honoured
// only when the server sits behind a trusted proxy.
func ClientIPKey(trustProxy bool) KeyFunc {
	return func(r *http.Request) string {
		if trustProxy {
			return getClientIP(r)
		}
		return remoteIP(r)
	}
}

// UserOrIPKey buckets authenticated callers by user id.
func UserOrIPKey(trustProxy bool) KeyFunc {
	byIP := ClientIPKey(trustProxy)
	return func(r *http.Request) string {
		if claims := handlers.GetClaimsFromContext(r.Context()); claims != nil {
			return "user:" + claims.UserID
		}
		return "ip:" + byIP(r)
	}
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remoteIP(r)
}

func remoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// NewAuthRateLimiter is the stricter limiter for login and registration.
func NewAuthRateLimiter(counter HitCounter, trustProxy bool) *RateLimiter {
	return NewRateLimiter(counter, 10, time.Minute, "ratelimit:auth:", ClientIPKey(trustProxy), true)
}

// NewAPIRateLimiter limits the API per caller.
func NewAPIRateLimiter(counter HitCounter, perMinute int, trustProxy bool) *RateLimiter {
	return NewRateLimiter(counter, perMinute, time.Minute, "ratelimit:api:", UserOrIPKey(trustProxy), true)
}
