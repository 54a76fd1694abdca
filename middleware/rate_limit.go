// middleware/rate_limit.go
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"tezpay-payment-api/models"
)

type RateLimiter struct {
	client *redis.Client
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Message  string
}

// Per-endpoint limits. Payment submission and credential exchange are kept
// tight; everything else gets the default.
var defaultConfigs = map[string]RateLimitConfig{
	"/api/process-payment": {
		Requests: 10,
		Window:   time.Minute,
		Message:  "Too many payment attempts. Please wait a minute.",
	},
	"/api/auth/token": {
		Requests: 5,
		Window:   time.Minute * 15,
		Message:  "Too many authentication attempts. Please try again in 15 minutes.",
	},
	"/api/threeds/callback": {
		Requests: 60,
		Window:   time.Minute,
		Message:  "Callback rate limit exceeded.",
	},
	"default": {
		Requests: 60,
		Window:   time.Minute,
		Message:  "Rate limit exceeded. Please slow down your requests.",
	},
}

func NewRateLimiter(redisURL string) (*RateLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL for rate limiter: %v", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %v", err)
	}

	return &RateLimiter{client: client}, nil
}

func (rl *RateLimiter) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			config := rl.getConfigForEndpoint(r.URL.Path)
			key := rl.getRateLimitKey(r)

			allowed, remaining, resetTime, err := rl.checkRateLimit(r.Context(), key, config)
			if err != nil {
				// Fail open: a broken limiter must not block payments.
				log.Printf("Rate limit check error: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				log.Printf("Rate limit exceeded for key: %s, endpoint: %s", key, r.URL.Path)

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(resetTime).Seconds()), 10))
				w.WriteHeader(http.StatusTooManyRequests)

				json.NewEncoder(w).Encode(models.APIResponse{
					Status:  "error",
					Message: config.Message,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) getConfigForEndpoint(path string) RateLimitConfig {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}

	if config, exists := defaultConfigs[path]; exists {
		return config
	}

	return defaultConfigs["default"]
}

// getRateLimitKey buckets by client IP plus, for authenticated merchants,
// the tail of the bearer token so NATed merchants don't share a bucket.
func (rl *RateLimiter) getRateLimitKey(r *http.Request) string {
	ip := getClientIPFromRequest(r)

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" && len(authHeader) > 20 {
		tokenPart := authHeader[len(authHeader)-10:]
		return fmt.Sprintf("rate_limit:merchant:%s:%s", ip, tokenPart)
	}

	return fmt.Sprintf("rate_limit:default:%s:%s", ip, r.URL.Path)
}

func (rl *RateLimiter) checkRateLimit(ctx context.Context, key string, config RateLimitConfig) (allowed bool, remaining int, resetTime time.Time, err error) {
	return rl.checkRateLimitAt(ctx, key, config, time.Now())
}

func (rl *RateLimiter) checkRateLimitAt(ctx context.Context, key string, config RateLimitConfig, now time.Time) (allowed bool, remaining int, resetTime time.Time, err error) {
	windowStart := now.Truncate(config.Window)
	windowEnd := windowStart.Add(config.Window)

	// Lua keeps the count-and-add atomic under concurrent requests. Scores
	// are unix seconds throughout so the prune actually matches them; the
	// nanosecond member only keeps concurrent entries distinct.
	luaScript := `
        local key = KEYS[1]
        local window_start = tonumber(ARGV[1])
        local limit = tonumber(ARGV[2])
        local now = ARGV[3]
        local member = ARGV[4]

        redis.call('ZREMRANGEBYSCORE', key, 0, window_start - 1)

        local current_count = redis.call('ZCARD', key)

        if current_count < limit then
            redis.call('ZADD', key, now, member)
            redis.call('EXPIRE', key, 3600)
            return {1, limit - current_count - 1}
        else
            return {0, 0}
        end
    `

	result, err := rl.client.Eval(ctx, luaScript, []string{key},
		windowStart.Unix(), config.Requests, now.Unix(),
		strconv.FormatInt(now.UnixNano(), 10)).Result()
	if err != nil {
		return false, 0, time.Time{}, err
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) != 2 {
		return false, 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	allowedInt, ok1 := resultSlice[0].(int64)
	remainingInt, ok2 := resultSlice[1].(int64)

	if !ok1 || !ok2 {
		return false, 0, time.Time{}, fmt.Errorf("failed to parse redis result")
	}

	return allowedInt == 1, int(remainingInt), windowEnd, nil
}

// SecurityHeadersMiddleware sets the usual hardening headers; API paths also
// get no-store cache directives since every response is payment data.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}

		next.ServeHTTP(w, r)
	})
}

func getClientIPFromRequest(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

func (rl *RateLimiter) Close() error {
	return rl.client.Close()
}
