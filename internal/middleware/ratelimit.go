package middleware

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the limit for a specific route or group.
type RateLimitConfig struct {
	Max    int                      // Requests allowed per window (also the burst)
	Window time.Duration            // Window over which Max tokens refill
	KeyFn  func(c fiber.Ctx) string // Returns the key to rate limit on (IP, actor, etc.)
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter is a per-key token bucket limiter. Idle keys are dropped by a
// background sweep until Stop is called.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	config   RateLimitConfig
	rate     rate.Limit
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a rate limiter with the given config.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		config:   cfg,
		rate:     rate.Limit(float64(cfg.Max) / cfg.Window.Seconds()),
		stop:     make(chan struct{}),
	}
	go rl.sweep(5 * time.Minute)
	return rl
}

// Handler returns a Fiber middleware handler that enforces the rate limit.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		lim := rl.get(rl.config.KeyFn(c))
		allowed := lim.Allow()
		remaining := max(int(math.Floor(lim.Tokens())), 0)

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Max))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			retryAfter := int(math.Ceil(1 / float64(rl.rate)))
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return ErrorResponse(c, fiber.StatusTooManyRequests, "RATE_LIMITED",
				fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter))
		}
		return c.Next()
	}
}

// Allow reports whether one more request for key fits in its bucket.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.get(key).Allow()
}

// Stop ends the background sweep. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	e, ok := rl.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.config.Max)}
		rl.limiters[key] = e
	}
	e.lastAccess = time.Now()
	return e.limiter
}

func (rl *RateLimiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.evictIdle(time.Now().Add(-max(rl.config.Window, interval)))
		case <-rl.stop:
			return
		}
	}
}

// evictIdle removes limiters not used since cutoff. A limiter idle for a full
// window has refilled, so dropping it loses no state.
func (rl *RateLimiter) evictIdle(cutoff time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, e := range rl.limiters {
		if e.lastAccess.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// KeyByIP returns the client IP as the rate limit key.
func KeyByIP(c fiber.Ctx) string {
	return "ip:" + c.IP()
}

// KeyByActor keys on the authenticated actor, falling back to the client IP.
func KeyByActor(c fiber.Ctx) string {
	if id := ActorID(c); id != "" {
		return "actor:" + id
	}
	return "ip:" + c.IP()
}

// --- Pre-configured rate limiters ---

// NewAPIRateLimiter: 300 req/min per IP
func NewAPIRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Max:    300,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	})
}

// NewToggleRateLimiter: 60 req/min per actor
func NewToggleRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Max:    60,
		Window: time.Minute,
		KeyFn:  KeyByActor,
	})
}

// NewAIRateLimiter: 10 req/min per actor
func NewAIRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Max:    10,
		Window: time.Minute,
		KeyFn:  KeyByActor,
	})
}
