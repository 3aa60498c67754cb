package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/vixtube/internal/model"
)

func newTestLimiter(t *testing.T, cfg RateLimitConfig) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)
	return rl
}

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	rl := newTestLimiter(t, RateLimitConfig{Max: 5, Window: time.Minute, KeyFn: KeyByIP})

	for i := 0; i < 5; i++ {
		if !rl.Allow("test-ip") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_BlocksAfterMax(t *testing.T) {
	rl := newTestLimiter(t, RateLimitConfig{Max: 3, Window: time.Minute, KeyFn: KeyByIP})

	for i := 0; i < 3; i++ {
		rl.Allow("test-ip")
	}

	if rl.Allow("test-ip") {
		t.Fatal("4th request should be blocked")
	}
}

func TestRateLimiter_DifferentKeysIndependent(t *testing.T) {
	rl := newTestLimiter(t, RateLimitConfig{Max: 2, Window: time.Minute, KeyFn: KeyByIP})

	rl.Allow("ip-a")
	rl.Allow("ip-a")

	if rl.Allow("ip-a") {
		t.Fatal("ip-a should be blocked")
	}
	if !rl.Allow("ip-b") {
		t.Fatal("ip-b should be allowed (independent key)")
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	rl := newTestLimiter(t, RateLimitConfig{Max: 2, Window: 50 * time.Millisecond, KeyFn: KeyByIP})

	rl.Allow("test")
	rl.Allow("test")

	if rl.Allow("test") {
		t.Fatal("should be blocked within window")
	}

	time.Sleep(60 * time.Millisecond)

	if !rl.Allow("test") {
		t.Fatal("should be allowed after tokens refill")
	}
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := newTestLimiter(t, RateLimitConfig{Max: 1, Window: time.Minute, KeyFn: KeyByIP})

	rl.Allow("old")
	rl.evictIdle(time.Now().Add(time.Second))
	if n := rl.size(); n != 0 {
		t.Fatalf("expected idle limiter to be evicted, %d left", n)
	}
	if !rl.Allow("old") {
		t.Fatal("evicted key should start with a full bucket")
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute, KeyFn: KeyByIP})
	rl.Stop()
	rl.Stop()
}

func TestRateLimiter_PresetLimits(t *testing.T) {
	tests := []struct {
		name string
		rl   *RateLimiter
		max  int
	}{
		{"toggle", NewToggleRateLimiter(), 60},
		{"ai", NewAIRateLimiter(), 10},
		{"api", NewAPIRateLimiter(), 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer tt.rl.Stop()
			for i := 0; i < tt.max; i++ {
				if !tt.rl.Allow("actor:abc") {
					t.Fatalf("request %d should be allowed (max %d)", i+1, tt.max)
				}
			}
			if tt.rl.Allow("actor:abc") {
				t.Fatalf("request %d should be blocked", tt.max+1)
			}
		})
	}
}

func TestRateLimiter_HandlerRejectsWithEnvelope(t *testing.T) {
	rl := newTestLimiter(t, RateLimitConfig{Max: 1, Window: time.Minute, KeyFn: KeyByIP})
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("ok")
	}, rl.Handler())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("first request: status %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-RateLimit-Limit"); got != "1" {
		t.Errorf("X-RateLimit-Limit = %q", got)
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get(fiber.HeaderRetryAfter) == "" {
		t.Error("missing Retry-After")
	}
	body, _ := io.ReadAll(resp.Body)
	var env model.APIError
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v (%s)", err, body)
	}
	if env.Success || env.Code != "RATE_LIMITED" || env.StatusCode != 429 {
		t.Errorf("unexpected envelope %+v", env)
	}
}
