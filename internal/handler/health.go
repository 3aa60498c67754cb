package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
)

// Pinger is a dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type redisPinger struct{ rdb *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.rdb.Ping(ctx).Err() }

type HealthHandler struct {
	db      Pinger
	cache   Pinger
	ai      string
	version string
	startAt time.Time
}

// NewHealthHandler builds the probes. rdb may be nil when caching is disabled.
func NewHealthHandler(db Pinger, rdb *redis.Client, aiProvider, version string) *HealthHandler {
	h := &HealthHandler{db: db, ai: aiProvider, version: version, startAt: time.Now()}
	if rdb != nil {
		h.cache = redisPinger{rdb: rdb}
	}
	return h
}

// Live handles GET /health/live, the liveness probe.
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready. The database is required; a down cache
// degrades the service but counts still come from the ledger.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	dbCheck := check(ctx, h.db)
	cacheCheck := check(ctx, h.cache)

	overall := "healthy"
	status := fiber.StatusOK
	switch {
	case dbCheck["status"] != "up":
		overall = "unhealthy"
		status = fiber.StatusServiceUnavailable
	case cacheCheck["status"] == "down":
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbCheck,
			"redis":    cacheCheck,
			"ai":       fiber.Map{"status": "configured", "provider": h.ai},
		},
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
		"version":        h.version,
	})
}

func check(ctx context.Context, p Pinger) fiber.Map {
	if p == nil {
		return fiber.Map{"status": "disabled"}
	}

	start := time.Now()
	err := p.Ping(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return fiber.Map{
			"status":     "down",
			"latency_ms": latency,
			"error":      "connection failed",
		}
	}
	return fiber.Map{
		"status":     "up",
		"latency_ms": latency,
	}
}
