package health

import (
	"context"
	"os"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
)

// Checker defines the interface for checking a dependency's health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// SnapshotChecker verifies the snapshot directory is reachable.
type SnapshotChecker struct {
	dir string
}

// NewSnapshotChecker creates a checker for the snapshot directory.
func NewSnapshotChecker(dir string) *SnapshotChecker {
	return &SnapshotChecker{dir: dir}
}

// Ping stats the snapshot directory.
func (s *SnapshotChecker) Ping(_ context.Context) error {
	_, err := os.Stat(s.dir)

	return err
}

// Handler handles health check operations.
type Handler struct {
	redis    Checker
	snapshot Checker
}

// NewHandler creates a new health handler.
func NewHandler(redisChecker, snapshotChecker Checker) *Handler {
	return &Handler{redis: redisChecker, snapshot: snapshotChecker}
}

// Response is the response for the health check endpoint.
type Response struct {
	Body struct {
		Status   string `json:"status"`
		Redis    string `json:"redis"`
		Snapshot string `json:"snapshot"`
	}
}

// Check reports the service's health and that of its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"

	resp.Body.Redis = "healthy"
	if err := h.redis.Ping(ctx); err != nil {
		resp.Body.Redis = "unhealthy"
		resp.Body.Status = "degraded"
	}

	resp.Body.Snapshot = "healthy"
	if err := h.snapshot.Ping(ctx); err != nil {
		resp.Body.Snapshot = "unhealthy"
		resp.Body.Status = "degraded"
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
