package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const healthCheckTimeout = 3 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	redis redis.Cmdable
}

// NewHealthHandler accepts a nil redis client when the in-memory limiter
// store is in use.
func NewHealthHandler(db Pinger, rdb redis.Cmdable) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

type healthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Dependencies: map[string]string{}}

	if h.db != nil {
		resp.Dependencies["database"] = "up"
		if err := h.db.Ping(ctx); err != nil {
			resp.Dependencies["database"] = "down"
			resp.Status = "degraded"
		}
	}

	if h.redis != nil {
		resp.Dependencies["redis"] = "up"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			resp.Dependencies["redis"] = "down"
			resp.Status = "degraded"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
