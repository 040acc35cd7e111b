package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wonny/tickernews/internal/api/response"
	"github.com/wonny/tickernews/internal/pkg/health"
)

// Pinger an optional dependency checked by readiness (Redis)
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store     health.Checker
	broker    Pinger
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler. broker may be nil.
func NewHealthHandler(store health.Checker, broker Pinger, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		broker:    broker,
		startTime: time.Now(),
		version:   version,
	}
}

// SimpleHealthResponse represents a simple health check response
type SimpleHealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse represents a readiness check response
type ReadyResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Message   string            `json:"message,omitempty"`
}

// DetailedHealthResponse represents detailed health information
type DetailedHealthResponse struct {
	Status        string                     `json:"status"`
	Version       string                     `json:"version"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Timestamp     time.Time                  `json:"timestamp"`
	Components    map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health status of a component
type ComponentHealth struct {
	Status       string         `json:"status"`
	ResponseTime string         `json:"response_time,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	Message      string         `json:"message,omitempty"`
}

// Health returns simple liveness check
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, SimpleHealthResponse{
		Status:    health.StatusHealthy,
		Timestamp: time.Now(),
	})
}

// Ready returns readiness check with dependency checks
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()
	checks := make(map[string]string)
	ready := true
	message := ""

	if status := h.store.Health(ctx); status.Status == health.StatusUnhealthy {
		checks["database"] = "error"
		ready = false
		message = "Database connection failed"
	} else {
		checks["database"] = "ok"
	}

	if h.broker != nil {
		if err := h.broker.Ping(ctx); err != nil {
			checks["redis"] = "error"
			ready = false
			if message == "" {
				message = "Redis connection failed"
			}
		} else {
			checks["redis"] = "ok"
		}
	}

	status := "ready"
	statusCode := http.StatusOK
	if !ready {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, ReadyResponse{
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
		Message:   message,
	})
}

// Detailed returns detailed system health information
// GET /api/health
func (h *HealthHandler) Detailed(c *gin.Context) {
	ctx := c.Request.Context()
	components := make(map[string]ComponentHealth)

	db := h.store.Health(ctx)
	dbComponent := ComponentHealth{
		Status:       db.Status,
		ResponseTime: db.ResponseTime,
		Details: map[string]any{
			"driver": db.Driver,
		},
		Message: db.Error,
	}
	if db.MaxConns > 0 {
		dbComponent.Details["active_conns"] = db.ActiveConns
		dbComponent.Details["idle_conns"] = db.IdleConns
		dbComponent.Details["total_conns"] = db.TotalConns
		dbComponent.Details["max_conns"] = db.MaxConns
	}
	components["database"] = dbComponent
	overall := db.Status

	if h.broker != nil {
		start := time.Now()
		redis := ComponentHealth{Status: health.StatusHealthy}
		if err := h.broker.Ping(ctx); err != nil {
			redis.Status = health.StatusUnhealthy
			redis.Message = err.Error()
			// the API keeps serving without the broker
			if overall == health.StatusHealthy {
				overall = health.StatusDegraded
			}
		}
		redis.ResponseTime = time.Since(start).String()
		components["redis"] = redis
	}

	response.Success(c, DetailedHealthResponse{
		Status:        overall,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now(),
		Components:    components,
	})
}
