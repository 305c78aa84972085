// Package api provides HTTP handlers for typegraph.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	endpoint  HealthChecker
	db        HealthChecker
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. db may be nil when run storage is disabled.
func NewHealthHandler(endpoint, db HealthChecker, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		endpoint:  endpoint,
		db:        db,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// healthResponse is the JSON payload returned by the health/liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Storage       string  `json:"storage"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health. It never calls out to dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	storage := "enabled"
	if h.db == nil {
		storage = "disabled"
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       h.version,
		Storage:       storage,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// Readiness handles GET /api/v1/ready: checks the SPARQL endpoint and, if configured, the database.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{
		"sparql":   "ok",
		"database": "disabled",
	}
	status := "ready"
	statusCode := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.endpoint.HealthCheck(ctx); err != nil {
		h.log.WithError(err).Error("readiness: sparql endpoint check failed")
		checks["sparql"] = "error"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	if h.db != nil {
		checks["database"] = "ok"

		if err := h.db.HealthCheck(ctx); err != nil {
			h.log.WithError(err).Error("readiness: database health check failed")
			checks["database"] = "error"
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
		}
	}

	c.JSON(statusCode, readinessResponse{
		Status: status,
		Checks: checks,
	})
}
