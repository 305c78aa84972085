package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/typegraph/internal/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Ancestry    AncestryService
	Runs        RunService
	Endpoint    HealthChecker
	DB          HealthChecker // nil when run storage is disabled
	CORSOrigins []string
	Version     string
	ClientRate  float64
	ClientBurst int
}

// maxBodySize caps request bodies; only batch discovery accepts one.
const maxBodySize = 1 << 20

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Retry-After"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Endpoint, deps.DB, log, deps.Version)
	ancestry := NewAncestryHandler(deps.Ancestry, log)
	runs := NewRunHandler(deps.Runs, log)

	// Health and readiness are not rate limited.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	api.Use(middleware.NewRateLimiter(ctx, deps.ClientRate, deps.ClientBurst).Handler())

	api.GET("/resolve", ancestry.Resolve)
	api.GET("/lookup/:kind", ancestry.Lookup)

	api.GET("/ancestry", ancestry.Discover)
	api.POST("/ancestry/batch", ancestry.Batch)
	api.GET("/ancestry/stream", streamHandler(ctx, deps.Ancestry, log, deps.CORSOrigins))

	api.GET("/runs", runs.List)
	api.GET("/runs/:id", runs.Get)
	api.DELETE("/runs/:id", runs.Delete)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
