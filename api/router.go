package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/geolens/api/handler"
	"github.com/use-agent/geolens/api/middleware"
	"github.com/use-agent/geolens/config"
	"github.com/use-agent/geolens/metrics"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger → CORS
//	API:     Auth (if enabled) → RateLimit
//
// Health and /metrics are outside auth so monitoring probes always work.
func NewRouter(a handler.Auditor, f handler.PageFetcher, p handler.Previewer, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	if cfg.Server.Metrics {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	g := r.Group("/api")

	g.GET("/health", handler.Health(startTime, Version))

	protected := g.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/audit", handler.Audit(a))
	protected.GET("/content", handler.Content(f, p, cfg.Fetch.AllowPrivateHosts))

	return r
}
