package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matchpull/matchpull/api/handler"
	"github.com/matchpull/matchpull/api/middleware"
	"github.com/matchpull/matchpull/batch"
	"github.com/matchpull/matchpull/config"
	"github.com/matchpull/matchpull/fetcher"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(sess *fetcher.Session, pageFetcher batch.PageFetcher, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(sess, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Fixture discovery
	protected.POST("/fixtures", handler.Fixtures(pageFetcher))

	// Batch scraping
	protected.POST("/batch/scrape", handler.PostBatch(pageFetcher, cfg))
	protected.GET("/batch/:id", handler.GetBatch())
	protected.GET("/batch/:id/files", handler.GetBatchFiles())

	return r
}
