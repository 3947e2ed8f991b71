package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matchpull/matchpull/fetcher"
	"github.com/matchpull/matchpull/models"
)

// Health returns a handler for GET /api/v1/health.
//
// Reports browser session liveness; a dead session degrades status but
// does not fail the probe, since the next fetch recycles it.
func Health(sess *fetcher.Session, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, session := "healthy", "alive"
		if !sess.Alive() {
			status, session = "degraded", "down"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Session: session,
			Version: "0.1.0",
		})
	}
}
