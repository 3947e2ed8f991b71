package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matchpull/matchpull/batch"
	"github.com/matchpull/matchpull/extractor"
	"github.com/matchpull/matchpull/models"
)

// FixturesRequest is the payload for POST /api/v1/fixtures.
type FixturesRequest struct {
	// URL is a season fixtures/results page to discover match-report
	// links from.
	URL string `json:"url" binding:"required,url"`
}

// FixturesResponse lists the discovered match-report URLs, deduplicated
// and in page order, ready to feed into a batch request.
type FixturesResponse struct {
	URL   string   `json:"url"`
	Count int      `json:"count"`
	URLs  []string `json:"urls"`
}

// Fixtures returns a handler for POST /api/v1/fixtures. It fetches the
// fixtures page and extracts the match-report links from its Score
// column.
func Fixtures(fetcher batch.PageFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FixturesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		html, err := fetcher.Fetch(context.Background(), req.URL)
		if err != nil {
			se := models.AsScrapeError(err)
			c.JSON(http.StatusBadGateway, gin.H{"error": se.ToDetail()})
			return
		}

		urls, err := extractor.FixtureURLs(html, req.URL)
		if err != nil {
			se := models.AsScrapeError(err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": se.ToDetail()})
			return
		}

		c.JSON(http.StatusOK, FixturesResponse{
			URL:   req.URL,
			Count: len(urls),
			URLs:  urls,
		})
	}
}
