package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matchpull/matchpull/batch"
	"github.com/matchpull/matchpull/config"
	"github.com/matchpull/matchpull/models"
	"github.com/matchpull/matchpull/sink"
)

// batchJob tracks one batch run: the orchestrator it polls progress
// from, the artifact paths, and the final result once the run ends.
type batchJob struct {
	ID        string
	CreatedAt int64

	orch      *batch.Orchestrator
	csvPath   string
	excelPath string

	result atomic.Pointer[models.BatchResult]
}

// batchStore holds all in-flight and completed batch jobs.
var batchStore sync.Map

func init() {
	// Background goroutine to expire batch jobs older than 24 hours.
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-24 * time.Hour).Unix()
			batchStore.Range(func(key, value any) bool {
				job := value.(*batchJob)
				if job.CreatedAt < cutoff {
					batchStore.Delete(key)
				}
				return true
			})
		}
	}()
}

// PostBatch returns a handler for POST /api/v1/batch/scrape.
//
// It seeds both output artifacts synchronously (so a broken output
// directory fails fast), then runs the batch in the background. The
// batch is strictly sequential; parallel page fetches against the
// source site get clients blocked.
func PostBatch(fetcher batch.PageFetcher, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		batchCfg, season := applyOptions(cfg, req.Options)

		jobID := "batch-" + randomID()
		job := &batchJob{
			ID:        jobID,
			CreatedAt: time.Now().Unix(),
			csvPath:   filepath.Join(cfg.Output.Dir, fmt.Sprintf("results_%s.csv", jobID)),
			excelPath: filepath.Join(cfg.Output.Dir, fmt.Sprintf("matches_%s.xlsx", jobID)),
		}

		excelSink := sink.NewExcel(job.excelPath, season)
		pipeline := batch.NewPipeline(fetcher,
			sink.NewCSV(job.csvPath),
			excelSink,
			season,
		)
		if _, err := pipeline.Prepare(req.URLs); err != nil {
			se := models.AsScrapeError(err)
			slog.Error("failed to seed batch artifacts", "id", jobID, "error", se)
			c.JSON(http.StatusInternalServerError, gin.H{"error": se.ToDetail()})
			return
		}

		process := pipeline.Process
		if req.Options.Timeout > 0 {
			perItem := time.Duration(req.Options.Timeout) * time.Second
			process = func(ctx context.Context, index int, url string) models.ScrapeResult {
				ctx, cancel := context.WithTimeout(ctx, perItem)
				defer cancel()
				return pipeline.Process(ctx, index, url)
			}
		}

		job.orch = batch.NewOrchestrator(batchCfg, process)
		batchStore.Store(jobID, job)

		go func() {
			result, err := job.orch.Run(context.Background(), req.URLs)
			if err != nil {
				slog.Error("batch aborted", "id", jobID, "error", err)
			}
			// The trailing run-summary block goes in before the result
			// is published, so the files endpoint serves final artifacts.
			if result != nil {
				if sumErr := excelSink.WriteRunSummary(result); sumErr != nil {
					slog.Error("failed to append run summary", "id", jobID, "error", sumErr)
				}
			}
			job.result.Store(result)
		}()

		c.JSON(http.StatusOK, models.BatchResponse{
			ID:     jobID,
			Status: string(models.BatchRunning),
			Total:  len(req.URLs),
		})
	}
}

// applyOptions overlays the per-request options onto the configured
// batch defaults.
func applyOptions(cfg *config.Config, opts models.BatchOptions) (config.BatchConfig, string) {
	batchCfg := cfg.Batch
	if opts.MaxMatches > 0 {
		batchCfg.MaxMatches = opts.MaxMatches
	}
	if opts.RateLimitDelay > 0 {
		batchCfg.RateLimitDelay = time.Duration(opts.RateLimitDelay) * time.Second
	}
	season := cfg.Output.Season
	if opts.Season != "" {
		season = opts.Season
	}
	return batchCfg, season
}

// GetBatch returns a handler for GET /api/v1/batch/:id.
func GetBatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := loadJob(c)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, models.BatchStatusResponse{
			ID:       job.ID,
			Progress: job.orch.Progress(),
			Result:   job.result.Load(),
		})
	}
}

// GetBatchFiles returns a handler for GET /api/v1/batch/:id/files.
// The artifacts are only served once the batch has finished.
func GetBatchFiles() gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := loadJob(c)
		if !ok {
			return
		}

		if job.result.Load() == nil {
			c.JSON(http.StatusConflict, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "batch still running, artifacts not final yet",
				},
			})
			return
		}

		csvData, err := os.ReadFile(job.csvPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": models.ErrorDetail{Code: models.ErrCodeSinkIO, Message: "read results file"},
			})
			return
		}
		excelData, err := os.ReadFile(job.excelPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": models.ErrorDetail{Code: models.ErrCodeSinkIO, Message: "read workbook file"},
			})
			return
		}

		c.JSON(http.StatusOK, models.BatchFilesResponse{
			ID:        job.ID,
			CSVName:   filepath.Base(job.csvPath),
			CSVData:   base64.StdEncoding.EncodeToString(csvData),
			ExcelName: filepath.Base(job.excelPath),
			ExcelData: base64.StdEncoding.EncodeToString(excelData),
		})
	}
}

func loadJob(c *gin.Context) (*batchJob, bool) {
	val, ok := batchStore.Load(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": models.ErrorDetail{
				Code:    models.ErrCodeInvalidInput,
				Message: "batch job not found",
			},
		})
		return nil, false
	}
	return val.(*batchJob), true
}

// randomID generates a short random hex string for job IDs.
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
