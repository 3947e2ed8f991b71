// Package batch runs the sequential scrape loop: one URL at a time,
// a fixed pause between fetches, per-item failure isolation, and a
// lock-free progress snapshot for status pollers.
package batch

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/matchpull/matchpull/config"
	"github.com/matchpull/matchpull/models"
)

// ProcessFunc handles one URL end to end and reports its outcome.
// The orchestrator never inspects the record, only the error.
type ProcessFunc func(ctx context.Context, index int, url string) models.ScrapeResult

// Orchestrator drives a batch strictly sequentially. The source site
// blocks concurrent clients, so there is exactly one in-flight item
// and a mandatory delay between consecutive ones.
type Orchestrator struct {
	cfg      config.BatchConfig
	process  ProcessFunc
	sleep    func(time.Duration)
	progress atomic.Pointer[models.Progress]
}

// NewOrchestrator creates an orchestrator over the given process
// function.
func NewOrchestrator(cfg config.BatchConfig, process ProcessFunc) *Orchestrator {
	o := &Orchestrator{cfg: cfg, process: process, sleep: time.Sleep}
	o.publish(models.Progress{State: models.BatchPending})
	return o
}

// WithSleep replaces the inter-item sleep; used by tests.
func (o *Orchestrator) WithSleep(fn func(time.Duration)) *Orchestrator {
	o.sleep = fn
	return o
}

// Progress returns the latest published snapshot. The orchestrator is
// the single writer and publishes by atomic pointer replacement, so a
// poller always sees a consistent snapshot, possibly one item behind.
func (o *Orchestrator) Progress() models.Progress {
	return *o.progress.Load()
}

func (o *Orchestrator) publish(p models.Progress) {
	o.progress.Store(&p)
}

// Run processes the URLs in order and returns the accumulated result.
// Per-item errors are recorded and the batch continues; a sink write
// failure poisons the shared artifact and aborts the whole batch. The
// returned error is non-nil only for batch-fatal conditions.
func (o *Orchestrator) Run(ctx context.Context, urls []string) (*models.BatchResult, error) {
	if o.cfg.MaxMatches > 0 && len(urls) > o.cfg.MaxMatches {
		slog.Warn("batch truncated to match cap", "supplied", len(urls), "cap", o.cfg.MaxMatches)
		urls = urls[:o.cfg.MaxMatches]
	}

	result := &models.BatchResult{}
	prog := models.Progress{State: models.BatchRunning, Total: len(urls)}
	o.publish(prog)

	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			prog.State = models.BatchFailed
			o.publish(prog)
			return result, models.NewScrapeError(models.ErrCodeInternal, "batch cancelled", err)
		}

		prog.CurrentIndex = i
		prog.LastURL = url
		o.publish(prog)

		slog.Info("scraping match", "index", i+1, "total", len(urls), "url", url)
		item := o.process(ctx, i, url)
		result.Attempted++
		prog.Attempted++

		if item.Err != nil {
			if item.Err.Code == models.ErrCodeSinkIO {
				slog.Error("output artifact write failed, aborting batch",
					"url", url, "error", item.Err)
				result.Failed++
				result.RecentErrors = appendBounded(result.RecentErrors, item.Err.Error(), o.cfg.RecentErrorLimit)
				result.Results = append(result.Results, item)
				prog.State = models.BatchFailed
				prog.Failed++
				prog.RecentErrors = result.RecentErrors
				o.publish(prog)
				return result, item.Err
			}
			slog.Warn("match failed", "url", url, "error", item.Err)
			result.Failed++
			result.RecentErrors = appendBounded(result.RecentErrors, item.Err.Error(), o.cfg.RecentErrorLimit)
			prog.Failed++
			prog.RecentErrors = result.RecentErrors
		} else {
			result.Succeeded++
			prog.Succeeded++
		}
		result.Results = append(result.Results, item)
		o.publish(prog)

		// Pause between items, never after the last one.
		if i < len(urls)-1 {
			o.sleep(o.cfg.RateLimitDelay)
		}
	}

	prog.State = models.BatchCompleted
	o.publish(prog)
	slog.Info("batch finished",
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

func appendBounded(tail []string, msg string, limit int) []string {
	tail = append(tail, msg)
	if limit > 0 && len(tail) > limit {
		tail = tail[len(tail)-limit:]
	}
	return tail
}
