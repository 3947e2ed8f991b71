package batch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/matchpull/matchpull/config"
	"github.com/matchpull/matchpull/models"
)

func testBatchConfig() config.BatchConfig {
	return config.BatchConfig{
		RateLimitDelay:   3 * time.Second,
		MaxMatches:       100,
		RecentErrorLimit: 10,
	}
}

func urlsN(n int) []string {
	urls := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		urls = append(urls, fmt.Sprintf("https://example.com/en/matches/%d/report", i))
	}
	return urls
}

func okResult(url string) models.ScrapeResult {
	return models.ScrapeResult{URL: url, Record: &models.MatchStatisticsRecord{}}
}

func errResult(url, code string) models.ScrapeResult {
	se := models.NewScrapeError(code, "boom", nil)
	return models.ScrapeResult{URL: url, Err: se, Error: se.ToDetail()}
}

func TestRun_ItemFailureDoesNotAbortBatch(t *testing.T) {
	urls := urlsN(5)
	var processed []string
	o := NewOrchestrator(testBatchConfig(), func(_ context.Context, i int, url string) models.ScrapeResult {
		processed = append(processed, url)
		if i == 2 {
			return errResult(url, models.ErrCodeTimeout)
		}
		return okResult(url)
	}).WithSleep(func(time.Duration) {})

	result, err := o.Run(context.Background(), urls)
	if err != nil {
		t.Fatalf("unexpected batch-fatal error: %v", err)
	}

	if result.Attempted != 5 || result.Succeeded != 4 || result.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 5/4/1",
			result.Attempted, result.Succeeded, result.Failed)
	}
	if len(processed) != 5 {
		t.Errorf("items after the failure must still run, processed %d", len(processed))
	}
	if result.Results[2].Err == nil || result.Results[2].URL != urls[2] {
		t.Errorf("failure must reference item 3's URL, got %+v", result.Results[2])
	}
	if len(result.RecentErrors) != 1 {
		t.Errorf("recent errors = %v", result.RecentErrors)
	}
	if got := o.Progress(); got.State != models.BatchCompleted {
		t.Errorf("final state = %q, want completed", got.State)
	}
}

func TestRun_SinkFailureIsBatchFatal(t *testing.T) {
	urls := urlsN(4)
	var processed int
	o := NewOrchestrator(testBatchConfig(), func(_ context.Context, i int, url string) models.ScrapeResult {
		processed++
		if i == 1 {
			return errResult(url, models.ErrCodeSinkIO)
		}
		return okResult(url)
	}).WithSleep(func(time.Duration) {})

	result, err := o.Run(context.Background(), urls)
	se := models.AsScrapeError(err)
	if se == nil || se.Code != models.ErrCodeSinkIO {
		t.Fatalf("want SINK_IO_FAILED batch abort, got %v", err)
	}
	if processed != 2 {
		t.Errorf("batch must stop at the sink failure, processed %d", processed)
	}
	if result.Attempted != 2 || result.Succeeded != 1 || result.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1",
			result.Attempted, result.Succeeded, result.Failed)
	}
	if got := o.Progress(); got.State != models.BatchFailed {
		t.Errorf("final state = %q, want failed", got.State)
	}
	// The error that killed the batch must be visible to pollers.
	if len(result.RecentErrors) != 1 {
		t.Fatalf("recent errors = %v, want the fatal sink error", result.RecentErrors)
	}
	if got := o.Progress(); len(got.RecentErrors) != 1 {
		t.Errorf("progress snapshot recent errors = %v", got.RecentErrors)
	}
}

func TestRun_DelayBetweenItemsNotAfterLast(t *testing.T) {
	var sleeps []time.Duration
	o := NewOrchestrator(testBatchConfig(), func(_ context.Context, _ int, url string) models.ScrapeResult {
		return okResult(url)
	}).WithSleep(func(d time.Duration) { sleeps = append(sleeps, d) })

	if _, err := o.Run(context.Background(), urlsN(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sleeps) != 2 {
		t.Fatalf("got %d pauses for 3 items, want 2 (none after the last)", len(sleeps))
	}
	for _, d := range sleeps {
		if d != 3*time.Second {
			t.Errorf("pause = %v, want 3s", d)
		}
	}
}

func TestRun_TruncatesToMaxMatches(t *testing.T) {
	cfg := testBatchConfig()
	cfg.MaxMatches = 2

	var processed int
	o := NewOrchestrator(cfg, func(_ context.Context, _ int, url string) models.ScrapeResult {
		processed++
		return okResult(url)
	}).WithSleep(func(time.Duration) {})

	result, err := o.Run(context.Background(), urlsN(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed != 2 || result.Attempted != 2 {
		t.Errorf("processed = %d, attempted = %d, want 2/2", processed, result.Attempted)
	}
}

func TestRun_RecentErrorTailBounded(t *testing.T) {
	cfg := testBatchConfig()
	cfg.RecentErrorLimit = 3

	o := NewOrchestrator(cfg, func(_ context.Context, _ int, url string) models.ScrapeResult {
		return errResult(url, models.ErrCodeNavigation)
	}).WithSleep(func(time.Duration) {})

	result, err := o.Run(context.Background(), urlsN(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Failed != 7 {
		t.Errorf("failed = %d, want 7", result.Failed)
	}
	if len(result.RecentErrors) != 3 {
		t.Errorf("error tail = %d entries, want bounded to 3", len(result.RecentErrors))
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var processed int
	o := NewOrchestrator(testBatchConfig(), func(_ context.Context, _ int, url string) models.ScrapeResult {
		processed++
		cancel()
		return okResult(url)
	}).WithSleep(func(time.Duration) {})

	_, err := o.Run(ctx, urlsN(5))
	if err == nil {
		t.Fatal("cancelled batch must return an error")
	}
	if processed != 1 {
		t.Errorf("processed = %d after cancellation, want 1", processed)
	}
	if got := o.Progress(); got.State != models.BatchFailed {
		t.Errorf("state = %q, want failed", got.State)
	}
}

func TestProgress_SnapshotInitiallyPending(t *testing.T) {
	o := NewOrchestrator(testBatchConfig(), func(_ context.Context, _ int, url string) models.ScrapeResult {
		return okResult(url)
	})
	if got := o.Progress(); got.State != models.BatchPending {
		t.Errorf("initial state = %q, want pending", got.State)
	}
}
