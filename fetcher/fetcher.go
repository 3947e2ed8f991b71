package fetcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/matchpull/matchpull/config"
	"github.com/matchpull/matchpull/models"
)

// Navigator is the minimal surface the retry loop needs from a
// session: load one page, or replace a dead session. Session satisfies
// it; tests substitute fakes.
type Navigator interface {
	Navigate(ctx context.Context, url string) (string, error)
	Recycle() error
}

// Clock abstracts sleeping so retry backoff is deterministic in tests.
type Clock interface {
	Sleep(d time.Duration)
	Now() time.Time
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }
func (realClock) Now() time.Time        { return time.Now() }

// Fetcher drives a Navigator through the bounded retry state machine.
type Fetcher struct {
	nav   Navigator
	cfg   config.FetcherConfig
	clock Clock
}

// New creates a Fetcher over the given Navigator.
func New(nav Navigator, cfg config.FetcherConfig) *Fetcher {
	return &Fetcher{nav: nav, cfg: cfg, clock: realClock{}}
}

// WithClock replaces the clock; used by tests to skip real backoff.
func (f *Fetcher) WithClock(c Clock) *Fetcher {
	f.clock = c
	return f
}

// attemptState is the retry machine's state. The transitions are
// Idle → Attempting → {Succeeded, Retrying → Attempting, Failed}.
type attemptState int

const (
	stateIdle attemptState = iota
	stateAttempting
	stateRetrying
	stateSucceeded
	stateFailed
)

// Fetch retrieves the page markup for url, retrying with exponential
// backoff up to the configured attempt bound. A navigation error that
// indicates the session itself died triggers a session recycle before
// the next attempt instead of retrying on a dead browser.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	backoff := f.cfg.RetryDelay
	attempt := 0
	state := stateIdle
	var lastErr error

	for state != stateSucceeded && state != stateFailed {
		switch state {
		case stateIdle:
			state = stateAttempting

		case stateAttempting:
			attempt++
			html, err := f.nav.Navigate(ctx, url)
			if err == nil {
				return html, nil
			}
			lastErr = err
			slog.Warn("navigation attempt failed",
				"url", url,
				"attempt", attempt,
				"maxAttempts", f.cfg.MaxAttempts,
				"error", err,
			)

			if se := models.AsScrapeError(err); se.Code == models.ErrCodeSessionLost {
				if recErr := f.nav.Recycle(); recErr != nil {
					slog.Error("session recovery failed", "error", recErr)
					lastErr = recErr
					state = stateFailed
					continue
				}
			}

			if attempt >= f.cfg.MaxAttempts || ctx.Err() != nil {
				state = stateFailed
				continue
			}
			state = stateRetrying

		case stateRetrying:
			f.clock.Sleep(backoff)
			backoff *= 2
			state = stateAttempting
		}
	}

	se := models.AsScrapeError(lastErr)
	if se.Code != models.ErrCodeSessionLost {
		se = models.NewScrapeError(models.ErrCodeNavigation, "page failed to load after retries", lastErr)
	}
	return "", se
}
