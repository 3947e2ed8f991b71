package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/matchpull/matchpull/config"
	"github.com/matchpull/matchpull/models"
)

const sessionUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Session owns one browser instance with an explicit open/close
// lifecycle. It is injected into each fetch rather than shared as a
// global, so batches can run against independent sessions and tests
// can substitute a fake Navigator.
type Session struct {
	mu      sync.Mutex
	browser *rod.Browser
	cfg     config.BrowserConfig
	navTime time.Duration
	stealth bool
	http    *httpFetcher
	open    bool
}

// NewSession constructs an unopened session. Call Open before fetching.
func NewSession(browserCfg config.BrowserConfig, fetchCfg config.FetcherConfig) *Session {
	s := &Session{
		cfg:     browserCfg,
		navTime: fetchCfg.NavigationTimeout,
		stealth: browserCfg.Stealth,
	}
	if fetchCfg.HTTPFirst {
		s.http = newHTTPFetcher(fetchCfg.Proxy)
	}
	return s
}

// Open launches the browser and connects to it.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.launchLocked()
}

func (s *Session) launchLocked() error {
	l := launcher.New().
		Headless(s.cfg.Headless).
		NoSandbox(s.cfg.NoSandbox)

	if s.cfg.BrowserBin != "" {
		l = l.Bin(s.cfg.BrowserBin)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return models.NewScrapeError(models.ErrCodeSessionLost, "failed to launch browser", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return models.NewScrapeError(models.ErrCodeSessionLost, "failed to connect to browser", err)
	}

	s.browser = browser
	s.open = true
	slog.Info("browser session opened", "controlURL", controlURL, "headless", s.cfg.Headless)
	return nil
}

// Close kills the browser process. Safe to call on an unopened session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return
	}
	s.browser.MustClose()
	s.open = false
	slog.Info("browser session closed")
}

// Alive reports whether the session currently holds a connected browser.
func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Recycle tears down the current browser and launches a fresh one.
// Called by the retry loop when a navigation failed because the
// session itself died; retrying on a dead session is pointless.
func (s *Session) Recycle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		s.browser.MustClose()
		s.open = false
	}
	slog.Warn("recycling browser session")
	return s.launchLocked()
}

// Navigate loads one page and returns its rendered markup. The page is
// owned exclusively by this call and released on every exit path.
//
// When the HTTP fast path is enabled, a plain GET with a Chrome TLS
// fingerprint is tried first; the browser is only involved when the
// response looks like a JS challenge or an empty shell.
func (s *Session) Navigate(ctx context.Context, url string) (string, error) {
	if s.http != nil {
		body, err := s.http.fetch(ctx, url)
		if err == nil && !needsBrowser(body) {
			slog.Debug("served via http fast path", "url", url)
			return string(body), nil
		}
		if err != nil {
			slog.Debug("http fast path failed, using browser", "url", url, "error", err)
		}
	}

	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return "", models.NewScrapeError(models.ErrCodeSessionLost, "session not open", nil)
	}
	browser := s.browser
	s.mu.Unlock()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeSessionLost, "failed to create page", err)
	}
	defer func() { _ = page.Close() }()

	if s.stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}

	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{
			"User-Agent":      sessionUA,
			"Accept-Language": "en-US,en;q=0.9",
		}),
	}.Call(page)

	navCtx, cancel := context.WithTimeout(ctx, s.navTime)
	defer cancel()
	p := page.Context(navCtx)

	if err := p.Navigate(url); err != nil {
		return "", categorizeNavError(err, "navigation failed")
	}

	// Match-report tables render server side; a short DOM-stability
	// wait covers the commented-out table blocks the site inlines late.
	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", stableErr)
	}

	html, err := p.HTML()
	if err != nil {
		return "", categorizeNavError(err, "failed to extract page HTML")
	}
	return html, nil
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders
// type (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeNavError wraps raw navigation errors into typed ScrapeErrors.
func categorizeNavError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "navigation canceled", err)
	case isConnectionDeath(err):
		return models.NewScrapeError(models.ErrCodeSessionLost, msg, err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}

// isConnectionDeath recognizes errors that mean the CDP connection or
// browser process itself is gone, as opposed to one page failing.
func isConnectionDeath(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"websocket",
		"use of closed network connection",
		"browser has been closed",
		"context canceled: connection",
		"cdp.Client",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
