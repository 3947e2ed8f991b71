package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Fetcher   FetcherConfig
	Batch     BatchConfig
	Output    OutputConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser session.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Stealth enables navigator.webdriver masking before navigation.
	Stealth bool // default: true
}

// FetcherConfig controls page fetching and retry behavior.
type FetcherConfig struct {
	// NavigationTimeout is the max time for a single page load.
	NavigationTimeout time.Duration // default: 30s

	// MaxAttempts is the total number of navigation attempts per URL.
	MaxAttempts int // default: 3

	// RetryDelay is the initial backoff between attempts; it doubles
	// after each failed attempt.
	RetryDelay time.Duration // default: 5s

	// HTTPFirst tries a plain HTTP fetch with a Chrome TLS fingerprint
	// before falling back to the browser.
	HTTPFirst bool // default: true

	// Proxy is an optional proxy URL for both fetch paths.
	Proxy string
}

// BatchConfig controls the sequential batch orchestrator.
type BatchConfig struct {
	// RateLimitDelay is the fixed pause between consecutive fetches.
	// The source site blocks concurrent clients, so sequential
	// throttling is mandatory, not tunable down to zero in production.
	RateLimitDelay time.Duration // default: 3s

	// MaxMatches caps the number of URLs processed per batch.
	MaxMatches int // default: 100

	// RecentErrorLimit bounds the error tail kept in batch progress.
	RecentErrorLimit int // default: 10
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	// Dir is the directory for CSV and XLSX artifacts.
	Dir string // default: "./output"

	// Season labels artifacts and workbook metadata, e.g. "2024-25".
	Season string // default: "2024-25"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key API rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("MATCHPULL_HOST", "0.0.0.0"),
			Port: envIntOr("MATCHPULL_PORT", 8080),
			Mode: envOr("MATCHPULL_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("MATCHPULL_HEADLESS", true),
			NoSandbox:  envBoolOr("MATCHPULL_NO_SANDBOX", false),
			BrowserBin: os.Getenv("MATCHPULL_BROWSER_BIN"),
			Stealth:    envBoolOr("MATCHPULL_STEALTH", true),
		},
		Fetcher: FetcherConfig{
			NavigationTimeout: envDurationOr("MATCHPULL_NAV_TIMEOUT", 30*time.Second),
			MaxAttempts:       envIntOr("MATCHPULL_MAX_ATTEMPTS", 3),
			RetryDelay:        envDurationOr("MATCHPULL_RETRY_DELAY", 5*time.Second),
			HTTPFirst:         envBoolOr("MATCHPULL_HTTP_FIRST", true),
			Proxy:             os.Getenv("MATCHPULL_PROXY"),
		},
		Batch: BatchConfig{
			RateLimitDelay:   envDurationOr("MATCHPULL_RATE_DELAY", 3*time.Second),
			MaxMatches:       envIntOr("MATCHPULL_MAX_MATCHES", 100),
			RecentErrorLimit: envIntOr("MATCHPULL_ERROR_TAIL", 10),
		},
		Output: OutputConfig{
			Dir:    envOr("MATCHPULL_OUTPUT_DIR", "./output"),
			Season: envOr("MATCHPULL_SEASON", "2024-25"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("MATCHPULL_AUTH_ENABLED", true),
			APIKeys: envSliceOr("MATCHPULL_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("MATCHPULL_RATE_RPS", 5.0),
			Burst:             envIntOr("MATCHPULL_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("MATCHPULL_LOG_LEVEL", "info"),
			Format: envOr("MATCHPULL_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
