package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Fetch      FetchConfig
	Browser    BrowserConfig
	Oracle     OracleConfig
	Lighthouse LighthouseConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 5000
	Mode string // "debug", "release", "test"; default: "release"

	// Metrics exposes Prometheus metrics at /metrics.
	Metrics bool // default: true
}

// FetchConfig controls page fetching.
type FetchConfig struct {
	// Timeout is the deadline for fetching a page, all engines included.
	Timeout time.Duration // default: 10s

	// EscalationDelays is the staged start delay for each engine tier.
	EscalationDelays []time.Duration // default: [0s, 2s, 5s]

	// AllowPrivateHosts permits audits of loopback and private-network
	// addresses.
	AllowPrivateHosts bool // default: false
}

// BrowserConfig controls the optional headless Chrome engine.
type BrowserConfig struct {
	// Enabled adds the rod engines to the fetch dispatcher.
	Enabled bool // default: false

	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 4

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is passed to the browser as its proxy server.
	Proxy string

	// BlockResources lists resource types dropped during rendering
	// ("Image", "Stylesheet", "Font", "Media", "Script").
	BlockResources []string // default: ["Image", "Font", "Media"]

	// BlockAds drops requests to known ad and tracking hosts.
	BlockAds bool // default: true
}

// OracleConfig controls the LLM used for the objectivity signal.
type OracleConfig struct {
	// APIKey authenticates against the OpenAI-compatible API. When empty the
	// sentiment signal is always neutral.
	APIKey string

	// BaseURL is the OpenAI-compatible API root.
	BaseURL string // default: "https://api.groq.com/openai/v1"

	// Model is the chat model used for rating.
	Model string // default: "llama-3.3-70b-versatile"

	// Timeout bounds a single rating call.
	Timeout time.Duration // default: 15s
}

// LighthouseConfig controls the external performance audit.
type LighthouseConfig struct {
	// Enabled toggles the Lighthouse run. When disabled every report has a
	// null lighthouse section.
	Enabled bool // default: true

	// Bin is the Lighthouse CLI executable.
	Bin string // default: "lighthouse"

	// Timeout bounds one CLI run.
	Timeout time.Duration // default: 120s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key or client IP.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per identity.
	Burst int // default: 5
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
			Host:    envOr("GEO_HOST", "0.0.0.0"),
			Port:    envIntOr("GEO_PORT", 5000),
			Mode:    envOr("GEO_MODE", "release"),
			Metrics: envBoolOr("GEO_METRICS_ENABLED", true),
		},
		Fetch: FetchConfig{
			Timeout:           envDurationOr("GEO_FETCH_TIMEOUT", 10*time.Second),
			EscalationDelays:  envDurationSliceOr("GEO_ESCALATION_DELAYS", []time.Duration{0, 2 * time.Second, 5 * time.Second}),
			AllowPrivateHosts: envBoolOr("GEO_ALLOW_PRIVATE_HOSTS", false),
		},
		Browser: BrowserConfig{
			Enabled:        envBoolOr("GEO_BROWSER_ENABLED", false),
			Headless:       envBoolOr("GEO_HEADLESS", true),
			MaxPages:       envIntOr("GEO_MAX_PAGES", 4),
			NoSandbox:      envBoolOr("GEO_NO_SANDBOX", false),
			BrowserBin:     os.Getenv("GEO_BROWSER_BIN"),
			Proxy:          os.Getenv("GEO_BROWSER_PROXY"),
			BlockResources: envSliceOr("GEO_BLOCK_RESOURCES", []string{"Image", "Font", "Media"}),
			BlockAds:       envBoolOr("GEO_BLOCK_ADS", true),
		},
		Oracle: OracleConfig{
			APIKey:  envOr("GEO_LLM_API_KEY", os.Getenv("GROQ_API_KEY")),
			BaseURL: envOr("GEO_LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:   envOr("GEO_LLM_MODEL", "llama-3.3-70b-versatile"),
			Timeout: envDurationOr("GEO_LLM_TIMEOUT", 15*time.Second),
		},
		Lighthouse: LighthouseConfig{
			Enabled: envBoolOr("GEO_LIGHTHOUSE_ENABLED", true),
			Bin:     envOr("GEO_LIGHTHOUSE_BIN", "lighthouse"),
			Timeout: envDurationOr("GEO_LIGHTHOUSE_TIMEOUT", 120*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("GEO_AUTH_ENABLED", false),
			APIKeys: envSliceOr("GEO_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("GEO_RATE_RPS", 2.0),
			Burst:             envIntOr("GEO_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("GEO_LOG_LEVEL", "info"),
			Format: envOr("GEO_LOG_FORMAT", "json"),
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

func envDurationSliceOr(key string, fallback []time.Duration) []time.Duration {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]time.Duration, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				if d, err := time.ParseDuration(trimmed); err == nil {
					result = append(result, d)
				}
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
