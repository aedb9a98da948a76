package models

import (
	"time"

	"github.com/use-agent/geolens/geo"
)

// AuditReport is the response for POST /api/audit.
type AuditReport struct {
	// URL is the normalized, scheme-qualified page address.
	URL string `json:"url"`

	// Timestamp is when the audit completed.
	Timestamp time.Time `json:"timestamp"`

	// Lighthouse holds the performance audit, or null when it was
	// disabled or failed.
	Lighthouse *PerformanceReport `json:"lighthouse"`

	// GeoScore is the weighted 0-100 composite.
	GeoScore int `json:"geoScore"`

	// GeoSignals are the four sub-scores behind GeoScore.
	GeoSignals geo.SignalSet `json:"geoSignals"`

	// Suggestions are ranked improvements, at most geo.MaxSuggestions.
	Suggestions []geo.Suggestion `json:"suggestions"`
}

// PerformanceReport is the subset of a Lighthouse report surfaced to callers.
type PerformanceReport struct {
	Categories CategoryScores `json:"categories"`
	Metrics    CoreMetrics    `json:"metrics"`
}

// CategoryScores are Lighthouse category scores scaled to 0-100.
type CategoryScores struct {
	Performance   float64 `json:"performance"`
	Accessibility float64 `json:"accessibility"`
	BestPractices float64 `json:"best-practices"`
	SEO           float64 `json:"seo"`
}

// CoreMetrics are the Core Web Vitals of the audited page.
type CoreMetrics struct {
	// LCP is largest-contentful-paint in seconds.
	LCP float64 `json:"lcp"`

	// FID is first-input-delay in milliseconds.
	FID float64 `json:"fid"`

	// CLS is cumulative-layout-shift (unitless).
	CLS float64 `json:"cls"`
}

// ContentResponse is the response for GET /api/content.
type ContentResponse struct {
	URL      string    `json:"url"`
	Title    string    `json:"title,omitempty"`
	Language string    `json:"language,omitempty"`
	Content  string    `json:"content"`
	Length   int       `json:"length"`
	Markdown string    `json:"markdown"`
	Tokens   TokenInfo `json:"tokens"`
}

// TokenInfo provides before/after token estimates for the cleaned content.
type TokenInfo struct {
	// OriginalEstimate is the estimated token count of the raw HTML.
	OriginalEstimate int `json:"original_estimate"`

	// CleanedEstimate is the estimated token count of the Markdown.
	CleanedEstimate int `json:"cleaned_estimate"`

	// SavingsPercent is the percentage of tokens removed (0-100).
	SavingsPercent float64 `json:"savings_percent"`
}

// HealthResponse is the response for GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
