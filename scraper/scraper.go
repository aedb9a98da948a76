package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/use-agent/geolens/engine"
	"github.com/use-agent/geolens/geo"
	"github.com/use-agent/geolens/models"
)

// DefaultTimeout bounds a page fetch across all engine tiers.
const DefaultTimeout = 10 * time.Second

// Dispatcher is the engine race the Fetcher delegates to.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error)
}

// Page is a fetched document.
type Page struct {
	HTML     string
	Title    string
	FinalURL string
	Engine   string
}

// Fetcher downloads pages through the engine dispatcher. It is safe for
// concurrent use.
type Fetcher struct {
	dispatcher Dispatcher
	timeout    time.Duration
}

// NewFetcher creates a Fetcher. A non-positive timeout selects
// DefaultTimeout.
func NewFetcher(d Dispatcher, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{dispatcher: d, timeout: timeout}
}

// FetchPage retrieves url within the fetch timeout. Every failure is
// returned as a FETCH_FAILED AuditError.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	res, err := f.dispatcher.Dispatch(ctx, &engine.FetchRequest{URL: url, Timeout: f.timeout})
	if err != nil {
		slog.Warn("fetch failed", "url", url, "error", err, "elapsed", time.Since(start))
		return nil, models.NewAuditError(models.ErrCodeFetchFailed, fetchMessage(url, err), err)
	}
	if strings.TrimSpace(res.HTML) == "" {
		return nil, models.NewAuditError(models.ErrCodeFetchFailed, fmt.Sprintf("Failed to fetch URL: %s returned an empty document", url), nil)
	}

	finalURL := res.FinalURL
	if finalURL == "" {
		finalURL = url
	}
	slog.Debug("page fetched", "url", url, "engine", res.EngineName, "bytes", len(res.HTML), "elapsed", time.Since(start))
	return &Page{HTML: res.HTML, Title: res.Title, FinalURL: finalURL, Engine: res.EngineName}, nil
}

// Fetch retrieves url and pairs its HTML with the extracted body text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (geo.PageSnapshot, string, error) {
	page, err := f.FetchPage(ctx, url)
	if err != nil {
		return geo.PageSnapshot{}, "", err
	}
	return geo.PageSnapshot{RawHTML: page.HTML, Text: ExtractText(page.HTML)}, page.FinalURL, nil
}

func fetchMessage(url string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("Failed to fetch URL: %s timed out", url)
	}
	var ae *models.AuditError
	if errors.As(err, &ae) {
		return "Failed to fetch URL: " + ae.Message
	}
	return "Failed to fetch URL: " + err.Error()
}
