// Package audit sequences a GEO audit: fetch the page, run the optional
// performance audit, score, suggest and assemble the report.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/use-agent/geolens/geo"
	"github.com/use-agent/geolens/metrics"
	"github.com/use-agent/geolens/models"
	"github.com/use-agent/geolens/scraper"
)

// Fetcher retrieves a page snapshot and the URL it was finally served from.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (geo.PageSnapshot, string, error)
}

// PerformanceAuditor produces the performance section of a report.
type PerformanceAuditor interface {
	Run(ctx context.Context, url string) (*models.PerformanceReport, error)
}

// Scorer computes the GEO score and suggestions for a page.
type Scorer interface {
	Score(ctx context.Context, page geo.PageSnapshot) (int, geo.SignalSet)
	Suggest(page geo.PageSnapshot, signals geo.SignalSet) []geo.Suggestion
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithPrivateHosts permits audits of loopback and private-network hosts.
func WithPrivateHosts(allow bool) Option {
	return func(a *Auditor) { a.allowPrivate = allow }
}

// Auditor runs audits. It keeps no per-request state and is safe for
// concurrent use.
type Auditor struct {
	fetcher      Fetcher
	perf         PerformanceAuditor
	scorer       Scorer
	allowPrivate bool
	now          func() time.Time
}

// NewAuditor creates an Auditor. perf may be nil, in which case reports
// carry no performance section.
func NewAuditor(fetcher Fetcher, perf PerformanceAuditor, scorer Scorer, opts ...Option) *Auditor {
	a := &Auditor{
		fetcher: fetcher,
		perf:    perf,
		scorer:  scorer,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Audit produces the report for rawURL. Invalid input fails with
// INVALID_INPUT and an unreachable page with FETCH_FAILED; a failed
// performance audit only drops that section. Panics are recovered and
// reported as INTERNAL_ERROR.
func (a *Auditor) Audit(ctx context.Context, rawURL string) (report *models.AuditReport, err error) {
	start := time.Now()
	defer func() {
		code := ""
		if err != nil {
			code = models.AsAuditError(err).Code
		}
		metrics.ObserveAudit(code, time.Since(start))
	}()

	url, err := scraper.NormalizeURL(rawURL, a.allowPrivate)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("audit panicked", "url", url, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			report = nil
			err = models.NewAuditError(models.ErrCodeInternal, "internal server error", fmt.Errorf("panic: %v", r))
		}
	}()

	page, finalURL, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		ae := models.AsAuditError(err)
		if ae.Code != models.ErrCodeFetchFailed {
			ae = models.NewAuditError(models.ErrCodeFetchFailed, "Failed to fetch URL: "+ae.Message, err)
		}
		return nil, ae
	}
	if page.RawHTML == "" {
		return nil, models.NewAuditError(models.ErrCodeFetchFailed, "Failed to fetch URL: empty document", nil)
	}

	var perf *models.PerformanceReport
	if a.perf != nil {
		var perfErr error
		if perf, perfErr = a.perf.Run(ctx, url); perfErr != nil {
			slog.Warn("performance audit failed, omitting section", "url", url, "error", perfErr)
			metrics.PerformanceAudits.WithLabelValues("failed").Inc()
			perf = nil
		} else {
			metrics.PerformanceAudits.WithLabelValues(metrics.OutcomeOK).Inc()
		}
	}

	score, signals := a.scorer.Score(ctx, page)
	metrics.GeoScore.Observe(float64(score))
	suggestions := a.scorer.Suggest(page, signals)
	if suggestions == nil {
		suggestions = []geo.Suggestion{}
	}

	slog.Info("audit complete",
		"url", url,
		"finalURL", finalURL,
		"geoScore", score,
		"suggestions", len(suggestions),
		"performance", perf != nil,
		"elapsed", time.Since(start),
	)

	return &models.AuditReport{
		URL:         url,
		Timestamp:   a.now().UTC(),
		Lighthouse:  perf,
		GeoScore:    score,
		GeoSignals:  signals,
		Suggestions: suggestions,
	}, nil
}
