// Package lighthouse runs the Lighthouse CLI and condenses its JSON report
// into the performance section of an audit.
package lighthouse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/use-agent/geolens/models"
)

// DefaultTimeout bounds one CLI run.
const DefaultTimeout = 120 * time.Second

// Runner invokes the Lighthouse CLI. It is safe for concurrent use; every
// run writes to its own temporary file.
type Runner struct {
	bin     string
	timeout time.Duration
}

// NewRunner creates a Runner for the given executable. A non-positive
// timeout selects DefaultTimeout.
func NewRunner(bin string, timeout time.Duration) *Runner {
	if bin == "" {
		bin = "lighthouse"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{bin: bin, timeout: timeout}
}

// Run audits url and returns its category scores and Core Web Vitals.
func (r *Runner) Run(ctx context.Context, url string) (*models.PerformanceReport, error) {
	out, err := os.CreateTemp("", "lighthouse_*.json")
	if err != nil {
		return nil, models.NewAuditError(models.ErrCodeLighthouse, "create report file", err)
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.bin, url,
		"--output=json",
		"--output-path="+outPath,
		"--chrome-flags=--headless",
		"--quiet",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = 5 * time.Second

	start := time.Now()
	slog.Info("lighthouse audit starting", "url", url)
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, models.NewAuditError(models.ErrCodeLighthouse, fmt.Sprintf("lighthouse timed out after %s", r.timeout), ctx.Err())
		}
		return nil, models.NewAuditError(models.ErrCodeLighthouse, "lighthouse failed: "+strings.TrimSpace(stderr.String()), err)
	}
	slog.Info("lighthouse audit finished", "url", url, "elapsed", time.Since(start))

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, models.NewAuditError(models.ErrCodeLighthouse, "read report", err)
	}
	return parseReport(data)
}

type rawReport struct {
	Categories map[string]struct {
		Score *float64 `json:"score"`
	} `json:"categories"`
	Audits map[string]struct {
		NumericValue float64 `json:"numericValue"`
	} `json:"audits"`
}

// parseReport extracts the four category scores (scaled to 0-100) and the
// LCP, FID and CLS audits. Missing audits read as 0; a missing or null
// category is an error.
func parseReport(data []byte) (*models.PerformanceReport, error) {
	var raw rawReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, models.NewAuditError(models.ErrCodeLighthouse, "decode report", err)
	}

	category := func(name string) (float64, error) {
		c, ok := raw.Categories[name]
		if !ok || c.Score == nil {
			return 0, models.NewAuditError(models.ErrCodeLighthouse, "report has no "+name+" score", nil)
		}
		return *c.Score * 100, nil
	}

	var (
		rep  models.PerformanceReport
		err  error
		cats = []struct {
			name string
			dst  *float64
		}{
			{"performance", &rep.Categories.Performance},
			{"accessibility", &rep.Categories.Accessibility},
			{"best-practices", &rep.Categories.BestPractices},
			{"seo", &rep.Categories.SEO},
		}
	)
	for _, c := range cats {
		if *c.dst, err = category(c.name); err != nil {
			return nil, err
		}
	}

	rep.Metrics = models.CoreMetrics{
		LCP: raw.Audits["largest-contentful-paint"].NumericValue / 1000,
		FID: raw.Audits["first-input-delay"].NumericValue,
		CLS: raw.Audits["cumulative-layout-shift"].NumericValue,
	}
	return &rep, nil
}
