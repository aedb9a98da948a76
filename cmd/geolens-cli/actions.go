package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/use-agent/geolens/app"
	"github.com/use-agent/geolens/config"
	"github.com/use-agent/geolens/models"
	"github.com/use-agent/geolens/scraper"
	"gopkg.in/yaml.v3"
)

// loadApp applies the global flags on top of the environment configuration.
func loadApp(c *cli.Context) (*app.App, *config.Config, error) {
	cfg := config.Load()
	cfg.Log.Level = c.String("log-level")
	cfg.Log.Format = "text"
	if c.IsSet("browser") {
		cfg.Browser.Enabled = c.Bool("browser")
	}
	if c.Bool("no-lighthouse") {
		cfg.Lighthouse.Enabled = false
	}
	if c.Bool("allow-private") {
		cfg.Fetch.AllowPrivateHosts = true
	}
	slog.SetDefault(app.NewLogger(cfg.Log, os.Stderr))

	a, err := app.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}

func targetURL(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one URL argument, got %d", c.NArg())
	}
	return c.Args().First(), nil
}

// auditAction runs a full audit and prints the report.
func auditAction(c *cli.Context) error {
	target, err := targetURL(c)
	if err != nil {
		return err
	}
	a, _, err := loadApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Auditor.Audit(c.Context, target)
	if err != nil {
		return cliError(err)
	}

	format := c.String("format")
	if format == "text" {
		return writeReport(c.App.Writer, report)
	}
	return encode(c.App.Writer, format, report)
}

// contentAction prints the readable content of a page.
func contentAction(c *cli.Context) error {
	target, err := targetURL(c)
	if err != nil {
		return err
	}
	a, cfg, err := loadApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	url, err := scraper.NormalizeURL(target, cfg.Fetch.AllowPrivateHosts)
	if err != nil {
		return cliError(err)
	}
	page, err := a.Fetcher.FetchPage(c.Context, url)
	if err != nil {
		return cliError(err)
	}
	preview, err := a.Cleaner.Preview(page.HTML, page.FinalURL, c.String("selector"))
	if err != nil {
		return cliError(err)
	}
	if preview.Title == "" {
		preview.Title = page.Title
	}

	format := c.String("format")
	if format == "text" {
		_, err := fmt.Fprintln(c.App.Writer, preview.Markdown)
		return err
	}
	return encode(c.App.Writer, format, preview)
}

// cliError strips the error code prefix for terminal output.
func cliError(err error) error {
	ae := models.AsAuditError(err)
	return fmt.Errorf("%s (%s)", ae.Message, ae.Code)
}

// encode writes v as JSON or YAML. YAML keys follow the JSON field names.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q: want text, json or yaml", format)
	}
}

// writeReport renders a report for humans.
func writeReport(w io.Writer, r *models.AuditReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.URL)
	fmt.Fprintf(&b, "GEO score       %3d/100\n", r.GeoScore)
	fmt.Fprintf(&b, "  answer nugget  %3d\n", r.GeoSignals.AnswerNugget)
	fmt.Fprintf(&b, "  extractability %3d\n", r.GeoSignals.Extractability)
	fmt.Fprintf(&b, "  authority      %3d\n", r.GeoSignals.Authority)
	fmt.Fprintf(&b, "  objectivity    %3d\n", r.GeoSignals.Sentiment)
	if l := r.Lighthouse; l != nil {
		fmt.Fprintf(&b, "Lighthouse      perf %.0f  a11y %.0f  best %.0f  seo %.0f  (LCP %.2fs, CLS %.3f)\n",
			l.Categories.Performance, l.Categories.Accessibility, l.Categories.BestPractices, l.Categories.SEO,
			l.Metrics.LCP, l.Metrics.CLS)
	}
	for i, s := range r.Suggestions {
		fmt.Fprintf(&b, "\n%d. [%s] %s (+%d)\n   %s\n", i+1, s.Priority, s.Title, s.EstimatedBoost, s.Description)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
