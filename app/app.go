// Package app wires the fetch engines, scorer, performance auditor and
// content cleaner from configuration. Both the HTTP server and the CLI
// build on it.
package app

import (
	"log/slog"

	"github.com/use-agent/geolens/audit"
	"github.com/use-agent/geolens/cleaner"
	"github.com/use-agent/geolens/config"
	"github.com/use-agent/geolens/engine"
	"github.com/use-agent/geolens/geo"
	"github.com/use-agent/geolens/lighthouse"
	"github.com/use-agent/geolens/llm"
	"github.com/use-agent/geolens/scraper"
)

// App holds the long-lived collaborators of an audit.
type App struct {
	Auditor *audit.Auditor
	Fetcher *scraper.Fetcher
	Cleaner *cleaner.Cleaner

	browser *engine.Browser
}

// New builds an App. The browser engines are launched only when enabled;
// the objectivity oracle only when an API key is configured; Lighthouse
// only when enabled.
func New(cfg *config.Config) (*App, error) {
	a := &App{Cleaner: cleaner.NewCleaner()}

	engines := []engine.Engine{engine.NewHTTPEngine(cfg.Browser.Enabled)}
	if cfg.Browser.Enabled {
		browser, err := engine.LaunchBrowser(cfg.Browser)
		if err != nil {
			return nil, err
		}
		a.browser = browser
		engines = append(engines, engine.NewRodEngine(browser, false), engine.NewRodEngine(browser, true))
	}
	a.Fetcher = scraper.NewFetcher(engine.NewDispatcher(engines, cfg.Fetch.EscalationDelays), cfg.Fetch.Timeout)
	slog.Info("fetch dispatcher ready", "engines", len(engines), "delays", cfg.Fetch.EscalationDelays)

	a.Auditor = audit.NewAuditor(a.Fetcher, newPerformanceAuditor(cfg.Lighthouse), newScorer(cfg.Oracle),
		audit.WithPrivateHosts(cfg.Fetch.AllowPrivateHosts))
	return a, nil
}

// Close releases the browser, if one was launched.
func (a *App) Close() {
	if a.browser != nil {
		a.browser.Close()
	}
}

func newScorer(cfg config.OracleConfig) *geo.Scorer {
	if cfg.APIKey == "" {
		slog.Warn("no LLM API key configured, sentiment signal will be neutral")
		return geo.NewScorer(nil, cfg.Timeout)
	}
	client := llm.NewClient(nil, llm.Params{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	slog.Info("objectivity oracle enabled", "model", cfg.Model)
	return geo.NewScorer(llm.NewObjectivityOracle(client), cfg.Timeout)
}

// newPerformanceAuditor returns nil when Lighthouse is disabled.
func newPerformanceAuditor(cfg config.LighthouseConfig) audit.PerformanceAuditor {
	if !cfg.Enabled {
		return nil
	}
	return lighthouse.NewRunner(cfg.Bin, cfg.Timeout)
}
