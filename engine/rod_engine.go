package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/geolens/config"
	"github.com/use-agent/geolens/models"
	"github.com/ysmood/gson"
)

// Browser owns a headless Chrome process and a pool of reusable tabs.
// It is safe for concurrent use.
type Browser struct {
	browser  *rod.Browser
	pagePool rod.Pool[rod.Page]
	blocked  blockList
}

// LaunchBrowser starts Chrome with automation fingerprints toned down and
// connects to it.
func LaunchBrowser(cfg config.BrowserConfig) (*Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewAuditError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewAuditError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}

	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}
	return &Browser{
		browser:  browser,
		pagePool: rod.NewPagePool(maxPages),
		blocked:  newBlockList(cfg.BlockResources, cfg.BlockAds),
	}, nil
}

// Close drains the tab pool and kills the browser process.
func (b *Browser) Close() {
	b.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	if err := b.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
}

// RodEngine renders pages in headless Chrome. The stealth variant injects
// go-rod/stealth evasions before navigation.
type RodEngine struct {
	browser      *Browser
	forceStealth bool
	name         string
}

// NewRodEngine creates a RodEngine on top of a launched Browser.
func NewRodEngine(browser *Browser, forceStealth bool) *RodEngine {
	name := "rod"
	if forceStealth {
		name = "rod-stealth"
	}
	return &RodEngine{browser: browser, forceStealth: forceStealth, name: name}
}

func (e *RodEngine) Name() string { return e.name }

// Fetch borrows a tab, navigates, waits for the DOM to settle and returns the
// rendered HTML. The tab is reset to about:blank and returned to the pool
// even when the request context has expired.
func (e *RodEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if e.browser == nil {
		return nil, fmt.Errorf("%s: browser not configured", e.name)
	}

	page, err := e.browser.pagePool.Get(func() (*rod.Page, error) {
		return e.browser.browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		return nil, models.NewAuditError(models.ErrCodeBrowserCrash, "failed to acquire page from pool", err)
	}
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		e.browser.pagePool.Put(page)
	}()

	// Stealth JS and headers only apply to navigations started after them.
	if e.forceStealth || req.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}
	extraHeaders := make(map[string]string, len(req.Headers)+1)
	if _, ok := req.Headers["Referer"]; !ok {
		if ref := refererFor(req.URL); ref != "" {
			extraHeaders["Referer"] = ref
		}
	}
	for k, v := range req.Headers {
		extraHeaders[k] = v
	}
	if len(extraHeaders) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(extraHeaders)}.Call(page)
	}
	if router := e.browser.blocked.hijack(page); router != nil {
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)
	if err := p.Navigate(req.URL); err != nil {
		return nil, categorizeError(err, e.name+": navigation failed")
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	}

	rawHTML, err := p.HTML()
	if err != nil {
		return nil, categorizeError(err, e.name+": failed to extract page HTML")
	}

	statusCode := 0
	if res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`); err == nil {
		statusCode = res.Value.Int()
	}
	if statusCode >= 400 {
		return nil, models.NewAuditError(models.ErrCodeFetchFailed, fmt.Sprintf("%s: HTTP %d for %s", e.name, statusCode, req.URL), nil)
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &FetchResult{
		HTML:       rawHTML,
		Title:      evalStringOrEmpty(p, `() => document.title`),
		StatusCode: statusCode,
		FinalURL:   finalURL,
		EngineName: e.name,
	}, nil
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors.
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// refererFor builds a search-engine Referer for targetURL, or "" when the URL
// cannot be parsed.
func refererFor(targetURL string) string {
	u, err := url.Parse(targetURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
}

// categorizeError wraps raw errors into typed AuditErrors so the API layer
// can map them to status codes.
func categorizeError(err error, msg string) *models.AuditError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewAuditError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewAuditError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewAuditError(models.ErrCodeFetchFailed, msg, err)
	}
}
