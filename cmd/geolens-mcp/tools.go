package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// auditResponse mirrors the geolens audit report.
type auditResponse struct {
	URL        string `json:"url"`
	Timestamp  string `json:"timestamp"`
	Lighthouse *struct {
		Categories struct {
			Performance   float64 `json:"performance"`
			Accessibility float64 `json:"accessibility"`
			BestPractices float64 `json:"best-practices"`
			SEO           float64 `json:"seo"`
		} `json:"categories"`
		Metrics struct {
			LCP float64 `json:"lcp"`
			FID float64 `json:"fid"`
			CLS float64 `json:"cls"`
		} `json:"metrics"`
	} `json:"lighthouse"`
	GeoScore   int `json:"geoScore"`
	GeoSignals struct {
		AnswerNugget   int `json:"answer_nugget"`
		Extractability int `json:"extractability"`
		Authority      int `json:"authority"`
		Sentiment      int `json:"sentiment"`
	} `json:"geoSignals"`
	Suggestions []struct {
		Priority       string `json:"priority"`
		Title          string `json:"title"`
		Description    string `json:"description"`
		EstimatedBoost int    `json:"estimatedBoost"`
	} `json:"suggestions"`
}

// contentResponse mirrors the geolens content preview.
type contentResponse struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	Length   int    `json:"length"`
	Tokens   struct {
		OriginalEstimate int     `json:"original_estimate"`
		CleanedEstimate  int     `json:"cleaned_estimate"`
		SavingsPercent   float64 `json:"savings_percent"`
	} `json:"tokens"`
}

// errorResponse mirrors the geolens error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// apiClient talks to a running geolens server.
type apiClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// do sends req and decodes a 200 body into out. Error bodies become Go
// errors carrying the server's message.
func (c *apiClient) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			if e.Code != "" {
				return fmt.Errorf("[%s] %s", e.Code, e.Error)
			}
			return fmt.Errorf("%s", e.Error)
		}
		return fmt.Errorf("API returned HTTP %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *apiClient) audit(ctx context.Context, target string) (*auditResponse, error) {
	payload, err := json.Marshal(map[string]string{"url": target})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/audit", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out auditResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) content(ctx context.Context, target, selector string) (*contentResponse, error) {
	q := url.Values{"url": {target}}
	if selector != "" {
		q.Set("selector", selector)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/content?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var out contentResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func handleGeoAudit(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		rep, err := c.audit(ctx, target)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatAudit(rep)), nil
	}
}

func handleFetchContent(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		res, err := c.content(ctx, target, request.GetString("selector", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Title: %s\nSource: %s\n\n", res.Title, res.URL)
		b.WriteString(res.Markdown)
		fmt.Fprintf(&b, "\n\n---\nTokens: %d (saved %.0f%% from original %d)",
			res.Tokens.CleanedEstimate, res.Tokens.SavingsPercent, res.Tokens.OriginalEstimate)
		return mcp.NewToolResultText(b.String()), nil
	}
}

// formatAudit renders a report as a short plain-text summary.
func formatAudit(r *auditResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "GEO audit for %s (%s)\n\n", r.URL, r.Timestamp)
	fmt.Fprintf(&b, "GEO score: %d/100\n", r.GeoScore)
	fmt.Fprintf(&b, "  Answer nugget:  %d\n", r.GeoSignals.AnswerNugget)
	fmt.Fprintf(&b, "  Extractability: %d\n", r.GeoSignals.Extractability)
	fmt.Fprintf(&b, "  Authority:      %d\n", r.GeoSignals.Authority)
	fmt.Fprintf(&b, "  Objectivity:    %d\n", r.GeoSignals.Sentiment)

	if l := r.Lighthouse; l != nil {
		fmt.Fprintf(&b, "\nLighthouse: performance %.0f, accessibility %.0f, best practices %.0f, SEO %.0f\n",
			l.Categories.Performance, l.Categories.Accessibility, l.Categories.BestPractices, l.Categories.SEO)
		fmt.Fprintf(&b, "  LCP %.2fs, FID %.0fms, CLS %.3f\n", l.Metrics.LCP, l.Metrics.FID, l.Metrics.CLS)
	} else {
		b.WriteString("\nLighthouse: unavailable\n")
	}

	if len(r.Suggestions) == 0 {
		b.WriteString("\nNo suggestions.")
		return b.String()
	}
	b.WriteString("\nSuggestions:\n")
	for i, s := range r.Suggestions {
		fmt.Fprintf(&b, "%d. [%s] %s (+%d)\n   %s\n", i+1, s.Priority, s.Title, s.EstimatedBoost, s.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
