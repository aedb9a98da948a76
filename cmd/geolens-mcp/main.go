package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	apiURL := os.Getenv("GEO_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:5000"
	}
	apiKey := os.Getenv("GEO_API_KEY")

	s := server.NewMCPServer(
		"geolens",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	// Audits include a Lighthouse run, which alone may take two minutes.
	c := &apiClient{
		baseURL: apiURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 180 * time.Second},
	}

	geoAuditTool := mcp.NewTool("geo_audit",
		mcp.WithDescription("Audit a web page for Generative Engine Optimization: returns the 0-100 GEO score, its four signals (answer nugget, extractability, authority, objectivity), Lighthouse results when available and prioritized improvement suggestions."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page to audit; https is assumed when no scheme is given"),
		),
	)
	s.AddTool(geoAuditTool, handleGeoAudit(c))

	fetchContentTool := mcp.NewTool("fetch_content",
		mcp.WithDescription("Fetch a web page and return its readable main content as Markdown, with token estimates."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page to fetch"),
		),
		mcp.WithString("selector",
			mcp.Description("Optional CSS selector that narrows the page before extraction, e.g. 'article' or 'main'"),
		),
	)
	s.AddTool(fetchContentTool, handleFetchContent(c))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
