package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *apiClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &apiClient{baseURL: srv.URL, apiKey: "k", http: srv.Client()}
}

func callTool(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("tool returned error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("tool returned no content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestGeoAuditTool(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/audit" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "k" {
			t.Error("API key header missing")
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["url"] != "example.com" {
			t.Errorf("url = %q", body["url"])
		}
		w.Write([]byte(`{"url":"https://example.com","timestamp":"2026-01-01T00:00:00Z","lighthouse":null,
			"geoScore":71,"geoSignals":{"answer_nugget":80,"extractability":40,"authority":100,"sentiment":70},
			"suggestions":[{"priority":"high","title":"Add a Comparison Table","description":"Tables help.","estimatedBoost":15}]}`))
	})

	text, isErr := callTool(t, handleGeoAudit(c), map[string]any{"url": "example.com"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	for _, want := range []string{"GEO score: 71/100", "Authority:      100", "Lighthouse: unavailable", "1. [high] Add a Comparison Table (+15)"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestGeoAuditTool_Errors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Failed to fetch URL: 404","code":"FETCH_FAILED"}`))
	})

	text, isErr := callTool(t, handleGeoAudit(c), map[string]any{"url": "example.com"})
	if !isErr || text != "[FETCH_FAILED] Failed to fetch URL: 404" {
		t.Errorf("got (%q, %v)", text, isErr)
	}

	if _, isErr := callTool(t, handleGeoAudit(c), map[string]any{}); !isErr {
		t.Error("missing url should be a tool error")
	}
}

func TestFetchContentTool(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/content" || r.URL.Query().Get("url") != "example.com" || r.URL.Query().Get("selector") != "main" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		w.Write([]byte(`{"url":"https://example.com","title":"Example","markdown":"# Hello","length":5,
			"tokens":{"original_estimate":100,"cleaned_estimate":10,"savings_percent":90}}`))
	})

	text, isErr := callTool(t, handleFetchContent(c), map[string]any{"url": "example.com", "selector": "main"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	for _, want := range []string{"Title: Example", "# Hello", "Tokens: 10 (saved 90% from original 100)"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}
