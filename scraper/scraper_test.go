package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/geolens/engine"
	"github.com/use-agent/geolens/models"
)

type stubDispatcher struct {
	res      *engine.FetchResult
	err      error
	deadline bool
	gotURL   string
}

func (s *stubDispatcher) Dispatch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	s.gotURL = req.URL
	_, s.deadline = ctx.Deadline()
	return s.res, s.err
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		allowPrivate bool
		want         string
		wantErr      bool
	}{
		{"adds scheme", "  example.com/page ", false, "https://example.com/page", false},
		{"keeps http", "http://example.com", false, "http://example.com", false},
		{"upper case scheme", "HTTPS://example.com/a", false, "https://example.com/a", false},
		{"url in query", "example.com/login?next=https://example.com/a", false, "https://example.com/login?next=https://example.com/a", false},
		{"http url in query", "example.com/go?u=http://x.org", false, "https://example.com/go?u=http://x.org", false},
		{"empty", "   ", false, "", true},
		{"ftp", "ftp://example.com/file", false, "", true},
		{"no host", "https://", false, "", true},
		{"localhost", "http://localhost:3000", false, "", true},
		{"loopback ip", "127.0.0.1", false, "", true},
		{"private ip", "https://192.168.1.10/admin", false, "", true},
		{"ten net", "http://10.0.0.5", false, "", true},
		{"ipv6 loopback", "http://[::1]:8080/", false, "", true},
		{"mdns", "https://printer.local", false, "", true},
		{"private allowed", "http://localhost:3000", true, "http://localhost:3000", false},
		{"public ip", "http://93.184.216.34", false, "http://93.184.216.34", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.raw, tt.allowPrivate)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeURL(%q) = %q, want error", tt.raw, got)
				}
				if ae := models.AsAuditError(err); ae.Code != models.ErrCodeInvalidInput {
					t.Errorf("code = %s, want %s", ae.Code, models.ErrCodeInvalidInput)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeURL(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	html := `<html><head><title>ignored</title></head><body>
		<h1>Title</h1>
		<div>not collected</div>
		<p>First paragraph.</p>
		<ul><li>one</li><li>two</li></ul>
		<h4>skipped</h4>
		<h2>Sub</h2>
	</body></html>`

	want := "Title First paragraph. one two Sub "
	if got := ExtractText(html); got != want {
		t.Errorf("ExtractText() = %q, want %q", got, want)
	}
	if got := ExtractText(""); got != "" {
		t.Errorf("ExtractText(\"\") = %q, want empty", got)
	}
}

func TestFetcher_Fetch(t *testing.T) {
	d := &stubDispatcher{res: &engine.FetchResult{
		HTML:       "<p>Hello there.</p>",
		FinalURL:   "https://example.com/final",
		EngineName: "http",
	}}
	f := NewFetcher(d, 0)

	snap, finalURL, err := f.Fetch(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if snap.RawHTML != "<p>Hello there.</p>" || snap.Text != "Hello there. " {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if finalURL != "https://example.com/final" {
		t.Errorf("finalURL = %q", finalURL)
	}
	if !d.deadline {
		t.Error("dispatch context should carry the fetch deadline")
	}
	if f.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", f.timeout, DefaultTimeout)
	}
}

func TestFetcher_Errors(t *testing.T) {
	tests := []struct {
		name string
		d    *stubDispatcher
		want string
	}{
		{"dispatch error", &stubDispatcher{err: errors.New("connection refused")}, "connection refused"},
		{"timeout", &stubDispatcher{err: context.DeadlineExceeded}, "timed out"},
		{"empty html", &stubDispatcher{res: &engine.FetchResult{HTML: "  "}}, "empty document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewFetcher(tt.d, time.Second).Fetch(context.Background(), "https://example.com")
			if err == nil {
				t.Fatal("expected error")
			}
			ae := models.AsAuditError(err)
			if ae.Code != models.ErrCodeFetchFailed {
				t.Errorf("code = %s, want %s", ae.Code, models.ErrCodeFetchFailed)
			}
			if !strings.HasPrefix(ae.Message, "Failed to fetch URL: ") || !strings.Contains(ae.Message, tt.want) {
				t.Errorf("message = %q, want it to mention %q", ae.Message, tt.want)
			}
		})
	}
}

func TestFetcher_FinalURLDefaultsToRequested(t *testing.T) {
	d := &stubDispatcher{res: &engine.FetchResult{HTML: "<p>x</p>"}}
	page, err := NewFetcher(d, time.Second).FetchPage(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("FetchPage() error: %v", err)
	}
	if page.FinalURL != "https://example.com/a" || d.gotURL != "https://example.com/a" {
		t.Errorf("FinalURL = %q, dispatched %q", page.FinalURL, d.gotURL)
	}
}
