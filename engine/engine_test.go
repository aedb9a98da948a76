package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"
)

// fakeEngine returns a canned result after an optional delay.
type fakeEngine struct {
	name    string
	delay   time.Duration
	err     error
	started atomic.Bool
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	f.started.Store(true)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(f.delay):
	}
	if f.err != nil {
		return nil, f.err
	}
	return &FetchResult{HTML: "<p>" + f.name + "</p>", EngineName: f.name, FinalURL: req.URL}, nil
}

func TestDispatcher_FirstEngineWins(t *testing.T) {
	fast := &fakeEngine{name: "http"}
	slow := &fakeEngine{name: "rod"}
	d := NewDispatcher([]Engine{fast, slow}, []time.Duration{0, time.Second})

	res, err := d.Dispatch(context.Background(), &FetchRequest{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if res.EngineName != "http" {
		t.Errorf("winner = %s, want http", res.EngineName)
	}
	if slow.started.Load() {
		t.Error("second tier should not start when the first succeeds before its delay")
	}
}

func TestDispatcher_FailureEscalatesEarly(t *testing.T) {
	failing := &fakeEngine{name: "http", err: ErrNeedsBrowser}
	browser := &fakeEngine{name: "rod"}
	d := NewDispatcher([]Engine{failing, browser}, []time.Duration{0, time.Minute})

	start := time.Now()
	res, err := d.Dispatch(context.Background(), &FetchRequest{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if res.EngineName != "rod" {
		t.Errorf("winner = %s, want rod", res.EngineName)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("failure of the first tier did not release the second tier early")
	}
}

func TestDispatcher_AllFail(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	d := NewDispatcher([]Engine{
		&fakeEngine{name: "a", err: errA},
		&fakeEngine{name: "b", err: errB, delay: 10 * time.Millisecond},
	}, nil)

	_, err := d.Dispatch(context.Background(), &FetchRequest{URL: "https://example.com"})
	if err == nil {
		t.Fatal("expected an error when every engine fails")
	}
	if !errors.Is(err, errA) && !errors.Is(err, errB) {
		t.Errorf("error = %v, want one of the engine errors", err)
	}
}

func TestDispatcher_NoEngines(t *testing.T) {
	if _, err := NewDispatcher(nil, nil).Dispatch(context.Background(), &FetchRequest{}); err == nil {
		t.Fatal("expected an error without engines")
	}
}

func TestHTTPEngine_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Chrome") {
			t.Errorf("User-Agent = %q", ua)
		}
		if r.Header.Get("X-Extra") != "1" {
			t.Error("custom header not forwarded")
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><title> Hello </title></head><body><p>hi</p></body></html>"))
	}))
	defer srv.Close()

	res, err := NewHTTPEngine(false).Fetch(context.Background(), &FetchRequest{
		URL:     srv.URL,
		Headers: map[string]string{"X-Extra": "1"},
	})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if res.Title != "Hello" {
		t.Errorf("Title = %q, want Hello", res.Title)
	}
	if res.StatusCode != http.StatusOK || res.EngineName != "http" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestHTTPEngine_Rejections(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		contentType  string
		body         string
		rejectShells bool
		wantShellErr bool
	}{
		{"error status", http.StatusNotFound, "text/html", "<p>missing</p>", false, false},
		{"non html", http.StatusOK, "application/json", `{"a":1}`, false, false},
		{"spa shell", http.StatusOK, "text/html", `<html><body><div id="root"></div><script src="app.js"></script></body></html>`, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPEngine(tt.rejectShells).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, ErrNeedsBrowser); got != tt.wantShellErr {
				t.Errorf("errors.Is(err, ErrNeedsBrowser) = %v, want %v (err: %v)", got, tt.wantShellErr, err)
			}
		})
	}
}

func TestHTTPEngine_ShellAcceptedWithoutBrowser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><div id="root"></div></body></html>`))
	}))
	defer srv.Close()

	if _, err := NewHTTPEngine(false).Fetch(context.Background(), &FetchRequest{URL: srv.URL}); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
}

func TestNeedsBrowser(t *testing.T) {
	article := "<html><body><article><p>" + strings.Repeat("Server rendered text. ", 40) + "</p></article></body></html>"
	if needsBrowser(article) {
		t.Error("server-rendered article flagged as needing a browser")
	}
	if !needsBrowser("<html><body><p>tiny</p></body></html>") {
		t.Error("near-empty body should need a browser")
	}
	noscript := "<html><body><noscript>Please enable JavaScript to continue.</noscript><p>" +
		strings.Repeat("filler text ", 40) + "</p></body></html>"
	if !needsBrowser(noscript) {
		t.Error("noscript javascript warning should need a browser")
	}
}

func TestRefererFor(t *testing.T) {
	if got := refererFor("https://docs.example.com/a?b=c"); got != "https://www.google.com/search?q=docs.example.com" {
		t.Errorf("refererFor() = %q", got)
	}
	if got := refererFor("::bad"); got != "" {
		t.Errorf("refererFor(bad) = %q, want empty", got)
	}
}

func TestBlockList(t *testing.T) {
	bl := newBlockList([]string{"Image", "Font", "Bogus"}, true)

	tests := []struct {
		name string
		rt   proto.NetworkResourceType
		url  string
		want bool
	}{
		{"image", proto.NetworkResourceTypeImage, "https://example.com/a.png", true},
		{"font", proto.NetworkResourceTypeFont, "https://example.com/a.woff2", true},
		{"document", proto.NetworkResourceTypeDocument, "https://example.com/", false},
		{"tracker subdomain", proto.NetworkResourceTypeScript, "https://www.google-analytics.com/ga.js", true},
		{"first party script", proto.NetworkResourceTypeScript, "https://example.com/app.js", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bl.blocks(tt.rt, tt.url); got != tt.want {
				t.Errorf("blocks(%s, %s) = %v, want %v", tt.rt, tt.url, got, tt.want)
			}
		})
	}

	if !newBlockList(nil, false).empty() {
		t.Error("block list without types or trackers should be empty")
	}
}
