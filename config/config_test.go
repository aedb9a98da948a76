package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEO_LLM_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")

	cfg := Load()

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Oracle.Timeout != 15*time.Second {
		t.Errorf("Oracle.Timeout = %s, want 15s", cfg.Oracle.Timeout)
	}
	if cfg.Lighthouse.Timeout != 120*time.Second {
		t.Errorf("Lighthouse.Timeout = %s, want 120s", cfg.Lighthouse.Timeout)
	}
	if cfg.Oracle.APIKey != "" {
		t.Errorf("Oracle.APIKey = %q, want empty", cfg.Oracle.APIKey)
	}
	if cfg.Auth.Enabled {
		t.Error("Auth.Enabled should default to false")
	}
	if cfg.Browser.Enabled {
		t.Error("Browser.Enabled should default to false")
	}
	if !cfg.Server.Metrics {
		t.Error("Server.Metrics should default to true")
	}
	want := []time.Duration{0, 2 * time.Second, 5 * time.Second}
	if !reflect.DeepEqual(cfg.Fetch.EscalationDelays, want) {
		t.Errorf("Fetch.EscalationDelays = %v, want %v", cfg.Fetch.EscalationDelays, want)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GEO_PORT", "9090")
	t.Setenv("GEO_LLM_TIMEOUT", "3s")
	t.Setenv("GEO_API_KEYS", " a, b ,,c")
	t.Setenv("GEO_LIGHTHOUSE_ENABLED", "false")
	t.Setenv("GEO_RATE_RPS", "0.5")
	t.Setenv("GEO_ESCALATION_DELAYS", "0s, 500ms, bogus")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Oracle.Timeout != 3*time.Second {
		t.Errorf("Oracle.Timeout = %s, want 3s", cfg.Oracle.Timeout)
	}
	if !reflect.DeepEqual(cfg.Auth.APIKeys, []string{"a", "b", "c"}) {
		t.Errorf("Auth.APIKeys = %v", cfg.Auth.APIKeys)
	}
	if cfg.Lighthouse.Enabled {
		t.Error("Lighthouse.Enabled should be false")
	}
	if cfg.RateLimit.RequestsPerSecond != 0.5 {
		t.Errorf("RateLimit.RequestsPerSecond = %v, want 0.5", cfg.RateLimit.RequestsPerSecond)
	}
	if !reflect.DeepEqual(cfg.Fetch.EscalationDelays, []time.Duration{0, 500 * time.Millisecond}) {
		t.Errorf("Fetch.EscalationDelays = %v", cfg.Fetch.EscalationDelays)
	}
}

func TestLoad_GroqKeyFallback(t *testing.T) {
	t.Setenv("GEO_LLM_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "gsk_test")

	if got := Load().Oracle.APIKey; got != "gsk_test" {
		t.Errorf("Oracle.APIKey = %q, want gsk_test", got)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("GEO_PORT", "not-a-number")
	t.Setenv("GEO_FETCH_TIMEOUT", "soon")

	cfg := Load()
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want default 5000", cfg.Server.Port)
	}
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("Fetch.Timeout = %s, want default 10s", cfg.Fetch.Timeout)
	}
}
