package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Set test environment variables (auto-cleaned up after test)
	t.Setenv("DISCORD_WEBHOOK_URL", "https://test.webhook")
	t.Setenv("PORT", "9090")
	t.Setenv("AMAZON_AFFILIATE_TAG", "test-tag-20")
	t.Setenv("SIMULATED_LATENCY", "")
	t.Setenv("SIMULATED_LATENCY_MAX", "")
	t.Setenv("VOTE_RATE_LIMIT", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("TRUST_PROXY_HEADERS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.DiscordWebhookURL != "https://test.webhook" {
		t.Errorf("Expected https://test.webhook, got %s", cfg.DiscordWebhookURL)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected 9090, got %s", cfg.Port)
	}
	if cfg.AmazonAffiliateTag != "test-tag-20" {
		t.Errorf("Expected test-tag-20, got %s", cfg.AmazonAffiliateTag)
	}
	if cfg.LatencyMin != 0 || cfg.LatencyMax != 0 {
		t.Errorf("Expected zero latency, got [%s, %s]", cfg.LatencyMin, cfg.LatencyMax)
	}
	if cfg.VoteRateLimit != 1 || cfg.VoteBurst != 5 {
		t.Errorf("Expected default vote limit 1/5, got %v/%d", cfg.VoteRateLimit, cfg.VoteBurst)
	}
	if cfg.TrendingLimit != 10 {
		t.Errorf("Expected default TrendingLimit 10, got %d", cfg.TrendingLimit)
	}
	if cfg.TrustProxyHeaders {
		t.Error("Expected proxy headers to be untrusted by default")
	}
	if cfg.LogFormat != "text" || cfg.LogLevel != slog.LevelInfo {
		t.Errorf("Expected text/info logging, got %s/%s", cfg.LogFormat, cfg.LogLevel)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected default shutdown timeout 10s, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoad_Latency(t *testing.T) {
	t.Setenv("SIMULATED_LATENCY", "200ms")
	t.Setenv("SIMULATED_LATENCY_MAX", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.LatencyMin != 200*time.Millisecond || cfg.LatencyMax != 200*time.Millisecond {
		t.Errorf("Expected fixed 200ms, got [%s, %s]", cfg.LatencyMin, cfg.LatencyMax)
	}

	t.Setenv("SIMULATED_LATENCY_MAX", "400ms")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.LatencyMax != 400*time.Millisecond {
		t.Errorf("Expected max 400ms, got %s", cfg.LatencyMax)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"Bad latency", "SIMULATED_LATENCY", "soon"},
		{"Max below min", "SIMULATED_LATENCY_MAX", "-1s"},
		{"Negative vote limit", "VOTE_RATE_LIMIT", "-2"},
		{"Zero burst", "VOTE_BURST", "0"},
		{"Bad trending limit", "TRENDING_LIMIT", "ten"},
		{"Bad log format", "LOG_FORMAT", "xml"},
		{"Bad log level", "LOG_LEVEL", "loud"},
		{"Bad proxy flag", "TRUST_PROXY_HEADERS", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q should return an error", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_VoteLimitDisabled(t *testing.T) {
	t.Setenv("VOTE_RATE_LIMIT", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.VoteRateLimit != 0 {
		t.Errorf("Expected disabled vote limit, got %v", cfg.VoteRateLimit)
	}
}

func TestLoad_TrustProxyHeaders(t *testing.T) {
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.TrustProxyHeaders {
		t.Error("Expected proxy headers to be trusted")
	}
}
