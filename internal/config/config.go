package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port               string
	DiscordWebhookURL  string
	AmazonAffiliateTag string
	FixturesDir        string
	LatencyMin         time.Duration
	LatencyMax         time.Duration
	VoteRateLimit      float64
	VoteBurst          int
	TrendingLimit      int
	TrustProxyHeaders  bool
	LogFormat          string
	LogLevel           slog.Level
	ShutdownTimeout    time.Duration
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		slog.Info("Defaulting to port", "port", port)
	}

	discordWebhookURL := os.Getenv("DISCORD_WEBHOOK_URL")
	if discordWebhookURL == "" {
		slog.Warn("DISCORD_WEBHOOK_URL not set, featured deal announcements will be skipped")
	}

	latencyMin, err := durationEnv("SIMULATED_LATENCY", 0)
	if err != nil {
		return nil, err
	}
	latencyMax, err := durationEnv("SIMULATED_LATENCY_MAX", latencyMin)
	if err != nil {
		return nil, err
	}
	if latencyMin < 0 || latencyMax < latencyMin {
		return nil, fmt.Errorf("invalid simulated latency range [%s, %s]", latencyMin, latencyMax)
	}

	voteRateLimit := 1.0
	if v := os.Getenv("VOTE_RATE_LIMIT"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid VOTE_RATE_LIMIT %q: must be a non-negative number", v)
		}
		voteRateLimit = parsed
	}

	voteBurst, err := intEnv("VOTE_BURST", 5)
	if err != nil {
		return nil, err
	}
	trendingLimit, err := intEnv("TRENDING_LIMIT", 10)
	if err != nil {
		return nil, err
	}

	var trustProxyHeaders bool
	if v := os.Getenv("TRUST_PROXY_HEADERS"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUST_PROXY_HEADERS %q: %w", v, err)
		}
		trustProxyHeaders = parsed
	}

	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "" {
		logFormat = "text"
	}
	if logFormat != "text" && logFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", logFormat)
	}

	var logLevel slog.Level
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
	}

	shutdownTimeout, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               port,
		DiscordWebhookURL:  discordWebhookURL,
		AmazonAffiliateTag: os.Getenv("AMAZON_AFFILIATE_TAG"),
		FixturesDir:        os.Getenv("FIXTURES_DIR"),
		LatencyMin:         latencyMin,
		LatencyMax:         latencyMax,
		VoteRateLimit:      voteRateLimit,
		VoteBurst:          voteBurst,
		TrendingLimit:      trendingLimit,
		TrustProxyHeaders:  trustProxyHeaders,
		LogFormat:          logFormat,
		LogLevel:           logLevel,
		ShutdownTimeout:    shutdownTimeout,
	}, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if parsed < 1 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return parsed, nil
}
