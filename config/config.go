package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	LogLevel    string
	Environment string

	// Timezone is the civil timezone all posting slots are anchored to.
	Timezone string
	// PostingHours is the ordered set of hours-of-day (0-23) at which a
	// posting slot opens.
	PostingHours []int
	// TenantRotation is the fixed ordered list of tenant IDs that share the
	// posting slots, one tenant per slot, cycling.
	TenantRotation []string
	// UmbrellaAccountID selects which credentials row the scheduler posts with.
	UmbrellaAccountID string

	GraphBaseURL string
	// GeneratorURL is the external blog content generation endpoint. Empty
	// means the built-in template generator is used.
	GeneratorURL string

	TickInterval  time.Duration
	SlotDelay     time.Duration
	SettleDelay   time.Duration
	BlogInterval  time.Duration
	TenantDelay   time.Duration
	BlogLookback  int // how many recent titles to consider for topic de-duplication
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*Config, error) {
	// godotenv.Load will not override variables already set in the environment.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Port:              getEnv("PORT", "8090"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		Timezone:          getEnv("POSTING_TIMEZONE", "America/New_York"),
		UmbrellaAccountID: getEnv("UMBRELLA_ACCOUNT_ID", "darkwave"),
		GraphBaseURL:      getEnv("GRAPH_BASE_URL", "https://graph.facebook.com/v21.0"),
		GeneratorURL:      os.Getenv("CONTENT_GENERATOR_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	hours, err := parseHours(getEnv("POSTING_HOURS", "6,7,8,9,10,11,12,13,14,15,16,17,18,19,20,21,22"))
	if err != nil {
		return nil, fmt.Errorf("invalid POSTING_HOURS: %w", err)
	}
	cfg.PostingHours = hours

	cfg.TenantRotation = parseList(os.Getenv("TENANT_ROTATION"))
	if len(cfg.TenantRotation) == 0 {
		return nil, fmt.Errorf("TENANT_ROTATION is not set")
	}

	if cfg.TickInterval, err = parseDuration("TICK_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.SlotDelay, err = parseDuration("SLOT_DELAY", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.SettleDelay, err = parseDuration("IG_SETTLE_DELAY", 8*time.Second); err != nil {
		return nil, err
	}
	if cfg.BlogInterval, err = parseDuration("BLOG_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.TenantDelay, err = parseDuration("TENANT_DELAY", 2*time.Second); err != nil {
		return nil, err
	}

	cfg.BlogLookback, err = strconv.Atoi(getEnv("BLOG_LOOKBACK", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid BLOG_LOOKBACK: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseHours(raw string) ([]int, error) {
	parts := parseList(raw)
	hours := make([]int, 0, len(parts))
	for _, p := range parts {
		h, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("hour %q is not a number", p)
		}
		if h < 0 || h > 23 {
			return nil, fmt.Errorf("hour %d is out of range", h)
		}
		hours = append(hours, h)
	}
	if len(hours) == 0 {
		return nil, fmt.Errorf("no hours configured")
	}
	return hours, nil
}

func parseList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
