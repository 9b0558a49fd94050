package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// NarratorProvider configures one OpenAI-compatible chat completion
// endpoint. Providers are tried in order when one is rate limited.
type NarratorProvider struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
}

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL string

	// ItemManifestURL points at the published YAML item manifest.
	ItemManifestURL string

	// Bag is the inventory service the crates are drawn from and the
	// players are charged through.
	BagAPIURL     string
	BagAppKey     string
	BagBotAccount string

	// Narrators lists the hint providers in failover order.
	Narrators []NarratorProvider

	// PriceFloor is the minimum play cost in gp. 0 means the default.
	PriceFloor int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		ItemManifestURL: os.Getenv("ITEM_MANIFEST_URL"),
		BagAPIURL:       os.Getenv("BAG_API_URL"),
		BagAppKey:       os.Getenv("BAG_APP_KEY"),
		BagBotAccount:   os.Getenv("BAG_BOT_ACCOUNT"),
	}

	if cfg.ItemManifestURL == "" {
		return nil, fmt.Errorf("ITEM_MANIFEST_URL is required")
	}
	if cfg.BagAPIURL == "" {
		return nil, fmt.Errorf("BAG_API_URL is required")
	}
	if cfg.BagAppKey == "" {
		return nil, fmt.Errorf("BAG_APP_KEY is required")
	}
	if cfg.BagBotAccount == "" {
		return nil, fmt.Errorf("BAG_BOT_ACCOUNT is required")
	}

	if floor := os.Getenv("PRICE_FLOOR"); floor != "" {
		n, err := strconv.Atoi(floor)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid PRICE_FLOOR: %q", floor)
		}
		cfg.PriceFloor = n
	}

	// Primary narrator, then an optional fallback provider. Both speak
	// the OpenAI chat completion protocol.
	primary := NarratorProvider{
		Name:    getEnv("NARRATOR_NAME", "openai"),
		APIKey:  os.Getenv("NARRATOR_API_KEY"),
		BaseURL: getEnv("NARRATOR_BASE_URL", "https://api.openai.com/v1"),
		Model:   getEnv("NARRATOR_MODEL", "gpt-4o"),
	}
	if primary.APIKey == "" {
		return nil, fmt.Errorf("NARRATOR_API_KEY is required")
	}
	cfg.Narrators = append(cfg.Narrators, primary)

	if key := os.Getenv("NARRATOR_FALLBACK_API_KEY"); key != "" {
		cfg.Narrators = append(cfg.Narrators, NarratorProvider{
			Name:    getEnv("NARRATOR_FALLBACK_NAME", "fallback"),
			APIKey:  key,
			BaseURL: getEnv("NARRATOR_FALLBACK_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("NARRATOR_FALLBACK_MODEL", "gpt-4o-mini"),
		})
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
