package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	APIURL       string        // ALERTDECK_API_URL (default https://alert-management-system-1.onrender.com/api)
	SessionPath  string        // ALERTDECK_SESSION_PATH (default ~/.local/state/alertdeck/session.toml)
	PollInterval time.Duration // ALERTDECK_POLL_INTERVAL (default 30s; used by watch)
}

func Load() (*Config, error) {
	c := &Config{
		APIURL:      envOrDefault("ALERTDECK_API_URL", "https://alert-management-system-1.onrender.com/api"),
		SessionPath: os.Getenv("ALERTDECK_SESSION_PATH"),
	}

	intervalStr := envOrDefault("ALERTDECK_POLL_INTERVAL", "30s")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("ALERTDECK_POLL_INTERVAL: %w", err)
	}
	c.PollInterval = d

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
