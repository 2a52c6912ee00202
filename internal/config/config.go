package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr    string
	BaseURL string
	Workers int
	Timeout time.Duration
}

func Default() Config {
	return Config{
		Addr:    envOr("MAL_ADDR", "127.0.0.1:8080"),
		BaseURL: envOr("MAL_BASE_URL", "https://myanimelist.net"),
		Workers: envInt("MAL_WORKERS", 5),
		Timeout: envDuration("MAL_TIMEOUT", 20*time.Second),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
