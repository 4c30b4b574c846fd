package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	APIBaseURL  string
	SessionFile string
	LogLevel    string

	PollIntervalMS        int
	PollMaxConsecutiveErr int

	RequestRatePerSec float64
	RequestBurst      int

	DownloadDir string

	WatchDir         string
	AgentMetricsPort string
}

func Load() Config {
	return Config{
		APIBaseURL:  mustEnv("DOCLYTICS_API_URL", "http://localhost:3333"),
		SessionFile: mustEnv("DOCLYTICS_SESSION_FILE", defaultSessionFile()),
		LogLevel:    mustEnv("LOG_LEVEL", "info"),

		PollIntervalMS:        mustEnvInt("POLL_INTERVAL_MS", 3000),
		PollMaxConsecutiveErr: mustEnvInt("POLL_MAX_CONSECUTIVE_FAILURES", 10),

		RequestRatePerSec: mustEnvFloat("REQUEST_RATE_PER_SEC", 20),
		RequestBurst:      mustEnvInt("REQUEST_BURST", 10),

		DownloadDir: mustEnv("DOCLYTICS_DOWNLOAD_DIR", "."),

		WatchDir:         mustEnv("WATCH_DIR", "./inbox"),
		AgentMetricsPort: mustEnv("AGENT_METRICS_PORT", "9091"),
	}
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".doclytics/session.yaml"
	}
	return filepath.Join(dir, "doclytics", "session.yaml")
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
