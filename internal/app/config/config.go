package config

import (
	"log/slog"
	"time"
)

type LogLeveler string

func (l LogLeveler) Level() slog.Level {
	var level slog.Level

	_ = level.UnmarshalText([]byte(l))

	return level
}

// Config holds the server configuration.
type Config struct {
	LogLevel LogLeveler `mapstructure:"LOG_LEVEL"`
	HTTP     HTTP       `mapstructure:",squash"`
	Redis    Redis      `mapstructure:",squash"`
	Scraper  Scraper    `mapstructure:",squash"`
	Cache    Cache      `mapstructure:",squash"`
	Airports Airports   `mapstructure:",squash"`
}

type HTTP struct {
	Port    int           `mapstructure:"HTTP_PORT"`
	Timeout time.Duration `mapstructure:"HTTP_TIMEOUT"`
}

type Redis struct {
	Addr     string        `mapstructure:"REDIS_ADDR"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	Timeout  time.Duration `mapstructure:"REDIS_TIMEOUT"`
}

// Scraper holds the extraction engine configuration. WaitTime bounds a
// single stability-polling attempt; MaxRetries bounds full re-navigation
// cycles per query, not per batch.
type Scraper struct {
	BaseURL        string        `mapstructure:"SCRAPER_BASE_URL"`
	WaitTime       time.Duration `mapstructure:"SCRAPER_WAIT_TIME"`
	PollInterval   time.Duration `mapstructure:"SCRAPER_POLL_INTERVAL"`
	MaxRetries     int           `mapstructure:"SCRAPER_MAX_RETRIES"`
	NavTimeout     time.Duration `mapstructure:"SCRAPER_NAV_TIMEOUT"`
	Headless       bool          `mapstructure:"SCRAPER_HEADLESS"`
	MaxConcurrency int           `mapstructure:"SCRAPER_MAX_CONCURRENCY"`
	RateLimitRPS   int           `mapstructure:"SCRAPER_RATE_LIMIT"`
	StartJitter    time.Duration `mapstructure:"SCRAPER_START_JITTER"`
}

type Cache struct {
	Expiration  time.Duration `mapstructure:"CACHE_EXPIRATION"`
	LockTimeout time.Duration `mapstructure:"CACHE_LOCK_TIMEOUT"`
}

type Airports struct {
	CodesPath string `mapstructure:"AIRPORT_CODES_PATH"`
}
