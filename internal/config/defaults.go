package config

import "strings"

const (
	DefaultPath         = "./config.yaml"
	DefaultStatePath    = "questions.json"
	DefaultTick         = "@every 1m"
	DefaultPostAt       = "12:00"
	DefaultCycleTimeout = "45s"
	DefaultRetryMax     = 2
)

// Default returns a config with every default applied.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills empty fields. It is idempotent.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Source.Driver) == "" {
		c.Source.Driver = "http"
	}
	if strings.TrimSpace(c.Notifier.Driver) == "" {
		c.Notifier.Driver = "log"
	}
	if c.Notifier.RetryMax == nil {
		n := DefaultRetryMax
		c.Notifier.RetryMax = &n
	}
	if strings.TrimSpace(c.Schedule.PostAt) == "" {
		c.Schedule.PostAt = DefaultPostAt
	}
	if strings.TrimSpace(c.Schedule.Tick) == "" {
		c.Schedule.Tick = DefaultTick
	}
	if strings.TrimSpace(c.Schedule.CycleTimeout) == "" {
		c.Schedule.CycleTimeout = DefaultCycleTimeout
	}
	if strings.TrimSpace(c.Storage.Driver) == "" {
		c.Storage.Driver = "file"
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		switch strings.ToLower(c.Storage.Driver) {
		case "sqlite", "sqlite3":
			c.Storage.Path = "questions.db"
		default:
			c.Storage.Path = DefaultStatePath
		}
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "info"
	}
}

// Retries converts RetryMax to the number of extra attempts (>= 0).
func (n NotifierConfig) Retries() int {
	if n.RetryMax == nil {
		return DefaultRetryMax
	}
	return max(*n.RetryMax, 0)
}
