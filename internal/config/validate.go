package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"qotd/internal/daily"
	"qotd/internal/observability/status"
	"qotd/internal/source"
	"qotd/internal/task/scheduler"
	logx "qotd/pkg/logx"
)

// Validate checks the whole config and reports every problem found.
// Call it after ApplyEnv and ApplyDefaults.
func (c *Config) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	switch strings.ToLower(c.Source.Driver) {
	case "http", "https", "pastebin":
		_, err := source.ResolveURL(c.Source.URL)
		if err != nil {
			add(fmt.Errorf("source.url: %w (or set %s)", err, EnvPastebin))
		}
	case "file":
		if strings.TrimSpace(c.Source.Path) == "" {
			add(errors.New("source.path is required for the file driver"))
		}
	default:
		add(fmt.Errorf("source.driver: unknown driver %q", c.Source.Driver))
	}
	_, err := ParseDurationField("source.timeout", c.Source.Timeout)
	add(err)

	switch strings.ToLower(c.Notifier.Driver) {
	case "telegram":
		if strings.TrimSpace(c.Notifier.Telegram.Token) == "" {
			add(fmt.Errorf("notifier.telegram.token is required (or set %s)", EnvTelegramToken))
		}
		if c.Notifier.Telegram.ChatID == 0 {
			add(fmt.Errorf("notifier.telegram.chat_id is required (or set %s)", EnvTelegramChatID))
		}
	case "discord":
		d := c.Notifier.Discord
		if strings.TrimSpace(d.WebhookID) == "" || strings.TrimSpace(d.WebhookToken) == "" {
			add(fmt.Errorf("notifier.discord.webhook_id and webhook_token are required (or set %s/%s)", EnvWebhookID, EnvWebhookToken))
		}
	case "log":
	default:
		add(fmt.Errorf("notifier.driver: unknown driver %q", c.Notifier.Driver))
	}
	for path, raw := range map[string]string{
		"notifier.timeout":         c.Notifier.Timeout,
		"notifier.retry_base":      c.Notifier.RetryBase,
		"notifier.retry_max_delay": c.Notifier.RetryMaxDelay,
	} {
		_, err := ParseDurationField(path, raw)
		add(err)
	}
	if c.Notifier.RatePerSec < 0 {
		add(errors.New("notifier.rate_per_sec must be >= 0"))
	}

	if _, err := daily.ParsePostAt(c.Schedule.PostAt); err != nil {
		add(fmt.Errorf("schedule.post_at: %w", err))
	}
	if tz := strings.TrimSpace(c.Schedule.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			add(fmt.Errorf("schedule.timezone: invalid %q: %w", tz, err))
		}
	}
	if _, err := scheduler.ParseSchedule(c.Schedule.Tick); err != nil {
		add(fmt.Errorf("schedule.tick: %w", err))
	}
	_, err = ParseDurationField("schedule.cycle_timeout", c.Schedule.CycleTimeout)
	add(err)

	switch strings.ToLower(c.Storage.Driver) {
	case "file", "json", "sqlite", "sqlite3":
	default:
		add(fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver))
	}
	_, err = ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout)
	add(err)

	if !logx.ValidLevel(c.Logging.Level) {
		add(fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	if !logx.ValidLevel(c.Logging.Chat.MinLevel) {
		add(fmt.Errorf("logging.chat.min_level: unknown level %q", c.Logging.Chat.MinLevel))
	}

	if c.Status.Enabled {
		addr := strings.TrimSpace(c.Status.Addr)
		if addr == "" {
			addr = status.DefaultAddr
		}
		if strings.TrimSpace(c.Status.Token) == "" && !status.IsLoopbackAddr(addr) {
			add(fmt.Errorf("status.token is required when status.addr %q is not loopback", addr))
		}
	}

	return errors.Join(errs...)
}

// Location returns the post-time location (UTC when unset).
func (s ScheduleConfig) Location() *time.Location {
	tz := strings.TrimSpace(s.Timezone)
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
