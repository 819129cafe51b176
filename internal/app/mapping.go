package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"qotd/internal/config"
	"qotd/internal/daily"
	"qotd/internal/notifier"
	"qotd/internal/source"
	"qotd/internal/storage"
	"qotd/internal/task/scheduler"
	logx "qotd/pkg/logx"
)

func mapLogConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Chat: logx.ChatConfig{
			Enabled:    cfg.Logging.Chat.Enabled,
			MinLevel:   cfg.Logging.Chat.MinLevel,
			RatePerSec: cfg.Logging.Chat.RatePerSec,
		},
	}
}

func mapStorageConfig(cfg *config.Config) (storage.Config, error) {
	sc := cfg.Storage
	busy, err := config.ParseDurationField("storage.busy_timeout", sc.BusyTimeout)
	if err != nil {
		return storage.Config{}, err
	}
	return storage.Config{
		Driver:      strings.ToLower(strings.TrimSpace(sc.Driver)),
		Path:        strings.TrimSpace(sc.Path),
		BusyTimeout: busy,
	}, nil
}

func mapSourceConfig(cfg *config.Config) (source.Config, error) {
	timeout, err := config.ParseDurationField("source.timeout", cfg.Source.Timeout)
	if err != nil {
		return source.Config{}, err
	}
	return source.Config{
		Driver:  cfg.Source.Driver,
		URL:     cfg.Source.URL,
		Path:    cfg.Source.Path,
		Timeout: timeout,
	}, nil
}

func mapNotifierConfig(cfg *config.Config) (notifier.Config, error) {
	nc := cfg.Notifier
	timeout, err := config.ParseDurationField("notifier.timeout", nc.Timeout)
	if err != nil {
		return notifier.Config{}, err
	}
	base, err := config.ParseDurationField("notifier.retry_base", nc.RetryBase)
	if err != nil {
		return notifier.Config{}, err
	}
	maxDelay, err := config.ParseDurationField("notifier.retry_max_delay", nc.RetryMaxDelay)
	if err != nil {
		return notifier.Config{}, err
	}
	return notifier.Config{
		Driver: nc.Driver,
		Telegram: notifier.TelegramConfig{
			Token:     nc.Telegram.Token,
			ChatID:    nc.Telegram.ChatID,
			ThreadID:  nc.Telegram.ThreadID,
			LogChatID: nc.Telegram.LogChatID,
			APIURL:    nc.Telegram.APIURL,
		},
		Discord: notifier.DiscordConfig{
			WebhookID:    nc.Discord.WebhookID,
			WebhookToken: nc.Discord.WebhookToken,
			Username:     nc.Discord.Username,
			BaseURL:      nc.Discord.BaseURL,
		},
		Timeout:       timeout,
		RetryMax:      nc.Retries(),
		RetryBase:     base,
		RetryMaxDelay: maxDelay,
		RatePerSec:    nc.RatePerSec,
	}, nil
}

// loopPlan is the scheduling part of the config, resolved.
type loopPlan struct {
	tick            cron.Schedule
	tickRaw         string
	postAt          daily.PostAt
	loc             *time.Location
	cycleTimeout    time.Duration
	continueOnError bool
}

func mapLoopPlan(cfg *config.Config) (loopPlan, error) {
	sc := cfg.Schedule
	spec, err := scheduler.ParseSchedule(sc.Tick)
	if err != nil {
		return loopPlan{}, fmt.Errorf("schedule.tick: %w", err)
	}
	tick, err := spec.Schedule()
	if err != nil {
		return loopPlan{}, fmt.Errorf("schedule.tick: %w", err)
	}
	postAt, err := daily.ParsePostAt(sc.PostAt)
	if err != nil {
		return loopPlan{}, fmt.Errorf("schedule.post_at: %w", err)
	}
	timeout, err := config.ParseDurationField("schedule.cycle_timeout", sc.CycleTimeout)
	if err != nil {
		return loopPlan{}, err
	}
	return loopPlan{
		tick:            tick,
		tickRaw:         sc.Tick,
		postAt:          postAt,
		loc:             sc.Location(),
		cycleTimeout:    timeout,
		continueOnError: sc.ContinueOnError,
	}, nil
}
