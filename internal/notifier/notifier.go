package notifier

import (
	"context"
	"errors"
	"strings"
	"time"

	logx "qotd/pkg/logx"
)

// Notifier delivers one question text.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// LogSender is implemented by drivers that can also carry operator log lines.
type LogSender interface {
	SendLog(ctx context.Context, text string) error
}

// Config selects and configures the delivery channel.
type Config struct {
	Driver   string
	Telegram TelegramConfig
	Discord  DiscordConfig

	// Timeout bounds a single send attempt.
	Timeout time.Duration

	RetryMax      int
	RetryBase     time.Duration
	RetryMaxDelay time.Duration
	RatePerSec    int
}

type TelegramConfig struct {
	Token     string
	ChatID    int64
	ThreadID  int
	LogChatID int64
	// APIURL overrides the Bot API endpoint (tests, self-hosted Bot API servers).
	APIURL string
}

type DiscordConfig struct {
	WebhookID    string
	WebhookToken string
	Username     string
	// BaseURL overrides https://discord.com/api (tests).
	BaseURL string
}

// New builds the configured driver wrapped with retry and rate limiting.
// The returned value also implements LogSender when the driver does.
func New(cfg Config, log logx.Logger) (Notifier, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	var (
		n   Notifier
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "telegram":
		n, err = newTelegram(cfg.Telegram, time.Now)
	case "discord":
		n, err = newDiscord(cfg.Discord, cfg.Timeout, time.Now)
	case "log", "":
		n = &logNotifier{log: log}
	default:
		return nil, errors.New("unknown notifier driver: " + cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return newRetrying(n, cfg, log), nil
}

type logNotifier struct{ log logx.Logger }

func (l *logNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.log.Info("question of the day", logx.String("text", text))
	return nil
}
