package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variables that override file values.
const (
	EnvPastebin       = "QOTD_PASTEBIN"
	EnvWebhookID      = "QOTD_WEBHOOK_ID"
	EnvWebhookToken   = "QOTD_WEBHOOK_TOKEN"
	EnvPostAt         = "QOTD_POST_AT"
	EnvTelegramToken  = "QOTD_TELEGRAM_TOKEN"
	EnvTelegramChatID = "QOTD_TELEGRAM_CHAT_ID"
	EnvStatePath      = "QOTD_STATE"
	EnvLogLevel       = "QOTD_LOG_LEVEL"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays environment values on c. Setting webhook or telegram
// credentials also selects that notifier when none was chosen explicitly.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}
	get := func(k string) (string, bool) {
		v, ok := lookup(k)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvPastebin); ok {
		c.Source.URL = v
		if c.Source.Driver == "" {
			c.Source.Driver = "http"
		}
	}
	if v, ok := get(EnvPostAt); ok {
		c.Schedule.PostAt = v
	}
	if v, ok := get(EnvStatePath); ok {
		c.Storage.Path = v
	}
	if v, ok := get(EnvLogLevel); ok {
		c.Logging.Level = v
	}

	id, okID := get(EnvWebhookID)
	tok, okTok := get(EnvWebhookToken)
	if okID {
		c.Notifier.Discord.WebhookID = id
	}
	if okTok {
		c.Notifier.Discord.WebhookToken = tok
	}
	if (okID || okTok) && c.Notifier.Driver == "" {
		c.Notifier.Driver = "discord"
	}

	if v, ok := get(EnvTelegramToken); ok {
		c.Notifier.Telegram.Token = v
		if c.Notifier.Driver == "" {
			c.Notifier.Driver = "telegram"
		}
	}
	if v, ok := get(EnvTelegramChatID); ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid chat id %q: %w", EnvTelegramChatID, v, err)
		}
		c.Notifier.Telegram.ChatID = id
	}
	return nil
}
