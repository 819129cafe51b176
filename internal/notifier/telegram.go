package notifier

import (
	"context"
	"errors"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

type telegramNotifier struct {
	bot *tele.Bot
	cfg TelegramConfig
	now func() time.Time
}

func newTelegram(cfg TelegramConfig, now func() time.Time) (*telegramNotifier, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat_id is required")
	}
	// NewBot calls getMe, so a bad token fails at startup rather than at post time.
	b, err := tele.NewBot(tele.Settings{
		Token:   cfg.Token,
		URL:     strings.TrimSpace(cfg.APIURL),
		Offline: false,
	})
	if err != nil {
		return nil, err
	}
	return &telegramNotifier{bot: b, cfg: cfg, now: now}, nil
}

func (t *telegramNotifier) Notify(ctx context.Context, text string) error {
	return t.send(ctx, t.cfg.ChatID, t.cfg.ThreadID, telegramHTML(text, t.now()), tele.ModeHTML)
}

// SendLog delivers a plain-text operator log line to the log chat, falling
// back to the question chat when no log chat is configured.
func (t *telegramNotifier) SendLog(ctx context.Context, text string) error {
	chat := t.cfg.LogChatID
	thread := 0
	if chat == 0 {
		chat = t.cfg.ChatID
		thread = t.cfg.ThreadID
	}
	return t.send(ctx, chat, thread, truncateRunes(text, telegramTextLimit), tele.ModeDefault)
}

func (t *telegramNotifier) send(ctx context.Context, chatID int64, threadID int, body string, mode tele.ParseMode) error {
	if ctx != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	_, err := t.bot.Send(&tele.Chat{ID: chatID}, body, &tele.SendOptions{
		ParseMode:             mode,
		DisableWebPagePreview: true,
		ThreadID:              threadID,
	})
	return err
}
