package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const discordAPI = "https://discord.com/api"

type discordNotifier struct {
	endpoint string
	username string
	client   *http.Client
	now      func() time.Time
}

type discordPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Color       int           `json:"color"`
	Footer      discordFooter `json:"footer"`
}

type discordFooter struct {
	Text string `json:"text"`
}

func newDiscord(cfg DiscordConfig, timeout time.Duration, now func() time.Time) (*discordNotifier, error) {
	id := strings.TrimSpace(cfg.WebhookID)
	token := strings.TrimSpace(cfg.WebhookToken)
	if id == "" || token == "" {
		return nil, errors.New("discord webhook id and token are required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = discordAPI
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		username = Title
	}
	return &discordNotifier{
		endpoint: fmt.Sprintf("%s/webhooks/%s/%s?wait=true", base, id, token),
		username: username,
		client:   &http.Client{Timeout: timeout},
		now:      now,
	}, nil
}

func (d *discordNotifier) Notify(ctx context.Context, text string) error {
	p := discordPayload{
		Username: d.username,
		Embeds: []discordEmbed{{
			Title:       ":question: :grey_question: " + Title + " :grey_question: :question:",
			Description: text + "\n\u200b",
			Color:       embedColour,
			Footer:      discordFooter{Text: footerText(d.now())},
		}},
	}
	return d.post(ctx, p)
}

func (d *discordNotifier) post(ctx context.Context, p discordPayload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		// The URL carries the webhook token; keep it out of the error.
		var uerr interface{ Unwrap() error }
		if errors.As(err, &uerr) && uerr.Unwrap() != nil {
			return fmt.Errorf("discord webhook: %w", uerr.Unwrap())
		}
		return errors.New("discord webhook: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet)), RetryAfter: retryAfter(resp)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// StatusError is a non-2xx webhook response.
type StatusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("discord webhook: status %d", e.Code)
	}
	return fmt.Sprintf("discord webhook: status %d: %s", e.Code, e.Body)
}

// Temporary reports whether the webhook rejected the message before posting
// it. 500 and 504 are excluded: the embed may already be in the channel.
func (e *StatusError) Temporary() bool {
	switch e.Code {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable:
		return true
	}
	return false
}

func retryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if d, err := time.ParseDuration(v + "s"); err == nil && d > 0 {
		return d
	}
	return 0
}
