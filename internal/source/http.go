package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	pastebinRaw = "https://pastebin.com/raw/"
	maxBody     = 1 << 20
	userAgent   = "qotd/1.0"
)

type httpFetcher struct {
	url    string
	client *http.Client
}

func newHTTP(cfg Config) (*httpFetcher, error) {
	u, err := ResolveURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &httpFetcher{url: u, client: &http.Client{Timeout: timeout}}, nil
}

// ResolveURL turns the configured source into a fetchable URL.
// Anything without a scheme is treated as a pastebin paste code.
func ResolveURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New("source url required")
	}
	if !strings.Contains(s, "://") {
		if strings.ContainsAny(s, "/?# ") {
			return "", fmt.Errorf("invalid pastebin code %q", raw)
		}
		return pastebinRaw + s, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid source url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported source url scheme %q", u.Scheme)
	}
	return u.String(), nil
}

func (f *httpFetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, http.NoBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("GET %s: status %d: %s", f.url, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return "", err
	}
	if len(body) > maxBody {
		return "", fmt.Errorf("GET %s: body exceeds %d bytes", f.url, maxBody)
	}
	return string(body), nil
}
