// Package source fetches the raw newline-separated question list.
package source

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Fetcher returns the raw question text from the configured location.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context) (string, error) { return f(ctx) }

// Config selects and configures a Fetcher.
//
// Driver values:
//   - "http" (default): GET URL. A bare pastebin paste code is expanded to
//     its raw URL.
//   - "file": read Path from the local filesystem.
type Config struct {
	Driver  string
	URL     string
	Path    string
	Timeout time.Duration
}

// New builds the configured fetcher.
func New(cfg Config) (Fetcher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "http", "https", "pastebin":
		return newHTTP(cfg)
	case "file":
		return newFile(cfg)
	default:
		return nil, errors.New("unknown source driver: " + cfg.Driver)
	}
}
