package source

import (
	"context"
	"errors"
	"os"
	"strings"
)

type fileFetcher struct{ path string }

func newFile(cfg Config) (*fileFetcher, error) {
	p := strings.TrimSpace(cfg.Path)
	if p == "" {
		return nil, errors.New("source path required for file driver")
	}
	return &fileFetcher{path: p}, nil
}

func (f *fileFetcher) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(f.path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
