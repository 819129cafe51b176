package storage

import (
	"errors"
	"strings"

	logx "qotd/pkg/logx"
)

// DefaultPath is where the file driver keeps state when no path is configured.
const DefaultPath = "questions.json"

// Open initializes the configured store.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "", "file", "json":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}
