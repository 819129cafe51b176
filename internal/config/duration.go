package config

import (
	"fmt"
	"strings"
	"time"
)

// ParseDurationField parses a Go duration string for the config key at path.
// Empty means 0; negative values are rejected.
func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}
