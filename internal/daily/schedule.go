// Package daily decides when the question of the day is due and picks it.
package daily

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PostAt is a time of day with minute resolution.
type PostAt struct {
	Hour   int
	Minute int
}

// DefaultPostAt is noon.
var DefaultPostAt = PostAt{Hour: 12}

var rePostAt = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})(?::(\d{2}))?\s*$`)

// ParsePostAt parses "HH:MM" or "HH:MM:SS". Seconds are validated and dropped.
// An empty string yields DefaultPostAt.
func ParsePostAt(raw string) (PostAt, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultPostAt, nil
	}
	m := rePostAt.FindStringSubmatch(raw)
	if m == nil {
		return PostAt{}, fmt.Errorf("invalid post time %q (use HH:MM or HH:MM:SS)", raw)
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh > 23 {
		return PostAt{}, fmt.Errorf("invalid hour in %q", raw)
	}
	if mm > 59 {
		return PostAt{}, fmt.Errorf("invalid minutes in %q", raw)
	}
	if m[3] != "" {
		if ss, _ := strconv.Atoi(m[3]); ss > 59 {
			return PostAt{}, fmt.Errorf("invalid seconds in %q", raw)
		}
	}
	return PostAt{Hour: hh, Minute: mm}, nil
}

func (p PostAt) String() string { return fmt.Sprintf("%02d:%02d", p.Hour, p.Minute) }

// Matches reports whether now falls in the one-minute window of p.
func (p PostAt) Matches(now time.Time) bool {
	return now.Hour() == p.Hour && now.Minute() == p.Minute
}

// Due reports whether a delivery should be attempted: the collection holds
// n > 0 questions and now is inside the post window. now is evaluated in its
// own location; callers convert to the configured timezone first.
func Due(now time.Time, at PostAt, n int) bool {
	return n > 0 && at.Matches(now)
}
