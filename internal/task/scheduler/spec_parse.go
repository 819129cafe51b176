package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Parser accepts 5-field cron (optional seconds) and descriptors like @hourly.
var Parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// SpecKind is either a cron expression or a fixed interval.
type SpecKind int

const (
	SpecCron SpecKind = iota
	SpecInterval
)

// ParsedSpec represents a parsed schedule string.
//
// Supported forms:
//   - Cron (crontab.guru-style): "*/5 * * * *", "55 * * * *", "@hourly", "@every 55m"
//   - Interval duration: "55m", "2h30m"
//   - Interval HH:MM: "00:50" (50 minutes), "02:30" (2 hours 30 minutes)
//
// Optional prefixes:
//   - "cron:" forces cron parsing
//   - "interval:" or "every:" forces interval parsing
type ParsedSpec struct {
	Kind   SpecKind
	Cron   string
	Every  time.Duration
	Source string // "cron" | "duration" | "hhmm"
}

var reHHMM = regexp.MustCompile(`^\s*(\d{1,3}):(\d{2})\s*$`)

// ParseSchedule parses a schedule string into either a cron expression or an interval duration.
func ParseSchedule(raw string) (ParsedSpec, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ParsedSpec{}, fmt.Errorf("schedule required")
	}

	low := strings.ToLower(s)
	if strings.HasPrefix(low, "cron:") {
		expr := strings.TrimSpace(s[len("cron:"):])
		if expr == "" {
			return ParsedSpec{}, fmt.Errorf("cron schedule required after 'cron:'")
		}
		return cronSpec(expr)
	}
	for _, prefix := range []string{"interval:", "every:"} {
		if !strings.HasPrefix(low, prefix) {
			continue
		}
		d, src, err := parseInterval(s[len(prefix):])
		if err != nil {
			return ParsedSpec{}, err
		}
		return ParsedSpec{Kind: SpecInterval, Every: d, Source: src}, nil
	}

	// any whitespace or leading '@' => cron
	if strings.ContainsAny(s, " \t\n\r") || strings.HasPrefix(s, "@") {
		return cronSpec(s)
	}

	// - HH:MM => interval duration
	if reHHMM.MatchString(s) {
		d, _, err := parseHHMMDuration(s)
		if err != nil {
			return ParsedSpec{}, err
		}
		return ParsedSpec{Kind: SpecInterval, Every: d, Source: "hhmm"}, nil
	}

	// - Go duration => interval duration
	d, err := time.ParseDuration(s)
	if err == nil {
		if d <= 0 {
			return ParsedSpec{}, fmt.Errorf("interval must be > 0")
		}
		return ParsedSpec{Kind: SpecInterval, Every: d, Source: "duration"}, nil
	}

	return ParsedSpec{}, fmt.Errorf(
		"invalid schedule %q (use cron like '*/5 * * * *', HH:MM like '02:30', or duration like '55m')",
		raw,
	)
}

func cronSpec(expr string) (ParsedSpec, error) {
	if _, err := Parser.Parse(expr); err != nil {
		return ParsedSpec{}, fmt.Errorf("invalid cron schedule %q: %w", expr, err)
	}
	return ParsedSpec{Kind: SpecCron, Cron: expr, Source: "cron"}, nil
}

// Schedule builds the robfig/cron schedule for p. Intervals are rounded
// down to whole seconds (minimum 1s) by cron.Every.
func (p ParsedSpec) Schedule() (cron.Schedule, error) {
	switch p.Kind {
	case SpecCron:
		return Parser.Parse(p.Cron)
	case SpecInterval:
		return cron.Every(p.Every), nil
	default:
		return nil, fmt.Errorf("unknown schedule kind %d", p.Kind)
	}
}

func parseInterval(v string) (time.Duration, string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, "", fmt.Errorf("interval required")
	}
	if reHHMM.MatchString(v) {
		d, _, err := parseHHMMDuration(v)
		return d, "hhmm", err
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, "", fmt.Errorf("invalid interval %q (use HH:MM or Go duration like '55m'/'2h30m')", v)
	}
	if d <= 0 {
		return 0, "", fmt.Errorf("interval must be > 0")
	}
	return d, "duration", nil
}

func parseHHMMDuration(v string) (time.Duration, string, error) {
	m := reHHMM.FindStringSubmatch(v)
	if len(m) != 3 {
		return 0, "", fmt.Errorf("invalid HH:MM %q", v)
	}
	hh, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", fmt.Errorf("invalid hours in %q", v)
	}
	mm, _ := strconv.Atoi(m[2])
	if mm > 59 {
		return 0, "", fmt.Errorf("invalid minutes in %q", v)
	}
	d := time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
	if d <= 0 {
		return 0, "", fmt.Errorf("interval must be > 0")
	}
	return d, "hhmm", nil
}
