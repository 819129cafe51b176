package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseScheduleVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		raw      string
		kind     SpecKind
		source   string
		duration time.Duration
	}{
		{name: "cron", raw: "* * * * *", kind: SpecCron, source: "cron"},
		{name: "descriptor", raw: "@every 1m", kind: SpecCron, source: "cron"},
		{name: "prefixed cron", raw: "cron:0 12 * * *", kind: SpecCron, source: "cron"},
		{name: "duration", raw: "30s", kind: SpecInterval, source: "duration", duration: 30 * time.Second},
		{name: "prefixed interval", raw: "every:1m", kind: SpecInterval, source: "duration", duration: time.Minute},
		{name: "hhmm", raw: "00:01", kind: SpecInterval, source: "hhmm", duration: time.Minute},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSchedule(tt.raw)
			if err != nil {
				t.Fatalf("ParseSchedule(%q) error: %v", tt.raw, err)
			}
			if got.Kind != tt.kind || got.Source != tt.source {
				t.Fatalf("ParseSchedule(%q) = %+v", tt.raw, got)
			}
			if tt.kind == SpecInterval && got.Every != tt.duration {
				t.Fatalf("Every = %v, want %v", got.Every, tt.duration)
			}
			if _, err := got.Schedule(); err != nil {
				t.Fatalf("Schedule(): %v", err)
			}
		})
	}
}

func TestParseScheduleInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "not-a-schedule", "cron:", "@fortnightly", "61 * * * *", "every:-5m"} {
		if _, err := ParseSchedule(raw); err == nil {
			t.Fatalf("ParseSchedule(%q): expected error", raw)
		}
	}
}

func TestScheduleNextEveryMinute(t *testing.T) {
	t.Parallel()
	p, err := ParseSchedule("* * * * *")
	if err != nil {
		t.Fatal(err)
	}
	s, err := p.Schedule()
	if err != nil {
		t.Fatal(err)
	}
	base := time.Date(2024, 1, 1, 11, 59, 30, 0, time.UTC)
	if got, want := s.Next(base), time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("Next = %v, want %v", got, want)
	}
}

// stepSchedule fires every step from whatever time it is asked about.
type stepSchedule struct{ step time.Duration }

func (s stepSchedule) Next(t time.Time) time.Time { return t.Add(s.step) }

func instantLoop(job Job) *Loop {
	return &Loop{
		Schedule: stepSchedule{step: time.Minute},
		Job:      job,
		after: func(time.Duration) <-chan time.Time {
			ch := make(chan time.Time, 1)
			ch <- time.Time{}
			return ch
		},
	}
}

func TestLoopFailFast(t *testing.T) {
	t.Parallel()
	boom := errors.New("fetch failed")
	runs := 0
	l := instantLoop(func(context.Context, time.Time) error {
		runs++
		if runs == 3 {
			return boom
		}
		return nil
	})
	if err := l.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Run = %v, want %v", err, boom)
	}
	if runs != 3 {
		t.Fatalf("runs = %d, want 3", runs)
	}
}

func TestLoopContinueOnError(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runs := 0
	l := instantLoop(func(context.Context, time.Time) error {
		runs++
		if runs == 5 {
			cancel()
		}
		return errors.New("always failing")
	})
	l.ContinueOnError = true
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}
	if runs != 5 {
		t.Fatalf("runs = %d, want 5", runs)
	}
}

func TestLoopRunImmediately(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	runs := 0
	l := &Loop{
		Schedule:       stepSchedule{step: time.Hour},
		RunImmediately: true,
		Job: func(context.Context, time.Time) error {
			runs++
			cancel()
			return nil
		},
	}
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if runs != 1 {
		t.Fatalf("runs = %d, want 1", runs)
	}
}

func TestLoopJobContextSurvivesStop(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	var jobErr error
	l := instantLoop(func(jctx context.Context, _ time.Time) error {
		cancel()
		jobErr = jctx.Err()
		return nil
	})
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if jobErr != nil {
		t.Fatalf("in-flight job saw cancellation: %v", jobErr)
	}
}

func TestLoopTimeout(t *testing.T) {
	t.Parallel()
	l := instantLoop(func(jctx context.Context, _ time.Time) error {
		<-jctx.Done()
		return jctx.Err()
	})
	l.Timeout = 20 * time.Millisecond
	if err := l.Run(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run = %v, want deadline exceeded", err)
	}
}

func TestLoopUsesLocation(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC+3", 3*60*60)
	var got *time.Location
	ctx, cancel := context.WithCancel(context.Background())
	l := instantLoop(func(_ context.Context, now time.Time) error {
		got = now.Location()
		cancel()
		return nil
	})
	l.Location = loc
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != loc {
		t.Fatalf("job location = %v, want %v", got, loc)
	}
}

// fakeClock advances only when the loop waits or a job runs.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) after(d time.Duration) <-chan time.Time {
	c.t = c.t.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.t
	return ch
}

// minutesSeen runs an "@every 1m" loop from start with a job that takes took,
// until the clock passes stop, and returns the minutes the job was asked about.
func minutesSeen(t *testing.T, start, stop time.Time, took time.Duration) []string {
	t.Helper()
	p, err := ParseSchedule("@every 1m")
	if err != nil {
		t.Fatal(err)
	}
	s, err := p.Schedule()
	if err != nil {
		t.Fatal(err)
	}
	clk := &fakeClock{t: start}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen []string
	l := &Loop{
		Schedule:       s,
		RunImmediately: true,
		now:            clk.now,
		after:          clk.after,
		Job: func(_ context.Context, at time.Time) error {
			seen = append(seen, at.Format("15:04"))
			clk.t = clk.t.Add(took)
			if !clk.t.Before(stop) {
				cancel()
			}
			return nil
		},
	}
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return seen
}

func TestLoopSlowJobKeepsEveryMinute(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 1, 1, 11, 58, 58, 500_000_000, time.UTC)
	stop := time.Date(2024, 1, 1, 12, 3, 59, 0, time.UTC)
	got := minutesSeen(t, start, stop, 1500*time.Millisecond)
	want := []string{"11:58", "11:59", "12:00", "12:01", "12:02", "12:03"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("minutes = %v, want %v", got, want)
	}
}

func TestLoopOverrunCatchesUp(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	stop := time.Date(2024, 1, 1, 12, 6, 0, 0, time.UTC)
	got := minutesSeen(t, start, stop, 90*time.Second)
	want := []string{"12:00", "12:01", "12:02", "12:03"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("minutes = %v, want %v", got, want)
	}
}

func TestLoopResyncsAfterLongStall(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	stop := time.Date(2024, 1, 1, 12, 40, 0, 0, time.UTC)
	got := minutesSeen(t, start, stop, 20*time.Minute)
	want := []string{"12:00", "12:21"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("minutes = %v, want %v", got, want)
	}
}
