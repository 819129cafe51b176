package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	logx "qotd/pkg/logx"
)

// Job is one run of the loop. now is the trigger time in the loop location.
type Job func(ctx context.Context, now time.Time) error

// Loop fires Job on Schedule, one run at a time.
//
// By default the first failing run stops the loop and its error is returned
// from Run. With ContinueOnError the error is logged and the loop waits for
// the next trigger instead.
type Loop struct {
	Schedule cron.Schedule
	Job      Job
	Location *time.Location

	// RunImmediately fires once at start before waiting for the schedule.
	RunImmediately  bool
	ContinueOnError bool
	// Timeout bounds a single run; 0 means no bound.
	Timeout time.Duration

	Log logx.Logger

	now   func() time.Time
	after func(d time.Duration) <-chan time.Time
}

// maxLag is how far behind schedule the loop may fall before it drops the
// missed triggers and resyncs to the clock (e.g. after a host suspend).
const maxLag = 10 * time.Minute

// Run blocks until ctx is done (returns nil) or a run fails (returns its error).
//
// Each trigger is computed from the previous scheduled time, not from when the
// previous run finished, so a slow run never shifts the phase. A trigger that
// is already past fires at once and the job sees its scheduled time.
//
// Cancellation is observed between runs. A run in progress is given a
// context that is not canceled by ctx, so it can finish persisting state.
func (l *Loop) Run(ctx context.Context) error {
	if l.Schedule == nil || l.Job == nil {
		return errors.New("scheduler: loop requires a schedule and a job")
	}
	now := l.now
	if now == nil {
		now = time.Now
	}
	after := l.after
	if after == nil {
		after = time.After
	}
	loc := l.Location
	if loc == nil {
		loc = time.UTC
	}

	prev := now().In(loc)
	if l.RunImmediately {
		if err := l.fire(ctx, prev); err != nil {
			return err
		}
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		t := now().In(loc)
		next := l.Schedule.Next(prev)
		if lag := t.Sub(next); lag > maxLag {
			l.Log.Warn("schedule fell behind; resyncing", logx.Duration("lag", lag))
			next = l.Schedule.Next(t)
		}
		if next.IsZero() {
			return errors.New("scheduler: schedule has no future trigger")
		}
		l.Log.Debug("next tick", logx.Time("at", next))

		if wait := next.Sub(t); wait > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-after(wait):
			}
		}
		if err := l.fire(ctx, next.In(loc)); err != nil {
			return err
		}
		prev = next
	}
}

func (l *Loop) fire(ctx context.Context, at time.Time) error {
	runCtx := context.WithoutCancel(ctx)
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, l.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := l.Job(runCtx, at)
	if err == nil {
		return nil
	}
	if l.ContinueOnError {
		l.Log.Warn("tick failed; continuing", logx.Err(err), logx.Duration("took", time.Since(start)))
		return nil
	}
	return err
}
