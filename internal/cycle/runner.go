package cycle

import (
	"context"
	"errors"
	"time"

	"qotd/internal/daily"
	"qotd/internal/question"
	"qotd/internal/source"
	"qotd/internal/storage"
	logx "qotd/pkg/logx"
)

// Result summarises a successful cycle.
type Result struct {
	At        time.Time
	Total     int
	Reconcile question.Report
	// Due is true when the post time matched and there was something to ask.
	Due      bool
	Delivery daily.Delivery
}

// Runner holds the collaborators of a cycle. Store, Fetcher, Notifier and
// Selector are required.
type Runner struct {
	Store    storage.Store
	Fetcher  source.Fetcher
	Notifier daily.Notifier
	Selector *daily.Selector

	PostAt   daily.PostAt
	Location *time.Location

	// Clock defaults to time.Now. NewID defaults to question.NewID.
	Clock func() time.Time
	NewID func() string

	Log logx.Logger
}

func (r *Runner) validate() error {
	switch {
	case r.Store == nil:
		return errors.New("cycle: store required")
	case r.Fetcher == nil:
		return errors.New("cycle: fetcher required")
	case r.Notifier == nil:
		return errors.New("cycle: notifier required")
	case r.Selector == nil:
		return errors.New("cycle: selector required")
	}
	return nil
}

func (r *Runner) now() time.Time {
	now := time.Now
	if r.Clock != nil {
		now = r.Clock
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

// RunOnce executes one cycle at the current clock time.
func (r *Runner) RunOnce(ctx context.Context) (Result, error) {
	return r.RunAt(ctx, r.now())
}

// RunAt executes one cycle as if the clock read now.
func (r *Runner) RunAt(ctx context.Context, now time.Time) (Result, error) {
	if err := r.validate(); err != nil {
		return Result{}, err
	}
	if r.Location != nil {
		now = now.In(r.Location)
	}
	res := Result{At: now}

	c, err := r.Store.Load(ctx)
	if err != nil {
		return res, persistErr("load", err)
	}

	raw, err := r.Fetcher.Fetch(ctx)
	if err != nil {
		return res, wrap(KindFetch, "fetch", err)
	}

	newID := r.NewID
	if newID == nil {
		newID = question.NewID
	}
	res.Reconcile = question.Reconcile(&c, raw, newID)
	res.Total = c.Len()
	if !res.Reconcile.Empty() {
		r.Log.Info("questions reconciled",
			logx.Int("added", len(res.Reconcile.Added)),
			logx.Int("updated", len(res.Reconcile.Updated)),
			logx.Int("total", res.Total),
		)
	}

	open := len(c.Unanswered())
	if daily.Due(now, r.PostAt, open) {
		res.Due = true
		d, err := r.Selector.Deliver(ctx, c, r.Notifier)
		res.Delivery = d
		if err != nil {
			return res, wrap(KindNotify, "deliver "+d.ID, err)
		}
		r.Log.Info("question posted", logx.String("id", d.ID), logx.Int("remaining", d.Remaining))
	} else if open == 0 && r.PostAt.Matches(now) {
		r.Log.Info("no unanswered questions")
	}

	if err := r.Store.Save(ctx, c); err != nil {
		return res, persistErr("save", err)
	}
	return res, nil
}
