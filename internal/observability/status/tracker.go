package status

import (
	"context"
	"sync"
	"time"

	"qotd/internal/eventbus"
)

// Snapshot is the JSON body of /status.
type Snapshot struct {
	StartedAt    time.Time `json:"started_at"`
	Cycles       uint64    `json:"cycles"`
	Failures     uint64    `json:"failures"`
	Posted       uint64    `json:"posted"`
	Questions    int       `json:"questions"`
	LastCycleAt  time.Time `json:"last_cycle_at,omitzero"`
	LastError    string    `json:"last_error,omitempty"`
	LastPostedAt time.Time `json:"last_posted_at,omitzero"`
	LastPostedID string    `json:"last_posted_id,omitempty"`
	Remaining    int       `json:"remaining"`
}

// Tracker folds cycle events into a Snapshot and the Prometheus metrics.
type Tracker struct {
	mu      sync.RWMutex
	snap    Snapshot
	metrics *Metrics
}

func NewTracker(startedAt time.Time) *Tracker {
	return &Tracker{snap: Snapshot{StartedAt: startedAt}, metrics: NewMetrics()}
}

func (t *Tracker) Metrics() *Metrics { return t.metrics }

// Run consumes events until ctx is done or events is closed.
func (t *Tracker) Run(ctx context.Context, events <-chan eventbus.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			t.Observe(e)
		}
	}
}

func (t *Tracker) Observe(e eventbus.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch e.Type {
	case eventbus.TypeCycleDone:
		t.snap.Cycles++
		t.snap.LastCycleAt = e.Time
		t.snap.LastError = ""
		t.metrics.Cycles.WithLabelValues("ok").Inc()
		if d, ok := e.Data.(eventbus.CycleData); ok {
			t.snap.Questions = d.Total
			t.metrics.Questions.Set(float64(d.Total))
			t.metrics.CycleDuration.Observe(d.Duration.Seconds())
		}
	case eventbus.TypeCycleFailed:
		t.snap.Cycles++
		t.snap.Failures++
		t.snap.LastCycleAt = e.Time
		t.metrics.Cycles.WithLabelValues("error").Inc()
		if d, ok := e.Data.(eventbus.CycleData); ok {
			t.metrics.CycleDuration.Observe(d.Duration.Seconds())
			if d.Err != nil {
				t.snap.LastError = d.Err.Error()
			}
		}
	case eventbus.TypeQuestionPosted:
		t.snap.Posted++
		t.snap.LastPostedAt = e.Time
		t.metrics.Posted.Inc()
		if d, ok := e.Data.(eventbus.PostedData); ok {
			t.snap.LastPostedID = d.ID
			t.snap.Remaining = d.Remaining
			t.metrics.Remaining.Set(float64(d.Remaining))
		}
	}
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}
