package daily

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"qotd/internal/question"
)

type recordingNotifier struct {
	calls []string
	err   error
}

func (r *recordingNotifier) Notify(_ context.Context, text string) error {
	r.calls = append(r.calls, text)
	return r.err
}

func answeredCount(c question.Collection) int {
	n := 0
	for _, q := range c {
		if q.Answered {
			n++
		}
	}
	return n
}

func TestDeliverMarksExactlyOne(t *testing.T) {
	t.Parallel()
	c := question.Collection{
		{ID: "a", Text: "A?"},
		{ID: "b", Text: "B?", Answered: true},
		{ID: "c", Text: "C?"},
	}
	n := &recordingNotifier{}
	sel := NewSelector(rand.New(rand.NewSource(1)))

	d, err := sel.Deliver(context.Background(), c, n)
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if d.Skipped {
		t.Fatal("unexpected skip")
	}
	if len(n.calls) != 1 || n.calls[0] != d.Text {
		t.Fatalf("notifier calls = %v, delivery = %+v", n.calls, d)
	}
	if d.ID == "b" {
		t.Fatal("answered question was selected")
	}
	if answeredCount(c) != 2 {
		t.Fatalf("expected exactly one new answered entry, got %+v", c)
	}
	if i := c.Find(d.ID); i < 0 || !c[i].Answered {
		t.Fatalf("delivered entry %s not marked answered", d.ID)
	}
	if d.Remaining != 1 {
		t.Fatalf("Remaining = %d, want 1", d.Remaining)
	}
}

func TestDeliverNoUnansweredIsNoop(t *testing.T) {
	t.Parallel()
	c := question.Collection{{ID: "a", Text: "A?", Answered: true}}
	n := &recordingNotifier{}
	d, err := NewSelector(nil).Deliver(context.Background(), c, n)
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if !d.Skipped || len(n.calls) != 0 {
		t.Fatalf("expected skip without notify, got %+v calls=%v", d, n.calls)
	}
}

func TestDeliverFailureLeavesFlags(t *testing.T) {
	t.Parallel()
	c := question.Collection{{ID: "a", Text: "A?"}, {ID: "b", Text: "B?"}}
	boom := errors.New("webhook down")
	n := &recordingNotifier{err: boom}
	_, err := NewSelector(rand.New(rand.NewSource(7))).Deliver(context.Background(), c, n)
	if !errors.Is(err, boom) {
		t.Fatalf("expected notifier error, got %v", err)
	}
	if answeredCount(c) != 0 {
		t.Fatalf("flags changed after failed notify: %+v", c)
	}
}

func TestDeliverSecondTriggerInWindowNoops(t *testing.T) {
	t.Parallel()
	c := question.Collection{{ID: "only", Text: "Only question?"}}
	n := &recordingNotifier{}
	sel := NewSelector(rand.New(rand.NewSource(3)))

	if _, err := sel.Deliver(context.Background(), c, n); err != nil {
		t.Fatalf("first Deliver: %v", err)
	}
	d, err := sel.Deliver(context.Background(), c, n)
	if err != nil {
		t.Fatalf("second Deliver: %v", err)
	}
	if !d.Skipped || len(n.calls) != 1 || n.calls[0] != "Only question?" {
		t.Fatalf("second trigger should no-op, got %+v calls=%v", d, n.calls)
	}
}

func TestDeliverDeterministicWithSeed(t *testing.T) {
	t.Parallel()
	mk := func() question.Collection {
		return question.Collection{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}, {ID: "c", Text: "C"}, {ID: "d", Text: "D"}}
	}
	pick := func() string {
		d, err := NewSelector(rand.New(rand.NewSource(42))).Deliver(context.Background(), mk(), NotifierFunc(func(context.Context, string) error { return nil }))
		if err != nil {
			t.Fatalf("Deliver: %v", err)
		}
		return d.ID
	}
	if a, b := pick(), pick(); a != b {
		t.Fatalf("same seed picked %s then %s", a, b)
	}
}

func TestDeliverCoversAllUnanswered(t *testing.T) {
	t.Parallel()
	sel := NewSelector(rand.New(rand.NewSource(99)))
	seen := map[string]int{}
	for i := 0; i < 400; i++ {
		c := question.Collection{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}, {ID: "c", Text: "C"}}
		d, err := sel.Deliver(context.Background(), c, NotifierFunc(func(context.Context, string) error { return nil }))
		if err != nil {
			t.Fatalf("Deliver: %v", err)
		}
		seen[d.ID]++
	}
	for _, id := range []string{"a", "b", "c"} {
		if seen[id] == 0 {
			t.Fatalf("id %s never selected in 400 draws: %v", id, seen)
		}
	}
}
