package daily

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"qotd/internal/question"
)

// Notifier delivers one question text.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, text string) error

func (f NotifierFunc) Notify(ctx context.Context, text string) error { return f(ctx, text) }

// Delivery describes the outcome of Selector.Deliver.
type Delivery struct {
	// Skipped is true when there was nothing left to ask.
	Skipped bool
	ID      string
	Text    string
	// Remaining is the number of unanswered questions after this delivery.
	Remaining int
}

// Selector picks one unanswered question uniformly at random.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector returns a Selector using rng. A nil rng gets a time-seeded source.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng}
}

func (s *Selector) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Deliver picks an unanswered question from c, hands its text to n and marks
// it answered. With nothing unanswered it returns a skipped Delivery and no
// error. If n fails, no flag is changed and the error is returned as is.
func (s *Selector) Deliver(ctx context.Context, c question.Collection, n Notifier) (Delivery, error) {
	open := c.Unanswered()
	if len(open) == 0 {
		return Delivery{Skipped: true}, nil
	}

	idx := open[s.intn(len(open))]
	q := c[idx]
	if err := n.Notify(ctx, q.Text); err != nil {
		return Delivery{ID: q.ID, Text: q.Text, Remaining: len(open)}, err
	}
	c[idx].Answered = true
	return Delivery{ID: q.ID, Text: q.Text, Remaining: len(open) - 1}, nil
}
