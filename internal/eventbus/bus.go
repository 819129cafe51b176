package eventbus

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event types published by the cycle loop.
const (
	TypeCycleDone      = "cycle.done"
	TypeCycleFailed    = "cycle.failed"
	TypeQuestionPosted = "question.posted"
)

// Event is a small in-memory notice. Publish never blocks; a subscriber
// whose buffer is full misses the event.
type Event struct {
	Type string
	Time time.Time
	Data any
}

// CycleData accompanies TypeCycleDone and TypeCycleFailed.
type CycleData struct {
	Total    int
	Added    int
	Updated  int
	Duration time.Duration
	Err      error
}

// PostedData accompanies TypeQuestionPosted.
type PostedData struct {
	ID        string
	Text      string
	Remaining int
}

type Bus interface {
	Publish(e Event)
	Subscribe(buffer int) (ch <-chan Event, unsubscribe func())
}

func New() Bus {
	return &memBus{subs: map[uint64]chan Event{}}
}

type memBus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	seq  atomic.Uint64
}

func (b *memBus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	// Sends happen under the read lock so unsubscribe cannot close a
	// channel mid-send.
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *memBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}
