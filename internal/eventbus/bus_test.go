package eventbus

import (
	"testing"
	"time"
)

func TestPublishFansOut(t *testing.T) {
	t.Parallel()
	b := New()
	a, unsubA := b.Subscribe(1)
	c, unsubC := b.Subscribe(1)
	defer unsubA()
	defer unsubC()

	b.Publish(Event{Type: TypeCycleDone})
	for _, ch := range []<-chan Event{a, c} {
		select {
		case e := <-ch:
			if e.Type != TypeCycleDone || e.Time.IsZero() {
				t.Fatalf("event = %+v", e)
			}
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestPublishDropsWhenFull(t *testing.T) {
	t.Parallel()
	b := New()
	ch, unsub := b.Subscribe(1)
	defer unsub()

	b.Publish(Event{Type: "first"})
	b.Publish(Event{Type: "second"})
	if e := <-ch; e.Type != "first" {
		t.Fatalf("got %q, want first", e.Type)
	}
	select {
	case e := <-ch:
		t.Fatalf("unexpected event %q", e.Type)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()
	b := New()
	ch, unsub := b.Subscribe(1)
	unsub()
	unsub()
	if _, ok := <-ch; ok {
		t.Fatal("channel still open")
	}
	b.Publish(Event{Type: TypeCycleFailed})
}
