package supervisor

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestGoCleanExit(t *testing.T) {
	t.Parallel()
	s := New(context.Background())
	s.Go("noop", func(context.Context) error { return nil })
	s.Go("canceled", func(context.Context) error { return context.Canceled })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		t.Fatalf("Wait = %v, want nil", err)
	}
	if s.Active() != 0 {
		t.Fatalf("Active = %d", s.Active())
	}
}

func TestGoCancelOnError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	s := New(context.Background(), WithCancelOnError(true))
	s.Go("failing", func(context.Context) error { return boom })
	s.Go("waiting", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.Wait(ctx)
	if !errors.Is(err, boom) {
		t.Fatalf("Wait = %v, want %v", err, boom)
	}
	if !strings.HasPrefix(err.Error(), "failing:") {
		t.Fatalf("error not named: %v", err)
	}
}

func TestGoRecoversPanic(t *testing.T) {
	t.Parallel()
	s := New(context.Background())
	s.Go("panicky", func(context.Context) error { panic("kaboom") })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.Wait(ctx)
	if err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("Wait = %v, want panic error", err)
	}
}

func TestGoRestartUntilSuccess(t *testing.T) {
	t.Parallel()
	var runs atomic.Int32
	s := New(context.Background())
	s.GoRestart("flaky", func(context.Context) error {
		if runs.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}, time.Millisecond, 2*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		t.Fatalf("Wait = %v", err)
	}
	if got := runs.Load(); got != 3 {
		t.Fatalf("runs = %d, want 3", got)
	}
}

func TestStopCancelsContext(t *testing.T) {
	t.Parallel()
	s := New(context.Background())
	s.Go("blocked", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop = %v", err)
	}
}
