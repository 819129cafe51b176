package supervisor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	logx "qotd/pkg/logx"
)

// Supervisor runs named goroutines on a shared context.
//
// Panics are recovered and reported as errors. The first error is kept and
// returned by Err and Wait. With WithCancelOnError it also cancels the
// shared context so sibling goroutines wind down.
type Supervisor struct {
	ctx    context.Context
	cancel context.CancelFunc

	log         logx.Logger
	cancelOnErr bool

	active   atomic.Int64
	errOnce  sync.Once
	firstErr atomic.Pointer[error]

	wg       sync.WaitGroup
	doneOnce sync.Once
	doneCh   chan struct{}
}

type Option func(*Supervisor)

func WithLogger(log logx.Logger) Option {
	return func(s *Supervisor) { s.log = log }
}

// WithCancelOnError cancels the shared context on the first goroutine error.
func WithCancelOnError(enabled bool) Option {
	return func(s *Supervisor) { s.cancelOnErr = enabled }
}

func New(parent context.Context, opts ...Option) *Supervisor {
	ctx, cancel := context.WithCancel(parent)
	s := &Supervisor{ctx: ctx, cancel: cancel, doneCh: make(chan struct{})}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Supervisor) Context() context.Context { return s.ctx }

// Cancel cancels the shared context without waiting.
func (s *Supervisor) Cancel() { s.cancel() }

// Active is the number of goroutines currently running.
func (s *Supervisor) Active() int64 { return s.active.Load() }

func (s *Supervisor) Err() error {
	if p := s.firstErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Go runs fn in a new goroutine. A nil return or context.Canceled is a clean exit.
func (s *Supervisor) Go(name string, fn func(ctx context.Context) error) {
	if fn == nil {
		return
	}
	s.active.Add(1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.active.Add(-1)

		s.log.Debug("goroutine started", logx.String("name", name))
		err := s.run(name, fn)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.fail(fmt.Errorf("%s: %w", name, err))
		}
		s.log.Debug("goroutine stopped", logx.String("name", name))
	}()
}

func (s *Supervisor) run(name string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("goroutine panicked",
				logx.String("name", name),
				logx.Any("panic", r),
				logx.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(s.ctx)
}

// GoRestart runs fn and restarts it after errors or panics with jittered
// exponential backoff between lo and hi, until the context is canceled or
// fn returns nil.
func (s *Supervisor) GoRestart(name string, fn func(ctx context.Context) error, lo, hi time.Duration) {
	if fn == nil {
		return
	}
	if lo <= 0 {
		lo = 250 * time.Millisecond
	}
	if hi < lo {
		hi = lo
	}
	s.Go(name, func(ctx context.Context) error {
		backoff := lo
		for {
			startedAt := time.Now()
			err := s.run(name, fn)
			if ctx.Err() != nil || err == nil || errors.Is(err, context.Canceled) {
				return nil
			}
			// A long healthy run resets the backoff.
			if time.Since(startedAt) >= 30*time.Second {
				backoff = lo
			}
			wait := backoff
			if j := int64(wait) / 5; j > 0 {
				wait += time.Duration(time.Now().UnixNano() % (j + 1))
			}
			s.log.Warn("goroutine restarting", logx.String("name", name), logx.Duration("backoff", wait), logx.Err(err))

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			backoff = min(backoff*2, hi)
		}
	})
}

// Stop cancels the shared context and waits for goroutines to exit.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.cancel()
	return s.Wait(ctx)
}

// Wait blocks until every goroutine has exited or ctx is done.
func (s *Supervisor) Wait(ctx context.Context) error {
	s.doneOnce.Do(func() {
		go func() {
			s.wg.Wait()
			close(s.doneCh)
		}()
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.doneCh:
		return s.Err()
	}
}

func (s *Supervisor) fail(err error) {
	s.errOnce.Do(func() { s.firstErr.Store(&err) })
	if s.cancelOnErr {
		s.cancel()
	}
}
