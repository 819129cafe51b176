package notifier

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	logx "qotd/pkg/logx"
)

// retrying wraps a driver with bounded retries and a send rate limit.
type retrying struct {
	next Notifier
	log  logx.Logger

	timeout  time.Duration
	maxTries int
	base     time.Duration
	maxDelay time.Duration
	limiter  *rate.Limiter

	rngMu sync.Mutex
	rng   *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error
}

func newRetrying(next Notifier, cfg Config, log logx.Logger) *retrying {
	tries := cfg.RetryMax + 1
	if tries < 1 {
		tries = 1
	}
	base := cfg.RetryBase
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	maxD := cfg.RetryMaxDelay
	if maxD <= 0 {
		maxD = 10 * time.Second
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	return &retrying{
		next:     next,
		log:      log,
		timeout:  cfg.Timeout,
		maxTries: tries,
		base:     base,
		maxDelay: maxD,
		limiter:  rate.NewLimiter(rate.Limit(rps), rps),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:    sleepCtx,
	}
}

func (r *retrying) Notify(ctx context.Context, text string) error {
	return r.do(ctx, "notify", func(c context.Context) error { return r.next.Notify(c, text) })
}

// SendLog forwards to the driver when it supports log lines. Log lines are
// best effort: a single attempt, no backoff.
func (r *retrying) SendLog(ctx context.Context, text string) error {
	ls, ok := r.next.(LogSender)
	if !ok {
		return nil
	}
	return ls.SendLog(ctx, text)
}

func (r *retrying) do(ctx context.Context, op string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= r.maxTries; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		callCtx := ctx
		var cancel context.CancelFunc
		if r.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		}
		err := fn(callCtx)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return nil
		}
		lastErr = err
		r.log.Debug(op+" send failed", logx.Err(err), logx.Int("attempt", attempt), logx.Int("max", r.maxTries))

		if attempt >= r.maxTries || !retryable(err) {
			break
		}
		if err := r.sleep(ctx, r.delay(attempt, err)); err != nil {
			return lastErr
		}
	}
	return lastErr
}

// delay is the wait before the next attempt: base * 2^(attempt-1) with
// 0.7..1.3 jitter, capped at maxDelay. A server Retry-After wins when larger.
func (r *retrying) delay(attempt int, err error) time.Duration {
	d := r.base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= r.maxDelay {
			d = r.maxDelay
			break
		}
	}
	r.rngMu.Lock()
	j := 0.7 + r.rng.Float64()*0.6
	r.rngMu.Unlock()
	d = time.Duration(float64(d) * j)

	var se *StatusError
	if errors.As(err, &se) && se.RetryAfter > d {
		d = se.RetryAfter
	}
	var fe tele.FloodError
	if errors.As(err, &fe) {
		if ra := time.Duration(fe.RetryAfter) * time.Second; ra > d {
			d = ra
		}
	}
	if d > r.maxDelay {
		d = r.maxDelay
	}
	return d
}

// retryable reports whether err shows the message was not accepted. Timeouts
// and transport failures after the request went out are final: the server
// may already have posted it.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var fe tele.FloodError
	if errors.As(err, &fe) {
		return true
	}
	var op *net.OpError
	if errors.As(err, &op) && op.Op == "dial" {
		return true
	}
	var dns *net.DNSError
	return errors.As(err, &dns)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
