package cycle

import (
	"errors"
	"fmt"

	"qotd/internal/storage"
)

// Kind classifies a cycle failure by the step that produced it.
//
// KindReconcile is never produced today: merging a fetched list cannot fail.
// It stays so callers can match it once reconcile grows a failure mode.
type Kind int

const (
	KindFetch Kind = iota + 1
	KindReconcile
	KindNotify
	KindPersist
	KindSerialization
)

func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindReconcile:
		return "reconcile"
	case KindNotify:
		return "notify"
	case KindPersist:
		return "persist"
	case KindSerialization:
		return "serialization"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Each matches any *Error of the same Kind.
var (
	ErrFetch         = &Error{Kind: KindFetch}
	ErrReconcile     = &Error{Kind: KindReconcile}
	ErrNotify        = &Error{Kind: KindNotify}
	ErrPersist       = &Error{Kind: KindPersist}
	ErrSerialization = &Error{Kind: KindSerialization}
)

// Error is returned by Runner.RunOnce for any step that aborts the cycle.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error", e.Kind)
	}
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// persistErr classifies a storage error. Malformed state is a serialization
// failure; everything else is a persistence failure.
func persistErr(op string, err error) error {
	if errors.Is(err, storage.ErrMalformed) {
		return wrap(KindSerialization, op, err)
	}
	return wrap(KindPersist, op, err)
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
