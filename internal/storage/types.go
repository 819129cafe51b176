package storage

import (
	"context"
	"errors"
	"time"

	"qotd/internal/question"
)

var (
	// ErrMalformed marks persisted state that could not be decoded.
	ErrMalformed = errors.New("persisted state malformed")
	// ErrLocked is returned when another process already owns the state.
	ErrLocked = errors.New("state is locked by another process")
	ErrClosed = errors.New("store closed")
)

// Store is the persistence API used by the cycle.
//
// Load returns an empty collection when nothing was saved yet.
// Save replaces the whole persisted collection; readers never observe a
// partially written state.
type Store interface {
	Load(ctx context.Context) (question.Collection, error)
	Save(ctx context.Context, c question.Collection) error
	Close() error
}

// Config configures storage.
//
// Driver values:
//   - "file" (default): JSON file at Path
//   - "sqlite": SQLite database file at Path
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// record is the on-disk shape of one question.
type record struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Answered bool   `json:"answered"`
}

func toRecords(c question.Collection) []record {
	out := make([]record, len(c))
	for i, q := range c {
		out[i] = record{ID: q.ID, Text: q.Text, Answered: q.Answered}
	}
	return out
}

func fromRecords(rs []record) question.Collection {
	out := make(question.Collection, len(rs))
	for i, r := range rs {
		out[i] = question.Question{ID: r.ID, Text: r.Text, Answered: r.Answered}
	}
	return out
}
