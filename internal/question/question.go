package question

import (
	"strings"

	"github.com/google/uuid"
)

// Question is a single candidate prompt.
type Question struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Answered bool   `json:"answered"`
}

// Collection is the ordered set of known questions.
// Order is significant: it is the scan order used by Reconcile.
type Collection []Question

// New returns an unanswered question with a fresh uuid.
func New(text string) Question {
	return Question{ID: NewID(), Text: strings.TrimSpace(text)}
}

// NewID returns a random (v4) uuid string.
func NewID() string { return uuid.NewString() }

func (c Collection) Len() int { return len(c) }

// Unanswered returns the indexes of entries with Answered == false, in order.
func (c Collection) Unanswered() []int {
	out := make([]int, 0, len(c))
	for i := range c {
		if !c[i].Answered {
			out = append(out, i)
		}
	}
	return out
}

// Find returns the index of the entry with the given id, or -1.
func (c Collection) Find(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with c.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}
