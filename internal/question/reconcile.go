package question

import "strings"

// Threshold is the distance below which two lines are the same question.
const Threshold = 4

// Report lists the ids touched by a Reconcile call.
type Report struct {
	Added     []string
	Updated   []string
	Unchanged []string
}

// Empty reports whether the call changed nothing.
func (r Report) Empty() bool { return len(r.Added) == 0 && len(r.Updated) == 0 }

// Reconcile merges raw newline-separated text into c.
//
// Each trimmed, non-empty line is matched against the first entry whose
// Distance is below Threshold. An exact match is left alone, a close match
// has its text replaced (id and answered kept), and no match appends a new
// unanswered question. Entries are never removed or reordered.
//
// newID may be nil, in which case NewID is used.
func Reconcile(c *Collection, raw string, newID func() string) Report {
	if newID == nil {
		newID = NewID
	}
	var rep Report
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		idx, dist := firstMatch(*c, line)
		switch {
		case idx < 0:
			q := Question{ID: newID(), Text: line}
			*c = append(*c, q)
			rep.Added = append(rep.Added, q.ID)
		case dist == 0:
			rep.Unchanged = append(rep.Unchanged, (*c)[idx].ID)
		default:
			(*c)[idx].Text = line
			rep.Updated = append(rep.Updated, (*c)[idx].ID)
		}
	}
	return rep
}

func firstMatch(c Collection, line string) (int, int) {
	for i := range c {
		if d := Distance(c[i].Text, line); d < Threshold {
			return i, d
		}
	}
	return -1, 0
}
