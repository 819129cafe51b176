package daily

import (
	"testing"
	"time"
)

func TestParsePostAt(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want PostAt
	}{
		{raw: "", want: DefaultPostAt},
		{raw: "12:00", want: PostAt{Hour: 12}},
		{raw: "12:00:00", want: PostAt{Hour: 12}},
		{raw: "7:05", want: PostAt{Hour: 7, Minute: 5}},
		{raw: " 23:59:30 ", want: PostAt{Hour: 23, Minute: 59}},
	}
	for _, tt := range tests {
		got, err := ParsePostAt(tt.raw)
		if err != nil {
			t.Fatalf("ParsePostAt(%q) error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParsePostAt(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParsePostAtInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"24:00", "12:60", "12:00:61", "noon", "12", "1200"} {
		if _, err := ParsePostAt(raw); err == nil {
			t.Fatalf("ParsePostAt(%q): expected error", raw)
		}
	}
}

func TestDue(t *testing.T) {
	t.Parallel()
	at := PostAt{Hour: 9, Minute: 30}
	day := func(h, m, s int) time.Time { return time.Date(2024, 3, 1, h, m, s, 0, time.UTC) }

	tests := []struct {
		name string
		now  time.Time
		n    int
		want bool
	}{
		{name: "window start", now: day(9, 30, 0), n: 1, want: true},
		{name: "window end", now: day(9, 30, 59), n: 3, want: true},
		{name: "minute before", now: day(9, 29, 59), n: 1, want: false},
		{name: "minute after", now: day(9, 31, 0), n: 1, want: false},
		{name: "other hour", now: day(21, 30, 0), n: 1, want: false},
		{name: "empty collection", now: day(9, 30, 0), n: 0, want: false},
	}
	for _, tt := range tests {
		if got := Due(tt.now, at, tt.n); got != tt.want {
			t.Fatalf("%s: Due = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDueUsesLocationOfNow(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if Due(now, PostAt{Hour: 12}, 1) {
		t.Fatal("10:00 UTC must not match 12:00")
	}
	if !Due(now.In(loc), PostAt{Hour: 12}, 1) {
		t.Fatal("10:00 UTC is 12:00 in UTC+2 and must match")
	}
}
