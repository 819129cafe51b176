package question

import "testing"

func TestDistance(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "equal", a: "Cats or dogs?", b: "Cats or dogs?", want: 0},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "empty a", a: "", b: "hello", want: 5},
		{name: "empty b", a: "hello", b: "", want: 5},
		{name: "substitution", a: "cat", b: "cut", want: 1},
		{name: "insertion", a: "cat", b: "cart", want: 1},
		{name: "deletion", a: "cart", b: "cat", want: 1},
		{name: "adjacent transposition", a: "ab", b: "ba", want: 1},
		{name: "transposition inside word", a: "color", b: "colro", want: 1},
		{name: "kitten sitting", a: "kitten", b: "sitting", want: 3},
		{name: "typo fix", a: "Whatt is your favrite color?", b: "What is your favorite color?", want: 2},
		{name: "multibyte runes", a: "café", b: "cafe", want: 1},
		{name: "empty a multibyte", a: "", b: "żółw", want: 4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Fatalf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDistanceSymmetricForSamples(t *testing.T) {
	t.Parallel()
	pairs := [][2]string{
		{"What is your favorite color?", "Totally unrelated prompt"},
		{"abcdef", "badcfe"},
		{"question", "questoin"},
	}
	for _, p := range pairs {
		if a, b := Distance(p[0], p[1]), Distance(p[1], p[0]); a != b {
			t.Fatalf("Distance not symmetric for %q/%q: %d vs %d", p[0], p[1], a, b)
		}
	}
}

func TestDistanceTranspositionBeatsSubstitution(t *testing.T) {
	t.Parallel()
	// "ab" -> "ba" by two substitutions would cost 2.
	if got := Distance("xaby", "xbay"); got != 1 {
		t.Fatalf("Distance(xaby, xbay) = %d, want 1", got)
	}
}
