package spell

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/hbollon/go-edlib"

	"github.com/bastiangx/symserve/pkg/store"
)

func testKeyboard(t *testing.T) *store.Keyboard {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keyboard_qwerty.bin")
	if err := store.WriteLayoutFile(path, "qwerty"); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	kbd, err := store.OpenKeyboard(path)
	if err != nil {
		t.Fatalf("OpenKeyboard: %v", err)
	}
	t.Cleanup(func() { kbd.Close() })
	return kbd
}

func TestEditDistance(t *testing.T) {
	cases := []struct {
		a, b     string
		max      int
		expected int
	}{
		{"", "", 2, 0},
		{"a", "", 2, 1},
		{"", "a", 2, 1},
		{"abc", "", 2, distanceExceeded},
		{"kitten", "sitting", 3, 3},
		{"saturday", "sunday", 3, 3},
		{"book", "back", 2, 2},
		{"book", "books", 1, 1},
		{"hello", "hallo", 1, 1},
		{"hello", "hello", 0, 0},
		{"ab", "ba", 1, 1}, // transposition is a single edit
		{"abcdef", "badcfe", 3, 3},
		{"short", "muchlongerword", 2, distanceExceeded}, // length prune
		{"abcde", "vwxyz", 2, distanceExceeded},          // early termination
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s→%s", tc.a, tc.b), func(t *testing.T) {
			if got := editDistance(tc.a, tc.b, tc.max, nil); got != tc.expected {
				t.Errorf("editDistance(%q, %q, %d) = %d, want %d", tc.a, tc.b, tc.max, got, tc.expected)
			}
		})
	}
}

func TestDistanceSymmetryWithoutKeyboard(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"}, {"hello", "hallo"}, {"ab", "ba"}, {"abc", "cab"},
	}
	for _, p := range pairs {
		ab := editDistance(p[0], p[1], 5, nil)
		ba := editDistance(p[1], p[0], 5, nil)
		if ab != ba {
			t.Errorf("d(%q,%q)=%d but d(%q,%q)=%d", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestDistanceBounds(t *testing.T) {
	words := []string{"a", "ab", "abc", "hello", "world", "transposition"}
	for _, w := range words {
		if got := editDistance(w, w, 3, nil); got != 0 {
			t.Errorf("d(%q,%q) = %d, want 0", w, w, got)
		}
	}
	for _, a := range words {
		for _, b := range words {
			max := len(a)
			if len(b) > max {
				max = len(b)
			}
			if got := editDistance(a, b, max, nil); got < 0 || got > max {
				t.Errorf("d(%q,%q) = %d outside [0,%d]", a, b, got, max)
			}
		}
	}
}

// The unweighted DP must agree with the ecosystem OSA implementation.
func TestDistanceAgainstEdlib(t *testing.T) {
	words := []string{"", "a", "ab", "ba", "spell", "spelling", "helo", "hello",
		"kitten", "sitting", "acre", "care", "race"}
	for _, a := range words {
		for _, b := range words {
			want := edlib.OSADamerauLevenshteinDistance(a, b)
			got := editDistance(a, b, 20, nil)
			if got != want {
				t.Errorf("d(%q,%q) = %d, edlib says %d", a, b, got, want)
			}
		}
	}
}

func TestWeightedDistance(t *testing.T) {
	kbd := testKeyboard(t)

	if got := editDistance("hello", "hello", 2, kbd); got != 0 {
		t.Errorf("exact match with keyboard = %d, want 0", got)
	}
	// q and w are direct neighbors: weighted 0.5, reported as 1.
	if got := editDistance("qord", "word", 1, kbd); got != 1 {
		t.Errorf("adjacent-key substitution = %d, want 1", got)
	}
	// q and p are unrelated: a full edit either way.
	if got := editDistance("qord", "pord", 2, kbd); got != 1 {
		t.Errorf("far substitution = %d, want 1", got)
	}
	// Transposition stays a full edit even between neighboring keys.
	if got := editDistance("wqord", "qword", 2, kbd); got != 1 {
		t.Errorf("neighbor transposition = %d, want 1", got)
	}
	// Two adjacent-key slips weigh 1.0 total, still reported under max 2.
	if got := editDistance("qprd", "word", 2, kbd); got != 1 {
		t.Errorf("two adjacent slips = %d, want 1", got)
	}
}

func BenchmarkEditDistance(b *testing.B) {
	for i := 0; i < b.N; i++ {
		editDistance("acknowledgement", "acknowledgment", 2, nil)
	}
}
