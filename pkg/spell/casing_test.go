package spell

import "testing"

func TestTransferCase(t *testing.T) {
	cases := []struct {
		source, target, want string
	}{
		{"hello", "world", "world"},
		{"HELLO", "world", "WORLD"},
		{"Hello", "world", "World"},
		{"hEllo", "world", "wOrld"},
		{"heLLo", "world", "woRLd"},
		// Mixed source shorter than target: the tail stays lower.
		{"hEl", "worldly", "wOrldly"},
		// Mixed source longer than target: extra flags are ignored.
		{"hELLOX", "word", "wORD"},
		// Non-letter source positions pass through as lowercase.
		{"a1Cd", "WXYZ", "wxYz"},
		{"", "word", "word"},
		{"1234", "WORD", "word"},
	}
	for _, tc := range cases {
		if got := TransferCase(tc.source, tc.target); got != tc.want {
			t.Errorf("TransferCase(%q, %q) = %q, want %q", tc.source, tc.target, got, tc.want)
		}
	}
}

func TestTransferCaseIdempotent(t *testing.T) {
	sources := []string{"hello", "HELLO", "Hello", "hELlo", "a1Cd", ""}
	targets := []string{"world", "WORLD", "Mixed", "xy"}
	for _, src := range sources {
		for _, tgt := range targets {
			once := TransferCase(src, tgt)
			twice := TransferCase(src, once)
			if once != twice {
				t.Errorf("TransferCase(%q, %q): once %q, twice %q", src, tgt, once, twice)
			}
		}
	}
}
