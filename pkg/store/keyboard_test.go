package store

import (
	"os"
	"path/filepath"
	"testing"
)

func openLayout(t *testing.T, layout string) *Keyboard {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keyboard_"+layout+".bin")
	if err := WriteLayoutFile(path, layout); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	kbd, err := OpenKeyboard(path)
	if err != nil {
		t.Fatalf("OpenKeyboard: %v", err)
	}
	t.Cleanup(func() { kbd.Close() })
	return kbd
}

func TestQwertyAdjacency(t *testing.T) {
	kbd := openLayout(t, "qwerty")

	cases := []struct {
		a, b rune
		want byte
	}{
		{'q', 'q', 0},
		{'q', 'w', 1}, // same row neighbor
		{'q', 'a', 1}, // staggered row below
		{'h', 'j', 1},
		{'q', 'e', 2}, // two keys along the row
		{'q', 'p', KeyFar},
		{'z', 'p', KeyFar},
	}
	for _, tc := range cases {
		if got := kbd.Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%c, %c) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSubstitutionCostTiers(t *testing.T) {
	kbd := openLayout(t, "qwerty")

	if got := kbd.SubstitutionCost('a', 'a'); got != SubCostSame {
		t.Errorf("same letter cost = %v", got)
	}
	if got := kbd.SubstitutionCost('q', 'w'); got != SubCostAdjacent {
		t.Errorf("adjacent cost = %v, want %v", got, SubCostAdjacent)
	}
	if got := kbd.SubstitutionCost('q', 'e'); got != SubCostNear {
		t.Errorf("ring-2 cost = %v, want %v", got, SubCostNear)
	}
	if got := kbd.SubstitutionCost('q', 'p'); got != SubCostFar {
		t.Errorf("far cost = %v, want %v", got, SubCostFar)
	}
	// Non-ASCII-letters are always far.
	if got := kbd.SubstitutionCost('q', '3'); got != SubCostFar {
		t.Errorf("digit cost = %v, want %v", got, SubCostFar)
	}
	if got := kbd.SubstitutionCost('é', 'e'); got != SubCostFar {
		t.Errorf("non-ASCII cost = %v, want %v", got, SubCostFar)
	}
}

func TestAllLayoutsGenerate(t *testing.T) {
	dir := t.TempDir()
	for _, layout := range Layouts() {
		path := filepath.Join(dir, "keyboard_"+layout+".bin")
		if err := WriteLayoutFile(path, layout); err != nil {
			t.Fatalf("layout %s: %v", layout, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() != kbdFileSize {
			t.Errorf("layout %s size = %d, want %d", layout, info.Size(), kbdFileSize)
		}
		kbd, err := OpenKeyboard(path)
		if err != nil {
			t.Fatalf("open %s: %v", layout, err)
		}
		for c := 'a'; c <= 'z'; c++ {
			if kbd.Distance(c, c) != 0 {
				t.Errorf("layout %s: diagonal not zero at %c", layout, c)
			}
		}
		kbd.Close()
	}
}

func TestUnknownLayout(t *testing.T) {
	if err := WriteLayoutFile(filepath.Join(t.TempDir(), "x.bin"), "engram"); err == nil {
		t.Error("unknown layout should fail")
	}
}

func TestOpenKeyboardRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	buf := make([]byte, kbdFileSize)
	copy(buf, "NOPE")
	os.WriteFile(path, buf, 0644)
	if _, err := OpenKeyboard(path); err == nil {
		t.Error("bad magic should fail to open")
	}
}
