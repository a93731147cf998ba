package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/symserve/pkg/store"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dict.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFrequencyFileUnigrams(t *testing.T) {
	path := writeTemp(t, "the 23135851162\nOF 13151942776\nand 12997637966\nbroken line\n")
	entries, err := ReadFrequencyFile(path, 1)
	if err != nil {
		t.Fatalf("ReadFrequencyFile: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Term != "the" || entries[0].Count != 23135851162 {
		t.Errorf("first entry = %+v", entries[0])
	}
	// Terms come back lower-cased.
	if entries[1].Term != "of" {
		t.Errorf("second entry not lower-cased: %+v", entries[1])
	}
}

func TestReadFrequencyFileBigrams(t *testing.T) {
	path := writeTemp(t, "abc def 100\nghi jkl 200\nonly-two 5\n")
	entries, err := ReadFrequencyFile(path, 2)
	if err != nil {
		t.Fatalf("ReadFrequencyFile: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Term != "abc def" {
		t.Errorf("bigram term = %q", entries[0].Term)
	}
}

func TestReadFrequencyFileMissing(t *testing.T) {
	if _, err := ReadFrequencyFile(filepath.Join(t.TempDir(), "nope.txt"), 1); err == nil {
		t.Error("missing file should error")
	}
}

func TestTopN(t *testing.T) {
	entries := []store.Entry{{Term: "a", Count: 1}, {Term: "b", Count: 5}, {Term: "c", Count: 3}, {Term: "d", Count: 4}}
	top := TopN(entries, 2)
	if len(top) != 2 || top[0].Term != "b" || top[1].Term != "d" {
		t.Errorf("TopN = %v", top)
	}
	if got := TopN(entries, 0); len(got) != 4 {
		t.Errorf("TopN(0) should keep everything, got %v", got)
	}
	if got := TopN(entries, 10); len(got) != 4 {
		t.Errorf("TopN beyond length should keep everything, got %v", got)
	}
}
