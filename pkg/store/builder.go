package store

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"
)

// maxTermLen is the record format's limit on term bytes (u8 length).
const maxTermLen = 255

// DeleteEntry is one record of the deletes index under construction.
type DeleteEntry struct {
	Key     string
	Indices []uint32
}

// NormalizeEntries sorts entries ascending by term and drops duplicates and
// unrepresentable terms. Duplicate terms keep the larger count. The returned
// slice is the exact record order of the written file, so delete-index
// ordinals are derived from it.
func NormalizeEntries(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if len(e.Term) == 0 || len(e.Term) > maxTermLen {
			log.Warnf("Dropping unrepresentable term (%d bytes)", len(e.Term))
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	dedup := out[:0]
	for _, e := range out {
		if n := len(dedup); n > 0 && dedup[n-1].Term == e.Term {
			if e.Count > dedup[n-1].Count {
				dedup[n-1].Count = e.Count
			}
			continue
		}
		dedup = append(dedup, e)
	}
	return dedup
}

// WriteFrequencyFile writes a words.bin/bigrams.bin image for normalized
// entries. The file is flushed and synced before close; callers only map it
// afterwards.
func WriteFrequencyFile(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)

	if err := binary.Write(w, binary.LittleEndian, uint32(len(entries))); err != nil {
		f.Close()
		return err
	}
	off := uint32(0)
	for _, e := range entries {
		if err := binary.Write(w, binary.LittleEndian, off); err != nil {
			f.Close()
			return err
		}
		off += uint32(1 + len(e.Term) + 8)
	}
	for _, e := range entries {
		w.WriteByte(byte(len(e.Term)))
		w.WriteString(e.Term)
		if err := binary.Write(w, binary.LittleEndian, e.Count); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DeleteVariants returns every distinct non-empty string obtainable from
// prefix by 1..maxEdit single-character deletions, plus prefix itself. BFS
// bounded by depth, operating on runes. The empty string is never produced;
// BuildDeletes adds short words to the empty key separately.
func DeleteVariants(prefix string, maxEdit int) mapset.Set[string] {
	variants := mapset.NewThreadUnsafeSet[string]()
	variants.Add(prefix)
	frontier := []string{prefix}
	for depth := 0; depth < maxEdit; depth++ {
		var next []string
		for _, w := range frontier {
			runes := []rune(w)
			if len(runes) <= 1 {
				continue
			}
			for i := range runes {
				del := string(runes[:i]) + string(runes[i+1:])
				if variants.Add(del) {
					next = append(next, del)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}
	return variants
}

// BuildDeletes produces the sorted delete index for normalized entries.
// Every delete key of a word's first prefixLen runes maps back to the word's
// ordinal; words short enough to vanish entirely also land under the empty
// key.
func BuildDeletes(entries []Entry, maxEdit, prefixLen int) []DeleteEntry {
	index := make(map[string][]uint32)
	for i, e := range entries {
		runes := []rune(e.Term)
		prefix := e.Term
		if len(runes) > prefixLen {
			prefix = string(runes[:prefixLen])
		}
		for key := range DeleteVariants(prefix, maxEdit).Iter() {
			index[key] = append(index[key], uint32(i))
		}
		if len(runes) <= maxEdit {
			index[""] = append(index[""], uint32(i))
		}
	}
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]DeleteEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, DeleteEntry{Key: k, Indices: index[k]})
	}
	return out
}

// WriteDeleteFile writes a deletes.bin image. Suggestion lists longer than
// the u16 record field can carry are truncated with a warning.
func WriteDeleteFile(path string, deletes []DeleteEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)

	if err := binary.Write(w, binary.LittleEndian, uint32(len(deletes))); err != nil {
		f.Close()
		return err
	}
	off := uint32(0)
	for _, d := range deletes {
		if err := binary.Write(w, binary.LittleEndian, off); err != nil {
			f.Close()
			return err
		}
		n := len(d.Indices)
		if n > 65535 {
			n = 65535
		}
		off += uint32(1 + len(d.Key) + 2 + 4*n)
	}
	for _, d := range deletes {
		indices := d.Indices
		if len(indices) > 65535 {
			log.Warnf("Delete key %q has %d suggestions, truncating to 65535", d.Key, len(indices))
			indices = indices[:65535]
		}
		w.WriteByte(byte(len(d.Key)))
		w.WriteString(d.Key)
		if err := binary.Write(w, binary.LittleEndian, uint16(len(indices))); err != nil {
			f.Close()
			return err
		}
		for _, idx := range indices {
			if err := binary.Write(w, binary.LittleEndian, idx); err != nil {
				f.Close()
				return err
			}
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
