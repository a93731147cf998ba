package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/edsrzf/mmap-go"
)

// wordHeaderSize is the fixed part of a frequency file: u32 record count.
const wordHeaderSize = 4

// maxCountProbes are common words used to estimate the highest frequency in a
// store without scanning it. If none is present the first 100 records decide.
var maxCountProbes = []string{"the", "of", "and", "a", "to", "in", "is", "you", "that", "it"}

// WordStore is a read-only, mmap-backed sorted (term, count) table.
// It serves both words.bin and bigrams.bin; bigram terms are "w1 w2".
//
// Layout:
//
//	u32  num_words
//	u32  offset[num_words]     byte offsets into the record area
//	record: u8 term_len, term_bytes, u64 count
//
// Malformed or truncated records degrade to zero counts rather than errors,
// so a damaged optional store (bigrams) leaves lookup partially functional.
type WordStore struct {
	f       *os.File
	data    mmap.MMap
	n       int
	recBase int
	cache   *countCache
}

// OpenWordStore maps a frequency file. The header is validated here; record
// corruption is tolerated later at read time.
func OpenWordStore(path string, cacheSize int) (*WordStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	if len(data) < wordHeaderSize {
		data.Unmap()
		f.Close()
		return nil, fmt.Errorf("%s: truncated header", path)
	}
	n := int(binary.LittleEndian.Uint32(data))
	recBase := wordHeaderSize + 4*n
	if n < 0 || recBase > len(data) {
		data.Unmap()
		f.Close()
		return nil, fmt.Errorf("%s: offset table exceeds file size", path)
	}
	log.Debugf("Opened word store %s: %d records, %d bytes mapped", path, n, len(data))
	return &WordStore{
		f:       f,
		data:    data,
		n:       n,
		recBase: recBase,
		cache:   newCountCache(cacheSize),
	}, nil
}

// Len returns the number of records.
func (s *WordStore) Len() int {
	return s.n
}

// record returns the term bytes and count at ordinal i, reading through the
// offset table. Any bounds violation yields (nil, 0, false).
func (s *WordStore) record(i int) ([]byte, uint64, bool) {
	if i < 0 || i >= s.n {
		return nil, 0, false
	}
	off := s.recBase + int(binary.LittleEndian.Uint32(s.data[wordHeaderSize+4*i:]))
	if off < s.recBase || off >= len(s.data) {
		return nil, 0, false
	}
	tl := int(s.data[off])
	if tl == 0 || off+1+tl+8 > len(s.data) {
		return nil, 0, false
	}
	term := s.data[off+1 : off+1+tl]
	count := binary.LittleEndian.Uint64(s.data[off+1+tl:])
	return term, count, true
}

// termAt returns only the term bytes at ordinal i, nil when malformed.
func (s *WordStore) termAt(i int) []byte {
	term, _, ok := s.record(i)
	if !ok {
		return nil
	}
	return term
}

// At returns the (term, count) pair at ordinal i. ok is false for
// out-of-range ordinals and corrupt records, which callers drop silently.
func (s *WordStore) At(i int) (string, uint64, bool) {
	term, count, ok := s.record(i)
	if !ok {
		return "", 0, false
	}
	return string(term), count, true
}

// Get returns the count for term, 0 when absent. Binary search over the
// mapping with a small memoizing cache in front.
func (s *WordStore) Get(term string) uint64 {
	if s == nil || s.n == 0 || term == "" {
		return 0
	}
	if count, ok := s.cache.get(term); ok {
		return count
	}
	i, found := s.search(term)
	if !found {
		return 0
	}
	_, count, ok := s.record(i)
	if !ok {
		return 0
	}
	s.cache.put(term, count)
	return count
}

// Contains reports whether term has a positive count.
func (s *WordStore) Contains(term string) bool {
	return s.Get(term) > 0
}

// search finds the first ordinal whose term is >= key, and whether it is an
// exact match. A corrupt record encountered mid-search aborts as not found.
func (s *WordStore) search(key string) (int, bool) {
	kb := []byte(key)
	corrupt := false
	i := sort.Search(s.n, func(m int) bool {
		term := s.termAt(m)
		if term == nil {
			corrupt = true
			return true
		}
		return bytes.Compare(term, kb) >= 0
	})
	if corrupt || i >= s.n {
		return i, false
	}
	return i, bytes.Equal(s.termAt(i), kb)
}

// PrefixScan collects entries starting with prefix, sorted by descending
// count. The scan over-collects up to 10x limit sorted-by-term records before
// re-sorting by frequency, so the most frequent completions survive even when
// they sort late alphabetically.
func (s *WordStore) PrefixScan(prefix string, limit int) []Entry {
	if s == nil || s.n == 0 || prefix == "" || limit <= 0 {
		return nil
	}
	pb := []byte(prefix)
	start, _ := s.search(prefix)
	collected := make([]Entry, 0, limit)
	for i := start; i < s.n && len(collected) < 10*limit; i++ {
		term, count, ok := s.record(i)
		if !ok {
			break
		}
		if !bytes.HasPrefix(term, pb) {
			break
		}
		collected = append(collected, Entry{Term: string(term), Count: count})
	}
	sort.Slice(collected, func(i, j int) bool {
		if collected[i].Count != collected[j].Count {
			return collected[i].Count > collected[j].Count
		}
		return collected[i].Term < collected[j].Term
	})
	if len(collected) > limit {
		collected = collected[:limit]
	}
	return collected
}

// EstimateMaxCount probes a handful of very common words; when none hits
// (non-English data, bigram stores) it falls back to the maximum over the
// first 100 records.
func (s *WordStore) EstimateMaxCount() uint64 {
	if s == nil || s.n == 0 {
		return 0
	}
	var best uint64
	for _, w := range maxCountProbes {
		if c := s.Get(w); c > best {
			best = c
		}
	}
	if best > 0 {
		return best
	}
	limit := s.n
	if limit > 100 {
		limit = 100
	}
	for i := 0; i < limit; i++ {
		if _, c, ok := s.record(i); ok && c > best {
			best = c
		}
	}
	return best
}

// Close releases the mapping and drops the cache. Safe on nil.
func (s *WordStore) Close() error {
	if s == nil {
		return nil
	}
	s.cache.purge()
	var err error
	if s.data != nil {
		err = s.data.Unmap()
		s.data = nil
	}
	if s.f != nil {
		if cerr := s.f.Close(); err == nil {
			err = cerr
		}
		s.f = nil
	}
	s.n = 0
	return err
}
