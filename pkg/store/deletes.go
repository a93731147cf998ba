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

// DeleteStore is the mmap-backed symmetric-delete index: a sorted multimap
// from delete-key to the ordinals of the words whose prefix produced it.
//
// Layout:
//
//	u32  num_entries
//	u32  offset[num_entries]
//	record: u8 key_len (0 allowed), key_bytes, u16 num_suggestions, u32 word_index[]
//
// Keys are read from the mapping during binary search; no key table is held
// in memory.
type DeleteStore struct {
	f       *os.File
	data    mmap.MMap
	n       int
	recBase int
}

// OpenDeleteStore maps a deletes.bin file.
func OpenDeleteStore(path string) (*DeleteStore, error) {
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
	if recBase > len(data) {
		data.Unmap()
		f.Close()
		return nil, fmt.Errorf("%s: offset table exceeds file size", path)
	}
	log.Debugf("Opened delete index %s: %d keys", path, n)
	return &DeleteStore{f: f, data: data, n: n, recBase: recBase}, nil
}

// Len returns the number of delete keys.
func (s *DeleteStore) Len() int {
	return s.n
}

// keyAt returns the key bytes of record i and the offset just past the key,
// or (nil, 0) when the record is malformed.
func (s *DeleteStore) keyAt(i int) ([]byte, int) {
	if i < 0 || i >= s.n {
		return nil, 0
	}
	off := s.recBase + int(binary.LittleEndian.Uint32(s.data[wordHeaderSize+4*i:]))
	if off < s.recBase || off >= len(s.data) {
		return nil, 0
	}
	kl := int(s.data[off])
	if off+1+kl+2 > len(s.data) {
		return nil, 0
	}
	return s.data[off+1 : off+1+kl], off + 1 + kl
}

// Get returns the word ordinals recorded under key, nil when absent. A
// truncated suggestion list is cut at the mapping boundary instead of failing.
func (s *DeleteStore) Get(key string) []uint32 {
	if s == nil || s.n == 0 {
		return nil
	}
	kb := []byte(key)
	corrupt := false
	i := sort.Search(s.n, func(m int) bool {
		k, _ := s.keyAt(m)
		if k == nil {
			corrupt = true
			return true
		}
		return bytes.Compare(k, kb) >= 0
	})
	if corrupt || i >= s.n {
		return nil
	}
	k, pos := s.keyAt(i)
	if k == nil || !bytes.Equal(k, kb) {
		return nil
	}
	cnt := int(binary.LittleEndian.Uint16(s.data[pos:]))
	pos += 2
	if avail := (len(s.data) - pos) / 4; cnt > avail {
		cnt = avail
	}
	indices := make([]uint32, cnt)
	for j := 0; j < cnt; j++ {
		indices[j] = binary.LittleEndian.Uint32(s.data[pos+4*j:])
	}
	return indices
}

// Close releases the mapping. Safe on nil.
func (s *DeleteStore) Close() error {
	if s == nil {
		return nil
	}
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
