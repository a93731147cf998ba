package store

import (
	"bytes"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/edsrzf/mmap-go"
)

// Keyboard layout file format: "KYBD" magic, u8 version, then a 26x26 byte
// matrix of layout distances between lowercase letters. Cell values:
// 0 same key, 1 direct neighbor, 2 two rings out, 255 far or unknown.
const (
	kbdMagic    = "KYBD"
	kbdVersion  = 1
	kbdFileSize = 4 + 1 + 26*26

	// KeyFar marks letter pairs with no useful layout relation.
	KeyFar = 255
)

// Substitution cost tiers for the weighted edit distance. A slip onto a
// neighboring key is half a regular edit.
const (
	SubCostSame     = 0.0
	SubCostAdjacent = 0.5
	SubCostNear     = 0.75
	SubCostFar      = 1.0
)

// Keyboard is an mmap-backed layout distance matrix. The matrix is intended
// to be symmetric but readers must not rely on that.
type Keyboard struct {
	f    *os.File
	data mmap.MMap
}

// OpenKeyboard maps a keyboard_<layout>.bin file, validating magic, version
// and size.
func OpenKeyboard(path string) (*Keyboard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	if len(data) < kbdFileSize || !bytes.Equal(data[:4], []byte(kbdMagic)) {
		data.Unmap()
		f.Close()
		return nil, fmt.Errorf("%s: not a keyboard layout file", path)
	}
	if data[4] != kbdVersion {
		data.Unmap()
		f.Close()
		return nil, fmt.Errorf("%s: unsupported layout version %d", path, data[4])
	}
	log.Debugf("Opened keyboard layout %s", path)
	return &Keyboard{f: f, data: data}, nil
}

// Distance returns the layout distance between two letters. Anything outside
// 'a'..'z' (including every non-ASCII rune) is treated as far.
func (k *Keyboard) Distance(a, b rune) byte {
	if k == nil || a < 'a' || a > 'z' || b < 'a' || b > 'z' {
		return KeyFar
	}
	return k.data[5+int(a-'a')*26+int(b-'a')]
}

// SubstitutionCost maps a letter pair to its weighted edit cost.
func (k *Keyboard) SubstitutionCost(a, b rune) float64 {
	if a == b {
		return SubCostSame
	}
	switch k.Distance(a, b) {
	case 0:
		return SubCostSame
	case 1:
		return SubCostAdjacent
	case 2:
		return SubCostNear
	default:
		return SubCostFar
	}
}

// Close releases the mapping. Safe on nil.
func (k *Keyboard) Close() error {
	if k == nil {
		return nil
	}
	var err error
	if k.data != nil {
		err = k.data.Unmap()
		k.data = nil
	}
	if k.f != nil {
		if cerr := k.f.Close(); err == nil {
			err = cerr
		}
		k.f = nil
	}
	return err
}
