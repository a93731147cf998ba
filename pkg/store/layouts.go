package store

import (
	"fmt"
	"os"
	"sort"
)

// Builtin physical layouts, top row first. Row stagger is modeled in
// half-key units when positions are computed.
var layoutRows = map[string][]string{
	"qwerty":  {"qwertyuiop", "asdfghjkl", "zxcvbnm"},
	"azerty":  {"azertyuiop", "qsdfghjklm", "wxcvbn"},
	"qwertz":  {"qwertzuiop", "asdfghjkl", "yxcvbnm"},
	"dvorak":  {"pyfgcrl", "aoeuidhtns", "qjkxbmwvz"},
	"colemak": {"qwfpgjluy", "arstdhneio", "zxcvbkm"},
}

// rowOffsets are the per-row horizontal offsets in half-key units: the middle
// row sits half a key right of the top row, the bottom row a key and a half.
var rowOffsets = []int{0, 1, 3}

// Layouts returns the builtin layout names, sorted.
func Layouts() []string {
	names := make([]string, 0, len(layoutRows))
	for name := range layoutRows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type keyPos struct {
	row, col int
}

// layoutPositions assigns each key a (row, col) in half-key precision so the
// stagger between rows is captured without floats.
func layoutPositions(rows []string) map[byte]keyPos {
	positions := make(map[byte]keyPos)
	for ri, row := range rows {
		offset := ri * 2
		if ri < len(rowOffsets) {
			offset = rowOffsets[ri]
		}
		for ci := 0; ci < len(row); ci++ {
			positions[row[ci]] = keyPos{row: ri * 2, col: ci*2 + offset}
		}
	}
	return positions
}

// LayoutMatrix computes the 26x26 distance matrix for a builtin layout.
// Rings use Chebyshev distance over the staggered positions: <=2 half-keys is
// a direct neighbor, <=4 is two rings out, everything else is far.
func LayoutMatrix(layout string) ([26][26]byte, error) {
	rows, ok := layoutRows[layout]
	if !ok {
		return [26][26]byte{}, fmt.Errorf("unknown keyboard layout %q", layout)
	}
	positions := layoutPositions(rows)
	var matrix [26][26]byte
	for i := 0; i < 26; i++ {
		for j := 0; j < 26; j++ {
			matrix[i][j] = KeyFar
			if i == j {
				matrix[i][j] = 0
				continue
			}
			pi, iOK := positions[byte('a'+i)]
			pj, jOK := positions[byte('a'+j)]
			if !iOK || !jOK {
				continue
			}
			rowDiff := abs(pi.row - pj.row)
			colDiff := abs(pi.col - pj.col)
			chebyshev := rowDiff
			if colDiff > chebyshev {
				chebyshev = colDiff
			}
			switch {
			case chebyshev <= 2:
				matrix[i][j] = 1
			case chebyshev <= 4:
				matrix[i][j] = 2
			}
		}
	}
	return matrix, nil
}

// WriteLayoutFile writes a keyboard_<layout>.bin in the KYBD format.
func WriteLayoutFile(path, layout string) error {
	matrix, err := LayoutMatrix(layout)
	if err != nil {
		return err
	}
	buf := make([]byte, 0, kbdFileSize)
	buf = append(buf, kbdMagic...)
	buf = append(buf, kbdVersion)
	for i := 0; i < 26; i++ {
		buf = append(buf, matrix[i][:]...)
	}
	return os.WriteFile(path, buf, 0644)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
