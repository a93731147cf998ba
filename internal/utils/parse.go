package utils

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/symserve/pkg/store"
)

// ReadFrequencyFile parses a whitespace-delimited frequency dictionary into
// entries for the builder. termColumns is the number of leading columns that
// form the term (1 for unigrams, 2 for bigrams joined by a single space);
// the column after them is the count. Lines that do not parse are skipped
// with a warning, not fatal.
func ReadFrequencyFile(path string, termColumns int) ([]store.Entry, error) {
	if termColumns < 1 {
		return nil, fmt.Errorf("term columns must be >= 1, got %d", termColumns)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []store.Entry
	skipped := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < termColumns+1 {
			skipped++
			continue
		}
		count, err := strconv.ParseUint(fields[termColumns], 10, 64)
		if err != nil {
			skipped++
			continue
		}
		term := strings.ToLower(strings.Join(fields[:termColumns], " "))
		entries = append(entries, store.Entry{Term: term, Count: count})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Warnf("Skipped %d malformed lines in %s", skipped, path)
	}
	return entries, nil
}

// TopN keeps the n most frequent entries, useful for the smaller bundled
// dictionaries on memory-starved targets. n <= 0 keeps everything.
func TopN(entries []store.Entry, n int) []store.Entry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	sorted := make([]store.Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	return sorted[:n]
}
