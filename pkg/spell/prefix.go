package spell

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// defaultHotCacheWords bounds the patricia trie fed by prefix scans.
const defaultHotCacheWords = 20000

// adaptiveMinFrequency is the default frequency floor per prefix length:
// short prefixes match half the dictionary, so only very common words are
// worth showing for them.
func adaptiveMinFrequency(prefixLen int) uint64 {
	switch {
	case prefixLen <= 2:
		return 10000
	case prefixLen == 3:
		return 1000
	case prefixLen == 4:
		return 100
	default:
		return 10
	}
}

// hotCache keeps recently scanned completions in a patricia trie so repeat
// prefix queries skip the mmap scan entirely. Once full it stops admitting;
// prefix traffic is heavily skewed, so the first fill captures most of it.
type hotCache struct {
	mu   sync.RWMutex
	trie *patricia.Trie
	size int
	max  int
}

func newHotCache(maxWords int) *hotCache {
	return &hotCache{trie: patricia.NewTrie(), max: maxWords}
}

func (hc *hotCache) search(lowerPrefix string, minFreq uint64) []SuggestItem {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	var items []SuggestItem
	err := hc.trie.VisitSubtree(patricia.Prefix(lowerPrefix), func(p patricia.Prefix, item patricia.Item) error {
		count, ok := item.(uint64)
		if !ok || count < minFreq {
			return nil
		}
		items = append(items, SuggestItem{Term: string(p), Count: count})
		return nil
	})
	if err != nil {
		log.Errorf("Hot cache traversal: %v", err)
		return nil
	}
	return items
}

func (hc *hotCache) insert(term string, count uint64) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	if hc.size >= hc.max {
		return
	}
	if hc.trie.Insert(patricia.Prefix(term), count) {
		hc.size++
	}
}

// PrefixLookup returns up to limit completions of prefix sorted by
// descending count, each with distance 0. The frequency floor adapts to the
// prefix length; pass minFreq to override it. A patricia hot cache fed by
// earlier scans answers repeat queries before the store is consulted.
func (e *Engine) PrefixLookup(prefix string, limit int, minFreq ...uint64) []SuggestItem {
	if prefix == "" {
		return nil
	}
	if limit <= 0 {
		limit = 5
	}
	lower := strings.ToLower(prefix)
	floor := adaptiveMinFrequency(utf8.RuneCountInString(lower))
	if len(minFreq) > 0 {
		floor = minFreq[0]
	}

	items := e.hot.search(lower, floor)
	if len(items) < limit {
		items = items[:0]
		for _, entry := range e.words.PrefixScan(lower, limit) {
			e.hot.insert(entry.Term, entry.Count)
			if entry.Count >= floor {
				items = append(items, SuggestItem{Term: entry.Term, Count: entry.Count})
			}
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Term < items[j].Term
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
