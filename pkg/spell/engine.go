package spell

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/symserve/pkg/store"
)

// Standard data file names inside an engine directory.
const (
	WordsFile   = "words.bin"
	DeletesFile = "deletes.bin"
	BigramsFile = "bigrams.bin"
)

// KeyboardFile returns the file name for a layout.
func KeyboardFile(layout string) string {
	return "keyboard_" + layout + ".bin"
}

// Engine answers spelling queries over a set of immutable mmap stores. The
// stores are read-only for the engine's lifetime, so concurrent lookups need
// no coordination beyond the count cache's own locking.
type Engine struct {
	cfg     Config
	words   *store.WordStore
	deletes *store.DeleteStore
	bigrams *store.WordStore
	kbd     *store.Keyboard

	maxCount  uint64
	maxBigram uint64
	hot       *hotCache
}

// Open maps the dictionaries in dir. words.bin and deletes.bin are required;
// bigrams.bin and the configured keyboard layout are optional and their
// absence only disables the features built on them.
func Open(dir string, cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	words, err := store.OpenWordStore(filepath.Join(dir, WordsFile), cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	deletes, err := store.OpenDeleteStore(filepath.Join(dir, DeletesFile))
	if err != nil {
		words.Close()
		return nil, err
	}
	e := &Engine{
		cfg:     cfg,
		words:   words,
		deletes: deletes,
		hot:     newHotCache(defaultHotCacheWords),
	}

	bigramPath := filepath.Join(dir, BigramsFile)
	if _, statErr := os.Stat(bigramPath); statErr == nil {
		bigrams, bErr := store.OpenWordStore(bigramPath, cfg.CacheSize)
		if bErr != nil {
			log.Warnf("Bigram store unavailable, continuing without context ranking: %v", bErr)
		} else {
			e.bigrams = bigrams
		}
	}
	if cfg.KeyboardLayout != "" {
		kbd, kErr := store.OpenKeyboard(filepath.Join(dir, KeyboardFile(cfg.KeyboardLayout)))
		if kErr != nil {
			log.Warnf("Keyboard layout %q unavailable, using unweighted distances: %v", cfg.KeyboardLayout, kErr)
		} else {
			e.kbd = kbd
		}
	}

	e.maxCount = e.words.EstimateMaxCount()
	e.maxBigram = e.bigrams.EstimateMaxCount()
	log.Debugf("Engine ready: %d words, %d delete keys, max count %d",
		words.Len(), deletes.Len(), e.maxCount)
	return e, nil
}

// Build writes words.bin, deletes.bin and (when bigrams are given)
// bigrams.bin into dir, then opens the result. Building requires exclusive
// access to dir; the files are only mapped after a successful write and sync.
func Build(dir string, words, bigrams []store.Entry, cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	normalized := store.NormalizeEntries(words)
	if err := store.WriteFrequencyFile(filepath.Join(dir, WordsFile), normalized); err != nil {
		return nil, err
	}
	deletes := store.BuildDeletes(normalized, cfg.MaxEditDistance, cfg.PrefixLength)
	if err := store.WriteDeleteFile(filepath.Join(dir, DeletesFile), deletes); err != nil {
		return nil, err
	}
	if len(bigrams) > 0 {
		if err := store.WriteFrequencyFile(filepath.Join(dir, BigramsFile), store.NormalizeEntries(bigrams)); err != nil {
			return nil, err
		}
	}
	log.Debugf("Built %d words and %d delete keys in %s", len(normalized), len(deletes), dir)
	return Open(dir, cfg)
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// WordCount returns the number of dictionary words.
func (e *Engine) WordCount() int {
	return e.words.Len()
}

// HasBigrams reports whether a bigram store is loaded.
func (e *Engine) HasBigrams() bool {
	return e.bigrams != nil
}

// bigramCount returns the frequency of "prev term", 0 without a bigram store.
func (e *Engine) bigramCount(prev, term string) uint64 {
	if e.bigrams == nil || prev == "" {
		return 0
	}
	return e.bigrams.Get(prev + " " + term)
}

// Close releases every mapping. The engine must not be used afterwards.
func (e *Engine) Close() error {
	err := e.words.Close()
	if cerr := e.deletes.Close(); err == nil {
		err = cerr
	}
	if cerr := e.bigrams.Close(); err == nil {
		err = cerr
	}
	if cerr := e.kbd.Close(); err == nil {
		err = cerr
	}
	return err
}
