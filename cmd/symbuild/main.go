/*
Package main implements the offline dictionary builder.

symbuild turns whitespace-delimited frequency dictionaries into the
memory-mapped binaries symserve consumes: words.bin, deletes.bin and
optionally bigrams.bin, plus the keyboard layout matrices for weighted
distances.

Build a full data directory:

	symbuild -dict frequency_dictionary_en.txt -bigrams frequency_bigrams_en.txt -o data/

Build a smaller dictionary for tight memory budgets:

	symbuild -dict frequency_dictionary_en.txt -top-n 30000 -o data_small/

Generate all keyboard layout files:

	symbuild -layouts -o data/

The delete index is derived from the first -p characters of every word with
up to -e deletions, so -e and -p must match the engine configuration the
files will be served under.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/symserve/internal/utils"
	"github.com/bastiangx/symserve/pkg/spell"
	"github.com/bastiangx/symserve/pkg/store"
)

func main() {
	dictPath := flag.String("dict", "", "Path to the unigram frequency dictionary (term count)")
	bigramPath := flag.String("bigrams", "", "Path to the bigram dictionary (w1 w2 count), optional")
	outDir := flag.String("o", "./data", "Output directory for the binary files")
	maxEdit := flag.Int("e", spell.DefaultMaxEditDistance, "Max edit distance")
	prefixLen := flag.Int("p", spell.DefaultPrefixLength, "Prefix length")
	topN := flag.Int("top-n", 0, "Only include the top N most frequent words (0 = all)")
	layouts := flag.Bool("layouts", false, "Also generate the builtin keyboard layout files")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
	}
	if *dictPath == "" && !*layouts {
		flag.Usage()
		os.Exit(2)
	}
	if err := utils.EnsureDir(*outDir); err != nil {
		log.Fatalf("Cannot create output directory %s: %v", *outDir, err)
	}

	if *layouts {
		for _, layout := range store.Layouts() {
			path := filepath.Join(*outDir, spell.KeyboardFile(layout))
			if err := store.WriteLayoutFile(path, layout); err != nil {
				log.Fatalf("Writing layout %s: %v", layout, err)
			}
			log.Infof("Wrote %s", path)
		}
	}
	if *dictPath == "" {
		return
	}

	words, err := utils.ReadFrequencyFile(*dictPath, 1)
	if err != nil {
		log.Fatalf("Reading dictionary %s: %v", *dictPath, err)
	}
	words = utils.TopN(words, *topN)
	log.Infof("Loaded %d words", len(words))

	var bigrams []store.Entry
	if *bigramPath != "" {
		bigrams, err = utils.ReadFrequencyFile(*bigramPath, 2)
		if err != nil {
			log.Warnf("Failed to load bigrams (optional): %v", err)
		} else {
			log.Infof("Loaded %d bigrams", len(bigrams))
		}
	}

	cfg := spell.DefaultConfig()
	cfg.MaxEditDistance = *maxEdit
	cfg.PrefixLength = *prefixLen
	engine, err := spell.Build(*outDir, words, bigrams, cfg)
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	log.Infof("Built engine: %d words indexed", engine.WordCount())
	for _, name := range []string{spell.WordsFile, spell.DeletesFile, spell.BigramsFile} {
		path := filepath.Join(*outDir, name)
		info, statErr := os.Stat(path)
		if statErr != nil {
			continue
		}
		fmt.Printf("  %s: %s\n", name, formatSize(info.Size()))
	}
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
