package spell

import (
	"strings"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
)

// LookupOptions parameterizes a single lookup call.
type LookupOptions struct {
	Verbosity Verbosity
	// MaxEditDistance overrides the engine maximum for this call; negative
	// means "use the engine default". Values above the engine maximum clamp.
	MaxEditDistance int
	// IncludeUnknown appends the input itself (distance max+1, count 0) when
	// nothing else survives.
	IncludeUnknown bool
	// TransferCasing lower-cases the input for matching and maps each result
	// back onto the input's casing class.
	TransferCasing bool
	// PreviousWord enables bigram-aware ranking: collection widens to every
	// candidate and the scorer may promote a context match over the exact one.
	PreviousWord string
}

// DefaultLookupOptions returns options for the given verbosity with the
// engine's distance bound.
func DefaultLookupOptions(v Verbosity) LookupOptions {
	return LookupOptions{Verbosity: v, MaxEditDistance: -1}
}

// Lookup returns ranked spelling suggestions for phrase.
//
// Candidates come from comparing the phrase's prefix deletes against the
// delete index; survivors are filtered by edit distance and shaped by the
// verbosity policy, then ranked by the engine's scoring mode.
func (e *Engine) Lookup(phrase string, opts LookupOptions) []SuggestItem {
	if phrase == "" {
		return nil
	}
	original := phrase
	if opts.TransferCasing {
		phrase = strings.ToLower(phrase)
	}
	maxDist := opts.MaxEditDistance
	if maxDist < 0 || maxDist > e.cfg.MaxEditDistance {
		maxDist = e.cfg.MaxEditDistance
	}
	prev := strings.ToLower(opts.PreviousWord)

	var results []SuggestItem
	exactCount := e.words.Get(phrase)
	if exactCount > 0 {
		results = append(results, SuggestItem{Term: phrase, Distance: 0, Count: exactCount})
		if opts.Verbosity != VerbosityAll && prev == "" {
			return e.finish(results, phrase, original, maxDist, opts)
		}
	}
	if maxDist == 0 {
		return e.finish(results, phrase, original, maxDist, opts)
	}

	currentMax := maxDist
	if exactCount > 0 && prev != "" && currentMax > 1 {
		// A distance-2 alternative cannot unseat an exact match by context.
		currentMax = 1
	}

	phraseRunes := []rune(phrase)
	phraseLen := len(phraseRunes)
	prefixLen := phraseLen
	if prefixLen > e.cfg.PrefixLength {
		prefixLen = e.cfg.PrefixLength
	}

	considered := mapset.NewThreadUnsafeSet[string]()
	considered.Add(phrase)
	consideredDeletes := mapset.NewThreadUnsafeSet[string]()
	seed := string(phraseRunes[:prefixLen])
	consideredDeletes.Add(seed)
	queue := []string{seed}

	collectAll := opts.Verbosity == VerbosityAll || prev != ""

	for qi := 0; qi < len(queue); qi++ {
		cand := queue[qi]
		candRunes := []rune(cand)
		candLen := len(candRunes)
		if prefixLen-candLen > currentMax {
			continue
		}

		for _, idx := range e.deletes.Get(cand) {
			term, count, ok := e.words.At(int(idx))
			if !ok {
				continue
			}
			if term == phrase {
				continue
			}
			termLen := utf8.RuneCountInString(term)
			if d := termLen - phraseLen; d > currentMax || -d > currentMax {
				continue
			}
			// The delete key must be a genuine subsequence of the suggestion.
			if termLen < candLen || (termLen == candLen && term != cand) {
				continue
			}
			if !considered.Add(term) {
				continue
			}
			dist := editDistance(phrase, term, currentMax, e.kbd)
			if dist < 0 || dist > currentMax {
				continue
			}
			item := SuggestItem{Term: term, Distance: dist, Count: count}

			if collectAll {
				results = append(results, item)
				continue
			}
			switch opts.Verbosity {
			case VerbosityTop:
				if len(results) == 0 {
					results = append(results, item)
				} else if best := results[0]; dist < best.Distance ||
					(dist == best.Distance && count > best.Count) {
					results[0] = item
				}
				if dist < currentMax {
					currentMax = dist
				}
			case VerbosityClosest:
				if len(results) == 0 || dist < results[0].Distance {
					results = results[:0]
					results = append(results, item)
					currentMax = dist
				} else if dist == results[0].Distance {
					results = append(results, item)
				}
			}
		}

		if candLen <= e.cfg.PrefixLength && prefixLen-candLen < maxDist {
			for i := range candRunes {
				child := string(candRunes[:i]) + string(candRunes[i+1:])
				if consideredDeletes.Add(child) {
					queue = append(queue, child)
				}
			}
		}
	}

	return e.finish(results, phrase, original, maxDist, opts)
}

// finish ranks, applies the bigram-aware truncation, the include-unknown
// fallback, and casing transfer.
func (e *Engine) finish(results []SuggestItem, phrase, original string, maxDist int, opts LookupOptions) []SuggestItem {
	prev := strings.ToLower(opts.PreviousWord)
	e.rank(results, prev)
	if prev != "" && opts.Verbosity == VerbosityTop && len(results) > 1 {
		results = results[:1]
	}
	if len(results) == 0 && opts.IncludeUnknown {
		results = append(results, SuggestItem{Term: phrase, Distance: maxDist + 1, Count: 0})
	}
	if opts.TransferCasing {
		for i := range results {
			results[i].Term = TransferCase(original, results[i].Term)
		}
	}
	return results
}
