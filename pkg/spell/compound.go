package spell

import (
	"math"
	"strings"
)

// CompoundOptions parameterizes LookupCompound.
type CompoundOptions struct {
	// MaxEditDistance as in LookupOptions; negative means engine default.
	MaxEditDistance int
	TransferCasing  bool
}

// LookupCompound corrects a whitespace-split phrase token by token: each
// token takes its Top suggestion and the corrected terms are rejoined with
// single spaces. The reported distance is the sum of per-token distances,
// counting max+1 for tokens with no suggestion at all. Tokens are never
// merged or split. The result count is the minimum per-token count, the
// weakest link of the phrase (0 when any token stayed unknown).
func (e *Engine) LookupCompound(phrase string, opts CompoundOptions) SuggestItem {
	tokens := strings.Fields(phrase)
	if len(tokens) == 0 {
		return SuggestItem{}
	}
	maxDist := opts.MaxEditDistance
	if maxDist < 0 || maxDist > e.cfg.MaxEditDistance {
		maxDist = e.cfg.MaxEditDistance
	}

	parts := make([]string, 0, len(tokens))
	distance := 0
	minCount := uint64(math.MaxUint64)
	unknown := false
	for _, token := range tokens {
		suggestions := e.Lookup(token, LookupOptions{
			Verbosity:       VerbosityTop,
			MaxEditDistance: maxDist,
			TransferCasing:  opts.TransferCasing,
		})
		if len(suggestions) == 0 {
			parts = append(parts, token)
			distance += maxDist + 1
			unknown = true
			continue
		}
		top := suggestions[0]
		parts = append(parts, top.Term)
		distance += top.Distance
		if top.Count < minCount {
			minCount = top.Count
		}
	}
	if unknown {
		minCount = 0
	}
	return SuggestItem{Term: strings.Join(parts, " "), Distance: distance, Count: minCount}
}
