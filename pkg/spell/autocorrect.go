package spell

import (
	"strings"
	"unicode/utf8"
)

// AutoCorrection decides whether word should be replaced and with what
// confidence. The confidence model starts from the ranked All-verbosity
// suggestions: unknown words lose confidence per edit, for ambiguity between
// near-tied suggestions and for shortness, and gain a little for very common
// replacements. Words already in the dictionary are only replaced by a
// distance-1 alternative that is massively more frequent — and under the
// default knobs the valid-word confidence cap sits below the acceptance
// threshold, so valid words are left alone.
// The optional minConfidence overrides the configured acceptance threshold
// for this call only.
func (e *Engine) AutoCorrection(word string, minConfidence ...float64) (Correction, bool) {
	word = strings.ToLower(word)
	if word == "" {
		return Correction{}, false
	}
	cfg := e.cfg.AutoCorrect
	if len(minConfidence) > 0 {
		cfg.MinConfidence = minConfidence[0]
	}
	suggestions := e.Lookup(word, DefaultLookupOptions(VerbosityAll))
	if len(suggestions) == 0 {
		return Correction{}, false
	}

	if ownCount := e.words.Get(word); ownCount > 0 {
		return e.correctValidWord(word, ownCount, suggestions, cfg)
	}

	top := suggestions[0]
	confidence := 1.0 - cfg.DistancePenaltyPerEdit*float64(top.Distance)

	for _, s := range suggestions[1:] {
		if s.Distance != top.Distance || s.Term == top.Term {
			continue
		}
		ratio := float64(top.Count) / float64(top.Count+s.Count)
		confidence -= (1 - ratio) * cfg.AmbiguityMult
		break
	}

	if n := utf8.RuneCountInString(word); n < cfg.ShortWordThreshold {
		confidence -= float64(cfg.ShortWordThreshold-n) * cfg.ShortWordPenaltyPerChar
	}
	if top.Count > cfg.HighFreqThreshold {
		confidence += cfg.HighFreqBonus
	}
	confidence = clamp01(confidence)
	if confidence < cfg.MinConfidence {
		return Correction{}, false
	}
	return Correction{Term: top.Term, Confidence: confidence}, true
}

// correctValidWord handles the already-in-dictionary branch: the replacement
// must be one edit away and at least ValidWordMinFreqRatio times more common.
func (e *Engine) correctValidWord(word string, ownCount uint64, suggestions []SuggestItem, cfg AutoCorrectConfig) (Correction, bool) {
	for _, s := range suggestions {
		if s.Distance < 1 || s.Term == word {
			continue
		}
		ratio := float64(s.Count) / float64(maxU64(1, ownCount))
		if s.Distance == 1 && ratio >= cfg.ValidWordMinFreqRatio {
			confidence := 0.3 + 0.003*ratio
			if confidence > cfg.ValidWordMaxConfidence {
				confidence = cfg.ValidWordMaxConfidence
			}
			if confidence >= cfg.MinConfidence {
				return Correction{Term: s.Term, Confidence: confidence}, true
			}
		}
		break
	}
	return Correction{}, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
