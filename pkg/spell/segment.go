package spell

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segmenter constants beyond the configurable knobs.
const (
	// noBigramLogProb is reported when segmentation cannot run at all.
	noBigramLogProb = -50.0
	// terminalFallbackLogProb lets an exact final segment through a missing
	// bigram, at a price.
	terminalFallbackLogProb = -5.0
	// firstWordLengthBonus per rune rewards long exact first words, so
	// "together" is not split into "to get her" on a whim.
	firstWordLengthBonus = 0.5
	// maxSegmentCandidates bounds corrections considered per segment.
	maxSegmentCandidates = 3
	// minCorrectableSegment is the shortest segment worth running a fuzzy
	// lookup on; below it only exact matches count.
	minCorrectableSegment = 3
	// singleWordMargin: a segmentation must beat a valid single word's score
	// by this factor (per word, error-free) to win.
	singleWordMargin = 0.8
)

// SegmentOptions parameterizes Segment.
type SegmentOptions struct {
	// MaxEditDistance as in LookupOptions; negative means engine default.
	MaxEditDistance int
	BeamWidth       int
	MaxSegmentLen   int
}

// DefaultSegmentOptions returns the standard beam parameters.
func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{MaxEditDistance: -1, BeamWidth: DefaultBeamWidth, MaxSegmentLen: DefaultMaxSegmentLen}
}

// hypothesis is one beam entry: a partial segmentation with per-segment
// corrections applied.
type hypothesis struct {
	words    []string
	segments []string
	pos      int
	distance int
	logProb  float64
}

func (h hypothesis) score(editPenalty float64) float64 {
	return h.logProb - float64(h.distance)*editPenalty
}

// segCandidate is one way to read a segment: as-is or corrected.
type segCandidate struct {
	word     string
	distance int
	count    uint64
}

// Segment splits a concatenated, possibly misspelled string into words,
// correcting segments as it goes. A beam of hypotheses advances through the
// input; continuations must be backed by the bigram store, which is what
// keeps degenerate single-letter splittings out of the beam. Without a
// bigram store the input comes back unchanged.
func (e *Engine) Segment(phrase string, opts SegmentOptions) Composition {
	input := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, phrase)
	if input == "" {
		return Composition{}
	}
	if e.bigrams == nil {
		return Composition{Segmented: phrase, Corrected: phrase, Distance: 0, LogProb: noBigramLogProb}
	}

	maxDist := opts.MaxEditDistance
	if maxDist < 0 || maxDist > e.cfg.MaxEditDistance {
		maxDist = e.cfg.MaxEditDistance
	}
	beamWidth := opts.BeamWidth
	if beamWidth <= 0 {
		beamWidth = e.cfg.Segment.BeamWidth
	}
	maxSegLen := opts.MaxSegmentLen
	if maxSegLen <= 0 {
		maxSegLen = e.cfg.Segment.MaxSegmentLen
	}
	editPenalty := e.cfg.Segment.EditPenalty

	runes := []rune(input)
	n := len(runes)
	beam := []hypothesis{{}}

	for {
		live := false
		for _, h := range beam {
			if h.pos < n {
				live = true
				break
			}
		}
		if !live || len(beam) == 0 {
			break
		}

		var next []hypothesis
		for _, h := range beam {
			if h.pos >= n {
				next = append(next, h)
				continue
			}
			remaining := n - h.pos
			limit := maxSegLen
			if remaining < limit {
				limit = remaining
			}
			for length := 1; length <= limit; length++ {
				seg := string(runes[h.pos : h.pos+length])
				for _, cand := range e.segmentCandidates(seg, length, maxDist) {
					if nh, ok := e.extendHypothesis(h, seg, cand, length, remaining); ok {
						next = append(next, nh)
					}
				}
			}
		}

		sort.SliceStable(next, func(i, j int) bool {
			return next[i].score(editPenalty) > next[j].score(editPenalty)
		})
		if len(next) > beamWidth {
			next = next[:beamWidth]
		}
		beam = next
	}

	var best *hypothesis
	for i := range beam {
		if beam[i].pos < n {
			continue
		}
		if best == nil || beam[i].score(editPenalty) > best.score(editPenalty) {
			best = &beam[i]
		}
	}
	if best == nil {
		return Composition{Segmented: input, Corrected: input, Distance: 0, LogProb: noBigramLogProb}
	}

	// A valid single word beats the segmentation unless splitting is clearly
	// better: multiple error-free words averaging well above the single score.
	if count := e.words.Get(input); count > 0 {
		singleScore := math.Log(float64(count) + 1)
		segmentedAvg := best.logProb / float64(len(best.words))
		clearlyBetter := len(best.words) > 1 && singleScore < segmentedAvg*singleWordMargin && best.distance == 0
		if !clearlyBetter {
			return Composition{Segmented: input, Corrected: input, Distance: 0, LogProb: singleScore}
		}
	}

	return Composition{
		Segmented: strings.Join(best.segments, " "),
		Corrected: strings.Join(best.words, " "),
		Distance:  best.distance,
		LogProb:   best.logProb,
	}
}

// segmentCandidates lists up to maxSegmentCandidates readings of seg, best
// first. A segment no reading covers still yields itself as a last resort so
// the beam can step over out-of-vocabulary runs.
func (e *Engine) segmentCandidates(seg string, segLen, maxDist int) []segCandidate {
	var candidates []segCandidate
	if count := e.words.Get(seg); count > 0 {
		candidates = append(candidates, segCandidate{word: seg, distance: 0, count: count})
	}
	if segLen >= minCorrectableSegment {
		for _, s := range e.Lookup(seg, LookupOptions{Verbosity: VerbosityClosest, MaxEditDistance: maxDist}) {
			if s.Term == seg {
				continue
			}
			if d := utf8.RuneCountInString(s.Term) - segLen; d > maxDist || -d > maxDist {
				continue
			}
			candidates = append(candidates, segCandidate{word: s.Term, distance: s.Distance, count: s.Count})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].count > candidates[j].count
	})
	if len(candidates) > maxSegmentCandidates {
		candidates = candidates[:maxSegmentCandidates]
	}
	if len(candidates) == 0 {
		candidates = append(candidates, segCandidate{word: seg, distance: maxDist + 1, count: 0})
	}
	return candidates
}

// extendHypothesis gates cand behind the bigram store and accumulates the
// log-probability. First words score by their own frequency with a length
// bonus for long exact matches; continuations need a live bigram, except an
// exact final segment which passes at a flat penalty.
func (e *Engine) extendHypothesis(h hypothesis, seg string, cand segCandidate, segLen, remaining int) (hypothesis, bool) {
	var logProb float64
	if len(h.words) > 0 {
		prev := h.words[len(h.words)-1]
		bigramFreq := e.bigrams.Get(prev + " " + cand.word)
		switch {
		case bigramFreq > 0:
			logProb = math.Log(float64(bigramFreq) + 1)
		case segLen == remaining && cand.distance == 0:
			logProb = terminalFallbackLogProb
		default:
			return hypothesis{}, false
		}
	} else {
		logProb = math.Log(float64(cand.count) + 1)
		if cand.distance == 0 && segLen > 3 {
			logProb += firstWordLengthBonus * float64(segLen)
		}
	}

	words := make([]string, len(h.words)+1)
	copy(words, h.words)
	words[len(h.words)] = cand.word
	segments := make([]string, len(h.segments)+1)
	copy(segments, h.segments)
	segments[len(h.segments)] = seg

	return hypothesis{
		words:    words,
		segments: segments,
		pos:      h.pos + segLen,
		distance: h.distance + cand.distance,
		logProb:  h.logProb + logProb,
	}, true
}
