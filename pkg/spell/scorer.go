package spell

import (
	"math"
	"sort"
)

// Scoring constants. The exact-match bonus is deliberately a hair above zero:
// it breaks ties in favor of the typed word but loses to strong bigram
// context under the blended modes.
const (
	exactMatchBonus = 0.01
	distanceTier    = 1e9
	// bigramTieWeight sits far below distanceTier so a bigram boost can only
	// reorder suggestions inside one distance tier, never across tiers.
	bigramTieWeight = 10.0

	balancedDistanceWeight  = 0.5
	balancedFrequencyWeight = 0.3
	balancedBigramWeight    = 0.2

	boostedDistanceWeight  = 0.3
	boostedFrequencyWeight = 0.4
	boostedBigramWeight    = 0.3
)

// rank orders items in place: ascending distance first under DistanceFirst,
// then descending score, ties by descending count then ascending term. Without a previous word the exact match is pinned
// first regardless of mode.
func (e *Engine) rank(items []SuggestItem, prev string) {
	if len(items) < 2 {
		return
	}
	type scored struct {
		item  SuggestItem
		score float64
	}
	arr := make([]scored, len(items))
	for i, it := range items {
		arr[i] = scored{item: it, score: e.score(it, prev)}
	}
	distanceFirst := e.cfg.Ranking == RankDistanceFirst
	sort.SliceStable(arr, func(i, j int) bool {
		// Counts or bigram boosts past the tier size must not cross tiers.
		if distanceFirst && arr[i].item.Distance != arr[j].item.Distance {
			return arr[i].item.Distance < arr[j].item.Distance
		}
		if arr[i].score != arr[j].score {
			return arr[i].score > arr[j].score
		}
		if arr[i].item.Count != arr[j].item.Count {
			return arr[i].item.Count > arr[j].item.Count
		}
		return arr[i].item.Term < arr[j].item.Term
	})
	for i := range arr {
		items[i] = arr[i].item
	}
	if prev == "" {
		for i, it := range items {
			if it.Distance == 0 {
				if i > 0 {
					pinned := items[i]
					copy(items[1:i+1], items[:i])
					items[0] = pinned
				}
				break
			}
		}
	}
}

// score computes the rank value for one suggestion under the engine mode.
func (e *Engine) score(it SuggestItem, prev string) float64 {
	bigramFreq := e.bigramCount(prev, it.Term)
	if e.cfg.Ranking == RankDistanceFirst {
		tier := float64(e.cfg.MaxEditDistance+1-it.Distance) * distanceTier
		return tier + float64(it.Count) + float64(bigramFreq)*bigramTieWeight
	}

	distWeight, freqWeight, biWeight := balancedDistanceWeight, balancedFrequencyWeight, balancedBigramWeight
	if e.cfg.Ranking == RankFrequencyBoosted {
		distWeight, freqWeight, biWeight = boostedDistanceWeight, boostedFrequencyWeight, boostedBigramWeight
	}

	normFreq := 0.0
	if e.maxCount > 0 {
		normFreq = math.Log10(float64(it.Count)+1) / math.Log10(float64(e.maxCount)+1)
	}
	normBigram := 0.0
	if bigramFreq > 0 && e.maxBigram > 0 {
		normBigram = math.Log10(float64(bigramFreq)+1) / math.Log10(float64(e.maxBigram)+1)
	}
	maxEdit := e.cfg.MaxEditDistance
	if maxEdit < 1 {
		maxEdit = 1
	}
	distPenalty := float64(it.Distance) / float64(maxEdit)

	score := (1-distPenalty)*distWeight + normFreq*freqWeight + normBigram*biWeight
	if it.Distance == 0 {
		score += exactMatchBonus
	}
	return score
}
