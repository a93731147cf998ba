package spell

import (
	"math"

	"github.com/bastiangx/symserve/pkg/store"
)

// distanceExceeded is the sentinel for "more than max edits apart".
const distanceExceeded = -1

// editDistance computes the Damerau-Levenshtein distance between a and b,
// returning a value in [0, max] or distanceExceeded. With a keyboard layout
// loaded the substitution cost follows the layout matrix (0.5 for direct
// neighbors, 0.75 two rings out) and the DP runs against a doubled threshold;
// the reported integer is the ceiling of the weighted sum capped at max, so
// an exact match still reports 0 while a single adjacent-key slip reports 1.
func editDistance(a, b string, max int, kbd *store.Keyboard) int {
	if max < 0 {
		return distanceExceeded
	}
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return capLen(len(rb), max)
	}
	if len(rb) == 0 {
		return capLen(len(ra), max)
	}
	if diff := len(ra) - len(rb); diff > max || -diff > max {
		return distanceExceeded
	}
	if kbd == nil {
		return osaDistance(ra, rb, max)
	}
	w := weightedOSADistance(ra, rb, float64(2*max), kbd)
	if w < 0 {
		return distanceExceeded
	}
	d := int(math.Ceil(w - 1e-9))
	if d > max {
		d = max
	}
	return d
}

func capLen(n, max int) int {
	if n > max {
		return distanceExceeded
	}
	return n
}

// osaDistance is the unweighted restricted-transposition distance with early
// termination once a whole DP row exceeds max.
func osaDistance(a, b []rune, max int) int {
	prevPrev := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			d := prev[j-1] + cost
			if v := prev[j] + 1; v < d {
				d = v
			}
			if v := curr[j-1] + 1; v < d {
				d = v
			}
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if v := prevPrev[j-2] + 1; v < d {
					d = v
				}
			}
			curr[j] = d
			if d < rowMin {
				rowMin = d
			}
		}
		if rowMin > max {
			return distanceExceeded
		}
		prevPrev, prev, curr = prev, curr, prevPrev
	}
	if d := prev[len(b)]; d <= max {
		return d
	}
	return distanceExceeded
}

// weightedOSADistance runs the same DP over float costs. Insertions,
// deletions and transpositions cost 1; substitutions follow the keyboard
// matrix. Returns -1 once a whole row exceeds max.
func weightedOSADistance(a, b []rune, max float64, kbd *store.Keyboard) float64 {
	prevPrev := make([]float64, len(b)+1)
	prev := make([]float64, len(b)+1)
	curr := make([]float64, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = float64(j)
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = float64(i)
		rowMin := curr[0]
		for j := 1; j <= len(b); j++ {
			d := prev[j-1] + kbd.SubstitutionCost(a[i-1], b[j-1])
			if v := prev[j] + 1; v < d {
				d = v
			}
			if v := curr[j-1] + 1; v < d {
				d = v
			}
			// Adjacent swaps stay a full edit even between neighboring keys.
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if v := prevPrev[j-2] + 1; v < d {
					d = v
				}
			}
			curr[j] = d
			if d < rowMin {
				rowMin = d
			}
		}
		if rowMin > max {
			return -1
		}
		prevPrev, prev, curr = prev, curr, prevPrev
	}
	if d := prev[len(b)]; d <= max {
		return d
	}
	return -1
}
