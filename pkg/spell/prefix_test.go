package spell

import "testing"

func prefixTestEngine(t *testing.T) *Engine {
	t.Helper()
	return newTestEngine(t, map[string]uint64{
		"apple":       20000,
		"application": 15000,
		"apply":       50,
		"banana":      500,
	}, nil, nil)
}

func TestPrefixLookupAdaptiveThreshold(t *testing.T) {
	engine := prefixTestEngine(t)

	// Two-letter prefix: floor 10000 keeps only the heavy hitters.
	got := engine.PrefixLookup("ap", 5)
	if len(got) != 2 || got[0].Term != "apple" || got[1].Term != "application" {
		t.Errorf("PrefixLookup(ap) = %v", got)
	}

	// Five letters: floor drops to 10, "apply" appears.
	got = engine.PrefixLookup("apply", 5)
	if len(got) != 1 || got[0].Term != "apply" {
		t.Errorf("PrefixLookup(apply) = %v", got)
	}

	// Four letters: floor 100 still excludes "apply".
	for _, item := range engine.PrefixLookup("appl", 5) {
		if item.Term == "apply" {
			t.Error("apply should fall under the length-4 floor")
		}
	}
}

func TestPrefixLookupExplicitFloor(t *testing.T) {
	engine := prefixTestEngine(t)
	got := engine.PrefixLookup("ap", 5, 10)
	if len(got) != 3 {
		t.Errorf("explicit floor should include apply: %v", got)
	}
}

func TestPrefixLookupLimitAndOrder(t *testing.T) {
	engine := prefixTestEngine(t)
	got := engine.PrefixLookup("ap", 1, 1)
	if len(got) != 1 || got[0].Term != "apple" {
		t.Errorf("limit 1 = %v, want the most frequent completion", got)
	}
	for _, item := range got {
		if item.Distance != 0 {
			t.Errorf("prefix results carry distance 0, got %+v", item)
		}
	}
}

func TestPrefixLookupHotCacheConsistency(t *testing.T) {
	engine := prefixTestEngine(t)
	first := engine.PrefixLookup("ap", 2, 10)
	second := engine.PrefixLookup("ap", 2, 10)
	if len(first) != len(second) {
		t.Fatalf("hot path changed the result count: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("hot path diverged at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestPrefixLookupEmpty(t *testing.T) {
	engine := prefixTestEngine(t)
	if got := engine.PrefixLookup("", 5); got != nil {
		t.Errorf("empty prefix = %v", got)
	}
	if got := engine.PrefixLookup("zzz", 5); len(got) != 0 {
		t.Errorf("no completions = %v", got)
	}
}
