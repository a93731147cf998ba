package spell

import "testing"

func TestLookupCompound(t *testing.T) {
	engine := newTestEngine(t, map[string]uint64{
		"hello": 1000, "world": 900, "wide": 500,
	}, nil, nil)

	item := engine.LookupCompound("helo wrld", CompoundOptions{MaxEditDistance: -1})
	if item.Term != "hello world" {
		t.Errorf("term = %q", item.Term)
	}
	if item.Distance != 2 {
		t.Errorf("distance = %d, want 2", item.Distance)
	}
	if item.Count != 900 {
		t.Errorf("count = %d, want the weakest token's 900", item.Count)
	}
}

func TestLookupCompoundUnknownToken(t *testing.T) {
	engine := newTestEngine(t, map[string]uint64{"hello": 1000}, nil, nil)

	item := engine.LookupCompound("helo qqqqqq", CompoundOptions{MaxEditDistance: -1})
	if item.Term != "hello qqqqqq" {
		t.Errorf("term = %q", item.Term)
	}
	// One real edit plus max+1 for the unmatchable token.
	if want := 1 + engine.Config().MaxEditDistance + 1; item.Distance != want {
		t.Errorf("distance = %d, want %d", item.Distance, want)
	}
	if item.Count != 0 {
		t.Errorf("count = %d, want 0 with an unknown token", item.Count)
	}
}

func TestLookupCompoundCasing(t *testing.T) {
	engine := newTestEngine(t, map[string]uint64{"hello": 1000, "world": 900}, nil, nil)

	item := engine.LookupCompound("Helo WRLD", CompoundOptions{MaxEditDistance: -1, TransferCasing: true})
	if item.Term != "Hello WORLD" {
		t.Errorf("term = %q", item.Term)
	}
}

func TestLookupCompoundEmpty(t *testing.T) {
	engine := newTestEngine(t, map[string]uint64{"hello": 1000}, nil, nil)
	if item := engine.LookupCompound("   ", CompoundOptions{MaxEditDistance: -1}); item.Term != "" {
		t.Errorf("whitespace input = %+v", item)
	}
}
