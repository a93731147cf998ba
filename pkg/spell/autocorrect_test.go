package spell

import "testing"

func TestAutoCorrectionConfidentFix(t *testing.T) {
	engine := newTestEngine(t, map[string]uint64{"receive": 500000}, nil, nil)

	correction, ok := engine.AutoCorrection("recieve")
	if !ok {
		t.Fatal("expected a correction")
	}
	if correction.Term != "receive" {
		t.Errorf("corrected to %q", correction.Term)
	}
	// One edit (-0.2) plus the high-frequency bonus (+0.05).
	want := 0.85
	if diff := correction.Confidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("confidence = %v, want %v", correction.Confidence, want)
	}
}

func TestAutoCorrectionAmbiguityDeclines(t *testing.T) {
	// Two near-tied candidates at the same distance plus a short input push
	// confidence far below the threshold.
	engine := newTestEngine(t, map[string]uint64{"cat": 1000, "bat": 999}, nil, nil)
	if c, ok := engine.AutoCorrection("aat"); ok {
		t.Errorf("ambiguous short word should not auto-correct, got %+v", c)
	}
}

func TestAutoCorrectionValidWordKept(t *testing.T) {
	// "teh" is in the dictionary: under default knobs the valid-word cap
	// (0.6) sits below min confidence (0.75), so it stays.
	words := map[string]uint64{"teh": 100, "the": 1000000}
	engine := newTestEngine(t, words, nil, nil)
	if c, ok := engine.AutoCorrection("teh"); ok {
		t.Errorf("valid word corrected under default knobs: %+v", c)
	}

	// Lowering the bar lets the massively more frequent neighbor through at
	// the capped confidence.
	relaxed := newTestEngine(t, words, nil, func(cfg *Config) {
		cfg.AutoCorrect.MinConfidence = 0.5
	})
	correction, ok := relaxed.AutoCorrection("teh")
	if !ok {
		t.Fatal("expected correction with relaxed threshold")
	}
	if correction.Term != "the" {
		t.Errorf("corrected to %q, want the", correction.Term)
	}
	if correction.Confidence != DefaultValidWordMaxConfidence {
		t.Errorf("confidence = %v, want cap %v", correction.Confidence, DefaultValidWordMaxConfidence)
	}
}

func TestAutoCorrectionValidWordNeedsRatio(t *testing.T) {
	// Alternative only 2x more frequent: below the ratio floor, no matter
	// the threshold.
	engine := newTestEngine(t, map[string]uint64{"teh": 1000, "the": 2000}, nil, func(cfg *Config) {
		cfg.AutoCorrect.MinConfidence = 0.1
	})
	if c, ok := engine.AutoCorrection("teh"); ok {
		t.Errorf("low-ratio valid word corrected: %+v", c)
	}
}

func TestAutoCorrectionNoSuggestions(t *testing.T) {
	engine := newTestEngine(t, map[string]uint64{"hello": 1000}, nil, nil)
	if _, ok := engine.AutoCorrection("qqqqqqqq"); ok {
		t.Error("gibberish should not correct")
	}
	if _, ok := engine.AutoCorrection(""); ok {
		t.Error("empty input should not correct")
	}
}

func TestAutoCorrectionDistancePenalty(t *testing.T) {
	// Two edits away: 1 - 0.4 + 0.05 = 0.65 misses the default threshold.
	engine := newTestEngine(t, map[string]uint64{"spelling": 200000}, nil, nil)
	if c, ok := engine.AutoCorrection("spellxnj"); ok {
		t.Errorf("two-edit fix should fall short of the threshold, got %+v", c)
	}

	eager := newTestEngine(t, map[string]uint64{"spelling": 200000}, nil, func(cfg *Config) {
		cfg.AutoCorrect.MinConfidence = 0.6
	})
	if _, ok := eager.AutoCorrection("spellxnj"); !ok {
		t.Error("lower threshold should accept the two-edit fix")
	}
}
