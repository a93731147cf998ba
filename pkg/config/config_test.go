package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/symserve/pkg/spell"
)

func TestDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	original := DefaultConfig()
	if err := SaveConfig(original, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *loaded != *original {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, original)
	}
}

func TestSpellConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.RankingMode = "frequency_boosted"
	cfg.Engine.KeyboardLayout = "qwerty"

	engineCfg, err := cfg.Spell()
	if err != nil {
		t.Fatalf("Spell: %v", err)
	}
	if engineCfg.Ranking != spell.RankFrequencyBoosted {
		t.Errorf("ranking = %v", engineCfg.Ranking)
	}
	if engineCfg.KeyboardLayout != "qwerty" {
		t.Errorf("layout = %q", engineCfg.KeyboardLayout)
	}
	if engineCfg.MaxEditDistance != spell.DefaultMaxEditDistance {
		t.Errorf("distance = %d", engineCfg.MaxEditDistance)
	}

	cfg.Engine.RankingMode = "fastest"
	if _, err := cfg.Spell(); err == nil {
		t.Error("unknown ranking mode should fail conversion")
	}
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if cfg.Engine.MaxEditDistance != spell.DefaultMaxEditDistance {
		t.Errorf("unexpected defaults: %+v", cfg.Engine)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestPartialParseRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	// Valid engine section followed by garbage.
	broken := "[engine]\nmax_edit_distance = 1\n\n[server\nmax_limit = oops\n"
	if err := os.WriteFile(path, []byte(broken), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig should recover, got %v", err)
	}
	// Whatever was salvageable applies; the rest stays at defaults.
	if cfg.Server.MaxLimit != 64 {
		t.Errorf("server defaults lost: %+v", cfg.Server)
	}
}
