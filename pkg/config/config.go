/*
Package config manages TOML config for symserve services.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/symserve/internal/utils"
	"github.com/bastiangx/symserve/pkg/spell"
)

// Config holds the entire config structure.
type Config struct {
	Engine      EngineConfig      `toml:"engine"`
	AutoCorrect AutoCorrectConfig `toml:"autocorrect"`
	Segment     SegmentConfig     `toml:"segment"`
	Server      ServerConfig      `toml:"server"`
}

// EngineConfig has the lookup engine options.
type EngineConfig struct {
	MaxEditDistance int    `toml:"max_edit_distance"`
	PrefixLength    int    `toml:"prefix_length"`
	KeyboardLayout  string `toml:"keyboard_layout"`
	RankingMode     string `toml:"ranking_mode"`
	CacheSize       int    `toml:"cache_size"`
}

// AutoCorrectConfig holds the confidence model knobs.
type AutoCorrectConfig struct {
	MinConfidence           float64 `toml:"min_confidence"`
	DistancePenaltyPerEdit  float64 `toml:"distance_penalty_per_edit"`
	AmbiguityMult           float64 `toml:"ambiguity_mult"`
	ShortWordThreshold      int     `toml:"short_word_threshold"`
	ShortWordPenaltyPerChar float64 `toml:"short_word_penalty_per_char"`
	HighFreqBonus           float64 `toml:"high_freq_bonus"`
	HighFreqThreshold       int64   `toml:"high_freq_threshold"`
	ValidWordMaxConfidence  float64 `toml:"valid_word_max_confidence"`
	ValidWordMinFreqRatio   float64 `toml:"valid_word_min_freq_ratio"`
}

// SegmentConfig holds the beam segmenter options.
type SegmentConfig struct {
	BeamWidth     int     `toml:"beam_width"`
	MaxSegmentLen int     `toml:"max_segment_len"`
	EditPenalty   float64 `toml:"edit_penalty"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit     int `toml:"max_limit"`
	DefaultLimit int `toml:"default_limit"`
	MaxInput     int `toml:"max_input"`
}

// DefaultConfig returns a Config mirroring the engine defaults.
func DefaultConfig() *Config {
	engine := spell.DefaultConfig()
	return &Config{
		Engine: EngineConfig{
			MaxEditDistance: engine.MaxEditDistance,
			PrefixLength:    engine.PrefixLength,
			RankingMode:     engine.Ranking.String(),
			CacheSize:       engine.CacheSize,
		},
		AutoCorrect: AutoCorrectConfig{
			MinConfidence:           engine.AutoCorrect.MinConfidence,
			DistancePenaltyPerEdit:  engine.AutoCorrect.DistancePenaltyPerEdit,
			AmbiguityMult:           engine.AutoCorrect.AmbiguityMult,
			ShortWordThreshold:      engine.AutoCorrect.ShortWordThreshold,
			ShortWordPenaltyPerChar: engine.AutoCorrect.ShortWordPenaltyPerChar,
			HighFreqBonus:           engine.AutoCorrect.HighFreqBonus,
			HighFreqThreshold:       int64(engine.AutoCorrect.HighFreqThreshold),
			ValidWordMaxConfidence:  engine.AutoCorrect.ValidWordMaxConfidence,
			ValidWordMinFreqRatio:   engine.AutoCorrect.ValidWordMinFreqRatio,
		},
		Segment: SegmentConfig{
			BeamWidth:     engine.Segment.BeamWidth,
			MaxSegmentLen: engine.Segment.MaxSegmentLen,
			EditPenalty:   engine.Segment.EditPenalty,
		},
		Server: ServerConfig{
			MaxLimit:     64,
			DefaultLimit: 10,
			MaxInput:     120,
		},
	}
}

// Spell converts the file representation into the engine's flat record.
func (c *Config) Spell() (spell.Config, error) {
	cfg := spell.DefaultConfig()
	cfg.MaxEditDistance = c.Engine.MaxEditDistance
	cfg.PrefixLength = c.Engine.PrefixLength
	cfg.KeyboardLayout = c.Engine.KeyboardLayout
	cfg.CacheSize = c.Engine.CacheSize
	switch c.Engine.RankingMode {
	case "", "distance_first":
		cfg.Ranking = spell.RankDistanceFirst
	case "balanced":
		cfg.Ranking = spell.RankBalanced
	case "frequency_boosted":
		cfg.Ranking = spell.RankFrequencyBoosted
	default:
		return cfg, fmt.Errorf("unknown ranking mode %q", c.Engine.RankingMode)
	}
	cfg.AutoCorrect = spell.AutoCorrectConfig{
		MinConfidence:           c.AutoCorrect.MinConfidence,
		DistancePenaltyPerEdit:  c.AutoCorrect.DistancePenaltyPerEdit,
		AmbiguityMult:           c.AutoCorrect.AmbiguityMult,
		ShortWordThreshold:      c.AutoCorrect.ShortWordThreshold,
		ShortWordPenaltyPerChar: c.AutoCorrect.ShortWordPenaltyPerChar,
		HighFreqBonus:           c.AutoCorrect.HighFreqBonus,
		HighFreqThreshold:       uint64(c.AutoCorrect.HighFreqThreshold),
		ValidWordMaxConfidence:  c.AutoCorrect.ValidWordMaxConfidence,
		ValidWordMinFreqRatio:   c.AutoCorrect.ValidWordMinFreqRatio,
	}
	cfg.Segment = spell.SegmentConfig{
		BeamWidth:     c.Segment.BeamWidth,
		MaxSegmentLen: c.Segment.MaxSegmentLen,
		EditPenalty:   c.Segment.EditPenalty,
	}
	return cfg, nil
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/symserve
// 2. ~/Library/Application Support/symserve (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "symserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "symserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/symserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}
	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. When the typed decode fails but the file
// is still valid TOML, the engine, server and segment sections are recovered
// one by one; a file with a syntax error yields all defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse salvages the integer and string keys of the engine, server
// and segment sections from a generic parse of the file. The autocorrect
// section and segment edit_penalty keep their defaults.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()
	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}
	if engineSection, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(engineSection, &config.Engine)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if segmentSection, ok := utils.ExtractSection(tempConfig, "segment"); ok {
		extractSegmentConfig(segmentSection, &config.Segment)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt64(data, "max_edit_distance"); ok {
		engine.MaxEditDistance = val
	}
	if val, ok := utils.ExtractInt64(data, "prefix_length"); ok {
		engine.PrefixLength = val
	}
	if val, ok := utils.ExtractString(data, "keyboard_layout"); ok {
		engine.KeyboardLayout = val
	}
	if val, ok := utils.ExtractString(data, "ranking_mode"); ok {
		engine.RankingMode = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		engine.CacheSize = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_input"); ok {
		server.MaxInput = val
	}
}

func extractSegmentConfig(data map[string]any, segment *SegmentConfig) {
	if val, ok := utils.ExtractInt64(data, "beam_width"); ok {
		segment.BeamWidth = val
	}
	if val, ok := utils.ExtractInt64(data, "max_segment_len"); ok {
		segment.MaxSegmentLen = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
