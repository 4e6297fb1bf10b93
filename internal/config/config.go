// Package config loads run settings from a YAML file, an optional .env
// file and QSB_* environment variables, in increasing priority.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/robhendrik/qseabattle/engine"
)

// Player strategy kinds.
const (
	PlayersAssisted = "pr"
	PlayersSimple   = "simple"
	PlayersMajority = "majority"
	PlayersRandom   = "random"
)

// TsirelsonBias is cos²(π/8), the best correlation quantum mechanics allows.
const TsirelsonBias = 0.8535533905932737

// EnvPrefix prefixes every environment override.
const EnvPrefix = "QSB_"

// Config is the full set of run settings.
type Config struct {
	Layout   LayoutConfig `yaml:"layout"`
	Players  string       `yaml:"players"`
	Bias     float64      `yaml:"bias"`
	Seed     uint64       `yaml:"seed"`
	Workers  int          `yaml:"workers"`
	LogLevel string       `yaml:"log_level"`
}

// LayoutConfig mirrors engine.Layout with YAML tags.
type LayoutConfig struct {
	FieldSize        int     `yaml:"field_size"`
	CommsSize        int     `yaml:"comms_size"`
	EnemyProbability float64 `yaml:"enemy_probability"`
	ChannelNoise     float64 `yaml:"channel_noise"`
	NumberOfGames    int     `yaml:"number_of_games"`
}

// Engine converts to the engine's layout type.
func (l LayoutConfig) Engine() engine.Layout {
	return engine.Layout{
		FieldSize:        l.FieldSize,
		CommsSize:        l.CommsSize,
		EnemyProbability: l.EnemyProbability,
		ChannelNoise:     l.ChannelNoise,
		NumberOfGames:    l.NumberOfGames,
	}
}

// Default returns the default configuration.
func Default() *Config {
	d := engine.DefaultLayout()
	return &Config{
		Layout: LayoutConfig{
			FieldSize:        d.FieldSize,
			CommsSize:        d.CommsSize,
			EnemyProbability: d.EnemyProbability,
			ChannelNoise:     d.ChannelNoise,
			NumberOfGames:    d.NumberOfGames,
		},
		Players:  PlayersAssisted,
		Bias:     TsirelsonBias,
		Seed:     1,
		Workers:  1,
		LogLevel: "info",
	}
}

// Load loads configuration from a file on top of the defaults. Unknown keys
// are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadDotEnv reads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from QSB_* variables found through lookup
// (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"FIELD_SIZE":      &c.Layout.FieldSize,
		"COMMS_SIZE":      &c.Layout.CommsSize,
		"NUMBER_OF_GAMES": &c.Layout.NumberOfGames,
		"WORKERS":         &c.Workers,
	}
	floats := map[string]*float64{
		"ENEMY_PROBABILITY": &c.Layout.EnemyProbability,
		"CHANNEL_NOISE":     &c.Layout.ChannelNoise,
		"BIAS":              &c.Bias,
	}
	strs := map[string]*string{
		"PLAYERS":   &c.Players,
		"LOG_LEVEL": &c.LogLevel,
	}

	for k, dst := range ints {
		if v, ok := lookup(EnvPrefix + k); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
			}
			*dst = n
		}
	}
	for k, dst := range floats {
		if v, ok := lookup(EnvPrefix + k); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
			}
			*dst = f
		}
	}
	for k, dst := range strs {
		if v, ok := lookup(EnvPrefix + k); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := lookup(EnvPrefix + "SEED"); ok {
		s, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", EnvPrefix, err)
		}
		c.Seed = s
	}
	return nil
}

// Validate checks the layout and run settings.
func (c *Config) Validate() error {
	if err := c.Layout.Engine().Validate(); err != nil {
		return err
	}
	switch c.Players {
	case PlayersAssisted:
		if c.Layout.CommsSize != 1 {
			return fmt.Errorf("players %q need comms_size 1, got %d: %w", c.Players, c.Layout.CommsSize, engine.ErrConfiguration)
		}
		if !(c.Bias >= 0 && c.Bias <= 1) {
			return fmt.Errorf("bias %v outside [0, 1]: %w", c.Bias, engine.ErrConfiguration)
		}
	case PlayersSimple, PlayersMajority, PlayersRandom:
	default:
		return fmt.Errorf("unknown players %q: %w", c.Players, engine.ErrConfiguration)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers = %d, want > 0: %w", c.Workers, engine.ErrConfiguration)
	}
	return nil
}

// Resolve is the full load sequence used by the CLI: defaults, then the
// YAML file, then .env files, then QSB_* variables, then override (command
// line flags; may be nil). The result is validated. An empty path means no
// file; a named file that does not exist is an error.
func Resolve(path string, override func(*Config), dotenv ...string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}
	if err := LoadDotEnv(dotenv...); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
