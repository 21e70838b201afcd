// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/hdgdrill/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Trainer TrainerConfig `toml:"trainer"`
}

// TrainerConfig maps trainer settings. Nil fields were not set in the file.
type TrainerConfig struct {
	Frequency45     *int `toml:"freq45"`
	Frequency90     *int `toml:"freq90"`
	Frequency180    *int `toml:"freq180"`
	DelayMs         *int `toml:"delay-ms"`
	ShiftAfterTurns *int `toml:"shift-after"`
	ShiftAmount     *int `toml:"shift-amount"`
	InitialHeading  *int `toml:"initial-heading"`
	RoundToNearest  *int `toml:"round-to"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply overlays the values set in the file onto cfg.
func (t TrainerConfig) Apply(cfg model.Config) model.Config {
	set := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.Frequency45, t.Frequency45)
	set(&cfg.Frequency90, t.Frequency90)
	set(&cfg.Frequency180, t.Frequency180)
	set(&cfg.DelayMs, t.DelayMs)
	set(&cfg.ShiftAfterTurns, t.ShiftAfterTurns)
	set(&cfg.ShiftAmount, t.ShiftAmount)
	set(&cfg.InitialHeading, t.InitialHeading)
	set(&cfg.RoundToNearest, t.RoundToNearest)
	return cfg
}
