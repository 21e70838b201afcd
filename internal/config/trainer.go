package config

import (
	"fmt"

	"github.com/verte-zerg/hdgdrill/internal/model"
)

// Defaults returns the stock trainer settings.
func Defaults() model.Config {
	return model.Config{
		Frequency45:     40,
		Frequency90:     40,
		Frequency180:    20,
		DelayMs:         1000,
		ShiftAfterTurns: 5,
		ShiftAmount:     15,
		InitialHeading:  360,
		RoundToNearest:  5,
	}
}

// Validate rejects settings the trainer cannot run with. Error messages name
// the CLI flag of the offending field.
func Validate(cfg model.Config) error {
	if cfg.Frequency45 < 0 || cfg.Frequency90 < 0 || cfg.Frequency180 < 0 {
		return fmt.Errorf("--freq45, --freq90 and --freq180 must be >= 0")
	}
	if cfg.DelayMs < 0 {
		return fmt.Errorf("--delay must be >= 0")
	}
	if cfg.ShiftAfterTurns <= 0 {
		return fmt.Errorf("--shift-after must be > 0")
	}
	if cfg.ShiftAmount < 0 || cfg.ShiftAmount > 180 {
		return fmt.Errorf("--shift-amount must be between 0 and 180")
	}
	if cfg.InitialHeading < 1 || cfg.InitialHeading > 360 {
		return fmt.Errorf("--initial-heading must be between 1 and 360")
	}
	if cfg.RoundToNearest <= 0 || cfg.RoundToNearest > 360 {
		return fmt.Errorf("--round-to must be between 1 and 360")
	}
	return nil
}
