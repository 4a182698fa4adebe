// Package config loads the reflow engine's tunables: its safety-cap
// iteration bounds and logging settings. A Manager layers defaults first,
// then environment overrides, on top of github.com/knadh/koanf/v2.
package config

import (
	"fmt"

	"github.com/orbitalmfg/reflow/engine/core"
	"github.com/orbitalmfg/reflow/engine/schedule"
	"github.com/orbitalmfg/reflow/pkg/logger"
)

// Config is the engine's full runtime configuration.
type Config struct {
	Caps            schedule.Caps `koanf:"caps"`
	LogLevel        string        `koanf:"log_level"`
	LogJSON         bool          `koanf:"log_json"`
	LogBudget       string        `koanf:"log_budget"`
	logBudgetParsed *logBudget
}

// logBudget is the resolved form of Config.LogBudget, stored by Validate
// beside the raw string; Validate re-parses LogBudget on every call.
type logBudget struct {
	minutes int
}

// Default returns the built-in configuration: the safety-cap floors
// documented in schedule.DefaultCaps, info-level text logging, and no
// wall-clock logging budget.
func Default() *Config {
	return &Config{
		Caps:      schedule.DefaultCaps(),
		LogLevel:  string(logger.InfoLevel),
		LogJSON:   false,
		LogBudget: "",
	}
}

// Validate resolves the LogBudget human-duration string (if any) and
// confirms caps still satisfy the documented floors, returning a
// core.Error(core.CodeSafetyCap) otherwise.
func (c *Config) Validate() error {
	if c.LogBudget != "" {
		d, err := parseLogBudget(c.LogBudget)
		if err != nil {
			return err
		}
		c.logBudgetParsed = &logBudget{minutes: int(d.Minutes())}
	}
	if c.Caps.MaxShiftIterations < 1000 {
		return core.NewError(
			core.CodeSafetyCap,
			fmt.Sprintf("caps.max_shift_iterations must be >= 1000, got %d", c.Caps.MaxShiftIterations),
			nil,
		)
	}
	if c.Caps.MaxSlotSearchIterations < 1000 {
		return core.NewError(
			core.CodeSafetyCap,
			fmt.Sprintf("caps.max_slot_search_iterations must be >= 1000, got %d", c.Caps.MaxSlotSearchIterations),
			nil,
		)
	}
	if c.Caps.MaxNextShiftScanDays < 100 {
		return core.NewError(
			core.CodeSafetyCap,
			fmt.Sprintf("caps.max_next_shift_scan_days must be >= 100, got %d", c.Caps.MaxNextShiftScanDays),
			nil,
		)
	}
	return nil
}
