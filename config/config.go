// Package config holds round configuration: the recognised options of
// spec.md §6, their defaults, and the validation that produces a
// ConfigError.
package config

import (
	"fmt"

	"corewar/point"
)

// Config is a round's tunable parameters. The zero value is not valid;
// use Default() and override fields as needed.
type Config struct {
	CoreSizeX    int
	CoreSizeY    int
	Cycles       int
	MaxProcesses int
	MaxLength    int
	MinDistance  int
	RNGSeed      int64
	SeedSet      bool
}

// Default returns the spec.md §6 defaults: an 8000-cell 1D core, an
// 80000-cycle tie cap, up to 8000 processes per warrior, warriors of at
// most 100 instructions, and a placement separation of 100 cells.
func Default() Config {
	return Config{
		CoreSizeX:    8000,
		CoreSizeY:    1,
		Cycles:       80000,
		MaxProcesses: 8000,
		MaxLength:    100,
		MinDistance:  100,
	}
}

// Extent returns the core dimensions as a Point.
func (c Config) Extent() point.Point { return point.Point{X: c.CoreSizeX, Y: c.CoreSizeY} }

// ConfigError reports an invalid numeric configuration value, per
// spec.md §7.
type ConfigError struct {
	Field   string
	Value   int
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s=%d: %s", e.Field, e.Value, e.Message)
}

// Validate rejects non-positive sizes and negative counts, per spec.md §7.
func (c Config) Validate() error {
	type check struct {
		field string
		value int
		ok    bool
	}
	for _, chk := range []check{
		{"core_size_x", c.CoreSizeX, c.CoreSizeX > 0},
		{"core_size_y", c.CoreSizeY, c.CoreSizeY > 0},
		{"cycles", c.Cycles, c.Cycles > 0},
		{"max_processes", c.MaxProcesses, c.MaxProcesses > 0},
		{"max_length", c.MaxLength, c.MaxLength > 0},
		{"min_distance", c.MinDistance, c.MinDistance >= 0},
	} {
		if !chk.ok {
			msg := "must be positive"
			if chk.field == "min_distance" {
				msg = "must not be negative"
			}
			return &ConfigError{Field: chk.field, Value: chk.value, Message: msg}
		}
	}
	if c.MaxLength > c.CoreSizeX*c.CoreSizeY {
		return &ConfigError{Field: "max_length", Value: c.MaxLength, Message: "cannot exceed core size"}
	}
	return nil
}
