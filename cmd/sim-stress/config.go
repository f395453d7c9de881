package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Loop       LoopConfig       `toml:"loop"`
	Population PopulationConfig `toml:"population"`
	Logging    LoggingConfig    `toml:"logging"`
}

type LoopConfig struct {
	FixedStep  float64       `toml:"fixed_step"`   // seconds of simulation per logic step
	MaxCatchUp int           `toml:"max_catch_up"` // steps drained per tick, 0 = uncapped
	TickRate   time.Duration `toml:"tick_rate"`    // host tick interval
}

type PopulationConfig struct {
	Entities int   `toml:"entities"`
	Seed     int64 `toml:"seed"` // 0 = derive from clock
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// LoadConfig reads a TOML run configuration over the defaults. An empty
// path returns the defaults untouched.
func LoadConfig(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Loop: LoopConfig{
			FixedStep:  1.0 / 60.0,
			MaxCatchUp: 8,
			TickRate:   4 * time.Millisecond,
		},
		Population: PopulationConfig{
			Entities: 10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
