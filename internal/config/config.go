// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/necroqol/internal/economy"
	"github.com/roach88/necroqol/internal/extension"
	"github.com/roach88/necroqol/internal/killtally"
)

// Config is the process configuration.
type Config struct {
	ExtensionModule    string  `env:"NECROQOL_EXTENSION_MODULE" envDefault:"TOR_Core"`
	KillBonus          float64 `env:"NECROQOL_KILL_BONUS" envDefault:"5"`
	CasualtyRate       float64 `env:"NECROQOL_CASUALTY_RATE" envDefault:"1"`
	CountIncapacitated bool    `env:"NECROQOL_COUNT_INCAPACITATED" envDefault:"false"`
	PatchMatcher       string  `env:"NECROQOL_PATCH_MATCHER"`
	LogPath            string  `env:"NECROQOL_LOG_PATH"`
	LogLevel           string  `env:"NECROQOL_LOG_LEVEL" envDefault:"info"`
	JournalPath        string  `env:"NECROQOL_JOURNAL_PATH"`
	PollLimit          int     `env:"NECROQOL_POLL_LIMIT" envDefault:"0"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Default returns the configuration of an empty environment.
func Default() Config {
	return Config{
		ExtensionModule: extension.DefaultModuleName,
		KillBonus:       economy.DefaultKillBonus,
		CasualtyRate:    economy.DefaultCasualtyRate,
		LogLevel:        "info",
	}
}

// KillMode maps CountIncapacitated onto the kill tally mode.
func (c Config) KillMode() killtally.Mode {
	if c.CountIncapacitated {
		return killtally.ModeIncludeIncapacitated
	}
	return killtally.ModeHardKill
}

// Economy builds the fallback economy engine. Negative rates clamp to zero.
func (c Config) Economy() *economy.Engine {
	e := economy.NewEngine()
	e.KillBonus = max(c.KillBonus, 0)
	e.CasualtyRate = max(c.CasualtyRate, 0)
	return e
}
