package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env is the environment-provided configuration. Flags override it.
type Env struct {
	Workers      int           `env:"REVERSER_WORKERS" envDefault:"4"`
	RateLimitRPS float64       `env:"REVERSER_RATE_LIMIT_RPS" envDefault:"0"`
	ItemTimeout  time.Duration `env:"REVERSER_ITEM_TIMEOUT" envDefault:"5s"`
	FailFast     bool          `env:"REVERSER_FAIL_FAST" envDefault:"false"`
	Format       string        `env:"REVERSER_FORMAT"`
	Automaton    string        `env:"REVERSER_AUTOMATON"`
	ConfigPath   string        `env:"REVERSER_CONFIG"`
	LogPrefix    string        `env:"REVERSER_LOG_PREFIX"`
}

// PromptEnv is the subset of the environment interactive mode reads.
type PromptEnv struct {
	ConfigPath string `env:"REVERSER_CONFIG"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := ParseEnv(&cfg); err != nil {
		return Env{}, err
	}
	return cfg, nil
}
