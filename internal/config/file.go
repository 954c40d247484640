package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/palantir/alphabet-reverser/internal/session"
)

// File is the optional YAML configuration file.
//
// Example:
//
//	prompts:
//	  alphabet: "Alphabet: "
//	  length_limit: "Length limit: "
//	  result: "Reversed: "
//	batch:
//	  workers: 8
//	  rate_limit_rps: 100
//	  fail_fast: true
//	  format: jsonl
//	  automaton: contains-00.json
type File struct {
	Prompts FilePrompts `yaml:"prompts"`
	Batch   FileBatch   `yaml:"batch"`
}

// FilePrompts overrides the interactive prompt text. Empty values keep the
// Spanish defaults.
type FilePrompts struct {
	Alphabet    string `yaml:"alphabet"`
	LengthLimit string `yaml:"length_limit"`
	Result      string `yaml:"result"`
}

// FileBatch holds batch defaults. Fields are pointers so an absent key does
// not override env defaults.
type FileBatch struct {
	Workers      *int     `yaml:"workers"`
	RateLimitRPS *float64 `yaml:"rate_limit_rps"`
	FailFast     *bool    `yaml:"fail_fast"`
	Format       *string  `yaml:"format"`
	Automaton    *string  `yaml:"automaton"`
}

// LoadFile reads and parses a YAML config file. An empty path yields a zero File.
func LoadFile(path string) (File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return File{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("parse config YAML: %w", err)
	}
	if f.Batch.Workers != nil && *f.Batch.Workers < 0 {
		return File{}, fmt.Errorf("config batch.workers must be >= 0, got %d", *f.Batch.Workers)
	}
	return f, nil
}

// SessionPrompts converts the prompt overrides, leaving unset ones to session defaults.
func (f File) SessionPrompts() session.Prompts {
	return session.Prompts{
		Alphabet:    f.Prompts.Alphabet,
		LengthLimit: f.Prompts.LengthLimit,
		Result:      f.Prompts.Result,
	}.WithDefaults()
}

// Merge applies file values that env did not set explicitly.
//
// The file sits below the environment in precedence, so a value only lands
// when the matching variable is absent from the process environment.
func (f File) Merge(e Env) Env {
	if f.Batch.Workers != nil && !isSet("REVERSER_WORKERS") {
		e.Workers = *f.Batch.Workers
	}
	if f.Batch.RateLimitRPS != nil && !isSet("REVERSER_RATE_LIMIT_RPS") {
		e.RateLimitRPS = *f.Batch.RateLimitRPS
	}
	if f.Batch.FailFast != nil && !isSet("REVERSER_FAIL_FAST") {
		e.FailFast = *f.Batch.FailFast
	}
	if f.Batch.Format != nil && !isSet("REVERSER_FORMAT") {
		e.Format = *f.Batch.Format
	}
	if f.Batch.Automaton != nil && !isSet("REVERSER_AUTOMATON") {
		e.Automaton = *f.Batch.Automaton
	}
	return e
}

func isSet(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}

// Load parses env, then layers the config file it points at underneath.
func Load() (Env, File, error) {
	e, err := LoadEnv()
	if err != nil {
		return Env{}, File{}, err
	}
	f, err := LoadFile(e.ConfigPath)
	if err != nil {
		return Env{}, File{}, err
	}
	return f.Merge(e), f, nil
}

// LoadPrompts resolves the interactive prompts. Only REVERSER_CONFIG is read
// from the environment, and path replaces it when non-empty. Batch settings
// are never parsed here.
//
// On error the default prompts are returned alongside it, so callers can warn
// and keep going.
func LoadPrompts(path string) (session.Prompts, error) {
	defaults := session.DefaultPrompts()
	if path == "" {
		var pe PromptEnv
		if err := ParseEnv(&pe); err != nil {
			return defaults, err
		}
		path = pe.ConfigPath
	}
	f, err := LoadFile(path)
	if err != nil {
		return defaults, err
	}
	return f.SessionPrompts(), nil
}
