// Package config loads the YAML run configuration for a gatpg invocation:
// circuit/run settings, fault-model options, and fsim worker pool sizing.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level run configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Fault   FaultConfig   `yaml:"fault"`
	Fsim    FsimConfig    `yaml:"fsim"`
	Dtpg    DtpgConfig    `yaml:"dtpg"`
}

// LoggingConfig controls the logging package's output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FaultConfig controls fault-list construction.
type FaultConfig struct {
	TransitionDelay bool `yaml:"transition_delay"`
}

// FsimConfig controls the fault simulator's worker pool.
type FsimConfig struct {
	Workers      int `yaml:"workers"`
	PatternBatch int `yaml:"pattern_batch"`
}

// DtpgConfig controls DTPG engine behavior.
type DtpgConfig struct {
	UseMFFCSharing bool `yaml:"use_mffc_sharing"`
	AbortLimit     int  `yaml:"abort_limit"`
}

// Default returns the baseline configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Fault:   FaultConfig{TransitionDelay: false},
		Fsim:    FsimConfig{Workers: 4, PatternBatch: 64},
		Dtpg:    DtpgConfig{UseMFFCSharing: true, AbortLimit: 0},
	}
}

// Load reads and parses a YAML config file, falling back to Default if
// path is empty or the file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for internally-inconsistent values.
func (c *Config) Validate() error {
	if c.Fsim.Workers < 1 {
		return fmt.Errorf("config: fsim.workers must be at least 1")
	}
	if c.Fsim.PatternBatch < 1 || c.Fsim.PatternBatch > 64 {
		return fmt.Errorf("config: fsim.pattern_batch must be in [1, 64]")
	}
	return nil
}
