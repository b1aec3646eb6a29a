package main

import (
	"fmt"
	"os"

	"github.com/fyerfyer/gatpg/pkg/config"
	"github.com/fyerfyer/gatpg/pkg/logging"
)

// loadConfig loads configuration from cfgFile (./gatpg.yaml when unset),
// falling back to defaults if the file is absent, then validates it.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = "gatpg.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	level := logging.Level(cfg.Logging.Level)
	if verbose {
		level = logging.LevelDebug
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: logging.Format(cfg.Logging.Format),
		Output: os.Stdout,
	})
}
