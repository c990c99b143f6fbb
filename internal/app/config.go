package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RootPath string // build root containing the project forest

	OutputFormat string // "text" or "json" plan rendering
	LogFormat    string
	LogLevel     string
	WorkerCount  int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.RootPath == "" {
		return nil, errors.New("RootPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 1 {
		return nil, errors.New("WorkerCount must be at least 1")
	}

	return &cfg, nil
}
