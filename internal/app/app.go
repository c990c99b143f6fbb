package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/CrafterKolyan/airbyte/internal/ctxlog"
	"github.com/CrafterKolyan/airbyte/internal/settings"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	settings *settings.Settings
}

// New is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and loaded build
// settings. The rendered plan goes to outW; logs go to errW so the plan
// stays machine-readable.
func New(outW, errW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	s, err := settings.Load(ctx, cfg.RootPath)
	if err != nil {
		// A failure to load the build settings is a fatal startup error.
		panic(fmt.Errorf("failed to load build settings: %w", err))
	}
	logger.Debug("Build settings ready.", "env_name", s.EnvName, "min_python", s.MinPythonVersion)

	return &App{
		outW:     outW,
		logger:   logger,
		settings: s,
	}
}

// Settings returns the loaded build settings. This is primarily for testing.
func (a *App) Settings() *settings.Settings {
	return a.settings
}
