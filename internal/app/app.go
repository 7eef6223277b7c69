package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/vaspherd/internal/ledger"
	"github.com/specialistvlad/vaspherd/internal/profile"
)

// App encapsulates the orchestrator's dependencies and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	prof   *profile.Profile
	led    *ledger.Ledger
}

// NewApp is the constructor for the main application. Startup failures
// here (unreadable profile, uncreatable working directory) are fatal
// configuration errors: it panics, and the caller recovers to exit with a
// clean message before any processing starts.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("logger configured")

	prof := profile.Default()
	if cfg.ProfilePath != "" {
		var err error
		prof, err = profile.Load(cfg.ProfilePath)
		if err != nil {
			panic(fmt.Errorf("failed to load site profile: %w", err))
		}
		logger.Debug("site profile loaded", "path", cfg.ProfilePath)
	}

	led, err := ledger.Open(cfg.WorkDir)
	if err != nil {
		panic(fmt.Errorf("failed to open ledger directory: %w", err))
	}
	logger.Debug("ledger directory ready", "dir", led.Dir())

	return &App{
		outW:   outW,
		logger: logger,
		prof:   prof,
		led:    led,
	}
}

// Profile returns the loaded site profile. This is primarily for testing.
func (a *App) Profile() *profile.Profile {
	return a.prof
}
