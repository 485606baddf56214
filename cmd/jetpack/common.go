package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/logging"
	"github.com/vovakirdan/jetpack-runner/internal/storage"
)

// loadConfig loads the game config and applies the difficulty preset.
func loadConfig(preset string) (config.JetpackConfig, error) {
	cfg, err := config.LoadJetpack(flagConfig)
	if err != nil {
		return cfg, err
	}
	p, err := config.ParsePreset(preset)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyPreset(p)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("difficulty %s: %w", p, err)
	}
	return cfg, nil
}

// newLogger builds the stderr logger used by headless commands.
func newLogger(prefix string) *log.Logger {
	logger, err := logging.New(os.Stderr, logging.Options{Level: flagLogLevel, Prefix: prefix})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		logger, _ = logging.New(os.Stderr, logging.Options{Prefix: prefix})
	}
	return logger
}

// newFileLogger builds the logger used while the alternate screen is active.
// Falls back to discarding logs when the file cannot be opened.
func newFileLogger(prefix string) (*log.Logger, func()) {
	logger, closer, err := logging.NewFile(flagLogFile, logging.Options{Level: flagLogLevel, Prefix: prefix})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return logging.Discard(), func() {}
	}
	return logger, func() {
		//nolint:errcheck // Best-effort close on exit
		closer.Close()
	}
}

// openStore opens the progress store selected by the global flags.
// A store that cannot be opened is reported and skipped; play goes on.
func openStore(logger *log.Logger) storage.ProgressStore {
	if flagProgressPath != "" {
		file, err := storage.OpenFile(flagProgressPath)
		if err != nil {
			logger.Warn("could not open progress file", "path", flagProgressPath, "error", err)
			return nil
		}
		return file
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run history", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// runSeed returns the seed flag, drawing one from the clock when unset.
func runSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
