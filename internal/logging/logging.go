// Package logging builds the charmbracelet/log loggers shared by every command.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Options controls logger construction.
type Options struct {
	Level  string // debug, info, warn or error
	Prefix string
	JSON   bool
}

// ParseLevel converts a level name, accepting "warning" as an alias.
func ParseLevel(name string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return log.InfoLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("logging: unknown level %q", name)
	}
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	lo := log.Options{
		ReportTimestamp: true,
		Prefix:          opts.Prefix,
		Level:           level,
	}
	if opts.JSON {
		lo.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, lo), nil
}

// NewFile returns a logger appending to path, for use while a full screen
// program owns the terminal. The returned closer releases the file.
func NewFile(path string, opts Options) (*log.Logger, io.Closer, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("logging: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}
	logger, err := New(f, opts)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
