// Package storage persists run results. Two backends share the
// ProgressStore interface: a flat two-integer file and an SQLite run
// history that uses the pure-Go modernc.org/sqlite driver.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunRecord describes one finished run.
type RunRecord struct {
	RunID     string
	Agent     string // empty for human play
	Character string
	Seed      int64
	Distance  float64
	Coins     int
	Level     int
	Cause     string
	Ticks     int
	CreatedAt time.Time
}

// Score is the integer distance recorded for the run.
func (r RunRecord) Score() int {
	return int(r.Distance)
}

// Progress is the cross-run summary shown on the start screen.
type Progress struct {
	HighScore        int
	LifetimeDistance int
}

// ProgressStore records runs and reports the resulting progress.
type ProgressStore interface {
	RecordRun(rec RunRecord) (Progress, error)
	Progress() (Progress, error)
	Close() error
}

// expandPath expands a leading ~ and creates the parent directories.
func expandPath(path string) (string, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return path, nil
}

// parseTime handles both time.Time and string values from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
