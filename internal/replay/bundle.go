// Package replay records episodes to disk and re-simulates them.
//
// A bundle is a directory holding four files:
//
//	manifest.json    file layout and run summary
//	header.json      everything needed to rebuild the starting state
//	inputs.jsonl.sz  snappy framed JSON lines, one input frame per tick
//	frames.bin.zst   zstd stream of length-prefixed snapshot records
//
// Because the game is deterministic, the inputs alone reproduce the run; the
// snapshot frames are checkpoints that Verify compares against.
package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
)

// SchemaVersion is bumped whenever the bundle layout changes.
const SchemaVersion = 1

const (
	manifestFile = "manifest.json"
	headerFile   = "header.json"
	inputsFile   = "inputs.jsonl.sz"
	framesFile   = "frames.bin.zst"
)

var (
	// ErrDivergence means re-simulation did not reproduce a recorded checkpoint.
	ErrDivergence = errors.New("replay: simulation diverged")
	// ErrUnsupported means the bundle was written by an incompatible version.
	ErrUnsupported = errors.New("replay: unsupported bundle")
)

// Header describes how the recorded game was started.
type Header struct {
	SchemaVersion int    `json:"schema_version"`
	Seed          int64  `json:"seed"`
	Agent         string `json:"agent,omitempty"`
	Character     string `json:"character"`
	Preset        string `json:"preset,omitempty"`
	StartPlaying  bool   `json:"start_playing"` // run skipped the start screen
	SnapshotEvery int    `json:"snapshot_every"`
	ConfigDigest  uint64 `json:"config_digest"`
}

// Manifest lists the bundle files and summarizes the recorded run.
type Manifest struct {
	Version    int     `json:"version"`
	CreatedAt  string  `json:"created_at"`
	HeaderPath string  `json:"header_path"`
	InputsPath string  `json:"inputs_path"`
	FramesPath string  `json:"frames_path"`
	Ticks      int     `json:"ticks"`
	Frames     int     `json:"frames"`
	Distance   float64 `json:"distance"`
	Coins      int     `json:"coins"`
	Cause      string  `json:"cause,omitempty"`
}

// inputRecord is one line of the inputs stream.
type inputRecord struct {
	Seq     int         `json:"seq"`
	Actions []string    `json:"actions,omitempty"`
	Intent  core.Intent `json:"intent"`
}

func encodeInput(seq int, in core.InputFrame) inputRecord {
	rec := inputRecord{Seq: seq, Intent: in.Intent}
	for a, on := range in.Actions {
		if on {
			rec.Actions = append(rec.Actions, a.String())
		}
	}
	sort.Strings(rec.Actions)
	return rec
}

func (r inputRecord) frame() (core.InputFrame, error) {
	f := core.IntentFrame(r.Intent)
	for _, name := range r.Actions {
		a, err := core.ParseAction(name)
		if err != nil {
			return core.InputFrame{}, err
		}
		f.Set(a)
	}
	return f, nil
}

// Frame is a snapshot checkpoint taken after input Seq was applied.
type Frame struct {
	Seq      int              `json:"seq"`
	Digest   uint64           `json:"digest"`
	Snapshot jetpack.Snapshot `json:"snapshot"`
}

// Digest hashes the JSON form of a snapshot.
func Digest(s jetpack.Snapshot) (uint64, error) {
	return digestJSON(s)
}

// ConfigDigest fingerprints a configuration so a bundle is never verified
// against different tuning.
func ConfigDigest(cfg config.JetpackConfig) (uint64, error) {
	return digestJSON(cfg)
}

func digestJSON(v any) (uint64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("replay: digest: %w", err)
	}
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64(), nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// resolve returns the bundle directory for a path that may point at the
// manifest itself.
func resolve(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("replay: %w", err)
	}
	if info.IsDir() {
		return path, nil
	}
	return filepath.Dir(path), nil
}
