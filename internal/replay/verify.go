package replay

import (
	"fmt"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
)

// Result summarizes a re-simulation.
type Result struct {
	Ticks     int
	Checked   int
	Final     jetpack.Snapshot
	Divergent int // seq of the first mismatching checkpoint, 0 when none
}

// NewGame rebuilds the starting state described by the header.
func NewGame(h Header, cfg config.JetpackConfig) *jetpack.Game {
	g := jetpack.New(cfg)
	rc := core.DefaultConfig()
	rc.Seed = h.Seed
	rc.Character = h.Character
	g.Reset(rc)
	g.SetAgentControlled(h.Agent != "")
	if h.StartPlaying {
		g.StartRun()
	}
	return g
}

// Verify re-simulates the recorded inputs on a fresh game and compares every
// checkpoint digest. A mismatch returns ErrDivergence with Result.Divergent set.
func Verify(b *Bundle, cfg config.JetpackConfig) (Result, error) {
	digest, err := ConfigDigest(cfg)
	if err != nil {
		return Result{}, err
	}
	if digest != b.Header.ConfigDigest {
		return Result{}, fmt.Errorf("%w: recorded with a different configuration", ErrDivergence)
	}

	g := NewGame(b.Header, cfg)
	var res Result
	next := 0
	for i, in := range b.Inputs {
		g.Step(in)
		seq := i + 1
		res.Ticks = seq
		for next < len(b.Frames) && b.Frames[next].Seq == seq {
			snap := g.Snapshot()
			got, err := Digest(snap)
			if err != nil {
				return res, err
			}
			res.Checked++
			if got != b.Frames[next].Digest {
				res.Divergent = seq
				res.Final = snap
				return res, fmt.Errorf("%w at input %d", ErrDivergence, seq)
			}
			next++
		}
	}
	if next < len(b.Frames) {
		return res, fmt.Errorf("%w: %d checkpoints beyond the last input", ErrDivergence, len(b.Frames)-next)
	}
	res.Final = g.Snapshot()
	return res, nil
}
