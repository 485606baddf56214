// Package harness runs agents against the environment without rendering.
package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/env"
	"github.com/vovakirdan/jetpack-runner/internal/registry"
	"github.com/vovakirdan/jetpack-runner/internal/replay"
	"github.com/vovakirdan/jetpack-runner/internal/storage"
)

// Episode is the outcome of one run.
type Episode struct {
	RunID     string
	Seed      int64
	Steps     int
	Distance  float64
	Coins     int
	Level     int
	Reward    float64
	Cause     string
	Truncated bool
	Replay    string // bundle directory, empty when not recording
}

// Stats aggregates a batch of episodes.
type Stats struct {
	Episodes     int
	MeanDistance float64
	MaxDistance  float64
	MeanCoins    float64
	MeanReward   float64
	Deaths       map[string]int // by cause
}

// Runner drives one agent through consecutive episodes.
type Runner struct {
	Env    *env.Env
	Agent  registry.Agent
	Store  storage.ProgressStore // optional
	Logger *log.Logger

	// RecordDir enables replay recording when set.
	RecordDir string
	Preset    string
	// OnStep is called after every step, e.g. to render progress.
	OnStep func(ep int, t env.Transition)
}

// Run plays the given number of episodes. Cancellation is checked between
// steps; the episodes finished so far are still returned.
func (r *Runner) Run(ctx context.Context, episodes int) (Stats, []Episode, error) {
	if r.Env == nil || r.Agent == nil {
		return Stats{}, nil, fmt.Errorf("harness: env and agent are required")
	}
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}

	var results []Episode
	for i := 0; i < episodes; i++ {
		ep, err := r.episode(ctx, i)
		if err != nil {
			return summarize(results), results, err
		}
		results = append(results, ep)

		logger.Info("episode finished",
			"episode", i+1,
			"seed", ep.Seed,
			"distance", int(ep.Distance),
			"coins", ep.Coins,
			"level", ep.Level,
			"reward", fmt.Sprintf("%.1f", ep.Reward),
			"cause", ep.Cause,
		)

		if r.Store != nil {
			p, err := r.Store.RecordRun(storage.RunRecord{
				RunID:     ep.RunID,
				Agent:     r.Agent.ID(),
				Character: r.Env.Snapshot().Character,
				Seed:      ep.Seed,
				Distance:  ep.Distance,
				Coins:     ep.Coins,
				Level:     ep.Level,
				Cause:     ep.Cause,
				Ticks:     ep.Steps,
			})
			if err != nil {
				logger.Warn("could not record run", "error", err)
			} else {
				logger.Debug("progress", "high_score", p.HighScore, "lifetime_distance", p.LifetimeDistance)
			}
		}
	}
	return summarize(results), results, nil
}

func (r *Runner) episode(ctx context.Context, index int) (Episode, error) {
	_, info := r.Env.Reset()
	r.Agent.Reset(info.Seed)
	ep := Episode{RunID: uuid.NewString(), Seed: info.Seed}

	var w *replay.Writer
	if r.RecordDir != "" {
		var err error
		if w, err = r.newWriter(ep); err != nil {
			return ep, err
		}
		ep.Replay = w.Dir()
		defer w.Close()
	}

	for {
		if err := ctx.Err(); err != nil {
			return ep, err
		}

		in := r.Agent.Decide(r.Env.Snapshot())
		t, err := r.Env.StepIntent(in)
		if err != nil {
			return ep, fmt.Errorf("harness: episode %d: %w", index+1, err)
		}
		if w != nil {
			if err := w.Record(core.IntentFrame(in), r.Env.Snapshot()); err != nil {
				return ep, err
			}
		}
		if r.OnStep != nil {
			r.OnStep(index, t)
		}

		ep.Reward += t.Reward
		if t.Terminated || t.Truncated {
			ep.Steps = t.Info.Steps
			ep.Distance = t.Info.Distance
			ep.Coins = t.Info.Coins
			ep.Level = t.Info.Level
			ep.Cause = t.Info.Cause
			ep.Truncated = t.Truncated
			if w != nil {
				if err := w.Close(); err != nil {
					return ep, err
				}
			}
			return ep, nil
		}
	}
}

func (r *Runner) newWriter(ep Episode) (*replay.Writer, error) {
	cfg := r.Env.Config()
	digest, err := replay.ConfigDigest(cfg)
	if err != nil {
		return nil, err
	}
	header := replay.Header{
		Seed:         ep.Seed,
		Agent:        r.Agent.ID(),
		Character:    r.Env.Snapshot().Character,
		Preset:       r.Preset,
		StartPlaying: true,
		ConfigDigest: digest,
	}
	return replay.NewWriter(r.RecordDir, r.Agent.ID()+"-"+ep.RunID[:8], header, time.Now)
}

func summarize(eps []Episode) Stats {
	s := Stats{Episodes: len(eps), Deaths: make(map[string]int)}
	if len(eps) == 0 {
		return s
	}
	for _, ep := range eps {
		s.MeanDistance += ep.Distance
		s.MeanCoins += float64(ep.Coins)
		s.MeanReward += ep.Reward
		s.MaxDistance = max(s.MaxDistance, ep.Distance)
		if ep.Cause != "" {
			s.Deaths[ep.Cause]++
		}
	}
	n := float64(len(eps))
	s.MeanDistance /= n
	s.MeanCoins /= n
	s.MeanReward /= n
	return s
}
