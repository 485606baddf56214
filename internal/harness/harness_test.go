package harness

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/jetpack-runner/internal/agent"
	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/env"
	"github.com/vovakirdan/jetpack-runner/internal/logging"
	"github.com/vovakirdan/jetpack-runner/internal/replay"
	"github.com/vovakirdan/jetpack-runner/internal/storage"
)

func newRunner(t *testing.T, mutate func(*config.JetpackConfig)) *Runner {
	t.Helper()
	cfg := config.DefaultJetpackConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := env.New(cfg, env.WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	return &Runner{Env: e, Agent: &agent.Idle{}, Logger: logging.Discard()}
}

func TestRunTruncatedEpisodes(t *testing.T) {
	r := newRunner(t, func(c *config.JetpackConfig) { c.Env.MaxEpisodeSteps = 50 })

	stats, eps, err := r.Run(context.Background(), 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Episodes != 3 || len(eps) != 3 {
		t.Fatalf("episodes = %d/%d, want 3", stats.Episodes, len(eps))
	}
	for i, ep := range eps {
		if !ep.Truncated || ep.Steps != 50 {
			t.Errorf("episode %d: truncated=%v steps=%d", i, ep.Truncated, ep.Steps)
		}
		if ep.Seed != int64(1+i) {
			t.Errorf("episode %d seed = %d, want %d", i, ep.Seed, 1+i)
		}
	}
	if stats.MaxDistance < stats.MeanDistance || stats.MeanDistance <= 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestRunRecordsProgress(t *testing.T) {
	r := newRunner(t, func(c *config.JetpackConfig) { c.Env.MaxEpisodeSteps = 30 })
	store, err := storage.OpenFile(filepath.Join(t.TempDir(), "progress.txt"))
	if err != nil {
		t.Fatal(err)
	}
	r.Store = store

	_, eps, err := r.Run(context.Background(), 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	p, _ := store.Progress()
	want := int(eps[0].Distance) + int(eps[1].Distance)
	if p.LifetimeDistance != want {
		t.Errorf("lifetime distance = %d, want %d", p.LifetimeDistance, want)
	}
}

func TestRunCancelled(t *testing.T) {
	r := newRunner(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	steps := 0
	r.OnStep = func(int, env.Transition) {
		steps++
		if steps == 10 {
			cancel()
		}
	}

	_, eps, err := r.Run(ctx, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if len(eps) != 0 {
		t.Errorf("cancelled episode should not be reported, got %d", len(eps))
	}
}

func TestRunRecordsVerifiableReplay(t *testing.T) {
	r := newRunner(t, func(c *config.JetpackConfig) { c.Env.MaxEpisodeSteps = 120 })
	r.Agent = agent.NewRandom(6)
	r.RecordDir = t.TempDir()

	_, eps, err := r.Run(context.Background(), 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if eps[0].Replay == "" {
		t.Fatal("no replay recorded")
	}

	b, err := replay.Load(eps[0].Replay)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(b.Inputs) != eps[0].Steps {
		t.Errorf("recorded %d inputs, episode had %d steps", len(b.Inputs), eps[0].Steps)
	}
	if _, err := replay.Verify(b, r.Env.Config()); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestRunRequiresAgent(t *testing.T) {
	r := newRunner(t, nil)
	r.Agent = nil
	if _, _, err := r.Run(context.Background(), 1); err == nil {
		t.Error("expected error without agent")
	}
}
