package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jetpack-runner/internal/agent"
	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
	"github.com/vovakirdan/jetpack-runner/internal/storage"
)

type memoryStore struct {
	runs     []storage.RunRecord
	progress storage.Progress
}

func (s *memoryStore) RecordRun(rec storage.RunRecord) (storage.Progress, error) {
	s.runs = append(s.runs, rec)
	s.progress.HighScore = max(s.progress.HighScore, rec.Score())
	s.progress.LifetimeDistance += rec.Score()
	return s.progress, nil
}

func (s *memoryStore) Progress() (storage.Progress, error) { return s.progress, nil }

func (s *memoryStore) Close() error { return nil }

func newTestModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(&strings.Builder{})
	}
	game := jetpack.New(config.DefaultJetpackConfig())
	return NewModel(game, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}, opts)
}

func press(m Model, k string) Model {
	next, _ := m.Update(keyMsg(k))
	return next.(Model)
}

func tick(m Model) Model {
	next, _ := m.Update(TickMsg{})
	return next.(Model)
}

func TestModelStartAndPause(t *testing.T) {
	m := newTestModel(Options{})
	if m.State().Phase != jetpack.PhaseStart {
		t.Fatalf("phase = %s, expected start", m.State().Phase)
	}

	m = tick(press(m, "enter"))
	if m.State().Phase != jetpack.PhasePlaying {
		t.Fatalf("enter should start a run, phase = %s", m.State().Phase)
	}

	m = tick(m)
	m = tick(press(m, "p"))
	if m.State().Phase != jetpack.PhasePaused {
		t.Fatalf("p should pause, phase = %s", m.State().Phase)
	}
	paused := m.State().Tick
	m = tick(m)
	if m.State().Tick != paused {
		t.Error("paused game should not advance")
	}

	m = tick(press(m, "p"))
	if m.State().Phase != jetpack.PhasePlaying {
		t.Errorf("p should resume, phase = %s", m.State().Phase)
	}
}

func TestModelCharacterSelect(t *testing.T) {
	m := newTestModel(Options{})
	first := m.State().Character

	m = tick(press(m, "c"))
	if m.State().Phase != jetpack.PhaseCharacterSelect {
		t.Fatalf("c should open character select, phase = %s", m.State().Phase)
	}
	m = tick(press(m, "down"))
	m = tick(press(m, "enter"))
	if m.State().Phase != jetpack.PhaseStart {
		t.Fatalf("enter should confirm, phase = %s", m.State().Phase)
	}
	if m.State().Character == first {
		t.Errorf("character still %q after choosing the next one", first)
	}
}

func TestModelRecordsRunOnce(t *testing.T) {
	store := &memoryStore{}
	m := newTestModel(Options{Store: store, Agent: &agent.Idle{}})

	m = tick(press(m, "enter"))
	for i := 0; i < 5000 && m.State().Phase != jetpack.PhaseGameOver; i++ {
		m = tick(m)
	}
	if m.State().Phase != jetpack.PhaseGameOver {
		t.Fatal("idle pilot should eventually crash")
	}

	// Game over ticks must not record again
	for i := 0; i < 10; i++ {
		m = tick(m)
	}
	if len(store.runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(store.runs))
	}
	rec := store.runs[0]
	if rec.Agent != "idle" || rec.Seed != 7 || rec.RunID == "" {
		t.Errorf("unexpected record %+v", rec)
	}
	if m.Progress().HighScore != rec.Score() {
		t.Errorf("progress high score = %d, want %d", m.Progress().HighScore, rec.Score())
	}
	if !strings.Contains(m.View(), "best") {
		t.Error("game over screen should show progress")
	}
}

func TestModelViewHasHelp(t *testing.T) {
	m := newTestModel(Options{})
	view := m.View()
	if !strings.Contains(view, "start") {
		t.Error("start screen help should mention enter to start")
	}
	lines := strings.Split(view, "\n")
	if len(lines) != 24 {
		t.Errorf("view has %d lines, want 24", len(lines))
	}
}
