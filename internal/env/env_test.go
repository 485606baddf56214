package env

import (
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
)

func newTestEnv(t *testing.T, mutate func(*config.JetpackConfig), opts ...Option) *Env {
	t.Helper()
	cfg := config.DefaultJetpackConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

func TestActionSpaces(t *testing.T) {
	tests := []struct {
		name    string
		space   ActionSpace
		action  []float64
		clamp   bool
		want    core.Intent
		wantErr bool
	}{
		{"discrete wait", Discrete{}, []float64{0}, false, core.Intent{}, false},
		{"discrete jump", Discrete{}, []float64{1}, false, core.Intent{Thrust: 1}, false},
		{"discrete out of range", Discrete{}, []float64{2}, false, core.Intent{}, true},
		{"discrete clamped", Discrete{}, []float64{0.7}, true, core.Intent{Thrust: 1}, false},
		{"discrete wrong shape", Discrete{}, []float64{0, 1}, true, core.Intent{}, true},
		{"multibinary thrust shoot", MultiBinary{}, []float64{0, 0, 1, 1}, false, core.Intent{Thrust: 1, Shoot: true}, false},
		{"multibinary left right cancel", MultiBinary{}, []float64{1, 1, 0, 0}, false, core.Intent{}, false},
		{"multibinary left", MultiBinary{}, []float64{1, 0, 0, 0}, false, core.Intent{Move: -1}, false},
		{"multibinary invalid", MultiBinary{}, []float64{0, 0, 3, 0}, false, core.Intent{}, true},
		{"continuous", Continuous{}, []float64{0.5, -0.25, 0.5}, false, core.Intent{Thrust: 0.5, Move: -0.25, Shoot: true}, false},
		{"continuous below trigger", Continuous{}, []float64{0, 0, 0.49}, false, core.Intent{}, false},
		{"continuous out of range", Continuous{}, []float64{1.5, 0, 0}, false, core.Intent{}, true},
		{"continuous clamped", Continuous{}, []float64{1.5, -3, 0}, true, core.Intent{Thrust: 1, Move: -1}, false},
		{"continuous nan", Continuous{}, []float64{math.NaN(), 0, 0}, true, core.Intent{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.space.Decode(tt.action, tt.clamp)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidAction) {
					t.Fatalf("Decode(%v) error = %v, want ErrInvalidAction", tt.action, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%v) unexpected error: %v", tt.action, err)
			}
			if got != tt.want {
				t.Errorf("Decode(%v) = %+v, want %+v", tt.action, got, tt.want)
			}
		})
	}
}

func TestNewActionSpace(t *testing.T) {
	for _, name := range []string{config.ActionSpaceDiscrete, config.ActionSpaceMultiBinary, config.ActionSpaceContinuous} {
		space, err := NewActionSpace(name)
		if err != nil {
			t.Fatalf("NewActionSpace(%q) error: %v", name, err)
		}
		if space.Name() != name {
			t.Errorf("Name() = %q, want %q", space.Name(), name)
		}
	}
	if _, err := NewActionSpace("joystick"); !errors.Is(err, core.ErrInvalidAction) {
		t.Errorf("unknown space error = %v, want ErrInvalidAction", err)
	}
}

func TestResetObservation(t *testing.T) {
	e := newTestEnv(t, nil, WithSeed(7))
	obs, info := e.Reset()

	if len(obs) != ObservationSize {
		t.Fatalf("len(obs) = %d, want %d", len(obs), ObservationSize)
	}
	if info.Seed != 7 || info.Episode != 1 {
		t.Errorf("info = %+v, want seed 7 episode 1", info)
	}
	if obs[ObsRocketPresent] != 0 || obs[ObsMeteorPresent] != 0 {
		t.Errorf("fresh run should have no rocket or meteor: %v", obs)
	}
	if obs[ObsShootReady] != 1 {
		t.Errorf("shoot should be ready at start, got %v", obs[ObsShootReady])
	}
	for i, v := range obs {
		if math.IsNaN(float64(v)) {
			t.Errorf("obs[%d] is NaN", i)
		}
	}
}

func TestResetAdvancesSeed(t *testing.T) {
	e := newTestEnv(t, nil, WithSeed(10))
	_, first := e.Reset()
	_, second := e.Reset()
	if first.Seed != 10 || second.Seed != 11 {
		t.Errorf("seeds = %d, %d, want 10, 11", first.Seed, second.Seed)
	}
}

func TestStepBeforeReset(t *testing.T) {
	e := newTestEnv(t, nil)
	if _, _, _, _, _, err := e.Step([]float64{0}); err == nil {
		t.Error("expected error when stepping before Reset")
	}
}

func TestStepRejectsInvalidAction(t *testing.T) {
	e := newTestEnv(t, nil)
	e.Reset()
	before := e.Snapshot().Tick

	if _, _, _, _, _, err := e.Step([]float64{5}); !errors.Is(err, core.ErrInvalidAction) {
		t.Fatalf("Step error = %v, want ErrInvalidAction", err)
	}
	if got := e.Snapshot().Tick; got != before {
		t.Errorf("invalid action advanced the game: tick %d -> %d", before, got)
	}
}

func TestStepClampsWhenConfigured(t *testing.T) {
	e := newTestEnv(t, func(c *config.JetpackConfig) { c.Env.ClampActions = true })
	e.Reset()
	if _, _, _, _, _, err := e.Step([]float64{5}); err != nil {
		t.Fatalf("clamped Step error: %v", err)
	}
}

func TestSurvivalReward(t *testing.T) {
	e := newTestEnv(t, nil)
	e.Reset()
	_, r, term, trunc, info, err := e.Step([]float64{0})
	if err != nil {
		t.Fatal(err)
	}
	if term || trunc {
		t.Fatalf("first step ended the episode: term=%v trunc=%v", term, trunc)
	}
	if r != 1 {
		t.Errorf("reward = %v, want survival reward 1", r)
	}
	if info.Steps != 1 {
		t.Errorf("Steps = %d, want 1", info.Steps)
	}
}

func TestTruncation(t *testing.T) {
	e := newTestEnv(t, func(c *config.JetpackConfig) { c.Env.MaxEpisodeSteps = 3 })
	e.Reset()
	var trunc bool
	for i := 0; i < 3; i++ {
		var err error
		_, _, _, trunc, _, err = e.Step([]float64{0})
		if err != nil {
			t.Fatal(err)
		}
	}
	if !trunc {
		t.Fatal("expected truncation after max_episode_steps")
	}
	if !e.Done() {
		t.Error("Done() = false after truncation")
	}

	// Further steps are no-ops until Reset.
	_, r, _, trunc, info, err := e.Step([]float64{1})
	if err != nil {
		t.Fatal(err)
	}
	if r != 0 || !trunc || info.Steps != 3 {
		t.Errorf("post-episode step = reward %v trunc %v steps %d", r, trunc, info.Steps)
	}
}

func TestSameSeedSameTrajectory(t *testing.T) {
	run := func() []Observation {
		e := newTestEnv(t, nil, WithSeed(42))
		e.Reset()
		var out []Observation
		for i := 0; i < 200; i++ {
			action := []float64{float64(i / 15 % 2)}
			obs, _, term, _, _, err := e.Step(action)
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, obs)
			if term {
				break
			}
		}
		return out
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("trajectory lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("step %d obs[%d]: %v vs %v", i, j, a[i][j], b[i][j])
			}
		}
	}
}

func TestShaper(t *testing.T) {
	cfg := config.RewardConfig{Survival: 1, Coin: 5, Death: -10, IdlePenalty: -2, MaxFramesWithoutCoin: 3}
	s := NewShaper(cfg)

	steps := []struct {
		run  jetpack.RunState
		want float64
	}{
		{jetpack.RunState{}, 1},
		{jetpack.RunState{Coins: 1}, 6},
		{jetpack.RunState{Coins: 1}, 1},
		{jetpack.RunState{Coins: 1}, 1},
		{jetpack.RunState{Coins: 1}, -1}, // third frame without a coin
		{jetpack.RunState{Coins: 2, Terminal: true}, -5},
	}
	for i, st := range steps {
		if got := s.Reward(st.run); got != st.want {
			t.Errorf("step %d: Reward = %v, want %v", i, got, st.want)
		}
	}

	s.Reset()
	if s.FramesWithoutCoin() != 0 {
		t.Error("Reset did not clear the idle counter")
	}
}

func TestObserveRelativeOffsets(t *testing.T) {
	e := newTestEnv(t, nil)
	e.Reset()
	snap := e.Snapshot()
	snap.Laser = &jetpack.Laser{X: 400, Y: 100, W: 100, H: 20}
	snap.Coins = []jetpack.Coin{
		{X: 0, Y: 0, Radius: 5},     // behind the player
		{X: 500, Y: 300, Radius: 5}, // ahead
		{X: 600, Y: 300, Radius: 5, Collected: true},
	}

	obs := Observe(snap, 10)
	hb := snap.PlayerHitbox()
	px := float64(hb.X) + float64(hb.W)/2
	wantDX := float32((450 - px) / float64(snap.WorldW))
	if obs[ObsLaserPresent] != 1 || obs[ObsLaserDX] != wantDX {
		t.Errorf("laser slot = %v/%v, want 1/%v", obs[ObsLaserPresent], obs[ObsLaserDX], wantDX)
	}
	wantCoin := float32((500 - px) / float64(snap.WorldW))
	if obs[ObsCoinPresent] != 1 || obs[ObsCoinDX] != wantCoin {
		t.Errorf("coin slot = %v/%v, want 1/%v", obs[ObsCoinPresent], obs[ObsCoinDX], wantCoin)
	}
}
