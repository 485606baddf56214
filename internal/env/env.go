// Package env wraps the jetpack game in a reset/step interface for agents.
// Observations, action decoding and reward shaping all live here; the game
// itself only ever sees core.Intent.
package env

import (
	"fmt"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
)

// Info carries diagnostics alongside each observation.
type Info struct {
	Episode           int     `json:"episode"`
	Seed              int64   `json:"seed"`
	Steps             int     `json:"steps"`
	Distance          float64 `json:"distance"`
	Coins             int     `json:"coins"`
	Level             int     `json:"level"`
	Scene             string  `json:"scene"`
	ShotsFired        int     `json:"shots_fired"`
	RocketsDestroyed  int     `json:"rockets_destroyed"`
	MeteorsDestroyed  int     `json:"meteors_destroyed"`
	FramesWithoutCoin int     `json:"frames_without_coin"`
	Cause             string  `json:"cause,omitempty"`
}

// Transition is the result of one Step.
type Transition struct {
	Observation Observation     `json:"observation"`
	Reward      float64         `json:"reward"`
	Terminated  bool            `json:"terminated"`
	Truncated   bool            `json:"truncated"`
	Info        Info            `json:"info"`
	Events      []jetpack.Event `json:"events,omitempty"`
}

// Option configures an Env.
type Option func(*Env)

// WithSeed sets the seed of the first episode.
func WithSeed(seed int64) Option {
	return func(e *Env) { e.seed = seed }
}

// WithActionSpace overrides the configured action space.
func WithActionSpace(space ActionSpace) Option {
	return func(e *Env) { e.space = space }
}

// WithCharacter selects the pilot.
func WithCharacter(id string) Option {
	return func(e *Env) { e.character = id }
}

// Env is a single-agent environment. It is not safe for concurrent use.
type Env struct {
	cfg       config.JetpackConfig
	game      *jetpack.Game
	space     ActionSpace
	shaper    *Shaper
	seed      int64
	character string

	episode int
	steps   int
	done    bool
	last    Transition
}

// New creates an environment. The configuration must already be validated.
func New(cfg config.JetpackConfig, opts ...Option) (*Env, error) {
	e := &Env{
		cfg:    cfg,
		game:   jetpack.New(cfg),
		shaper: NewShaper(cfg.Env.Reward),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.space == nil {
		space, err := NewActionSpace(cfg.Env.ActionSpace)
		if err != nil {
			return nil, err
		}
		e.space = space
	}
	if e.character == "" {
		e.character = cfg.DefaultCharacter
	}
	if _, ok := cfg.Character(e.character); !ok {
		return nil, fmt.Errorf("env: unknown character %q", e.character)
	}
	e.game.SetAgentControlled(true)
	return e, nil
}

// Reset starts the next episode. Each episode uses the previous seed plus one,
// so a fixed initial seed yields a reproducible sequence of episodes.
func (e *Env) Reset() (Observation, Info) {
	seed := e.seed
	if e.episode > 0 {
		seed++
	}
	return e.ResetSeed(seed)
}

// ResetSeed starts an episode with an explicit seed.
func (e *Env) ResetSeed(seed int64) (Observation, Info) {
	e.seed = seed
	e.episode++
	e.steps = 0
	e.done = false
	e.shaper.Reset()

	rc := core.DefaultConfig()
	rc.Seed = seed
	rc.Character = e.character
	e.game.Reset(rc)
	e.game.StartRun()

	obs := Observe(e.game.Snapshot(), e.cfg.Physics.MaxVelocity)
	info := e.info()
	e.last = Transition{Observation: obs, Info: info}
	return obs, info
}

// Step decodes the action and advances one tick.
// Invalid actions return an error wrapping core.ErrInvalidAction and leave
// the game untouched.
func (e *Env) Step(action []float64) (Observation, float64, bool, bool, Info, error) {
	in, err := e.space.Decode(action, e.cfg.Env.ClampActions)
	if err != nil {
		return nil, 0, false, false, Info{}, err
	}
	t, err := e.StepIntent(in)
	if err != nil {
		return nil, 0, false, false, Info{}, err
	}
	return t.Observation, t.Reward, t.Terminated, t.Truncated, t.Info, nil
}

// StepIntent advances one tick with an already decoded intent.
func (e *Env) StepIntent(in core.Intent) (Transition, error) {
	if e.episode == 0 {
		return Transition{}, fmt.Errorf("env: step before reset")
	}
	if e.done {
		// Finished episodes are sticky until the next Reset.
		t := e.last
		t.Reward = 0
		t.Events = nil
		return t, nil
	}
	if e.cfg.Env.ClampActions {
		in = in.Clamped()
	} else if err := in.Validate(); err != nil {
		return Transition{}, err
	}

	res := e.game.Step(core.IntentFrame(in))
	e.steps++
	run := e.game.Run()

	t := Transition{
		Observation: Observe(e.game.Snapshot(), e.cfg.Physics.MaxVelocity),
		Reward:      e.shaper.Reward(run),
		Terminated:  run.Terminal,
		Events:      res.Events,
	}
	if !t.Terminated && e.cfg.Env.MaxEpisodeSteps > 0 && e.steps >= e.cfg.Env.MaxEpisodeSteps {
		t.Truncated = true
	}
	t.Info = e.info()
	e.done = t.Terminated || t.Truncated
	e.last = t
	return t, nil
}

func (e *Env) info() Info {
	run := e.game.Run()
	st := e.game.State()
	return Info{
		Episode:           e.episode,
		Seed:              e.seed,
		Steps:             e.steps,
		Distance:          run.Distance,
		Coins:             run.Coins,
		Level:             st.Level,
		Scene:             st.Scene,
		ShotsFired:        run.ShotsFired,
		RocketsDestroyed:  run.RocketsDestroyed,
		MeteorsDestroyed:  run.MeteorsDestroyed,
		FramesWithoutCoin: e.shaper.FramesWithoutCoin(),
		Cause:             run.Cause,
	}
}

// Snapshot returns a deep copy of the current world.
func (e *Env) Snapshot() jetpack.Snapshot {
	return e.game.Snapshot()
}

// Space returns the action space in use.
func (e *Env) Space() ActionSpace {
	return e.space
}

// Done reports whether the current episode has ended.
func (e *Env) Done() bool {
	return e.done
}

// Seed returns the seed of the current episode.
func (e *Env) Seed() int64 {
	return e.seed
}

// Config returns the configuration the env runs with.
func (e *Env) Config() config.JetpackConfig {
	return e.cfg
}
