// Package jetpack implements the jetpack runner simulation: a pilot flies
// through an endlessly scrolling world, dodging rockets, lasers and meteors
// while collecting coins. The package is a pure, deterministic state machine;
// rendering, input devices and agents drive it through core.InputFrame.
package jetpack

import (
	"math/rand"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// RunState holds the counters of the current run.
type RunState struct {
	Distance         float64 `json:"distance"`
	Coins            int     `json:"coins"`
	Ticks            int     `json:"ticks"`
	Terminal         bool    `json:"terminal"`
	Cause            string  `json:"cause,omitempty"` // hazard kind that ended the run
	ShotsFired       int     `json:"shots_fired"`
	RocketsDestroyed int     `json:"rockets_destroyed"`
	MeteorsDestroyed int     `json:"meteors_destroyed"`
}

// State summarizes the game for the platform layer.
type State struct {
	Phase     Phase   `json:"phase"`
	Distance  float64 `json:"distance"`
	Coins     int     `json:"coins"`
	Level     int     `json:"level"`
	Speed     float64 `json:"speed"`
	Scene     string  `json:"scene"`
	Theme     string  `json:"theme"`
	Character string  `json:"character"`
	Tick      int     `json:"tick"`
	Paused    bool    `json:"paused"`
	GameOver  bool    `json:"game_over"`
	Cause     string  `json:"cause,omitempty"`
}

// StepResult is returned by Step after each tick.
type StepResult struct {
	State  State
	Events []Event
}

// Game is one jetpack runner instance. It is not safe for concurrent use.
type Game struct {
	cfg             config.JetpackConfig
	runtime         core.RuntimeConfig
	phase           Phase
	charIndex       int
	agentControlled bool

	rng         *rand.Rand
	run         RunState
	player      Player
	platforms   Platforms
	motion      Motion
	difficulty  *Scheduler
	scenes      *SceneScheduler
	coins       *CoinSpawner
	lasers      *LaserField
	rockets     *RocketLauncher
	meteors     *MeteorSystem
	projectiles []*Projectile
}

// New creates a game for a validated configuration.
// Call Reset before stepping it.
func New(cfg config.JetpackConfig) *Game {
	return &Game{cfg: cfg}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "jetpack"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Jetpack Runner"
}

// Config returns the configuration the game runs with.
func (g *Game) Config() config.JetpackConfig {
	return g.cfg
}

// Reset prepares a fresh run and returns to the start screen.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.charIndex = g.characterIndex(runtime.Character)
	g.newRun()
	g.phase = PhaseStart
}

// StartRun begins a fresh run immediately, skipping the start screen.
func (g *Game) StartRun() {
	g.newRun()
	g.phase = PhasePlaying
}

// Reseed changes the seed used by the next fresh run.
func (g *Game) Reseed(seed int64) {
	g.runtime.Seed = seed
}

// SetAgentControlled marks the pilot as driven by an agent. The flag is
// reported in snapshots only; the simulation never branches on it.
func (g *Game) SetAgentControlled(v bool) {
	g.agentControlled = v
	g.player.ControlledByAgent = v
}

func (g *Game) characterIndex(id string) int {
	if id == "" {
		id = g.cfg.DefaultCharacter
	}
	for i, ch := range g.cfg.Characters {
		if ch.ID == id {
			return i
		}
	}
	return 0
}

// Character returns the selected character.
func (g *Game) Character() config.CharacterConfig {
	return g.cfg.Characters[g.charIndex]
}

// newRun rebuilds every piece of run state from the seed.
func (g *Game) newRun() {
	g.rng = rand.New(rand.NewSource(g.runtime.Seed))
	g.run = RunState{}
	g.player = newPlayer(g.cfg, g.Character())
	g.player.ControlledByAgent = g.agentControlled
	g.platforms = newPlatforms(g.cfg.World)
	g.motion = NewMotion(g.cfg)
	g.difficulty = NewScheduler(g.cfg.Speed, g.cfg.Difficulty)
	g.scenes = NewSceneScheduler(g.cfg.Scenes, g.cfg.Difficulty.Themes, g.cfg.World)
	g.coins = newCoinSpawner(g.cfg.Coins, g.cfg.World, g.rng)
	g.lasers = newLaserField(g.cfg.Laser, g.cfg.World, g.rng)
	g.rockets = newRocketLauncher(g.cfg.Rocket, g.cfg.World)
	g.meteors = NewMeteorSystem(g.cfg.Meteor, g.cfg.Difficulty.MeteorInterval, g.cfg.World, g.rng)
	g.projectiles = nil
}

// Step advances the game by one tick. A frame carrying an accepted command
// only performs the transition; otherwise a Playing game simulates one tick.
func (g *Game) Step(in core.InputFrame) StepResult {
	if cmd, ok := Command(g.phase, in); ok {
		g.apply(cmd)
		return StepResult{State: g.State()}
	}
	if g.phase != PhasePlaying {
		return StepResult{State: g.State()}
	}
	events := g.tick(in.ResolvedIntent())
	return StepResult{State: g.State(), Events: events}
}

// Apply performs a single command, rejecting it if the phase does not accept it.
func (g *Game) Apply(cmd core.Action) error {
	if _, _, err := Transition(g.phase, cmd); err != nil {
		return err
	}
	g.apply(cmd)
	return nil
}

func (g *Game) apply(cmd core.Action) {
	to, fresh, err := Transition(g.phase, cmd)
	if err != nil {
		return
	}
	n := len(g.cfg.Characters)
	switch cmd {
	case core.ActionNext:
		g.charIndex = (g.charIndex + 1) % n
	case core.ActionPrev:
		g.charIndex = (g.charIndex + n - 1) % n
	}
	if fresh {
		g.newRun()
	}
	g.phase = to
}

// tick runs one simulation step: scheduler, spawn, physics, collision, terminal.
func (g *Game) tick(in core.Intent) []Event {
	var events []Event
	g.run.Ticks++

	// Scheduler
	g.run.Distance += g.difficulty.CurrentSpeed()
	if g.difficulty.Update(g.run.Distance) {
		level := g.difficulty.Level()
		events = append(events, Event{Kind: EventLevelUp, Value: level})
		if g.scenes.OnLevelChange(level) {
			events = append(events, Event{Kind: EventThemeChanged, Value: level, Detail: g.scenes.Theme()})
		}
	}
	if g.scenes.Update(g.run.Distance) {
		events = append(events, Event{Kind: EventSceneChanged, Value: g.scenes.SceneIndex(), Detail: g.scenes.Scene()})
	}
	speed := g.difficulty.CurrentSpeed()

	// Spawn
	g.coins.Advance(g.run.Distance)
	g.lasers.Advance()
	g.rockets.Advance(g.difficulty.ObstacleFrequency(g.difficulty.Level()).Rocket)
	g.meteors.Tick()
	g.meteors.UpdateDifficulty(g.run.Distance)
	if g.meteors.Count() == 0 && g.meteors.ShouldSpawn() {
		g.meteors.SpawnMeteor(g.player.X)
	}
	if g.player.ShootCooldown > 0 {
		g.player.ShootCooldown--
	}
	if in.Shoot && g.player.CanShoot() {
		x, y := g.player.Muzzle()
		g.projectiles = append(g.projectiles, newProjectile(g.cfg.Projectile, x, y))
		g.player.ShootCooldown = g.player.cooldown
		g.run.ShotsFired++
		events = append(events, Event{Kind: EventShotFired, Value: g.run.ShotsFired})
	}

	// Physics
	g.player.applyIntent(in)
	g.motion.Step(&g.player, g.platforms)
	_, row := g.player.Muzzle()
	g.rockets.Rocket.Update(speed, row)
	if g.lasers.Laser != nil {
		g.lasers.Laser.Update(speed, g.player.Y)
	}
	g.meteors.Update(speed)
	g.coins.Update(speed)
	for _, p := range g.projectiles {
		p.Update(float64(g.cfg.World.Width))
	}
	g.scenes.Advance(speed)

	// Collision
	events = append(events, g.resolveProjectiles()...)
	hb := g.player.Hitbox()
	cause := ""
	for _, h := range g.hazards() {
		if r, ok := h.Hitbox(); ok && r.Intersects(hb) && cause == "" {
			cause = h.Kind().String()
		}
	}
	for _, c := range g.coins.Collect(hb) {
		g.run.Coins += c.Value
		events = append(events, Event{Kind: EventCoinCollected, Value: c.Value})
	}
	if g.scenes.Trigger(hb) {
		events = append(events,
			Event{Kind: EventPortalTriggered},
			Event{Kind: EventSceneChanged, Value: g.scenes.SceneIndex(), Detail: g.scenes.Scene()},
		)
	}

	// Terminal
	if cause != "" {
		g.player.Alive = false
		g.run.Terminal = true
		g.run.Cause = cause
		g.phase = PhaseGameOver
		events = append(events, Event{Kind: EventRunEnded, Value: int(g.run.Distance), Detail: cause})
	}
	return events
}

// resolveProjectiles tests every projectile against every hazard. Rockets and
// meteors are shot down; lasers absorb the shot.
func (g *Game) resolveProjectiles() []Event {
	var events []Event
	for _, p := range g.projectiles {
		if !p.Active {
			continue
		}
		for _, h := range g.hazards() {
			r, ok := h.Hitbox()
			if !ok || !r.Intersects(p.Hitbox()) {
				continue
			}
			p.Active = false
			if d, ok := h.(destructible); ok {
				d.Destroy()
				switch h.Kind() {
				case HazardRocket:
					g.run.RocketsDestroyed++
				case HazardMeteor:
					g.run.MeteorsDestroyed++
				}
				events = append(events, Event{Kind: EventHazardDestroyed, Detail: h.Kind().String()})
			}
			break
		}
	}

	kept := g.projectiles[:0]
	for _, p := range g.projectiles {
		if p.Active {
			kept = append(kept, p)
		}
	}
	g.projectiles = kept
	g.meteors.prune()
	return events
}

// hazards lists every hazard instance, collidable or not.
func (g *Game) hazards() []Hazard {
	hs := make([]Hazard, 0, 2+g.meteors.Count())
	hs = append(hs, g.rockets.Rocket)
	if g.lasers.Laser != nil {
		hs = append(hs, g.lasers.Laser)
	}
	for _, m := range g.meteors.Meteors() {
		hs = append(hs, m)
	}
	return hs
}

// State returns the current game state.
func (g *Game) State() State {
	return State{
		Phase:     g.phase,
		Distance:  g.run.Distance,
		Coins:     g.run.Coins,
		Level:     g.difficulty.Level(),
		Speed:     g.difficulty.CurrentSpeed(),
		Scene:     g.scenes.Scene(),
		Theme:     g.scenes.Theme(),
		Character: g.Character().ID,
		Tick:      g.run.Ticks,
		Paused:    g.phase == PhasePaused,
		GameOver:  g.phase == PhaseGameOver,
		Cause:     g.run.Cause,
	}
}

// Run returns the counters of the current run.
func (g *Game) Run() RunState {
	return g.run
}

// Phase returns the current top-level state.
func (g *Game) Phase() Phase {
	return g.phase
}
