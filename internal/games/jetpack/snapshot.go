package jetpack

import "github.com/vovakirdan/jetpack-runner/internal/core"

// Timers exposes the spawn managers' internal counters.
type Timers struct {
	RocketIdle      int     `json:"rocket_idle"`
	MeteorFrame     int     `json:"meteor_frame"`
	NextMeteorFrame int     `json:"next_meteor_frame"`
	MeteorInterval  int     `json:"meteor_interval"`
	LastCoinSpawn   float64 `json:"last_coin_spawn"`
}

// Snapshot is a deep copy of the simulation for renderers and agents.
// Mutating it has no effect on the game.
type Snapshot struct {
	Tick        int          `json:"tick"`
	Phase       Phase        `json:"phase"`
	Run         RunState     `json:"run"`
	Level       int          `json:"level"`
	Speed       float64      `json:"speed"`
	MaxSpeed    float64      `json:"max_speed"`
	Scene       string       `json:"scene"`
	SceneIndex  int          `json:"scene_index"`
	Theme       string       `json:"theme"`
	Character   string       `json:"character"`
	WorldW      int          `json:"world_w"`
	WorldH      int          `json:"world_h"`
	Platforms   Platforms    `json:"platforms"`
	Player      Player       `json:"player"`
	Rocket      Rocket       `json:"rocket"`
	Laser       *Laser       `json:"laser,omitempty"`
	Meteors     []Meteor     `json:"meteors"`
	Coins       []Coin       `json:"coins"`
	Projectiles []Projectile `json:"projectiles"`
	Portal      Portal       `json:"portal"`
	Frequencies Frequencies  `json:"frequencies"`
	Timers      Timers       `json:"timers"`
}

// Snapshot copies the current state of every entity.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:        g.run.Ticks,
		Phase:       g.phase,
		Run:         g.run,
		Level:       g.difficulty.Level(),
		Speed:       g.difficulty.CurrentSpeed(),
		MaxSpeed:    g.cfg.Speed.Max,
		Scene:       g.scenes.Scene(),
		SceneIndex:  g.scenes.SceneIndex(),
		Theme:       g.scenes.Theme(),
		Character:   g.Character().ID,
		WorldW:      g.cfg.World.Width,
		WorldH:      g.cfg.World.Height,
		Platforms:   g.platforms,
		Player:      g.player,
		Rocket:      *g.rockets.Rocket,
		Portal:      g.scenes.Portal(),
		Frequencies: g.difficulty.ObstacleFrequency(g.difficulty.Level()),
		Timers: Timers{
			RocketIdle:      g.rockets.Idle(),
			MeteorFrame:     g.meteors.FrameCounter(),
			NextMeteorFrame: g.meteors.NextSpawnFrame(),
			MeteorInterval:  g.meteors.Interval(),
			LastCoinSpawn:   g.coins.lastSpawn,
		},
	}
	if g.lasers.Laser != nil {
		l := *g.lasers.Laser
		s.Laser = &l
	}
	s.Meteors = make([]Meteor, 0, g.meteors.Count())
	for _, m := range g.meteors.Meteors() {
		s.Meteors = append(s.Meteors, *m)
	}
	s.Coins = make([]Coin, 0, len(g.coins.Coins()))
	for _, c := range g.coins.Coins() {
		s.Coins = append(s.Coins, *c)
	}
	s.Projectiles = make([]Projectile, 0, len(g.projectiles))
	for _, p := range g.projectiles {
		s.Projectiles = append(s.Projectiles, *p)
	}
	return s
}

// PlayerHitbox returns the pilot's collision rectangle.
func (s Snapshot) PlayerHitbox() core.Rect {
	return s.Player.Hitbox()
}

// OnFloor reports whether the pilot is standing on the floor.
func (s Snapshot) OnFloor() bool {
	return s.Platforms.OnFloor(s.Player.Hitbox())
}

// OnCeiling reports whether the pilot is pressed against the ceiling.
func (s Snapshot) OnCeiling() bool {
	return s.Platforms.OnCeiling(s.Player.Hitbox())
}

// ShootReady reports whether the pilot can fire this tick.
func (s Snapshot) ShootReady() bool {
	return s.Player.ShootCooldown <= 1
}
