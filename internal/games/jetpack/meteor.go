package jetpack

import (
	"math/rand"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// Meteor falls from above the world near the player's column.
type Meteor struct {
	X         float64 `json:"x"` // center
	Y         float64 `json:"y"` // center
	Size      int     `json:"size"`
	FallSpeed float64 `json:"fall_speed"`
	Alive     bool    `json:"alive"`

	exitY float64
}

// Kind implements Hazard.
func (m *Meteor) Kind() HazardKind { return HazardMeteor }

// Active implements Hazard.
func (m *Meteor) Active() bool { return m.Alive }

// Update moves the meteor down, faster at higher game speeds.
func (m *Meteor) Update(speed, _ float64) {
	if !m.Alive {
		return
	}
	m.Y += m.FallSpeed * speed
	if m.Y > m.exitY {
		m.Alive = false
	}
}

// Hitbox implements Hazard.
func (m *Meteor) Hitbox() (core.Rect, bool) {
	if !m.Alive {
		return core.Rect{}, false
	}
	half := float64(m.Size) / 2
	return core.RectF(m.X-half, m.Y-half, float64(m.Size), float64(m.Size)), true
}

// Destroy shoots the meteor down.
func (m *Meteor) Destroy() {
	m.Alive = false
}

// MeteorSystem spawns at most one meteor at a time on a jittered frame schedule.
type MeteorSystem struct {
	meteors        []*Meteor
	frameCounter   int
	nextSpawnFrame int
	interval       int

	cfg      config.MeteorConfig
	schedule config.MeteorIntervalConfig
	world    config.WorldConfig
	rng      *rand.Rand
}

// NewMeteorSystem creates a meteor system at the base interval.
func NewMeteorSystem(cfg config.MeteorConfig, schedule config.MeteorIntervalConfig, world config.WorldConfig, rng *rand.Rand) *MeteorSystem {
	ms := &MeteorSystem{
		cfg:      cfg,
		schedule: schedule,
		world:    world,
		rng:      rng,
		interval: schedule.Base,
	}
	ms.scheduleNext()
	return ms
}

func (ms *MeteorSystem) scheduleNext() {
	jitter := randRange(ms.rng, -ms.schedule.Variance, ms.schedule.Variance)
	ms.nextSpawnFrame = ms.frameCounter + ms.interval + jitter
}

// Tick advances the frame counter.
func (ms *MeteorSystem) Tick() {
	ms.frameCounter++
}

// ShouldSpawn reports whether the next spawn frame has been reached.
func (ms *MeteorSystem) ShouldSpawn() bool {
	return ms.frameCounter >= ms.nextSpawnFrame
}

// SpawnMeteor drops a meteor near playerX. It is a no-op while a meteor exists.
func (ms *MeteorSystem) SpawnMeteor(playerX float64) bool {
	if len(ms.meteors) > 0 {
		return false
	}

	w := float64(ms.world.Width)
	x := playerX + float64(randRange(ms.rng, -ms.cfg.SpreadX, ms.cfg.SpreadX))
	x = core.ClampF(x, ms.cfg.EdgeMargin, w-ms.cfg.EdgeMargin)

	ms.meteors = append(ms.meteors, &Meteor{
		X:         x,
		Y:         ms.cfg.SpawnY,
		Size:      randRange(ms.rng, ms.cfg.MinSize, ms.cfg.MaxSize),
		FallSpeed: uniform(ms.rng, ms.cfg.MinFall, ms.cfg.MaxFall),
		Alive:     true,
		exitY:     float64(ms.world.Height) + ms.cfg.ExitMargin,
	})
	ms.scheduleNext()
	return true
}

// UpdateDifficulty recomputes the spawn interval for the given distance.
// The pending spawn frame is kept; the new interval applies from the next spawn.
func (ms *MeteorSystem) UpdateDifficulty(distance float64) {
	ms.interval = MeteorInterval(ms.schedule, distance)
}

// Update moves every meteor and drops the ones that left or were shot.
func (ms *MeteorSystem) Update(speed float64) {
	for _, m := range ms.meteors {
		m.Update(speed, 0)
	}
	ms.prune()
}

func (ms *MeteorSystem) prune() {
	alive := ms.meteors[:0]
	for _, m := range ms.meteors {
		if m.Alive {
			alive = append(alive, m)
		}
	}
	ms.meteors = alive
}

// Count returns the number of live meteors.
func (ms *MeteorSystem) Count() int {
	return len(ms.meteors)
}

// Meteors returns the live meteors.
func (ms *MeteorSystem) Meteors() []*Meteor {
	return ms.meteors
}

// Interval returns the current base spawn interval in ticks.
func (ms *MeteorSystem) Interval() int {
	return ms.interval
}

// NextSpawnFrame returns the frame at which the next meteor is due.
func (ms *MeteorSystem) NextSpawnFrame() int {
	return ms.nextSpawnFrame
}

// FrameCounter returns the number of ticks counted so far.
func (ms *MeteorSystem) FrameCounter() int {
	return ms.frameCounter
}
