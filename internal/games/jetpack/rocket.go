package jetpack

import (
	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// RocketPhase is the lifecycle stage of the rocket.
type RocketPhase int

const (
	RocketInactive RocketPhase = iota
	RocketWarning              // tracking the player from the right edge
	RocketAttack               // flying left, collidable
)

// String returns a human-readable name for the phase.
func (p RocketPhase) String() string {
	switch p {
	case RocketWarning:
		return "warning"
	case RocketAttack:
		return "attack"
	default:
		return "inactive"
	}
}

// Rocket is a single-slot hazard: it warns, then attacks along its row.
type Rocket struct {
	X     float64     `json:"x"`
	Y     float64     `json:"y"`
	Phase RocketPhase `json:"phase"`
	Timer int         `json:"timer"` // ticks spent in the warning phase

	cfg    config.RocketConfig
	worldW float64
	worldH float64
}

func newRocket(cfg config.RocketConfig, world config.WorldConfig) *Rocket {
	r := &Rocket{cfg: cfg, worldW: float64(world.Width), worldH: float64(world.Height)}
	r.reset()
	return r
}

func (r *Rocket) reset() {
	r.X = r.worldW
	r.Y = r.worldH / 2
	r.Phase = RocketInactive
	r.Timer = 0
}

// Arm starts the warning phase.
func (r *Rocket) Arm() {
	r.reset()
	r.Phase = RocketWarning
}

// Kind implements Hazard.
func (r *Rocket) Kind() HazardKind { return HazardRocket }

// Active reports whether the rocket is attacking.
func (r *Rocket) Active() bool { return r.Phase == RocketAttack }

// Update advances the rocket by one tick. row is the player's firing row,
// which the warning rocket converges on.
func (r *Rocket) Update(speed, row float64) {
	switch r.Phase {
	case RocketWarning:
		// Converge on the row, overshooting by a fixed step.
		if r.Y > row+r.cfg.TrackOffset {
			r.Y -= r.cfg.TrackSpeed
		} else {
			r.Y += r.cfg.TrackSpeed
		}
		r.Timer++
		if r.Timer >= r.cfg.WarningTicks {
			r.Phase = RocketAttack
		}
	case RocketAttack:
		r.X -= r.cfg.AttackSpeed + speed
		if r.X < r.cfg.ExitX {
			r.reset()
		}
	}
}

// Hitbox implements Hazard. The rectangle is centred on Y so a rocket that
// settled on the firing row can be shot down.
func (r *Rocket) Hitbox() (core.Rect, bool) {
	if !r.Active() {
		return core.Rect{}, false
	}
	h := float64(r.cfg.Height)
	return core.RectF(r.X, r.Y-h/2, float64(r.cfg.Width), h), true
}

// Destroy shoots the rocket down.
func (r *Rocket) Destroy() {
	r.reset()
}

// RocketLauncher re-arms the rocket after it has been idle for a number of
// ticks that shrinks with the difficulty level.
type RocketLauncher struct {
	Rocket  *Rocket
	counter int
}

func newRocketLauncher(cfg config.RocketConfig, world config.WorldConfig) *RocketLauncher {
	return &RocketLauncher{Rocket: newRocket(cfg, world)}
}

// Advance counts idle ticks and arms the rocket once the cooldown elapses.
// Returns true on the tick the rocket is armed.
func (l *RocketLauncher) Advance(cooldown int) bool {
	if l.Rocket.Phase != RocketInactive {
		return false
	}
	l.counter++
	if l.counter > cooldown {
		l.counter = 0
		l.Rocket.Arm()
		return true
	}
	return false
}

// Idle returns the ticks counted since the rocket went inactive.
func (l *RocketLauncher) Idle() int {
	return l.counter
}
