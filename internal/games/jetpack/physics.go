package jetpack

import (
	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// Platforms are the solid ceiling and floor strips.
type Platforms struct {
	Ceiling core.Rect `json:"ceiling"`
	Floor   core.Rect `json:"floor"`
}

func newPlatforms(world config.WorldConfig) Platforms {
	return Platforms{
		Ceiling: core.NewRect(0, 0, world.Width, world.PlatformHeight),
		Floor:   core.NewRect(0, world.Height-world.PlatformHeight, world.Width, world.PlatformHeight),
	}
}

// OnFloor reports whether the hitbox touches or sinks into the floor.
func (pl Platforms) OnFloor(hb core.Rect) bool {
	return hb.Bottom() >= pl.Floor.Y
}

// OnCeiling reports whether the hitbox touches or rises into the ceiling.
func (pl Platforms) OnCeiling(hb core.Rect) bool {
	return hb.Y <= pl.Ceiling.Bottom()
}

// Motion integrates the player's movement for one tick.
type Motion interface {
	Step(p *Player, pl Platforms)
}

// NewMotion returns the configured vertical motion model.
func NewMotion(cfg config.JetpackConfig) Motion {
	horizontal := horizontalMotion{
		rate: cfg.Player.MoveRate,
		maxX: float64(cfg.World.Width - cfg.Player.Width),
	}
	if cfg.Physics.MotionModel == config.MotionRate {
		return rateMotion{
			horizontalMotion: horizontal,
			climb:            cfg.Physics.ClimbRate,
			fall:             cfg.Physics.FallRate,
		}
	}
	return gravityMotion{horizontalMotion: horizontal, maxVelocity: cfg.Physics.MaxVelocity}
}

type horizontalMotion struct {
	rate float64
	maxX float64
}

func (h horizontalMotion) stepX(p *Player) {
	p.X = core.ClampF(p.X+p.Move*h.rate, 0, h.maxX)
}

// gravityMotion accelerates down by gravity and up by gravity at full thrust.
// Contacts are evaluated on the hitbox before the move.
type gravityMotion struct {
	horizontalMotion
	maxVelocity float64
}

func (m gravityMotion) Step(p *Player, pl Platforms) {
	hb := p.Hitbox()
	p.VelocityY += p.Gravity * (1 - 2*p.Thrust)
	p.VelocityY = core.ClampF(p.VelocityY, -m.maxVelocity, m.maxVelocity)

	if (pl.OnFloor(hb) && p.VelocityY > 0) || (pl.OnCeiling(hb) && p.VelocityY < 0) {
		p.VelocityY = 0
	}
	p.Y += p.VelocityY
	m.stepX(p)
}

// rateMotion moves at a fixed climb or fall rate and stops at the platforms.
type rateMotion struct {
	horizontalMotion
	climb float64
	fall  float64
}

func (m rateMotion) Step(p *Player, pl Platforms) {
	dy := m.fall
	if p.Thrust > 0 {
		dy = -m.climb * p.Thrust
	}
	offset := float64(p.HitboxOffsetY)
	minY := float64(pl.Ceiling.Bottom()) - offset
	maxY := float64(pl.Floor.Y) - offset - float64(p.Height)

	before := p.Y
	p.Y = core.ClampF(p.Y+dy, minY, maxY)
	p.VelocityY = p.Y - before
	m.stepX(p)
}
