package jetpack

import (
	"math"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// Player is the jetpack pilot. X is fixed unless the intent moves it.
type Player struct {
	X                 float64 `json:"x"`
	Y                 float64 `json:"y"`
	VelocityY         float64 `json:"vy"`
	Gravity           float64 `json:"gravity"`
	Thrust            float64 `json:"thrust"`
	Move              float64 `json:"move"`
	ShootCooldown     int     `json:"shoot_cooldown"`
	Alive             bool    `json:"alive"`
	ControlledByAgent bool    `json:"agent"`
	Width             int     `json:"w"`
	Height            int     `json:"h"`
	HitboxOffsetY     int     `json:"hitbox_offset_y"`

	cooldown int // ticks between shots for the selected character
}

func newPlayer(cfg config.JetpackConfig, ch config.CharacterConfig) Player {
	return Player{
		X:             cfg.Player.X,
		Y:             cfg.Player.Y,
		Gravity:       cfg.Physics.Gravity * ch.GravityScale,
		Alive:         true,
		Width:         cfg.Player.Width,
		Height:        cfg.Player.Height,
		HitboxOffsetY: cfg.Player.HitboxOffsetY,
		cooldown:      int(math.Round(float64(cfg.Projectile.Cooldown) * ch.CooldownScale)),
	}
}

// Hitbox returns the collision rectangle. The sprite's top rows are not solid.
func (p *Player) Hitbox() core.Rect {
	return core.RectF(p.X, p.Y+float64(p.HitboxOffsetY), float64(p.Width), float64(p.Height))
}

// Muzzle returns where projectiles leave the jetpack.
func (p *Player) Muzzle() (float64, float64) {
	return p.X + float64(p.Width), p.Y + float64(p.HitboxOffsetY) + float64(p.Height)/2
}

// CanShoot reports whether the shot cooldown has elapsed.
func (p *Player) CanShoot() bool {
	return p.ShootCooldown == 0
}

func (p *Player) applyIntent(in core.Intent) {
	p.Thrust = in.Thrust
	p.Move = in.Move
}
