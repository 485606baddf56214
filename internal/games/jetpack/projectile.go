package jetpack

import (
	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// Projectile is a shot fired by the player, travelling right.
type Projectile struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	W      int     `json:"w"`
	H      int     `json:"h"`
	Active bool    `json:"active"`
}

func newProjectile(cfg config.ProjectileConfig, x, y float64) *Projectile {
	return &Projectile{
		X:      x,
		Y:      y - float64(cfg.Height)/2,
		VX:     cfg.Speed,
		W:      cfg.Width,
		H:      cfg.Height,
		Active: true,
	}
}

// Update moves the projectile and deactivates it past the right edge.
func (p *Projectile) Update(worldW float64) {
	if !p.Active {
		return
	}
	p.X += p.VX
	if p.X > worldW {
		p.Active = false
	}
}

// Hitbox returns the projectile's rectangle.
func (p *Projectile) Hitbox() core.Rect {
	return core.RectF(p.X, p.Y, float64(p.W), float64(p.H))
}
