package jetpack

import (
	"math/rand"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// Orientation of a laser barrier.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Laser is a static barrier that scrolls with the world.
// It is collidable for as long as it exists.
type Laser struct {
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	W           int         `json:"w"`
	H           int         `json:"h"`
	Orientation Orientation `json:"orientation"`
}

// Kind implements Hazard.
func (l *Laser) Kind() HazardKind { return HazardLaser }

// Active implements Hazard.
func (l *Laser) Active() bool { return true }

// Update scrolls the laser left with the world.
func (l *Laser) Update(speed, _ float64) {
	l.X -= speed
}

// Hitbox implements Hazard.
func (l *Laser) Hitbox() (core.Rect, bool) {
	return core.RectF(l.X, l.Y, float64(l.W), float64(l.H)), true
}

// OffScreen reports whether the right edge has passed the left edge of the world.
func (l *Laser) OffScreen() bool {
	return l.X+float64(l.W) <= 0
}

// LaserField keeps exactly one laser alive, regenerating it once it leaves.
type LaserField struct {
	Laser *Laser

	cfg   config.LaserConfig
	world config.WorldConfig
	rng   *rand.Rand
}

func newLaserField(cfg config.LaserConfig, world config.WorldConfig, rng *rand.Rand) *LaserField {
	return &LaserField{cfg: cfg, world: world, rng: rng}
}

// Advance generates a fresh laser when none exists or the current one is gone.
// Returns true when a new laser was generated.
func (f *LaserField) Advance() bool {
	if f.Laser != nil && !f.Laser.OffScreen() {
		return false
	}
	f.Laser = f.generate()
	return true
}

func (f *LaserField) generate() *Laser {
	orientation := Orientation(f.rng.Intn(2))
	length := randRange(f.rng, f.cfg.MinLength, f.cfg.MaxLength)
	offset := randRange(f.rng, f.cfg.MinOffset, f.cfg.MaxOffset)

	l := &Laser{
		X:           float64(f.world.Width + offset),
		Orientation: orientation,
	}
	if orientation == Horizontal {
		l.W, l.H = length, f.cfg.Thickness
		l.Y = float64(randRange(f.rng, f.cfg.MarginY, f.world.Height-f.cfg.MarginY))
	} else {
		l.W, l.H = f.cfg.Thickness, length
		l.Y = float64(randRange(f.rng, f.cfg.MarginY, f.world.Height-f.cfg.VerticalBottomMargin))
	}
	return l
}
