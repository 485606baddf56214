package jetpack

import (
	"math/rand"

	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// HazardKind identifies a hazard type.
type HazardKind int

const (
	HazardRocket HazardKind = iota
	HazardLaser
	HazardMeteor
)

// String returns a human-readable name for the hazard kind.
func (k HazardKind) String() string {
	switch k {
	case HazardRocket:
		return "rocket"
	case HazardLaser:
		return "laser"
	case HazardMeteor:
		return "meteor"
	default:
		return "unknown"
	}
}

// Hazard is anything that ends the run on contact.
// Hitbox reports false while the hazard is not collidable.
type Hazard interface {
	Kind() HazardKind
	Update(speed, playerY float64)
	Hitbox() (core.Rect, bool)
	Active() bool
}

// destructible hazards can be shot down by projectiles.
type destructible interface {
	Destroy()
}

// randRange returns an int in [lo, hi].
func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// uniform returns a float64 in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
