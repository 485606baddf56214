// Package agent holds the built-in decision sources. Each agent registers
// itself with the registry on import.
package agent

import (
	"math"

	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
	"github.com/vovakirdan/jetpack-runner/internal/registry"
)

// Rule thresholds, in world pixels.
const (
	laserBand    = 20  // vertical margin around a laser
	rocketReachX = 250 // horizontal distance at which a rocket is a threat
	rocketReachY = 40  // vertical distance at which a rocket is a threat

	// Coins are chased while their x is inside this window around the pilot.
	coinBehind = 20
	coinAhead  = 40
)

func init() {
	registry.Register("rule", func() registry.Agent { return &Rule{} })
}

// Rule thrusts to escape an imminent hazard or to reach a coin overhead.
// It waits otherwise.
type Rule struct{}

// ID implements registry.Agent.
func (r *Rule) ID() string { return "rule" }

// Description implements registry.Agent.
func (r *Rule) Description() string {
	return "hand-written policy: dodge lasers and rockets, climb to coins"
}

// Reset implements registry.Agent.
func (r *Rule) Reset(int64) {}

// Decide implements registry.Agent.
func (r *Rule) Decide(s jetpack.Snapshot) core.Intent {
	return core.DiscreteIntent(r.shouldJump(s))
}

func (r *Rule) shouldJump(s jetpack.Snapshot) bool {
	hb := s.PlayerHitbox()
	py := float64(hb.Y) + float64(hb.H)/2

	if s.Laser != nil {
		lr, _ := s.Laser.Hitbox()
		// Lasers the pilot has already passed are ignored.
		if lr.Right() > hb.X {
			top, bottom := float64(lr.Y), float64(lr.Bottom())
			if py > top-laserBand && py < bottom+laserBand {
				return true
			}
		}
	}

	if s.Rocket.Phase != jetpack.RocketInactive {
		if math.Abs(s.Rocket.X-s.Player.X) < rocketReachX && math.Abs(s.Rocket.Y-py) < rocketReachY {
			return true
		}
	}

	for _, c := range s.Coins {
		if c.Collected {
			continue
		}
		dx := c.X - s.Player.X
		if dx > -coinBehind && dx < coinAhead && c.Y < py {
			return true
		}
	}
	return false
}
