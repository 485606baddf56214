package env

import (
	"math"

	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
)

// ObservationSize is the length of every observation vector.
const ObservationSize = 19

// Observation indices.
const (
	ObsPlayerX = iota
	ObsPlayerY
	ObsPlayerVY
	ObsRocketPresent
	ObsRocketDX
	ObsRocketDY
	ObsLaserPresent
	ObsLaserDX
	ObsLaserDY
	ObsMeteorPresent
	ObsMeteorDX
	ObsMeteorDY
	ObsCoinPresent
	ObsCoinDX
	ObsCoinDY
	ObsSpeed
	ObsOnFloor
	ObsOnCeiling
	ObsShootReady
)

// Observation is a fixed-size normalized view of the world.
// Relative offsets are measured from the player hitbox center and divided by
// the world size.
type Observation []float32

// Observe encodes a snapshot. maxVelocity normalizes vertical speed.
func Observe(s jetpack.Snapshot, maxVelocity float64) Observation {
	obs := make(Observation, ObservationSize)
	w, h := float64(s.WorldW), float64(s.WorldH)
	hb := s.PlayerHitbox()
	px, py := center(hb)

	obs[ObsPlayerX] = float32(s.Player.X / w)
	obs[ObsPlayerY] = float32(s.Player.Y / h)
	if maxVelocity > 0 {
		obs[ObsPlayerVY] = float32(core.ClampF(s.Player.VelocityY/maxVelocity, -1, 1))
	}

	relative := func(slot int, x, y float64) {
		obs[slot] = 1
		obs[slot+1] = float32((x - px) / w)
		obs[slot+2] = float32((y - py) / h)
	}

	// The rocket is reported from the warning phase on so agents can react early.
	if s.Rocket.Phase != jetpack.RocketInactive {
		relative(ObsRocketPresent, s.Rocket.X, s.Rocket.Y)
	}
	if s.Laser != nil {
		r, _ := s.Laser.Hitbox()
		x, y := center(r)
		relative(ObsLaserPresent, x, y)
	}
	if m, ok := nearestMeteor(s.Meteors, px, py); ok {
		relative(ObsMeteorPresent, m.X, m.Y)
	}
	if c, ok := nearestCoin(s.Coins, px, py); ok {
		relative(ObsCoinPresent, c.X, c.Y)
	}

	if s.MaxSpeed > 0 {
		obs[ObsSpeed] = float32(s.Speed / s.MaxSpeed)
	}
	obs[ObsOnFloor] = flag(s.OnFloor())
	obs[ObsOnCeiling] = flag(s.OnCeiling())
	obs[ObsShootReady] = flag(s.ShootReady())
	return obs
}

func center(r core.Rect) (float64, float64) {
	return float64(r.X) + float64(r.W)/2, float64(r.Y) + float64(r.H)/2
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

func nearestMeteor(ms []jetpack.Meteor, px, py float64) (jetpack.Meteor, bool) {
	best, found := jetpack.Meteor{}, false
	bestD := math.Inf(1)
	for _, m := range ms {
		if d := math.Hypot(m.X-px, m.Y-py); m.Alive && d < bestD {
			best, bestD, found = m, d, true
		}
	}
	return best, found
}

// nearestCoin prefers coins that are still ahead of the player.
func nearestCoin(cs []jetpack.Coin, px, py float64) (jetpack.Coin, bool) {
	best, found := jetpack.Coin{}, false
	bestD := math.Inf(1)
	for _, c := range cs {
		if c.Collected || c.X+float64(c.Radius) < px {
			continue
		}
		if d := math.Hypot(c.X-px, c.Y-py); d < bestD {
			best, bestD, found = c, d, true
		}
	}
	return best, found
}
