package env

import (
	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
)

// Shaper turns run counter deltas into a scalar reward.
// It lives outside the game so reward tuning never touches the simulation.
type Shaper struct {
	cfg               config.RewardConfig
	lastCoins         int
	framesWithoutCoin int
}

// NewShaper returns a shaper for the given weights.
func NewShaper(cfg config.RewardConfig) *Shaper {
	return &Shaper{cfg: cfg}
}

// Reset clears the per-episode counters.
func (s *Shaper) Reset() {
	s.lastCoins = 0
	s.framesWithoutCoin = 0
}

// Reward scores one step given the run counters after it.
func (s *Shaper) Reward(run jetpack.RunState) float64 {
	var r float64
	if run.Terminal {
		r = s.cfg.Death
	} else {
		r = s.cfg.Survival
	}

	if gained := run.Coins - s.lastCoins; gained > 0 {
		r += s.cfg.Coin * float64(gained)
		s.framesWithoutCoin = 0
	} else {
		s.framesWithoutCoin++
	}
	s.lastCoins = run.Coins

	if s.cfg.MaxFramesWithoutCoin > 0 && s.framesWithoutCoin >= s.cfg.MaxFramesWithoutCoin {
		r += s.cfg.IdlePenalty
	}
	return r
}

// FramesWithoutCoin returns how long the agent has gone without a pickup.
func (s *Shaper) FramesWithoutCoin() int {
	return s.framesWithoutCoin
}
