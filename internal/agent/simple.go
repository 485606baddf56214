package agent

import (
	"math/rand"

	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
	"github.com/vovakirdan/jetpack-runner/internal/registry"
)

func init() {
	registry.Register("idle", func() registry.Agent { return &Idle{} })
	registry.Register("random", func() registry.Agent { return NewRandom(8) })
}

// Idle never thrusts. Useful as a baseline and for gravity tests.
type Idle struct{}

// ID implements registry.Agent.
func (a *Idle) ID() string { return "idle" }

// Description implements registry.Agent.
func (a *Idle) Description() string { return "never thrusts" }

// Reset implements registry.Agent.
func (a *Idle) Reset(int64) {}

// Decide implements registry.Agent.
func (a *Idle) Decide(jetpack.Snapshot) core.Intent { return core.Intent{} }

// Random flips a coin for thrust and holds each choice for a few ticks so the
// pilot actually leaves the floor.
type Random struct {
	hold    int
	rng     *rand.Rand
	current bool
	left    int
}

// NewRandom returns a random agent that keeps each decision for hold ticks.
func NewRandom(hold int) *Random {
	if hold < 1 {
		hold = 1
	}
	r := &Random{hold: hold}
	r.Reset(0)
	return r
}

// ID implements registry.Agent.
func (a *Random) ID() string { return "random" }

// Description implements registry.Agent.
func (a *Random) Description() string { return "seeded coin flips, held for a few ticks" }

// Reset implements registry.Agent.
func (a *Random) Reset(seed int64) {
	a.rng = rand.New(rand.NewSource(seed))
	a.current = false
	a.left = 0
}

// Decide implements registry.Agent.
func (a *Random) Decide(jetpack.Snapshot) core.Intent {
	if a.left == 0 {
		a.current = a.rng.Intn(2) == 1
		a.left = a.hold
	}
	a.left--
	return core.DiscreteIntent(a.current)
}
