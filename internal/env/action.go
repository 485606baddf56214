package env

import (
	"fmt"
	"math"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// ActionSpace decodes a raw action vector into an intent.
// Every space maps onto the same core.Intent, so the game never knows which
// one an agent uses.
type ActionSpace interface {
	Name() string
	// Shape is the expected action vector length.
	Shape() int
	// Decode validates the vector. With clamp set, out of range values are
	// forced into range instead of rejected; a wrong shape is always an error.
	Decode(action []float64, clamp bool) (core.Intent, error)
}

// NewActionSpace returns the named action space.
func NewActionSpace(name string) (ActionSpace, error) {
	switch name {
	case config.ActionSpaceDiscrete, "":
		return Discrete{}, nil
	case config.ActionSpaceMultiBinary:
		return MultiBinary{}, nil
	case config.ActionSpaceContinuous:
		return Continuous{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown action space %q", core.ErrInvalidAction, name)
	}
}

func checkShape(space ActionSpace, action []float64) error {
	if len(action) != space.Shape() {
		return fmt.Errorf("%w: %s expects %d values, got %d",
			core.ErrInvalidAction, space.Name(), space.Shape(), len(action))
	}
	for i, v := range action {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: value %d is %v", core.ErrInvalidAction, i, v)
		}
	}
	return nil
}

// binary reads a 0/1 channel.
func binary(v float64, clamp bool, channel string) (bool, error) {
	switch {
	case v == 0:
		return false, nil
	case v == 1:
		return true, nil
	case clamp:
		return v >= 0.5, nil
	default:
		return false, fmt.Errorf("%w: %s must be 0 or 1, got %v", core.ErrInvalidAction, channel, v)
	}
}

// bounded reads a channel restricted to [lo, hi].
func bounded(v, lo, hi float64, clamp bool, channel string) (float64, error) {
	if v >= lo && v <= hi {
		return v, nil
	}
	if clamp {
		return core.ClampF(v, lo, hi), nil
	}
	return 0, fmt.Errorf("%w: %s must be in [%v, %v], got %v", core.ErrInvalidAction, channel, lo, hi, v)
}

// Discrete is the two-valued {wait, jump} space.
type Discrete struct{}

// Name implements ActionSpace.
func (Discrete) Name() string { return config.ActionSpaceDiscrete }

// Shape implements ActionSpace.
func (Discrete) Shape() int { return 1 }

// Decode implements ActionSpace.
func (d Discrete) Decode(action []float64, clamp bool) (core.Intent, error) {
	if err := checkShape(d, action); err != nil {
		return core.Intent{}, err
	}
	jump, err := binary(action[0], clamp, "action")
	if err != nil {
		return core.Intent{}, err
	}
	return core.DiscreteIntent(jump), nil
}

// MultiBinary is four independent switches: left, right, thrust, shoot.
type MultiBinary struct{}

// Name implements ActionSpace.
func (MultiBinary) Name() string { return config.ActionSpaceMultiBinary }

// Shape implements ActionSpace.
func (MultiBinary) Shape() int { return 4 }

// Decode implements ActionSpace.
func (m MultiBinary) Decode(action []float64, clamp bool) (core.Intent, error) {
	if err := checkShape(m, action); err != nil {
		return core.Intent{}, err
	}
	var bits [4]bool
	for i, name := range []string{"left", "right", "thrust", "shoot"} {
		b, err := binary(action[i], clamp, name)
		if err != nil {
			return core.Intent{}, err
		}
		bits[i] = b
	}

	in := core.Intent{Shoot: bits[3]}
	if bits[2] {
		in.Thrust = 1
	}
	if bits[0] {
		in.Move--
	}
	if bits[1] {
		in.Move++
	}
	return in, nil
}

// Continuous is boost in [0,1], move in [-1,1] and a shoot trigger in [0,1]
// that fires at 0.5 or above.
type Continuous struct{}

// Name implements ActionSpace.
func (Continuous) Name() string { return config.ActionSpaceContinuous }

// Shape implements ActionSpace.
func (Continuous) Shape() int { return 3 }

// Decode implements ActionSpace.
func (c Continuous) Decode(action []float64, clamp bool) (core.Intent, error) {
	if err := checkShape(c, action); err != nil {
		return core.Intent{}, err
	}
	boost, err := bounded(action[0], 0, 1, clamp, "boost")
	if err != nil {
		return core.Intent{}, err
	}
	move, err := bounded(action[1], -1, 1, clamp, "move")
	if err != nil {
		return core.Intent{}, err
	}
	shoot, err := bounded(action[2], 0, 1, clamp, "shoot")
	if err != nil {
		return core.Intent{}, err
	}
	return core.Intent{Thrust: boost, Move: move, Shoot: shoot >= 0.5}, nil
}
