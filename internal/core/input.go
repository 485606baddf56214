package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAction is returned when an action or intent is outside the
// accepted range for its channel.
var ErrInvalidAction = errors.New("invalid action")

// Action represents a semantic command, abstracted from physical key presses
// and from agent outputs. Humans and agents produce the same actions.
type Action int

const (
	ActionNone            Action = iota
	ActionThrust                 // Space, W, Up - fire the jetpack while held
	ActionLeft                   // A, Left - drift left
	ActionRight                  // D, Right - drift right
	ActionShoot                  // F, X - fire a projectile
	ActionStart                  // Enter on the start screen
	ActionSelectCharacter        // C on the start screen
	ActionNext                   // cycle forward in a list
	ActionPrev                   // cycle backward in a list
	ActionConfirm                // Enter - confirm selection
	ActionBack                   // B, Escape - leave a sub screen
	ActionPause                  // P - toggle pause
	ActionResume                 // resume from pause
	ActionRestart                // R - fresh run
	ActionMenu                   // M - back to the start screen after game over
	ActionQuit                   // Q, Ctrl+C - exit
)

var actionNames = map[Action]string{
	ActionNone:            "None",
	ActionThrust:          "Thrust",
	ActionLeft:            "Left",
	ActionRight:           "Right",
	ActionShoot:           "Shoot",
	ActionStart:           "Start",
	ActionSelectCharacter: "SelectCharacter",
	ActionNext:            "Next",
	ActionPrev:            "Prev",
	ActionConfirm:         "Confirm",
	ActionBack:            "Back",
	ActionPause:           "Pause",
	ActionResume:          "Resume",
	ActionRestart:         "Restart",
	ActionMenu:            "Menu",
	ActionQuit:            "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// ParseAction is the inverse of Action.String.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("%w: unknown action %q", ErrInvalidAction, name)
}

// Intent is the analog control channel for one tick.
// Thrust is in [0,1], Move is in [-1,1].
type Intent struct {
	Thrust float64 `json:"thrust"`
	Move   float64 `json:"move"`
	Shoot  bool    `json:"shoot"`
}

// Validate rejects NaN and out of range values.
func (i Intent) Validate() error {
	if math.IsNaN(i.Thrust) || i.Thrust < 0 || i.Thrust > 1 {
		return fmt.Errorf("%w: thrust %v outside [0,1]", ErrInvalidAction, i.Thrust)
	}
	if math.IsNaN(i.Move) || i.Move < -1 || i.Move > 1 {
		return fmt.Errorf("%w: move %v outside [-1,1]", ErrInvalidAction, i.Move)
	}
	return nil
}

// Clamped returns a copy with every channel forced into range. NaN becomes zero.
func (i Intent) Clamped() Intent {
	if math.IsNaN(i.Thrust) {
		i.Thrust = 0
	}
	if math.IsNaN(i.Move) {
		i.Move = 0
	}
	i.Thrust = ClampF(i.Thrust, 0, 1)
	i.Move = ClampF(i.Move, -1, 1)
	return i
}

// InputFrame is the complete control input for one simulation tick.
type InputFrame struct {
	// Actions maps commands to whether they were triggered this frame.
	Actions map[Action]bool `json:"actions,omitempty"`
	// Intent carries analog control from agents.
	Intent Intent `json:"intent"`
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// IntentFrame wraps an intent into an input frame with no commands.
func IntentFrame(i Intent) InputFrame {
	return InputFrame{Actions: make(map[Action]bool), Intent: i}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions and the intent for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Intent = Intent{}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.Intent = f.Intent
	return clone
}

// ResolvedIntent merges the digital channels into the analog intent.
// A pressed Thrust forces full thrust; Left and Right cancel each other.
func (f InputFrame) ResolvedIntent() Intent {
	in := f.Intent.Clamped()
	if f.Has(ActionThrust) {
		in.Thrust = 1
	}
	move := 0.0
	if f.Has(ActionLeft) {
		move--
	}
	if f.Has(ActionRight) {
		move++
	}
	if f.Has(ActionLeft) || f.Has(ActionRight) {
		in.Move = move
	}
	if f.Has(ActionShoot) {
		in.Shoot = true
	}
	return in
}

// DiscreteIntent maps the two-valued {wait, jump} decision onto an intent.
func DiscreteIntent(jump bool) Intent {
	if jump {
		return Intent{Thrust: 1}
	}
	return Intent{}
}
