package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
)

// DefaultHoldTicks is how long a movement key stays pressed after its last
// repeat. Terminals report presses only, never releases.
const DefaultHoldTicks = 15

// KeyMap defines the key bindings of the game screen.
type KeyMap struct {
	Thrust     key.Binding
	Left       key.Binding
	Right      key.Binding
	Shoot      key.Binding
	Start      key.Binding
	Character  key.Binding
	Prev       key.Binding
	Next       key.Binding
	Back       key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Menu       key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Thrust: key.NewBinding(
			key.WithKeys(" ", "w", "up"),
			key.WithHelp("space", "thrust"),
		),
		Left: key.NewBinding(
			key.WithKeys("a", "left"),
			key.WithHelp("a/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("d", "right"),
			key.WithHelp("d/→", "right"),
		),
		Shoot: key.NewBinding(
			key.WithKeys("f", "x"),
			key.WithHelp("f", "shoot"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		Character: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "pilot"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "next"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("esc", "back"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Menu: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "menu"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HelpFor returns the bindings worth showing in the given phase.
func (k KeyMap) HelpFor(phase jetpack.Phase) []key.Binding {
	switch phase {
	case jetpack.PhaseStart:
		return []key.Binding{k.Start, k.Character, k.Quit}
	case jetpack.PhaseCharacterSelect:
		return []key.Binding{k.Prev, k.Next, k.Start, k.Back}
	case jetpack.PhasePlaying:
		return []key.Binding{k.Thrust, k.Left, k.Right, k.Shoot, k.Pause, k.Quit}
	case jetpack.PhasePaused:
		return []key.Binding{k.Pause, k.Restart, k.Quit}
	case jetpack.PhaseGameOver:
		return []key.Binding{k.Restart, k.Menu, k.Quit}
	}
	return []key.Binding{k.Quit}
}

// KeyMapper translates Bubble Tea key messages to input frames.
// Commands land in the next frame only; thrust and movement stay held for
// a few ticks so that key repeat reads as a continuous press.
type KeyMapper struct {
	Keys KeyMap

	hold   int
	thrust int
	left   int
	right  int
}

// NewKeyMapper creates a key mapper with the default bindings.
// A hold of zero or less uses DefaultHoldTicks.
func NewKeyMapper(hold int) *KeyMapper {
	if hold <= 0 {
		hold = DefaultHoldTicks
	}
	return &KeyMapper{Keys: DefaultKeyMap(), hold: hold}
}

// MapKey records a key press into the frame.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg, frame *core.InputFrame) bool {
	k := km.Keys
	if key.Matches(msg, k.Quit) {
		return true
	}

	// One key may carry several commands; the game takes the first one its
	// current phase accepts.
	if key.Matches(msg, k.Start) {
		frame.Set(core.ActionStart)
		frame.Set(core.ActionConfirm)
	}
	if key.Matches(msg, k.Character) {
		frame.Set(core.ActionSelectCharacter)
	}
	if key.Matches(msg, k.Prev) {
		frame.Set(core.ActionPrev)
	}
	if key.Matches(msg, k.Next) {
		frame.Set(core.ActionNext)
	}
	if key.Matches(msg, k.Back) {
		frame.Set(core.ActionBack)
	}
	if key.Matches(msg, k.Pause) {
		frame.Set(core.ActionPause)
	}
	if key.Matches(msg, k.Restart) {
		frame.Set(core.ActionRestart)
	}
	if key.Matches(msg, k.Menu) {
		frame.Set(core.ActionMenu)
	}
	if key.Matches(msg, k.Shoot) {
		frame.Set(core.ActionShoot)
	}

	if key.Matches(msg, k.Thrust) {
		km.thrust = km.hold
	}
	if key.Matches(msg, k.Left) {
		km.left = km.hold
		km.right = 0
	}
	if key.Matches(msg, k.Right) {
		km.right = km.hold
		km.left = 0
	}
	return false
}

// Tick adds the held channels to the frame and counts them down.
// Call once per simulation tick, before stepping the game.
func (km *KeyMapper) Tick(frame *core.InputFrame) {
	if km.thrust > 0 {
		frame.Set(core.ActionThrust)
		km.thrust--
	}
	if km.left > 0 {
		frame.Set(core.ActionLeft)
		km.left--
	}
	if km.right > 0 {
		frame.Set(core.ActionRight)
		km.right--
	}
}

// Release drops every held channel.
func (km *KeyMapper) Release() {
	km.thrust, km.left, km.right = 0, 0, 0
}
