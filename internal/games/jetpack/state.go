package jetpack

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// ErrInvalidTransition is returned for a command the current phase does not accept.
var ErrInvalidTransition = errors.New("invalid transition")

// Phase is the top-level game state.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseCharacterSelect
	PhasePlaying
	PhasePaused
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseCharacterSelect:
		return "character_select"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

type transitionKey struct {
	from Phase
	cmd  core.Action
}

// transition describes the target phase and whether a fresh run begins.
type transition struct {
	to    Phase
	fresh bool
}

var transitions = map[transitionKey]transition{
	{PhaseStart, core.ActionStart}:             {PhasePlaying, true},
	{PhaseStart, core.ActionSelectCharacter}:   {PhaseCharacterSelect, false},
	{PhaseCharacterSelect, core.ActionConfirm}: {PhaseStart, false},
	{PhaseCharacterSelect, core.ActionBack}:    {PhaseStart, false},
	{PhaseCharacterSelect, core.ActionNext}:    {PhaseCharacterSelect, false},
	{PhaseCharacterSelect, core.ActionPrev}:    {PhaseCharacterSelect, false},
	{PhasePlaying, core.ActionPause}:           {PhasePaused, false},
	{PhasePlaying, core.ActionRestart}:         {PhasePlaying, true},
	{PhasePaused, core.ActionPause}:            {PhasePlaying, false},
	{PhasePaused, core.ActionResume}:           {PhasePlaying, false},
	{PhasePaused, core.ActionRestart}:          {PhasePlaying, true},
	{PhaseGameOver, core.ActionRestart}:        {PhasePlaying, true},
	{PhaseGameOver, core.ActionMenu}:           {PhaseStart, false},
}

// commandOrder is the precedence used when a frame carries several commands.
var commandOrder = []core.Action{
	core.ActionRestart,
	core.ActionMenu,
	core.ActionPause,
	core.ActionResume,
	core.ActionStart,
	core.ActionSelectCharacter,
	core.ActionConfirm,
	core.ActionBack,
	core.ActionNext,
	core.ActionPrev,
}

// Transition looks up the phase reached from `from` by cmd.
func Transition(from Phase, cmd core.Action) (Phase, bool, error) {
	t, ok := transitions[transitionKey{from, cmd}]
	if !ok {
		return from, false, fmt.Errorf("%w: %s in %s", ErrInvalidTransition, cmd, from)
	}
	return t.to, t.fresh, nil
}

// Command returns the first command in the frame the phase accepts.
func Command(from Phase, in core.InputFrame) (core.Action, bool) {
	for _, cmd := range commandOrder {
		if !in.Has(cmd) {
			continue
		}
		if _, ok := transitions[transitionKey{from, cmd}]; ok {
			return cmd, true
		}
	}
	return core.ActionNone, false
}
