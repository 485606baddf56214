// Package tui runs the jetpack runner in a terminal through Bubble Tea,
// locally or per SSH session via Wish. It maps keys to input frames,
// steps the game on a fixed tick and renders the screen buffer with lipgloss.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg asks the model to advance the simulation by one step.
type TickMsg struct {
	At time.Time
}

// tickInterval is the wall time between steps at rate steps per second.
// Rates outside [1, 240] fall back to 60.
func tickInterval(rate int) time.Duration {
	if rate < 1 || rate > 240 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

func tickCmd(rate int) tea.Cmd {
	return tea.Tick(tickInterval(rate), func(t time.Time) tea.Msg {
		return TickMsg{At: t}
	})
}
