package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// Painter turns screen buffers into styled strings. Styles are bound to a
// lipgloss renderer so that an SSH session gets its own client's color
// profile instead of the server's.
type Painter struct {
	styles []lipgloss.Style // indexed by core.Color
}

// NewPainter builds the styles for every core.Color. A nil renderer uses
// the default one for stdout.
func NewPainter(r *lipgloss.Renderer) *Painter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	colors := core.Colors()
	p := &Painter{styles: make([]lipgloss.Style, len(colors))}
	for _, c := range colors {
		style := r.NewStyle()
		if code := c.ANSI(); code != "" {
			style = style.Foreground(lipgloss.Color(code))
		}
		p.styles[c] = style
	}
	return p
}

// Paint converts a screen buffer to a styled string. Adjacent cells of the
// same color share one style run to keep escape sequences down.
func (p *Painter) Paint(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		row := s.Row(y)
		for start := 0; start < len(row); {
			color := row[start].Color
			run.Reset()
			end := start
			for end < len(row) && row[end].Color == color {
				run.WriteRune(row[end].Rune)
				end++
			}
			sb.WriteString(p.style(color).Render(run.String()))
			start = end
		}
	}
	return sb.String()
}

func (p *Painter) style(c core.Color) lipgloss.Style {
	if int(c) < len(p.styles) {
		return p.styles[c]
	}
	return p.styles[core.ColorDefault]
}
