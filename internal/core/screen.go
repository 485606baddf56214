package core

import (
	"strings"
)

// Cell is a single character position on the screen.
type Cell struct {
	Rune  rune
	Color Color
}

// Screen is a character buffer the game draws into. The world is drawn in
// cells; the platform layer turns rows of cells into styled terminal output.
type Screen struct {
	width  int
	height int
	cells  []Cell // row-major
}

// NewScreen creates a cleared screen buffer.
func NewScreen(width, height int) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	return s
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Resize changes the dimensions and clears the buffer. Every frame is
// redrawn from a snapshot, so nothing needs preserving.
func (s *Screen) Resize(width, height int) {
	s.width = max(width, 0)
	s.height = max(height, 0)
	if n := s.width * s.height; cap(s.cells) >= n {
		s.cells = s.cells[:n]
	} else {
		s.cells = make([]Cell, n)
	}
	s.Clear()
}

// Clear fills the screen with uncolored spaces.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = Cell{Rune: ' '}
	}
}

func (s *Screen) inside(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// SetColored places a colored rune. Out-of-bounds positions are ignored.
func (s *Screen) SetColored(x, y int, r rune, c Color) {
	if !s.inside(x, y) {
		return
	}
	s.cells[y*s.width+x] = Cell{Rune: r, Color: c}
}

// GetCell returns the cell at the given position, a blank outside the screen.
func (s *Screen) GetCell(x, y int) Cell {
	if !s.inside(x, y) {
		return Cell{Rune: ' '}
	}
	return s.cells[y*s.width+x]
}

// Row returns row y. The slice aliases the buffer and is only valid until
// the next Resize.
func (s *Screen) Row(y int) []Cell {
	if y < 0 || y >= s.height {
		return nil
	}
	return s.cells[y*s.width : (y+1)*s.width]
}

// DrawText writes uncolored text starting at (x, y), clipped to the screen.
func (s *Screen) DrawText(x, y int, text string) {
	s.DrawTextColored(x, y, text, ColorDefault)
}

// DrawTextColored writes colored text starting at (x, y).
func (s *Screen) DrawTextColored(x, y int, text string, c Color) {
	i := 0
	for _, r := range text {
		s.SetColored(x+i, y, r, c)
		i++
	}
}

// DrawTextCentered draws text centered horizontally on row y.
func (s *Screen) DrawTextCentered(y int, text string) {
	s.DrawTextCenteredColored(y, text, ColorDefault)
}

// DrawTextCenteredColored draws colored text centered horizontally on row y.
func (s *Screen) DrawTextCenteredColored(y int, text string, c Color) {
	x := (s.width - len([]rune(text))) / 2
	s.DrawTextColored(x, y, text, c)
}

// DrawTextRight draws colored text flush with the right edge of row y.
func (s *Screen) DrawTextRight(y int, text string, c Color) {
	s.DrawTextColored(s.width-len([]rune(text)), y, text, c)
}

// DrawRectColored fills a rectangle with a colored rune.
func (s *Screen) DrawRectColored(r Rect, fill rune, c Color) {
	x0, x1 := Clamp(r.X, 0, s.width), Clamp(r.Right(), 0, s.width)
	y0, y1 := Clamp(r.Y, 0, s.height), Clamp(r.Bottom(), 0, s.height)
	for y := y0; y < y1; y++ {
		row := s.cells[y*s.width : (y+1)*s.width]
		for x := x0; x < x1; x++ {
			row[x] = Cell{Rune: fill, Color: c}
		}
	}
}

// DrawHLine draws a horizontal line from (x, y) with the given length.
func (s *Screen) DrawHLine(x, y, length int, r rune, c Color) {
	s.DrawRectColored(Rect{X: x, Y: y, W: length, H: 1}, r, c)
}

// Tint recolors every visible rune, e.g. to fade the world behind a menu.
func (s *Screen) Tint(c Color) {
	for i, cell := range s.cells {
		if cell.Rune != ' ' {
			s.cells[i].Color = c
		}
	}
}

// String returns the buffer as plain text, rows joined with newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for _, c := range s.Row(y) {
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}
