package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(6, 3)
	if s.Width() != 6 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, expected 6x3", s.Width(), s.Height())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 6; x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("cell (%d,%d) = %+v, expected blank", x, y, c)
			}
		}
	}
}

func TestScreenSetColoredBounds(t *testing.T) {
	s := NewScreen(4, 2)
	tests := []struct {
		name string
		x, y int
		in   bool
	}{
		{"origin", 0, 0, true},
		{"last cell", 3, 1, true},
		{"left of screen", -1, 0, false},
		{"right of screen", 4, 0, false},
		{"below screen", 0, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Clear()
			s.SetColored(tt.x, tt.y, '#', ColorRed)
			got := s.GetCell(tt.x, tt.y)
			if tt.in && (got.Rune != '#' || got.Color != ColorRed) {
				t.Errorf("GetCell(%d,%d) = %+v, expected red #", tt.x, tt.y, got)
			}
			if !tt.in && got.Rune != ' ' {
				t.Errorf("out of bounds GetCell(%d,%d) = %q, expected blank", tt.x, tt.y, got.Rune)
			}
			if !tt.in && strings.Contains(s.String(), "#") {
				t.Error("out of bounds write leaked into the buffer")
			}
		})
	}
}

func TestScreenDrawRectClips(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawRectColored(Rect{X: 3, Y: -1, W: 10, H: 3}, '=', ColorBlue)

	expected := "   ==\n   ==\n     "
	if got := s.String(); got != expected {
		t.Errorf("String() =\n%q\nexpected\n%q", got, expected)
	}
	if c := s.GetCell(4, 1); c.Color != ColorBlue {
		t.Errorf("rect color = %d, expected blue", c.Color)
	}
}

func TestScreenText(t *testing.T) {
	s := NewScreen(9, 3)
	s.DrawText(7, 0, "abc")
	s.DrawTextCentered(1, "mid")
	s.DrawTextRight(2, "end", ColorCyan)

	expected := "       ab\n   mid   \n      end"
	if got := s.String(); got != expected {
		t.Errorf("String() =\n%q\nexpected\n%q", got, expected)
	}
	if c := s.GetCell(8, 2); c.Color != ColorCyan {
		t.Errorf("right text color = %d, expected cyan", c.Color)
	}
}

func TestScreenHLine(t *testing.T) {
	s := NewScreen(5, 1)
	s.DrawHLine(1, 0, 3, '-', ColorGray)
	if got := s.String(); got != " --- " {
		t.Errorf("String() = %q, expected %q", got, " --- ")
	}
}

func TestScreenTint(t *testing.T) {
	s := NewScreen(3, 1)
	s.SetColored(0, 0, 'x', ColorRed)
	s.Tint(ColorGray)

	if c := s.GetCell(0, 0); c.Color != ColorGray || c.Rune != 'x' {
		t.Errorf("tinted cell = %+v, expected gray x", c)
	}
	if c := s.GetCell(1, 0); c.Color != ColorDefault {
		t.Errorf("blank cell color = %d, expected default", c.Color)
	}
}

func TestScreenResizeClears(t *testing.T) {
	s := NewScreen(4, 4)
	s.SetColored(1, 1, '#', ColorRed)

	s.Resize(2, 3)
	if s.Width() != 2 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, expected 2x3", s.Width(), s.Height())
	}
	if strings.Contains(s.String(), "#") {
		t.Error("resize should clear the buffer")
	}

	s.Resize(-1, 2)
	if s.Width() != 0 || s.String() != "\n" {
		t.Errorf("negative width should give an empty screen, got %q", s.String())
	}
}

func TestScreenRow(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 1, "xyz")

	row := s.Row(1)
	if len(row) != 3 || row[2].Rune != 'z' {
		t.Errorf("Row(1) = %+v", row)
	}
	if s.Row(2) != nil || s.Row(-1) != nil {
		t.Error("rows outside the screen should be nil")
	}
}

func TestColorANSI(t *testing.T) {
	if ColorDefault.ANSI() != "" {
		t.Error("default color should have no code")
	}
	if ColorOrange.ANSI() != "208" {
		t.Errorf("orange = %q, expected 208", ColorOrange.ANSI())
	}
	cs := Colors()
	if len(cs) != int(colorCount) || cs[0] != ColorDefault {
		t.Errorf("Colors() = %v", cs)
	}
	for _, c := range cs[1:] {
		if c.ANSI() == "" {
			t.Errorf("color %d has no code", c)
		}
	}
}
