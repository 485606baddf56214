package core

// Color is the foreground color of a screen cell. The simulation only picks
// colors; the platform layer decides how a terminal shows them.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray

	colorCount
)

// ansi256 holds the xterm 256-color index of each color.
var ansi256 = [colorCount]string{
	ColorRed:           "1",
	ColorGreen:         "2",
	ColorYellow:        "3",
	ColorBlue:          "4",
	ColorMagenta:       "5",
	ColorCyan:          "6",
	ColorWhite:         "7",
	ColorBrightRed:     "9",
	ColorBrightGreen:   "10",
	ColorBrightYellow:  "11",
	ColorBrightBlue:    "12",
	ColorBrightMagenta: "13",
	ColorBrightCyan:    "14",
	ColorBrightWhite:   "15",
	ColorOrange:        "208",
	ColorGray:          "245",
}

// ANSI returns the xterm 256-color index, or "" for the terminal default.
func (c Color) ANSI() string {
	if c >= colorCount {
		return ""
	}
	return ansi256[c]
}

// Colors returns every defined color, ColorDefault first.
func Colors() []Color {
	cs := make([]Color, colorCount)
	for i := range cs {
		cs[i] = Color(i)
	}
	return cs
}
