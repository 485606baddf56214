package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/vovakirdan/jetpack-runner/internal/core"
)

func TestPaintPlainProfile(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	p := NewPainter(r)

	s := core.NewScreen(6, 2)
	s.DrawTextColored(0, 0, "ab", core.ColorRed)
	s.DrawTextColored(2, 0, "cd", core.ColorBlue)
	s.DrawText(1, 1, "xy")

	if got, want := p.Paint(s), s.String(); got != want {
		t.Errorf("Paint() = %q, want %q", got, want)
	}
}

func TestPaintColorRuns(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.ANSI256)
	p := NewPainter(r)

	s := core.NewScreen(4, 1)
	s.DrawTextColored(0, 0, "####", core.ColorOrange)

	got := p.Paint(s)
	if !strings.Contains(got, "####") {
		t.Errorf("same-color cells should render as one run, got %q", got)
	}
	if !strings.Contains(got, "208") {
		t.Errorf("orange run should use color 208, got %q", got)
	}
}

func TestPaintEmptyScreen(t *testing.T) {
	p := NewPainter(nil)
	if got := p.Paint(core.NewScreen(0, 0)); got != "" {
		t.Errorf("Paint(empty) = %q", got)
	}
}

func TestTickInterval(t *testing.T) {
	tests := []struct {
		rate int
		want time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, time.Second / 60},
		{-5, time.Second / 60},
		{1000, time.Second / 60},
	}
	for _, tt := range tests {
		if got := tickInterval(tt.rate); got != tt.want {
			t.Errorf("tickInterval(%d) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}
