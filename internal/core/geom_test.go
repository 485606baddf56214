package core

import "testing"

func TestRectIntersects(t *testing.T) {
	player := NewRect(100, 300, 40, 60)

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"laser through the body", NewRect(80, 320, 200, 8), true},
		{"laser above the head", NewRect(80, 290, 200, 10), false},
		{"touching the right edge", NewRect(140, 300, 20, 20), false},
		{"touching the feet", NewRect(100, 360, 40, 5), false},
		{"one pixel into the corner", NewRect(139, 359, 10, 10), true},
		{"meteor swallowing the player", NewRect(50, 250, 200, 200), true},
		{"spent projectile with no width", NewRect(110, 310, 0, 4), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := player.Intersects(tt.other); got != tt.want {
				t.Errorf("player.Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Intersects(player); got != tt.want {
				t.Errorf("Intersects is not symmetric for %+v", tt.other)
			}
		})
	}
}

func TestRectContainsAndCenter(t *testing.T) {
	coin := NewRect(10, 20, 16, 16)

	points := []struct {
		x, y int
		want bool
	}{
		{10, 20, true},
		{25, 35, true},
		{26, 20, false},
		{10, 36, false},
		{9, 25, false},
	}
	for _, p := range points {
		if got := coin.Contains(p.x, p.y); got != p.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", p.x, p.y, got, p.want)
		}
	}

	if x, y := coin.Center(); x != 18 || y != 28 {
		t.Errorf("Center() = (%d, %d), want (18, 28)", x, y)
	}
	if coin.Right() != 26 || coin.Bottom() != 36 {
		t.Errorf("edges = (%d, %d), want (26, 36)", coin.Right(), coin.Bottom())
	}
}

func TestRectF(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h float64
		want       Rect
	}{
		{"positive origin", 12.9, 40.2, 30.7, 0.5, Rect{X: 12, Y: 40, W: 30, H: 0}},
		{"laser leaving the left edge", -0.5, 300, 50, 200, Rect{X: -1, Y: 300, W: 50, H: 200}},
		{"meteor above the world", 400, -49.5, 40, 40, Rect{X: 400, Y: -50, W: 40, H: 40}},
		{"whole negative origin", -3, -2, 10, 10, Rect{X: -3, Y: -2, W: 10, H: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RectF(tt.x, tt.y, tt.w, tt.h); got != tt.want {
				t.Errorf("RectF(%v, %v, %v, %v) = %+v, want %+v", tt.x, tt.y, tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestRectScale(t *testing.T) {
	tests := []struct {
		name   string
		in     Rect
		sx, sy float64
		want   Rect
	}{
		{"aligned", NewRect(0, 0, 20, 40), 10, 20, NewRect(0, 0, 2, 2)},
		{"straddles cells", NewRect(5, 15, 10, 10), 10, 20, NewRect(0, 0, 2, 2)},
		{"thin laser keeps a row", NewRect(0, 41, 100, 2), 10, 20, NewRect(0, 2, 10, 1)},
		{"negative origin", NewRect(-15, 0, 10, 20), 10, 20, NewRect(-2, 0, 2, 1)},
		{"empty stays empty", NewRect(30, 40, 0, 0), 10, 20, NewRect(3, 2, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Scale(tt.sx, tt.sy); got != tt.want {
				t.Errorf("Scale(%v, %v) = %+v, want %+v", tt.sx, tt.sy, got, tt.want)
			}
		})
	}
}

func TestClampHelpers(t *testing.T) {
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp below = %d", got)
	}
	if got := Clamp(42, 0, 10); got != 10 {
		t.Errorf("Clamp above = %d", got)
	}
	if got := Clamp(7, 0, 10); got != 7 {
		t.Errorf("Clamp inside = %d", got)
	}
	if got := ClampF(-12.5, -10, 10); got != -10 {
		t.Errorf("ClampF below = %v", got)
	}
	if got := ClampF(0.25, -10, 10); got != 0.25 {
		t.Errorf("ClampF inside = %v", got)
	}
	if Abs(-4) != 4 || Abs(4) != 4 || Abs(0) != 0 {
		t.Error("Abs returned a negative value")
	}
}

func TestRuntimeConfigNormalize(t *testing.T) {
	cfg := RuntimeConfig{ScreenW: -1, TickRate: 0, Seed: 9}.Normalize()
	if cfg.ScreenW != 0 || cfg.ScreenH != 0 {
		t.Errorf("screen = %dx%d, want 0x0", cfg.ScreenW, cfg.ScreenH)
	}
	if cfg.TickRate != DefaultTickRate {
		t.Errorf("tick rate = %d, want %d", cfg.TickRate, DefaultTickRate)
	}
	if cfg.Seed != 9 {
		t.Errorf("seed changed to %d", cfg.Seed)
	}
}
