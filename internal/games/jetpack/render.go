package jetpack

import (
	"fmt"

	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// Visual characters for rendering
const (
	PlatformChar   = '▀'
	FloorChar      = '▄'
	PlayerChar     = '█'
	FlameChar      = '^'
	LaserHChar     = '═'
	LaserVChar     = '║'
	RocketChar     = '◄'
	WarningChar    = '!'
	MeteorChar     = '●'
	CoinChar       = 'o'
	ProjectileChar = '-'
	PortalChar     = '░'
)

var themeColors = map[string]core.Color{
	"forest": core.ColorGreen,
	"night":  core.ColorBlue,
	"desert": core.ColorYellow,
	"snow":   core.ColorBrightWhite,
}

var sceneBackdrop = map[string]rune{
	"space":    '.',
	"land":     '\'',
	"mountain": '^',
}

// Render draws the world scaled onto the screen, with a one-row HUD on top.
func (g *Game) Render(screen *core.Screen) {
	screen.Clear()
	if screen.Width() < 10 || screen.Height() < 6 {
		screen.DrawText(0, 0, "too small")
		return
	}
	g.RenderSnapshot(g.Snapshot(), screen)
}

// RenderSnapshot draws a snapshot taken from this game.
func (g *Game) RenderSnapshot(s Snapshot, screen *core.Screen) {
	v := newViewport(s, screen)

	v.drawBackdrop(s)
	v.rect(s.Platforms.Ceiling, PlatformChar, themeColor(s.Theme))
	v.rect(s.Platforms.Floor, FloorChar, themeColor(s.Theme))

	if s.Portal.Phase != PortalInactive {
		c := core.ColorBrightMagenta
		if s.Portal.Phase == PortalFading {
			c = core.ColorMagenta
		}
		v.rect(s.Portal.Hitbox(), PortalChar, c)
	}
	for _, c := range s.Coins {
		v.rect(c.Hitbox(), CoinChar, core.ColorBrightYellow)
	}
	if s.Laser != nil {
		r, _ := s.Laser.Hitbox()
		ch := LaserHChar
		if s.Laser.Orientation == Vertical {
			ch = LaserVChar
		}
		v.rect(r, ch, core.ColorBrightRed)
	}
	switch s.Rocket.Phase {
	case RocketWarning:
		_, row := v.point(0, s.Rocket.Y)
		screen.SetColored(screen.Width()-1, row, WarningChar, core.ColorBrightRed)
	case RocketAttack:
		r, _ := s.Rocket.Hitbox()
		v.rect(r, RocketChar, core.ColorOrange)
	}
	for _, m := range s.Meteors {
		r, _ := m.Hitbox()
		v.rect(r, MeteorChar, core.ColorRed)
	}
	for _, p := range s.Projectiles {
		v.rect(p.Hitbox(), ProjectileChar, core.ColorBrightCyan)
	}

	pc := core.ColorBrightWhite
	if !s.Player.Alive {
		pc = core.ColorGray
	}
	hb := s.Player.Hitbox()
	v.rect(hb, PlayerChar, pc)
	if s.Player.Thrust > 0 && s.Player.Alive {
		col, row := v.point(float64(hb.X+hb.W/2), float64(hb.Bottom()))
		screen.SetColored(col, row, FlameChar, core.ColorOrange)
	}

	g.drawHUD(s, screen)
	g.drawOverlay(s, screen)
}

func (g *Game) drawHUD(s Snapshot, screen *core.Screen) {
	hud := fmt.Sprintf(" %dm  coins %d  lvl %d  x%.1f  %s/%s ",
		int(s.Run.Distance), s.Run.Coins, s.Level, s.Speed, s.Scene, s.Theme)
	screen.DrawHLine(0, 0, screen.Width(), ' ', core.ColorDefault)
	screen.DrawTextColored(0, 0, hud, core.ColorBrightWhite)
	if s.Player.ControlledByAgent {
		screen.DrawTextRight(0, "[agent]", core.ColorCyan)
	}
}

func (g *Game) drawOverlay(s Snapshot, screen *core.Screen) {
	if s.Phase != PhasePlaying {
		screen.Tint(core.ColorGray)
	}
	mid := screen.Height() / 2
	switch s.Phase {
	case PhaseStart:
		screen.DrawTextCenteredColored(mid-2, "JETPACK RUNNER", core.ColorBrightYellow)
		screen.DrawTextCentered(mid, "Pilot: "+g.Character().Name)
		screen.DrawTextCentered(mid+2, "ENTER start   C character   Q quit")
	case PhaseCharacterSelect:
		screen.DrawTextCenteredColored(mid-2-len(g.cfg.Characters)/2, "SELECT PILOT", core.ColorBrightYellow)
		for i, ch := range g.cfg.Characters {
			line := "  " + ch.Name + "  "
			color := core.ColorDefault
			if i == g.charIndex {
				line = "> " + ch.Name + " <"
				color = core.ColorBrightCyan
			}
			screen.DrawTextCenteredColored(mid-len(g.cfg.Characters)/2+i, line, color)
		}
		screen.DrawTextCentered(mid+len(g.cfg.Characters)/2+2, "UP/DOWN choose   ENTER confirm")
	case PhasePaused:
		screen.DrawTextCenteredColored(mid, "PAUSED", core.ColorBrightYellow)
		screen.DrawTextCentered(mid+1, "P resume   R restart")
	case PhaseGameOver:
		screen.DrawTextCenteredColored(mid-1, "GAME OVER", core.ColorBrightRed)
		screen.DrawTextCentered(mid, fmt.Sprintf("hit by %s after %dm, %d coins", s.Run.Cause, int(s.Run.Distance), s.Run.Coins))
		screen.DrawTextCentered(mid+2, "R restart   M menu   Q quit")
	}
}

func themeColor(theme string) core.Color {
	if c, ok := themeColors[theme]; ok {
		return c
	}
	return core.ColorGray
}

// viewport maps world pixels to screen cells below the HUD row.
type viewport struct {
	screen *core.Screen
	sx, sy float64
}

func newViewport(s Snapshot, screen *core.Screen) viewport {
	return viewport{
		screen: screen,
		sx:     float64(s.WorldW) / float64(screen.Width()),
		sy:     float64(s.WorldH) / float64(screen.Height()-1),
	}
}

func (v viewport) rect(r core.Rect, ch rune, c core.Color) {
	cells := r.Scale(v.sx, v.sy)
	cells.Y++
	v.screen.DrawRectColored(cells, ch, c)
}

func (v viewport) point(x, y float64) (int, int) {
	return int(x / v.sx), int(y/v.sy) + 1
}

func (v viewport) drawBackdrop(s Snapshot) {
	ch, ok := sceneBackdrop[s.Scene]
	if !ok {
		return
	}
	scroll := int(s.Run.Distance / v.sx)
	for row := 1; row < v.screen.Height(); row++ {
		for col := 0; col < v.screen.Width(); col++ {
			if (col+scroll+row*7)%23 == 0 {
				v.screen.SetColored(col, row, ch, core.ColorGray)
			}
		}
	}
}
