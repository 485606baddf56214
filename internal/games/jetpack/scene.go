package jetpack

import (
	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// PortalPhase is the lifecycle stage of the scene portal.
type PortalPhase int

const (
	PortalInactive   PortalPhase = iota
	PortalActivating             // visible, drifting toward the player
	PortalFading                 // triggered, alpha decaying
)

// String returns a human-readable name for the phase.
func (p PortalPhase) String() string {
	switch p {
	case PortalActivating:
		return "activating"
	case PortalFading:
		return "fading"
	default:
		return "inactive"
	}
}

const portalOpaque = 255

// Portal is the gateway to the next background scene.
type Portal struct {
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	W         int         `json:"w"`
	H         int         `json:"h"`
	Phase     PortalPhase `json:"phase"`
	Triggered bool        `json:"triggered"`
	Alpha     int         `json:"alpha"`
}

// Hitbox returns the portal rectangle.
func (p Portal) Hitbox() core.Rect {
	return core.RectF(p.X, p.Y, float64(p.W), float64(p.H))
}

// Collidable reports whether touching the portal triggers it.
func (p Portal) Collidable() bool {
	return p.Phase == PortalActivating && !p.Triggered
}

// SceneScheduler cycles background scenes by distance and runs the portal
// that announces each change.
type SceneScheduler struct {
	cfg    config.SceneConfig
	themes []config.ThemeBand
	worldW float64
	worldH float64

	portal     Portal
	sceneIndex int
	section    int // floor(distance / change distance)
	advancedTo int // section whose scene the portal already switched to
	served     int // section whose activation threshold the portal already used
	theme      string
}

// NewSceneScheduler creates a scheduler on the first scene.
func NewSceneScheduler(cfg config.SceneConfig, themes []config.ThemeBand, world config.WorldConfig) *SceneScheduler {
	s := &SceneScheduler{
		cfg:    cfg,
		themes: themes,
		worldW: float64(world.Width),
		worldH: float64(world.Height),
		served: -1,
		theme:  ThemeFor(themes, 1),
	}
	s.parkPortal()
	return s
}

// parkPortal returns the portal to its inactive off-screen position.
func (s *SceneScheduler) parkPortal() {
	s.portal = Portal{
		X:     s.worldW + float64(s.cfg.Portal.Width),
		Y:     (s.worldH - float64(s.cfg.Portal.Height)) / 2,
		W:     s.cfg.Portal.Width,
		H:     s.cfg.Portal.Height,
		Phase: PortalInactive,
	}
}

// Update consumes the new distance. It returns true when the scene changed
// because a section boundary was crossed without the portal.
func (s *SceneScheduler) Update(distance float64) bool {
	changed := false
	if section := int(distance / s.cfg.ChangeDistance); section > s.section {
		s.section = section
		if s.advancedTo != section {
			s.sceneIndex = section % len(s.cfg.Sequence)
			s.advancedTo = section
			changed = true
		}
	}

	toNext := float64(s.section+1)*s.cfg.ChangeDistance - distance
	switch s.portal.Phase {
	case PortalInactive:
		if toNext <= s.cfg.ActivationThreshold && s.served != s.section {
			s.served = s.section
			s.parkPortal()
			s.portal.X = s.worldW
			s.portal.Phase = PortalActivating
			s.portal.Alpha = portalOpaque
		}
	case PortalActivating, PortalFading:
		if toNext > s.cfg.ActivationThreshold+s.cfg.Hysteresis {
			s.parkPortal()
		}
	}
	return changed
}

// Advance moves and animates the portal for one tick.
func (s *SceneScheduler) Advance(speed float64) {
	switch s.portal.Phase {
	case PortalActivating:
		s.portal.X -= s.cfg.Portal.MoveSpeed * speed
	case PortalFading:
		s.portal.Alpha -= s.cfg.Portal.FadeSpeed
		if s.portal.Alpha <= 0 {
			s.parkPortal()
		}
	}
}

// Trigger switches to the next scene if the player hit an untriggered portal.
func (s *SceneScheduler) Trigger(player core.Rect) bool {
	if !s.portal.Collidable() || !s.portal.Hitbox().Intersects(player) {
		return false
	}
	s.portal.Triggered = true
	s.portal.Phase = PortalFading
	s.advancedTo = s.section + 1
	s.sceneIndex = s.advancedTo % len(s.cfg.Sequence)
	return true
}

// OnLevelChange switches the theme for the new level.
// Returns true when the theme actually changed.
func (s *SceneScheduler) OnLevelChange(level int) bool {
	theme := ThemeFor(s.themes, level)
	if theme == s.theme {
		return false
	}
	s.theme = theme
	return true
}

// Scene returns the current scene name.
func (s *SceneScheduler) Scene() string {
	return s.cfg.Sequence[s.sceneIndex]
}

// SceneIndex returns the current position in the scene sequence.
func (s *SceneScheduler) SceneIndex() int {
	return s.sceneIndex
}

// Theme returns the current level theme.
func (s *SceneScheduler) Theme() string {
	return s.theme
}

// Portal returns a copy of the portal state.
func (s *SceneScheduler) Portal() Portal {
	return s.portal
}
