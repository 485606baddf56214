package jetpack

import "fmt"

// EventKind identifies something that happened during a tick.
type EventKind int

const (
	EventCoinCollected EventKind = iota
	EventHazardDestroyed
	EventLevelUp
	EventThemeChanged
	EventSceneChanged
	EventPortalTriggered
	EventShotFired
	EventRunEnded
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventCoinCollected:
		return "coin_collected"
	case EventHazardDestroyed:
		return "hazard_destroyed"
	case EventLevelUp:
		return "level_up"
	case EventThemeChanged:
		return "theme_changed"
	case EventSceneChanged:
		return "scene_changed"
	case EventPortalTriggered:
		return "portal_triggered"
	case EventShotFired:
		return "shot_fired"
	case EventRunEnded:
		return "run_ended"
	default:
		return "unknown"
	}
}

// Event is emitted by Step. Value and Detail depend on the kind:
// coin value, new level, scene index, or the hazard that ended the run.
type Event struct {
	Kind   EventKind `json:"kind"`
	Value  int       `json:"value,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *EventKind) UnmarshalText(text []byte) error {
	for c := EventCoinCollected; c <= EventRunEnded; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("jetpack: unknown event kind %q", text)
}
