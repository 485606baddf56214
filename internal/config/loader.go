package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "jetpack.yaml"

// ValidationError reports an inconsistent configuration value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// LoadJetpack loads the jetpack configuration.
// Search order: customPath -> ~/.jetpack/configs/jetpack.yaml -> ./configs/jetpack.yaml -> embedded default.
// Files are layered over the defaults, so a partial file only overrides what it names.
func LoadJetpack(customPath string) (JetpackConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return JetpackConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return JetpackConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultJetpackYAML)
	if err != nil {
		return DefaultJetpackConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over the hardcoded defaults and validates the result.
func Parse(data []byte) (JetpackConfig, error) {
	cfg := DefaultJetpackConfig()
	// Lists replace rather than merge, so clear them before decoding
	// and restore them if the document leaves them out.
	chars, seq, themes := cfg.Characters, cfg.Scenes.Sequence, cfg.Difficulty.Themes
	cfg.Characters, cfg.Scenes.Sequence, cfg.Difficulty.Themes = nil, nil, nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return JetpackConfig{}, err
	}
	if cfg.Characters == nil {
		cfg.Characters = chars
	}
	if cfg.Scenes.Sequence == nil {
		cfg.Scenes.Sequence = seq
	}
	if cfg.Difficulty.Themes == nil {
		cfg.Difficulty.Themes = themes
	}
	if err := cfg.Validate(); err != nil {
		return JetpackConfig{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c JetpackConfig) Validate() error {
	invalid := func(field, format string, args ...any) error {
		return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
	}

	if c.World.Width <= 0 || c.World.Height <= 0 {
		return invalid("world", "dimensions must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	if c.World.PlatformHeight < 0 || 2*c.World.PlatformHeight+c.Player.Height >= c.World.Height {
		return invalid("world.platform_height", "%d leaves no room for the player", c.World.PlatformHeight)
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		return invalid("player", "size must be positive")
	}
	switch c.Physics.MotionModel {
	case MotionGravity:
		if c.Physics.Gravity <= 0 || c.Physics.MaxVelocity <= 0 {
			return invalid("physics", "gravity and max_velocity must be positive")
		}
	case MotionRate:
		if c.Physics.ClimbRate <= 0 || c.Physics.FallRate <= 0 {
			return invalid("physics", "climb_rate and fall_rate must be positive")
		}
	default:
		return invalid("physics.motion_model", "unknown model %q", c.Physics.MotionModel)
	}
	if c.Speed.Base <= 0 || c.Speed.Max < c.Speed.Base || c.Speed.StepDistance <= 0 || c.Speed.StepIncrement < 0 {
		return invalid("speed", "ramp must start positive and never exceed max")
	}
	if c.Difficulty.DistancePerLevel <= 0 {
		return invalid("difficulty.distance_per_level", "must be positive")
	}
	if rf := c.Difficulty.RocketFrequency; rf.Min <= 0 || rf.Base < rf.Min || rf.Step < 0 {
		return invalid("difficulty.rocket_frequency", "need base >= min > 0 and step >= 0")
	}
	if mi := c.Difficulty.MeteorInterval; mi.Min <= 0 || mi.Base < mi.Min || mi.ReductionDistance <= 0 ||
		mi.MaxReduction < 0 || mi.MaxReduction >= 1 || mi.Variance < 0 || mi.Variance >= mi.Min {
		return invalid("difficulty.meteor_interval", "need base >= min > variance >= 0 and max_reduction in [0,1)")
	}
	if len(c.Difficulty.Themes) == 0 || c.Difficulty.Themes[0].FromLevel > 1 {
		return invalid("difficulty.themes", "the first band must start at level 1")
	}
	if c.Coins.SpawnDistance <= 0 || c.Coins.Radius <= 0 || 2*c.Coins.MarginY >= c.World.Height {
		return invalid("coins", "spawn_distance and radius must be positive and margins must fit")
	}
	if l := c.Laser; l.MinLength <= 0 || l.MaxLength < l.MinLength || l.MaxOffset < l.MinOffset ||
		l.Thickness <= 0 || c.World.Height-l.VerticalBottomMargin <= l.MarginY || c.World.Height-l.MarginY <= l.MarginY {
		return invalid("laser", "length and offset ranges must be ordered and fit the world")
	}
	if c.Rocket.WarningTicks < 0 || c.Rocket.Width <= 0 || c.Rocket.Height <= 0 {
		return invalid("rocket", "size must be positive")
	}
	if m := c.Meteor; m.MinSize <= 0 || m.MaxSize < m.MinSize || m.MinFall <= 0 || m.MaxFall < m.MinFall {
		return invalid("meteor", "size and fall ranges must be ordered and positive")
	}
	if c.Projectile.Speed <= 0 || c.Projectile.Cooldown < 0 {
		return invalid("projectile", "speed must be positive")
	}
	s := c.Scenes
	if len(s.Sequence) == 0 {
		return invalid("scenes.sequence", "must not be empty")
	}
	if s.ActivationThreshold <= 0 || s.Hysteresis < 0 {
		return invalid("scenes", "activation_threshold must be positive")
	}
	if s.ChangeDistance <= s.ActivationThreshold+s.Hysteresis {
		return invalid("scenes.change_distance", "%v must exceed activation_threshold + hysteresis (%v)",
			s.ChangeDistance, s.ActivationThreshold+s.Hysteresis)
	}
	if s.Portal.Width <= 0 || s.Portal.Height <= 0 || s.Portal.FadeSpeed <= 0 {
		return invalid("scenes.portal", "size and fade_speed must be positive")
	}
	if len(c.Characters) == 0 {
		return invalid("characters", "at least one character is required")
	}
	seen := make(map[string]bool, len(c.Characters))
	for _, ch := range c.Characters {
		if ch.ID == "" || seen[ch.ID] {
			return invalid("characters", "missing or duplicate id %q", ch.ID)
		}
		if ch.GravityScale <= 0 || ch.CooldownScale <= 0 {
			return invalid("characters", "%s scales must be positive", ch.ID)
		}
		seen[ch.ID] = true
	}
	if !seen[c.DefaultCharacter] {
		return invalid("default_character", "%q is not a configured character", c.DefaultCharacter)
	}
	switch c.Env.ActionSpace {
	case ActionSpaceDiscrete, ActionSpaceMultiBinary, ActionSpaceContinuous:
	default:
		return invalid("env.action_space", "unknown space %q", c.Env.ActionSpace)
	}
	if c.Env.MaxEpisodeSteps < 0 || c.Env.Reward.MaxFramesWithoutCoin < 0 {
		return invalid("env", "step limits must not be negative")
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jetpack", "configs", filename)
}
