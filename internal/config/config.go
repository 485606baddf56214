// Package config provides YAML-based tuning for the jetpack runner: world
// geometry, physics, difficulty ramps, spawn rules, scenes, characters and the
// agent environment.
package config

// JetpackConfig contains every tunable of a run.
type JetpackConfig struct {
	World            WorldConfig       `yaml:"world"`
	Player           PlayerConfig      `yaml:"player"`
	Physics          PhysicsConfig     `yaml:"physics"`
	Speed            SpeedConfig       `yaml:"speed"`
	Difficulty       DifficultyConfig  `yaml:"difficulty"`
	Coins            CoinConfig        `yaml:"coins"`
	Laser            LaserConfig       `yaml:"laser"`
	Rocket           RocketConfig      `yaml:"rocket"`
	Meteor           MeteorConfig      `yaml:"meteor"`
	Projectile       ProjectileConfig  `yaml:"projectile"`
	Scenes           SceneConfig       `yaml:"scenes"`
	Characters       []CharacterConfig `yaml:"characters"`
	DefaultCharacter string            `yaml:"default_character"`
	Env              EnvConfig         `yaml:"env"`
}

// WorldConfig defines the playfield in world pixels.
type WorldConfig struct {
	Width          int `yaml:"width"`
	Height         int `yaml:"height"`
	PlatformHeight int `yaml:"platform_height"` // thickness of ceiling and floor
}

// PlayerConfig defines the player body.
type PlayerConfig struct {
	X             float64 `yaml:"x"`
	Y             float64 `yaml:"y"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	HitboxOffsetY int     `yaml:"hitbox_offset_y"`
	MoveRate      float64 `yaml:"move_rate"` // horizontal pixels per tick at full move
}

// Motion models.
const (
	MotionGravity = "gravity"
	MotionRate    = "rate"
)

// PhysicsConfig selects and tunes the vertical motion model.
type PhysicsConfig struct {
	MotionModel string  `yaml:"motion_model"` // "gravity" or "rate"
	Gravity     float64 `yaml:"gravity"`
	MaxVelocity float64 `yaml:"max_velocity"`
	ClimbRate   float64 `yaml:"climb_rate"` // rate model only
	FallRate    float64 `yaml:"fall_rate"`  // rate model only
}

// SpeedConfig defines the piecewise scroll speed ramp.
type SpeedConfig struct {
	Base          float64 `yaml:"base"`
	StepDistance  float64 `yaml:"step_distance"`
	StepIncrement float64 `yaml:"step_increment"`
	CapDistance   float64 `yaml:"cap_distance"`
	Max           float64 `yaml:"max"`
}

// DifficultyConfig defines level progression and spawn frequencies.
type DifficultyConfig struct {
	DistancePerLevel float64              `yaml:"distance_per_level"`
	RocketFrequency  FrequencyRule        `yaml:"rocket_frequency"`
	MeteorInterval   MeteorIntervalConfig `yaml:"meteor_interval"`
	Themes           []ThemeBand          `yaml:"themes"`
}

// FrequencyRule is max(Base - Step*level, Min), in ticks.
type FrequencyRule struct {
	Base int `yaml:"base"`
	Step int `yaml:"step"`
	Min  int `yaml:"min"`
}

// MeteorIntervalConfig is max(int(Base*(1-min(d/ReductionDistance, MaxReduction))), Min).
type MeteorIntervalConfig struct {
	Base              int     `yaml:"base"`
	ReductionDistance float64 `yaml:"reduction_distance"`
	MaxReduction      float64 `yaml:"max_reduction"`
	Min               int     `yaml:"min"`
	Variance          int     `yaml:"variance"`
}

// ThemeBand maps the first level of a band to a visual theme.
type ThemeBand struct {
	FromLevel int    `yaml:"from_level"`
	Theme     string `yaml:"theme"`
}

// CoinConfig defines coin spawning.
type CoinConfig struct {
	SpawnDistance float64 `yaml:"spawn_distance"`
	SpawnOffsetX  float64 `yaml:"spawn_offset_x"`
	MarginY       int     `yaml:"margin_y"`
	Radius        int     `yaml:"radius"`
	Value         int     `yaml:"value"`
}

// LaserConfig defines laser barrier generation.
type LaserConfig struct {
	Thickness            int `yaml:"thickness"`
	MinLength            int `yaml:"min_length"`
	MaxLength            int `yaml:"max_length"`
	MinOffset            int `yaml:"min_offset"`
	MaxOffset            int `yaml:"max_offset"`
	MarginY              int `yaml:"margin_y"`
	VerticalBottomMargin int `yaml:"vertical_bottom_margin"`
}

// RocketConfig defines the rocket warning and attack phases.
type RocketConfig struct {
	WarningTicks int     `yaml:"warning_ticks"`
	TrackSpeed   float64 `yaml:"track_speed"`
	TrackOffset  float64 `yaml:"track_offset"`
	AttackSpeed  float64 `yaml:"attack_speed"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	ExitX        float64 `yaml:"exit_x"`
}

// MeteorConfig defines meteor generation.
type MeteorConfig struct {
	SpawnY     float64 `yaml:"spawn_y"`
	SpreadX    int     `yaml:"spread_x"`
	EdgeMargin float64 `yaml:"edge_margin"`
	MinSize    int     `yaml:"min_size"`
	MaxSize    int     `yaml:"max_size"`
	MinFall    float64 `yaml:"min_fall"`
	MaxFall    float64 `yaml:"max_fall"`
	ExitMargin float64 `yaml:"exit_margin"`
}

// ProjectileConfig defines the player's shots.
type ProjectileConfig struct {
	Speed    float64 `yaml:"speed"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Cooldown int     `yaml:"cooldown"` // ticks between shots
}

// SceneConfig defines background scenes and the transition portal.
type SceneConfig struct {
	Sequence            []string     `yaml:"sequence"`
	ChangeDistance      float64      `yaml:"change_distance"`
	ActivationThreshold float64      `yaml:"activation_threshold"`
	Hysteresis          float64      `yaml:"hysteresis"`
	Portal              PortalConfig `yaml:"portal"`
}

// PortalConfig defines the portal body and animation.
type PortalConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	MoveSpeed float64 `yaml:"move_speed"`
	FadeSpeed int     `yaml:"fade_speed"` // alpha per tick, alpha starts at 255
}

// CharacterConfig defines a selectable character.
type CharacterConfig struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	GravityScale  float64 `yaml:"gravity_scale"`
	CooldownScale float64 `yaml:"cooldown_scale"`
}

// Action spaces understood by the environment.
const (
	ActionSpaceDiscrete    = "discrete"
	ActionSpaceMultiBinary = "multibinary"
	ActionSpaceContinuous  = "continuous"
)

// EnvConfig defines the agent environment.
type EnvConfig struct {
	ActionSpace     string       `yaml:"action_space"`
	ClampActions    bool         `yaml:"clamp_actions"`
	MaxEpisodeSteps int          `yaml:"max_episode_steps"` // 0 disables truncation
	Reward          RewardConfig `yaml:"reward"`
}

// RewardConfig defines reward shaping.
type RewardConfig struct {
	Survival             float64 `yaml:"survival"`
	Coin                 float64 `yaml:"coin"`
	Death                float64 `yaml:"death"`
	IdlePenalty          float64 `yaml:"idle_penalty"`
	MaxFramesWithoutCoin int     `yaml:"max_frames_without_coin"`
}

// Character returns the character with the given ID, falling back to the
// default character for an empty ID.
func (c JetpackConfig) Character(id string) (CharacterConfig, bool) {
	if id == "" {
		id = c.DefaultCharacter
	}
	for _, ch := range c.Characters {
		if ch.ID == id {
			return ch, true
		}
	}
	return CharacterConfig{}, false
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", &ValidationError{Field: "difficulty", Reason: "unknown preset " + name}
	}
}

// ApplyPreset adjusts the speed ramp and spawn frequencies for a preset.
// Normal leaves the configuration untouched.
func (c *JetpackConfig) ApplyPreset(p DifficultyPreset) {
	switch p {
	case DifficultyEasy:
		c.Speed.StepIncrement /= 2
		c.Difficulty.RocketFrequency.Base += 40
		c.Difficulty.RocketFrequency.Min += 40
		c.Difficulty.MeteorInterval.Base += 40
		c.Difficulty.MeteorInterval.Min += 30
	case DifficultyHard:
		c.Speed.StepIncrement *= 1.5
		c.Difficulty.RocketFrequency.Base -= 30
		c.Difficulty.RocketFrequency.Min -= 30
		c.Difficulty.MeteorInterval.Base -= 30
		c.Difficulty.MeteorInterval.Min -= 20
	case DifficultyFixed:
		c.Speed.StepIncrement = 0
		c.Speed.Max = c.Speed.Base
		c.Difficulty.RocketFrequency.Step = 0
		c.Difficulty.MeteorInterval.MaxReduction = 0
	}
}
