package config

import (
	_ "embed"
)

//go:embed defaults/jetpack.yaml
var defaultJetpackYAML []byte

// DefaultJetpackConfig returns the hardcoded default configuration.
// It mirrors defaults/jetpack.yaml and is used when the embedded file
// cannot be parsed.
func DefaultJetpackConfig() JetpackConfig {
	return JetpackConfig{
		World: WorldConfig{Width: 1000, Height: 600, PlatformHeight: 50},
		Player: PlayerConfig{
			X:             120,
			Y:             470,
			Width:         55,
			Height:        60,
			HitboxOffsetY: 10,
			MoveRate:      4,
		},
		Physics: PhysicsConfig{
			MotionModel: MotionGravity,
			Gravity:     0.4,
			MaxVelocity: 10,
			ClimbRate:   6,
			FallRate:    6,
		},
		Speed: SpeedConfig{
			Base:          1,
			StepDistance:  500,
			StepIncrement: 0.1,
			CapDistance:   50000,
			Max:           11,
		},
		Difficulty: DifficultyConfig{
			DistancePerLevel: 1000,
			RocketFrequency:  FrequencyRule{Base: 180, Step: 10, Min: 120},
			MeteorInterval: MeteorIntervalConfig{
				Base:              180,
				ReductionDistance: 5000,
				MaxReduction:      0.6,
				Min:               90,
				Variance:          60,
			},
			Themes: []ThemeBand{
				{FromLevel: 1, Theme: "forest"},
				{FromLevel: 4, Theme: "night"},
				{FromLevel: 7, Theme: "desert"},
				{FromLevel: 10, Theme: "snow"},
			},
		},
		Coins: CoinConfig{SpawnDistance: 400, SpawnOffsetX: 40, MarginY: 80, Radius: 10, Value: 1},
		Laser: LaserConfig{
			Thickness:            50,
			MinLength:            150,
			MaxLength:            250,
			MinOffset:            10,
			MaxOffset:            300,
			MarginY:              100,
			VerticalBottomMargin: 400,
		},
		Rocket: RocketConfig{
			WarningTicks: 90,
			TrackSpeed:   3,
			TrackOffset:  10,
			AttackSpeed:  10,
			Width:        100,
			Height:       30,
			ExitX:        -50,
		},
		Meteor: MeteorConfig{
			SpawnY:     -50,
			SpreadX:    100,
			EdgeMargin: 50,
			MinSize:    30,
			MaxSize:    60,
			MinFall:    2,
			MaxFall:    4,
			ExitMargin: 100,
		},
		Projectile: ProjectileConfig{Speed: 10, Width: 10, Height: 5, Cooldown: 15},
		Scenes: SceneConfig{
			Sequence:            []string{"space", "land", "mountain"},
			ChangeDistance:      2000,
			ActivationThreshold: 500,
			Hysteresis:          100,
			Portal:              PortalConfig{Width: 200, Height: 300, MoveSpeed: 3, FadeSpeed: 8},
		},
		DefaultCharacter: "pilot",
		Characters: []CharacterConfig{
			{ID: "pilot", Name: "Pilot", GravityScale: 1, CooldownScale: 1},
			{ID: "heavy", Name: "Heavy", GravityScale: 1.25, CooldownScale: 0.6},
			{ID: "scout", Name: "Scout", GravityScale: 0.8, CooldownScale: 1.5},
		},
		Env: EnvConfig{
			ActionSpace:     ActionSpaceDiscrete,
			MaxEpisodeSteps: 20000,
			Reward: RewardConfig{
				Survival:             1,
				Coin:                 5,
				Death:                -10,
				IdlePenalty:          -2,
				MaxFramesWithoutCoin: 300,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultJetpackYAML
}
