package core

// DefaultTickRate is the simulation rate the world constants are tuned for.
const DefaultTickRate = 60

// RuntimeConfig is handed to the game on Reset. It carries what changes from
// run to run; the tuning itself lives in config.JetpackConfig.
type RuntimeConfig struct {
	ScreenW   int   // terminal columns, 0 when headless
	ScreenH   int   // terminal rows, 0 when headless
	TickRate  int   // steps per second
	Seed      int64 // 0 lets the platform layer pick one
	Character string
}

// DefaultConfig returns the 80x24 config used by tests and headless runs.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: DefaultTickRate}
}

// Normalize clamps the screen to non-negative sizes and fills in the tick
// rate. The seed is left alone.
func (c RuntimeConfig) Normalize() RuntimeConfig {
	c.ScreenW = max(c.ScreenW, 0)
	c.ScreenH = max(c.ScreenH, 0)
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	return c
}
