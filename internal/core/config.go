package core

import "time"

// RuntimeConfig is what the platform layer hands to a simulation run.
type RuntimeConfig struct {
	ScreenW int           // Screen width in characters
	ScreenH int           // Screen height in characters
	Delay   time.Duration // Pause between ticks
	Seed    int64         // RNG seed; 0 means derive one from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Delay:   500 * time.Millisecond,
		Seed:    0,
	}
}

// ResolveSeed returns Seed, or a clock-derived seed when Seed is zero.
func (c RuntimeConfig) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
