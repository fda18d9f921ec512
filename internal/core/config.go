package core

// RuntimeConfig carries terminal and loop settings from the CLI to the
// terminal front-end.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Gravity ticks and redraws per second
	Seed     int64 // RNG seed; 0 means seed from the clock
}

// DefaultConfig returns an 80x24 screen at 60 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}
