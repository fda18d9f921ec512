package config

import (
	_ "embed"
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the built-in configuration. It mirrors
// defaults/tetris.yaml and is used when the embedded file cannot be parsed.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Board: BoardConfig{
			Rows: tetris.DefaultRows,
			Cols: tetris.DefaultCols,
		},
		Gravity: GravityConfig{
			BaseInterval: tetris.DefaultBaseInterval,
			MinInterval:  tetris.DefaultMinInterval,
			IntervalStep: tetris.DefaultIntervalStep,
		},
		Controls: DefaultControls(),
	}
}

// DefaultControls returns the built-in key bindings.
func DefaultControls() ControlsConfig {
	return ControlsConfig{
		Left:      []string{"left", "a", "h"},
		Right:     []string{"right", "d", "l"},
		RotateCW:  []string{"up", "x", "w", "k"},
		RotateCCW: []string{"z"},
		SoftDrop:  []string{"down", "s", "j"},
		HardDrop:  []string{" "},
		Pause:     []string{"p", "esc"},
		Restart:   []string{"r"},
		Back:      []string{"b"},
		Quit:      []string{"q", "ctrl+c"},
	}
}

// Board size limits accepted by Validate.
const (
	MinBoardSize = 4
	MaxBoardSize = 100
)

// EngineConfig converts the configuration into engine settings.
func (c TetrisConfig) EngineConfig(seed int64) tetris.Config {
	return tetris.Config{
		Rows:         c.Board.Rows,
		Cols:         c.Board.Cols,
		BaseInterval: c.Gravity.BaseInterval,
		MinInterval:  c.Gravity.MinInterval,
		IntervalStep: c.Gravity.IntervalStep,
		Seed:         seed,
	}
}

// levelsToFloor returns the first level that runs at the minimum interval,
// or 0 when the speed never changes.
func (g GravityConfig) levelsToFloor() int {
	if g.IntervalStep <= 0 {
		return 0
	}
	span := g.BaseInterval - g.MinInterval
	return int((span+g.IntervalStep-1)/g.IntervalStep) + 1
}

// Describe returns a one-line summary of the speed curve.
func (g GravityConfig) Describe() string {
	if n := g.levelsToFloor(); n > 0 {
		return fmt.Sprintf("starts at %s, reaches %s at level %d", g.BaseInterval, g.MinInterval, n)
	}
	return fmt.Sprintf("constant %s", g.BaseInterval)
}
