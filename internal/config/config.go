// Package config provides YAML-based configuration loading and difficulty
// presets for the tetris engine and its terminal front-end.
package config

import "time"

// TetrisConfig is the full user-editable configuration.
type TetrisConfig struct {
	Board    BoardConfig    `yaml:"board"`
	Gravity  GravityConfig  `yaml:"gravity"`
	Controls ControlsConfig `yaml:"controls"`
}

// BoardConfig sets the grid size.
type BoardConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// GravityConfig defines the level speed curve.
type GravityConfig struct {
	BaseInterval time.Duration `yaml:"base_interval"`
	MinInterval  time.Duration `yaml:"min_interval"`
	IntervalStep time.Duration `yaml:"interval_step"` // 0 keeps the speed constant
}

// ControlsConfig maps each action to the key names that trigger it, as
// reported by Bubble Tea (e.g. "left", "ctrl+c", " " for space).
type ControlsConfig struct {
	Left      []string `yaml:"left"`
	Right     []string `yaml:"right"`
	RotateCW  []string `yaml:"rotate_cw"`
	RotateCCW []string `yaml:"rotate_ccw"`
	SoftDrop  []string `yaml:"soft_drop"`
	HardDrop  []string `yaml:"hard_drop"`
	Pause     []string `yaml:"pause"`
	Restart   []string `yaml:"restart"`
	Back      []string `yaml:"back"`
	Quit      []string `yaml:"quit"`
}

// bindings lists every control with its YAML name, in display order.
func (c ControlsConfig) bindings() []namedKeys {
	return []namedKeys{
		{"left", c.Left},
		{"right", c.Right},
		{"rotate_cw", c.RotateCW},
		{"rotate_ccw", c.RotateCCW},
		{"soft_drop", c.SoftDrop},
		{"hard_drop", c.HardDrop},
		{"pause", c.Pause},
		{"restart", c.Restart},
		{"back", c.Back},
		{"quit", c.Quit},
	}
}

type namedKeys struct {
	name string
	keys []string
}
