package config

import (
	"fmt"
	"strings"
	"time"
)

// DifficultyPreset represents a named gravity curve.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets returns every preset in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// ParsePreset converts a flag value into a preset. An empty string selects
// normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// Next returns the preset after p, wrapping around.
func (p DifficultyPreset) Next() DifficultyPreset {
	all := Presets()
	for i, q := range all {
		if q == p {
			return all[(i+1)%len(all)]
		}
	}
	return DifficultyNormal
}

// Prev returns the preset before p, wrapping around.
func (p DifficultyPreset) Prev() DifficultyPreset {
	all := Presets()
	for i, q := range all {
		if q == p {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return DifficultyNormal
}

// IsFixedPreset returns true if the preset disables speed-up.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset adjusts the gravity curve for a preset. Normal keeps the
// configured values.
func ApplyPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	g := &cfg.Gravity
	switch preset {
	case DifficultyEasy:
		g.BaseInterval += g.BaseInterval / 5
		g.IntervalStep /= 2
	case DifficultyHard:
		g.BaseInterval /= 2
		g.IntervalStep /= 2
	case DifficultyFixed:
		g.IntervalStep = 0
	}
	g.BaseInterval = max(g.BaseInterval, g.MinInterval)
	if g.BaseInterval <= 0 {
		g.BaseInterval = time.Second
	}
}
