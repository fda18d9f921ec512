package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tetris.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(defaultTetrisYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if want := DefaultTetrisConfig(); !reflect.DeepEqual(cfg, want) {
		t.Errorf("embedded defaults = %+v\nhardcoded = %+v", cfg, want)
	}
}

func TestLoadTetrisCustomPath(t *testing.T) {
	path := writeConfig(t, `
board:
  rows: 20
gravity:
  base_interval: 800ms
  interval_step: 50ms
controls:
  hard_drop: ["enter"]
`)

	cfg, err := LoadTetris(path)
	if err != nil {
		t.Fatalf("LoadTetris() failed: %v", err)
	}

	if cfg.Board.Rows != 20 {
		t.Errorf("Rows = %d, expected 20", cfg.Board.Rows)
	}
	if cfg.Board.Cols != tetris.DefaultCols {
		t.Errorf("Cols = %d, expected default %d", cfg.Board.Cols, tetris.DefaultCols)
	}
	if cfg.Gravity.BaseInterval != 800*time.Millisecond {
		t.Errorf("BaseInterval = %s, expected 800ms", cfg.Gravity.BaseInterval)
	}
	if cfg.Gravity.MinInterval != tetris.DefaultMinInterval {
		t.Errorf("MinInterval = %s, expected default", cfg.Gravity.MinInterval)
	}
	if !reflect.DeepEqual(cfg.Controls.HardDrop, []string{"enter"}) {
		t.Errorf("HardDrop = %v, expected [enter]", cfg.Controls.HardDrop)
	}
	if !reflect.DeepEqual(cfg.Controls.Left, DefaultControls().Left) {
		t.Errorf("Left = %v, expected defaults", cfg.Controls.Left)
	}
}

func TestLoadTetrisErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"bad yaml", "board: [", false},
		{"tiny board", "board: {rows: 2, cols: 10}", true},
		{"huge board", "board: {rows: 22, cols: 500}", true},
		{"min above base", "gravity: {base_interval: 100ms, min_interval: 1s}", true},
		{"negative step", "gravity: {interval_step: -1s}", true},
		{"unbound action", "controls: {pause: []}", true},
		{"duplicate key", `controls: {pause: ["q"]}`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadTetris(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tc.invalid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v should wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadTetrisMissingCustomPath(t *testing.T) {
	_, err := LoadTetris(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadTetrisFallsBackToDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadTetris("")
	if err != nil {
		t.Fatalf("LoadTetris() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultTetrisConfig()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadTetrisLocalConfigsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", FileName), []byte("board: {cols: 12}"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTetris("")
	if err != nil {
		t.Fatalf("LoadTetris() failed: %v", err)
	}
	if cfg.Board.Cols != 12 {
		t.Errorf("Cols = %d, expected 12 from ./configs", cfg.Board.Cols)
	}
}

func TestMarshalRoundTripsDurations(t *testing.T) {
	data, err := DefaultTetrisConfig().Marshal()
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("parse(Marshal()) failed: %v\n%s", err, data)
	}
	if cfg.Gravity != DefaultTetrisConfig().Gravity {
		t.Errorf("gravity changed after round trip: %+v", cfg.Gravity)
	}
}

func TestEngineConfig(t *testing.T) {
	ec := DefaultTetrisConfig().EngineConfig(42)
	if ec.Rows != 22 || ec.Cols != 10 || ec.Seed != 42 {
		t.Errorf("EngineConfig() = %+v", ec)
	}
	if err := ec.Validate(); err != nil {
		t.Errorf("default engine config invalid: %v", err)
	}
}

func TestGravityDescribe(t *testing.T) {
	g := DefaultTetrisConfig().Gravity
	if got, want := g.Describe(), "starts at 1s, reaches 100ms at level 10"; got != want {
		t.Errorf("Describe() = %q, expected %q", got, want)
	}
	g.IntervalStep = 0
	if got, want := g.Describe(), "constant 1s"; got != want {
		t.Errorf("Describe() = %q, expected %q", got, want)
	}
}
