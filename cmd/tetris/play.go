package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a single game",
	Long: `Start a tetris game right away.

Default controls:
  Left/Right, A/D, H/L  - Move
  Up, X, W, K           - Rotate clockwise
  Z                     - Rotate counter-clockwise
  Down, S, J            - Soft drop
  Space                 - Hard drop
  P/Esc                 - Pause
  R                     - Restart (paused or after game over)
  Ctrl+S                - Save a screenshot to ~/.tetris/screenshots
  Q/Ctrl+C              - Quit

Keys can be rebound in the config file (see 'tetris config').

Difficulty options:
  easy   - Slower start, gentler speed-up
  normal - Configured gravity curve
  hard   - Twice as fast from the start
  fixed  - No speed-up, stays at the base interval

Examples:
  tetris play
  tetris play --difficulty hard
  tetris play --seed 42
  tetris play --config ./my-tetris.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	opts, err := localOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	if store != nil {
		opts.Store = store
	}

	runErr := tui.Run(opts)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// localOptions builds front-end options for the current terminal.
func localOptions() (tui.Options, error) {
	cfg, preset, err := loadSettings()
	if err != nil {
		return tui.Options{}, err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	return tui.Options{
		Config: cfg,
		Preset: preset,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Player: playerName(),
		Logger: logger,
	}, nil
}
