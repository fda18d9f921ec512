package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/sim"
)

var (
	flagGames      int
	flagWorkers    int
	flagMaxPieces  int
	flagNoProgress bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless games and print statistics",
	Long: `Play games without a terminal using a random placement policy and
print score, line and level statistics. Games are seeded from --seed, so a
run is reproducible regardless of the number of workers.

Examples:
  tetris sim
  tetris sim --games 1000 --workers 8
  tetris sim --difficulty hard --seed 42
  tetris sim --config ./my-tetris.yaml --max-pieces 200`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagGames, "games", 100, "Number of games to play")
	simCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent workers (0 = GOMAXPROCS)")
	simCmd.Flags().IntVar(&flagMaxPieces, "max-pieces", sim.DefaultMaxPieces, "Stop a game after this many pieces")
	simCmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "Hide the progress bar")
}

func runSim(_ *cobra.Command, _ []string) {
	cfg, preset, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	config.ApplyPreset(&cfg, preset)

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var progress io.Writer = os.Stderr
	if flagNoProgress {
		progress = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting simulation", "games", flagGames, "workers", flagWorkers, "seed", seed, "difficulty", preset)
	report, err := sim.Run(ctx, sim.Options{
		Games:     flagGames,
		Workers:   flagWorkers,
		Seed:      seed,
		MaxPieces: flagMaxPieces,
		Engine:    cfg.EngineConfig(0),
		Progress:  progress,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Difficulty: %s (%s), seed %d\n", preset, cfg.Gravity.Describe(), seed)
	fmt.Println(report.Table())
}
