package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration tetris would use, as YAML. Save the output to
~/.tetris/configs/tetris.yaml or pass it with --config to customize the
board size, gravity curve and key bindings.

Examples:
  tetris config > ~/.tetris/configs/tetris.yaml
  tetris config --config ./my-tetris.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func runConfig(_ *cobra.Command, _ []string) {
	cfg, preset, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := cfg.Marshal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("# difficulty %s: %s\n", preset, describePreset(cfg, preset))
	os.Stdout.Write(data)
}

func describePreset(cfg config.TetrisConfig, preset config.DifficultyPreset) string {
	config.ApplyPreset(&cfg, preset)
	return cfg.Gravity.Describe()
}
