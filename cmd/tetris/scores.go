package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/stats"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagLimit int
	flagStats bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the top high scores, for one difficulty or for all of them.

Modes are the difficulty presets: easy, normal, hard, fixed.

Examples:
  tetris scores
  tetris scores hard
  tetris scores normal --limit 25
  tetris scores --stats`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", storage.DefaultLimit, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Also print aggregate statistics")
}

func runScores(_ *cobra.Command, args []string) {
	mode := ""
	if len(args) == 1 {
		preset, err := config.ParsePreset(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		mode = string(preset)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	scores, err := store.TopScores(mode, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	title := "all modes"
	if mode != "" {
		title = mode
	}
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tetris play' to set the first high score!")
		return
	}

	p := stats.Printer()
	fmt.Printf("  %-4s  %-12s  %-6s  %10s  %5s  %5s  %s\n", "Rank", "Player", "Mode", "Score", "Level", "Lines", "Date")
	fmt.Printf("  %-4s  %-12s  %-6s  %10s  %5s  %5s  %s\n", "----", "------", "----", "-----", "-----", "-----", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-12s  %-6s  %10s  %5d  %5d  %s\n",
			i+1, e.Player, e.Mode, p.Sprintf("%d", e.Score), e.Level, e.Lines,
			e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	if !flagStats {
		return
	}

	fmt.Println()
	if err := printStats(store, mode, title); err != nil {
		fmt.Fprintf(os.Stderr, "Error computing statistics: %v\n", err)
	}
}

func printStats(store *storage.Store, mode, title string) error {
	ms, err := store.Stats(mode)
	if err != nil {
		return err
	}
	all, err := store.Scores(mode)
	if err != nil {
		return err
	}

	values := make([]int, len(all))
	for i, e := range all {
		values[i] = e.Score
	}

	t := stats.NewTable("Totals - " + title)
	t.Add("Games", "%d", ms.GamesCount)
	t.Add("High Score", "%d", ms.HighScore)
	t.Add("Average", "%.1f", ms.AvgScore)
	t.Add("Max Level", "%d", ms.MaxLevel)
	t.Add("Total Lines", "%d", ms.TotalLines)
	if !ms.LastPlayed.IsZero() {
		t.Add("Last Played", "%s", ms.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println(t.String())
	fmt.Println(stats.SummaryTable("Score Distribution", "pts", stats.Summarize(stats.Ints(values))).String())
	return nil
}
