// Package sim plays headless tetris games with a random placement policy.
// It is used to smoke-test engine configurations and to benchmark the
// engine under concurrency.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/vovakirdan/tui-tetris/internal/stats"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// DefaultMaxPieces bounds a single game so that a lucky policy cannot run
// forever.
const DefaultMaxPieces = 1000

// ErrNoGames is returned when Options.Games is not positive.
var ErrNoGames = errors.New("sim: number of games must be positive")

// Options configures a simulation run.
type Options struct {
	Games     int
	Workers   int // 0 uses GOMAXPROCS
	Seed      int64
	MaxPieces int
	Engine    tetris.Config // Seed is overridden per game
	Progress  io.Writer     // nil hides the progress bar
}

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Seed     int64
	Score    int
	Level    int
	Lines    int
	Pieces   int
	Finished bool // reached game over before MaxPieces
}

// Report aggregates a simulation run.
type Report struct {
	Games   []GameResult
	Score   stats.Summary
	Lines   stats.Summary
	Level   stats.Summary
	Pieces  stats.Summary
	Elapsed time.Duration
}

// Run plays opts.Games games across a worker pool. Game i always uses seed
// opts.Seed+i, so results do not depend on the number of workers.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Games <= 0 {
		return nil, ErrNoGames
	}
	if err := opts.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, opts.Games)
	if opts.MaxPieces <= 0 {
		opts.MaxPieces = DefaultMaxPieces
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	bar := pb.New(opts.Games)
	if opts.Progress == nil {
		bar.SetWriter(io.Discard)
	} else {
		bar.SetWriter(opts.Progress)
	}
	bar.Start()

	results := make([]GameResult, opts.Games)
	jobs := make(chan int)
	errs := make([]error, workers)

	wg := new(sync.WaitGroup)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := range jobs {
				res, err := PlayGame(opts.Engine, opts.Seed+int64(i), opts.MaxPieces)
				if err != nil {
					errs[w] = err
					continue
				}
				results[i] = res
				bar.Increment()
			}
		}(w)
	}

feed:
	for i := 0; i < opts.Games; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	used := time.Since(bar.StartTime())
	bar.Finish()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sim: interrupted: %w", err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return newReport(results, used), nil
}

// PlayGame plays one game to game over or maxPieces locked pieces. Each
// piece gets a random rotation and column shift and is then hard dropped.
// Seed 0 is replaced by 1 since the engine treats 0 as "seed from the clock".
func PlayGame(cfg tetris.Config, seed int64, maxPieces int) (GameResult, error) {
	if seed == 0 {
		seed = 1
	}
	cfg.Seed = seed
	e, err := tetris.New(cfg)
	if err != nil {
		return GameResult{}, fmt.Errorf("sim: %w", err)
	}
	rng := rand.New(rand.NewSource(seed ^ 0x5eed))
	res := GameResult{Seed: seed}

	e.Start()
	for res.Pieces < maxPieces && !e.GameOver() {
		for n := rng.Intn(4); n > 0; n-- {
			e.RotateCW()
		}
		shift := rng.Intn(cfg.Cols) - cfg.Cols/2
		for ; shift < 0; shift++ {
			e.MoveLeft()
		}
		for ; shift > 0; shift-- {
			e.MoveRight()
		}
		e.HardDrop()
		res.Pieces++
	}

	res.Finished = e.GameOver()
	res.Score = e.Score()
	res.Level = e.Level()
	res.Lines = e.Lines()
	return res, nil
}

func newReport(games []GameResult, elapsed time.Duration) *Report {
	var score, lines, level, pieces []int
	for _, g := range games {
		score = append(score, g.Score)
		lines = append(lines, g.Lines)
		level = append(level, g.Level)
		pieces = append(pieces, g.Pieces)
	}
	return &Report{
		Games:   games,
		Score:   stats.Summarize(stats.Ints(score)),
		Lines:   stats.Summarize(stats.Ints(lines)),
		Level:   stats.Summarize(stats.Ints(level)),
		Pieces:  stats.Summarize(stats.Ints(pieces)),
		Elapsed: elapsed,
	}
}

// Table renders the report as a text table.
func (r *Report) Table() string {
	finished := 0
	for _, g := range r.Games {
		if g.Finished {
			finished++
		}
	}
	sec := max(r.Elapsed.Seconds(), 1e-9)

	t := stats.NewTable("Simulation")
	t.Add("Games", "%d", len(r.Games))
	t.Add("Game Over", "%d", finished)
	t.Add("Mean Score", "%.1f", r.Score.Mean)
	t.Add("Score 95% CI", "[%.1f, %.1f]", r.Score.MeanCI.Lo, r.Score.MeanCI.Hi)
	t.Add("Std Dev", "%.1f", r.Score.StdDev)
	t.Add("Median Score", "%.0f", r.Score.Median)
	t.Add("Best Score", "%.0f", r.Score.Max)
	t.Add("Mean Lines", "%.2f", r.Lines.Mean)
	t.Add("Max Level", "%.0f", r.Level.Max)
	t.Add("Mean Pieces", "%.1f", r.Pieces.Mean)
	t.Add("Elapsed", "%s", r.Elapsed.Round(time.Millisecond))
	t.Add("Games/sec", "%.1f", float64(len(r.Games))/sec)
	return t.String()
}
