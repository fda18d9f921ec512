package tetris

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Command is a player input understood by Apply and the Runner.
type Command uint8

const (
	CmdStart Command = iota
	CmdMoveLeft
	CmdMoveRight
	CmdRotateCW
	CmdRotateCCW
	CmdSoftDrop
	CmdHardDrop
)

// String returns a human-readable name for the command.
func (c Command) String() string {
	switch c {
	case CmdStart:
		return "Start"
	case CmdMoveLeft:
		return "MoveLeft"
	case CmdMoveRight:
		return "MoveRight"
	case CmdRotateCW:
		return "RotateCW"
	case CmdRotateCCW:
		return "RotateCCW"
	case CmdSoftDrop:
		return "SoftDrop"
	case CmdHardDrop:
		return "HardDrop"
	default:
		return "Unknown"
	}
}

// Apply executes cmd and reports whether it changed the game. A hard drop
// always changes the game while a piece is active, even when it does not
// travel.
func (e *Engine) Apply(cmd Command) bool {
	switch cmd {
	case CmdStart:
		e.Start()
		return true
	case CmdMoveLeft:
		return e.MoveLeft()
	case CmdMoveRight:
		return e.MoveRight()
	case CmdRotateCW:
		return e.RotateCW()
	case CmdRotateCCW:
		return e.RotateCCW()
	case CmdSoftDrop:
		return e.SoftDrop()
	case CmdHardDrop:
		e.mu.Lock()
		defer e.mu.Unlock()
		_, ok := e.hardDrop()
		return ok
	default:
		return false
	}
}

// Runner tick and queue defaults.
const (
	DefaultTickRate     = 60
	DefaultCommandQueue = 32
)

// Runner drives one Engine from a single goroutine: it feeds gravity ticks
// from a ticker and applies queued commands in arrival order.
type Runner struct {
	engine   *Engine
	tickRate int
	cmds     chan Command
	paused   atomic.Bool
	logger   *log.Logger
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for dropped commands.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithQueueSize sets the command buffer size.
func WithQueueSize(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.cmds = make(chan Command, n)
		}
	}
}

// NewRunner creates a runner ticking at tickRate times per second.
func NewRunner(e *Engine, tickRate int, opts ...RunnerOption) *Runner {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	r := &Runner{
		engine:   e,
		tickRate: tickRate,
		cmds:     make(chan Command, DefaultCommandQueue),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Engine returns the driven engine, for snapshots and subscriptions.
func (r *Runner) Engine() *Engine {
	return r.engine
}

// Send queues cmd without blocking. It returns false when the queue is full
// and the command was dropped.
func (r *Runner) Send(cmd Command) bool {
	select {
	case r.cmds <- cmd:
		return true
	default:
		if r.logger != nil {
			r.logger.Debug("command dropped", "command", cmd, "queue", cap(r.cmds))
		}
		return false
	}
}

// Pending returns the number of queued commands not yet applied.
func (r *Runner) Pending() int {
	return len(r.cmds)
}

// SetPaused suspends or resumes gravity. Commands stay queued while paused
// and are applied after resuming.
func (r *Runner) SetPaused(paused bool) {
	r.paused.Store(paused)
}

// Paused reports whether gravity is suspended.
func (r *Runner) Paused() bool {
	return r.paused.Load()
}

// Run processes ticks and commands until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		if r.paused.Load() {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				last = now
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.engine.Tick(now.Sub(last))
			last = now
		case cmd := <-r.cmds:
			r.engine.Apply(cmd)
		}
	}
}
