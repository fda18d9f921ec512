package tetris

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunnerEngine(t *testing.T, interval time.Duration) *Engine {
	t.Helper()
	cfg := testConfig(DefaultRows, DefaultCols)
	cfg.BaseInterval = interval
	cfg.MinInterval = interval
	e, err := New(cfg, WithRandomizer(only(KindI)))
	require.NoError(t, err)
	e.Start()
	return e
}

// startRunner runs r until the test ends and waits for it to exit.
func startRunner(t *testing.T, r *Runner) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("runner did not stop after cancel")
		}
	})
	return cancel
}

func pieceCol(e *Engine) int {
	snap := e.Snapshot()
	if snap.Piece == nil {
		return -1
	}
	return snap.Piece.Position.Col
}

func TestRunnerAppliesCommandsInOrder(t *testing.T) {
	e := newRunnerEngine(t, time.Hour)
	r := NewRunner(e, 100)
	startRunner(t, r)

	for _, cmd := range []Command{CmdMoveLeft, CmdMoveLeft, CmdMoveLeft, CmdMoveLeft, CmdMoveRight} {
		require.True(t, r.Send(cmd))
	}

	// Three lefts reach the wall, the fourth is rejected, then one right.
	assert.Eventually(t, func() bool { return pieceCol(e) == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestRunnerDrivesGravity(t *testing.T) {
	e := newRunnerEngine(t, 10*time.Millisecond)
	r := NewRunner(e, 200)
	startRunner(t, r)

	assert.Eventually(t, func() bool {
		snap := e.Snapshot()
		return snap.Piece != nil && snap.Piece.Position.Row > 0
	}, 2*time.Second, 2*time.Millisecond)
}

func TestRunnerPause(t *testing.T) {
	e := newRunnerEngine(t, 20*time.Millisecond)
	r := NewRunner(e, 200)
	r.SetPaused(true)
	require.True(t, r.Paused())
	startRunner(t, r)

	require.True(t, r.Send(CmdMoveLeft))
	time.Sleep(100 * time.Millisecond)

	snap := e.Snapshot()
	require.NotNil(t, snap.Piece)
	assert.Equal(t, 0, snap.Piece.Position.Row, "gravity should be held while paused")
	assert.Equal(t, 3, snap.Piece.Position.Col, "commands should wait while paused")

	r.SetPaused(false)
	assert.Eventually(t, func() bool { return pieceCol(e) == 2 }, 2*time.Second, 2*time.Millisecond)
}

func TestRunnerSendDropsWhenFull(t *testing.T) {
	e := newRunnerEngine(t, time.Hour)
	r := NewRunner(e, 60, WithQueueSize(1))

	assert.Zero(t, r.Pending())
	assert.True(t, r.Send(CmdMoveLeft))
	assert.Equal(t, 1, r.Pending())
	assert.False(t, r.Send(CmdMoveLeft))
	assert.Same(t, e, r.Engine())
}

func TestRunnerStopsOnCancel(t *testing.T) {
	e := newRunnerEngine(t, time.Hour)
	r := NewRunner(e, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "HardDrop", CmdHardDrop.String())
	assert.Equal(t, "Unknown", Command(200).String())
}
