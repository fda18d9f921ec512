package tetris

import (
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// ActivePiece describes the falling piece in a Snapshot.
type ActivePiece struct {
	Kind     Kind
	Color    core.Color
	Position Position
	Shape    Shape // rotation state at Position.Rotation
	GhostRow int   // row the piece would land on if hard dropped
}

// Cells returns the absolute board coordinates covered by the piece.
func (p ActivePiece) Cells() []Offset {
	return p.cellsAt(p.Position.Row)
}

// GhostCells returns the coordinates the piece would occupy after a hard drop.
func (p ActivePiece) GhostCells() []Offset {
	return p.cellsAt(p.GhostRow)
}

func (p ActivePiece) cellsAt(row int) []Offset {
	offs := p.Shape.Offsets()
	for i := range offs {
		offs[i].Row += row
		offs[i].Col += p.Position.Col
	}
	return offs
}

// Snapshot is an immutable copy of engine state for renderers.
type Snapshot struct {
	Rows, Cols   int
	Grid         [][]Cell
	Piece        *ActivePiece // nil between lock and spawn and after game over
	Score        int
	Level        int
	Lines        int
	DropInterval time.Duration
	Status       Status
}

// GameOver reports whether the snapshot was taken after the game ended.
func (s Snapshot) GameOver() bool {
	return s.Status == StatusGameOver
}

// Composite returns the grid with the active piece drawn in.
func (s Snapshot) Composite() [][]Cell {
	out := make([][]Cell, len(s.Grid))
	for r, row := range s.Grid {
		out[r] = append([]Cell(nil), row...)
	}
	if s.Piece == nil {
		return out
	}
	for _, c := range s.Piece.Cells() {
		if c.Row >= 0 && c.Row < s.Rows && c.Col >= 0 && c.Col < s.Cols {
			out[c.Row][c.Col] = Cell{Filled: true, Color: s.Piece.Color}
		}
	}
	return out
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Rows:         e.board.Rows(),
		Cols:         e.board.Cols(),
		Grid:         e.board.Grid(),
		Score:        e.score,
		Level:        e.level,
		Lines:        e.lines,
		DropInterval: e.dropInterval,
		Status:       e.status,
	}
	if e.active() {
		snap.Piece = &ActivePiece{
			Kind:     e.piece.Kind(),
			Color:    e.piece.Color(),
			Position: e.pos,
			Shape:    e.piece.Rotation(e.pos.Rotation),
			GhostRow: e.landingRow(),
		}
	}
	return snap
}
