package tetris

import (
	"errors"
	"strings"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// ErrInvalidDimensions is returned when a board is created with a
// non-positive number of rows or columns.
var ErrInvalidDimensions = errors.New("tetris: board dimensions must be positive")

// Cell is one square of the grid.
type Cell struct {
	Filled bool
	Color  core.Color
}

// Position anchors a piece: the top-left corner of its rotation matrix and
// the rotation index.
type Position struct {
	Row, Col int
	Rotation int
}

// Board is the fixed-size grid of locked cells. Row 0 is the top (spawn)
// row, row Rows()-1 the floor.
type Board struct {
	rows, cols int
	grid       [][]Cell
}

// NewBoard creates an empty board.
func NewBoard(rows, cols int) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Board{rows: rows, cols: cols, grid: emptyGrid(rows, cols)}, nil
}

func emptyGrid(rows, cols int) [][]Cell {
	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
	}
	return grid
}

// Rows returns the grid height.
func (b *Board) Rows() int { return b.rows }

// Cols returns the grid width.
func (b *Board) Cols() int { return b.cols }

// InBounds reports whether (row, col) lies on the grid.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// Cell returns the cell at (row, col). Out-of-bounds coordinates read as empty.
func (b *Board) Cell(row, col int) Cell {
	if !b.InBounds(row, col) {
		return Cell{}
	}
	return b.grid[row][col]
}

// IsPositionValid reports whether every filled cell of the piece, placed at
// pos, is on the grid and not occupied.
func (b *Board) IsPositionValid(piece PieceType, pos Position) bool {
	shape := piece.Rotation(pos.Rotation)
	for r := 0; r < shape.Rows(); r++ {
		for c := 0; c < shape.Cols(); c++ {
			if !shape.Filled(r, c) {
				continue
			}
			row, col := pos.Row+r, pos.Col+c
			if !b.InBounds(row, col) || b.grid[row][col].Filled {
				return false
			}
		}
	}
	return true
}

// Add writes the piece into the grid with its color. The caller is expected
// to have validated pos; cells that fall outside the grid are skipped.
func (b *Board) Add(piece PieceType, pos Position) {
	shape := piece.Rotation(pos.Rotation)
	for _, off := range shape.Offsets() {
		row, col := pos.Row+off.Row, pos.Col+off.Col
		if !b.InBounds(row, col) {
			continue
		}
		b.grid[row][col] = Cell{Filled: true, Color: piece.Color()}
	}
}

// ClearLines removes every full row and returns how many were removed.
func (b *Board) ClearLines() int {
	return len(b.clearFullRows())
}

// clearFullRows does the work of ClearLines and returns the indices of the
// removed rows (top to bottom) as they were before the clear. Full rows are
// detected against the unmodified grid in one pass; survivors are copied
// bottom-up into a fresh grid so each drops by the number of cleared rows
// beneath it.
func (b *Board) clearFullRows() []int {
	var full []int
	for r := 0; r < b.rows; r++ {
		if b.rowFull(r) {
			full = append(full, r)
		}
	}
	if len(full) == 0 {
		return nil
	}

	next := make([][]Cell, b.rows)
	write := b.rows - 1
	for r := b.rows - 1; r >= 0; r-- {
		if b.rowFull(r) {
			continue
		}
		next[write] = b.grid[r]
		write--
	}
	for ; write >= 0; write-- {
		next[write] = make([]Cell, b.cols)
	}
	b.grid = next
	return full
}

func (b *Board) rowFull(r int) bool {
	for _, cell := range b.grid[r] {
		if !cell.Filled {
			return false
		}
	}
	return true
}

// FilledCount returns the number of occupied cells.
func (b *Board) FilledCount() int {
	n := 0
	for _, row := range b.grid {
		for _, cell := range row {
			if cell.Filled {
				n++
			}
		}
	}
	return n
}

// Grid returns a deep copy of the cells.
func (b *Board) Grid() [][]Cell {
	out := make([][]Cell, b.rows)
	for r, row := range b.grid {
		out[r] = append([]Cell(nil), row...)
	}
	return out
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	return &Board{rows: b.rows, cols: b.cols, grid: b.Grid()}
}

// String renders the grid as rows of '.' (empty) and '#' (filled).
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(b.rows * (b.cols + 1))
	for r, row := range b.grid {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			if cell.Filled {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
