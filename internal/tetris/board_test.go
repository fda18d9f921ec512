package tetris

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

func newTestBoard(t *testing.T, rows, cols int) *Board {
	t.Helper()
	b, err := NewBoard(rows, cols)
	require.NoError(t, err)
	return b
}

func fillRow(b *Board, row int) {
	for c := 0; c < b.cols; c++ {
		b.grid[row][c] = Cell{Filled: true, Color: core.ColorGray}
	}
}

func TestNewBoardRejectsBadDimensions(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
	}{
		{"zero rows", 0, 10},
		{"zero cols", 22, 0},
		{"negative rows", -1, 10},
		{"negative cols", 22, -5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := NewBoard(tc.rows, tc.cols)
			assert.ErrorIs(t, err, ErrInvalidDimensions)
			assert.Nil(t, b)
		})
	}
}

func TestNewBoardIsEmpty(t *testing.T) {
	b := newTestBoard(t, DefaultRows, DefaultCols)
	assert.Equal(t, 22, b.Rows())
	assert.Equal(t, 10, b.Cols())
	assert.Zero(t, b.FilledCount())
}

func TestIsPositionValidBounds(t *testing.T) {
	b := newTestBoard(t, DefaultRows, DefaultCols)
	i, _ := DefaultCatalog().Type(KindI)

	tests := []struct {
		name  string
		pos   Position
		valid bool
	}{
		{"spawn", Position{Row: 0, Col: 3}, true},
		{"flush right", Position{Row: 0, Col: 6}, true},
		{"past right wall", Position{Row: 0, Col: 7}, false},
		{"past left wall", Position{Row: 0, Col: -1}, false},
		{"above top", Position{Row: -1, Col: 3}, false},
		{"floor", Position{Row: 21, Col: 0}, true},
		{"below floor", Position{Row: 22, Col: 0}, false},
		{"vertical at floor", Position{Row: 18, Col: 9, Rotation: 1}, true},
		{"vertical through floor", Position{Row: 19, Col: 9, Rotation: 1}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, b.IsPositionValid(i, tc.pos))
		})
	}
}

func TestIsPositionValidIgnoresEmptyMatrixCells(t *testing.T) {
	b := newTestBoard(t, 4, 4)
	tp, _ := DefaultCatalog().Type(KindT)

	// Rotation 0 is ".X." over "XXX"; the empty top corners may overlap
	// filled cells and walls.
	b.grid[0][0] = Cell{Filled: true}
	assert.True(t, b.IsPositionValid(tp, Position{Row: 0, Col: 0}))

	b.grid[0][1] = Cell{Filled: true}
	assert.False(t, b.IsPositionValid(tp, Position{Row: 0, Col: 0}))
}

// TestIsPositionValidMatchesOracle compares every piece, rotation and nearby
// position on a randomly littered board against a direct definition.
func TestIsPositionValidMatchesOracle(t *testing.T) {
	const rows, cols = 8, 6
	rng := rand.New(rand.NewSource(7))
	b := newTestBoard(t, rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if rng.Intn(4) == 0 {
				b.grid[r][c] = Cell{Filled: true}
			}
		}
	}

	oracle := func(pt PieceType, pos Position) bool {
		for _, off := range pt.Rotation(pos.Rotation).Offsets() {
			r, c := pos.Row+off.Row, pos.Col+off.Col
			if r < 0 || r >= rows || c < 0 || c >= cols {
				return false
			}
			if b.grid[r][c].Filled {
				return false
			}
		}
		return true
	}

	checked := 0
	for _, pt := range DefaultCatalog().AllTypes() {
		for rot := 0; rot < pt.RotationCount(); rot++ {
			for r := -3; r <= rows; r++ {
				for c := -4; c <= cols; c++ {
					pos := Position{Row: r, Col: c, Rotation: rot}
					require.Equal(t, oracle(pt, pos), b.IsPositionValid(pt, pos), "%v at %+v", pt.Kind(), pos)
					checked++
				}
			}
		}
	}
	assert.Positive(t, checked)
}

func TestAddWritesPieceColor(t *testing.T) {
	b := newTestBoard(t, 6, 6)
	s, _ := DefaultCatalog().Type(KindS)

	b.Add(s, Position{Row: 2, Col: 1})

	// ".XX" over "XX."
	filled := []Offset{{2, 2}, {2, 3}, {3, 1}, {3, 2}}
	for _, o := range filled {
		assert.Equal(t, Cell{Filled: true, Color: core.ColorGreen}, b.Cell(o.Row, o.Col), "%+v", o)
	}
	assert.Equal(t, 4, b.FilledCount())
	assert.False(t, b.Cell(2, 1).Filled)
}

func TestAddSkipsOutOfBounds(t *testing.T) {
	b := newTestBoard(t, 4, 4)
	i, _ := DefaultCatalog().Type(KindI)

	assert.NotPanics(t, func() { b.Add(i, Position{Row: 3, Col: 2}) })
	assert.Equal(t, 2, b.FilledCount())
}

func TestClearLinesWithoutFullRows(t *testing.T) {
	b := newTestBoard(t, 10, 4)
	for r := 0; r < 10; r++ {
		b.grid[r][r%4] = Cell{Filled: true, Color: core.Color(r + 1)}
	}
	before := b.Grid()

	assert.Equal(t, 0, b.ClearLines())
	assert.Equal(t, before, b.Grid())
}

func TestClearLinesShiftsSurvivors(t *testing.T) {
	const rows, cols = 10, 3
	b := newTestBoard(t, rows, cols)

	cleared := map[int]bool{2: true, 5: true}
	for r := 0; r < rows; r++ {
		if cleared[r] {
			fillRow(b, r)
			continue
		}
		b.grid[r][r%cols] = Cell{Filled: true, Color: core.Color(r + 1)}
	}
	before := b.Grid()

	require.Equal(t, 2, b.ClearLines())

	after := b.Grid()
	for r := 0; r < rows; r++ {
		if cleared[r] {
			continue
		}
		shift := 0
		for c := range cleared {
			if c > r {
				shift++
			}
		}
		assert.Equal(t, before[r], after[r+shift], "row %d should move to %d", r, r+shift)
	}
	for r := 0; r < 2; r++ {
		assert.Equal(t, make([]Cell, cols), after[r], "row %d should be empty", r)
	}
	assert.Equal(t, rows-2, b.FilledCount())
}

func TestClearLinesEveryRowFull(t *testing.T) {
	b := newTestBoard(t, 3, 2)
	fillRow(b, 0)
	fillRow(b, 1)
	fillRow(b, 2)

	assert.Equal(t, 3, b.ClearLines())
	assert.Zero(t, b.FilledCount())
	assert.Equal(t, 3, b.Rows())
}

func TestCloneIsIndependent(t *testing.T) {
	b := newTestBoard(t, 4, 4)
	c := b.Clone()
	fillRow(c, 3)

	assert.Zero(t, b.FilledCount())
	assert.Equal(t, 4, c.FilledCount())
}

func TestBoardString(t *testing.T) {
	b := newTestBoard(t, 2, 3)
	b.grid[1][0] = Cell{Filled: true}
	assert.Equal(t, "...\n#..", b.String())
}
