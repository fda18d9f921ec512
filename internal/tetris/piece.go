// Package tetris implements the board and piece simulation for a falling-block
// puzzle game. It contains no rendering or terminal code; a front-end drives
// an Engine with commands and gravity ticks and draws from its snapshots.
package tetris

import "github.com/vovakirdan/tui-tetris/internal/core"

// Kind identifies one of the seven tetrominoes.
type Kind uint8

const (
	KindI Kind = iota
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ
)

// String returns the single-letter name of the piece.
func (k Kind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	case KindO:
		return "O"
	case KindS:
		return "S"
	case KindT:
		return "T"
	case KindZ:
		return "Z"
	default:
		return "?"
	}
}

// Offset is a cell position relative to a piece anchor.
type Offset struct {
	Row, Col int
}

// Shape is one rotation state of a piece: an immutable boolean matrix.
type Shape struct {
	rows, cols int
	cells      []bool // row-major
}

// NewShape builds a shape from rows of 'X' (filled) and '.' (empty).
// All rows must have the same length; ragged input panics.
func NewShape(rows ...string) Shape {
	s := Shape{rows: len(rows)}
	if len(rows) > 0 {
		s.cols = len(rows[0])
	}
	s.cells = make([]bool, 0, s.rows*s.cols)
	for _, row := range rows {
		if len(row) != s.cols {
			panic("tetris: ragged shape row " + row)
		}
		for _, ch := range row {
			s.cells = append(s.cells, ch == 'X')
		}
	}
	return s
}

// Rows returns the height of the matrix.
func (s Shape) Rows() int { return s.rows }

// Cols returns the width of the matrix.
func (s Shape) Cols() int { return s.cols }

// Filled reports whether the matrix cell at (row, col) is part of the piece.
// Coordinates outside the matrix are empty.
func (s Shape) Filled(row, col int) bool {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return false
	}
	return s.cells[row*s.cols+col]
}

// Offsets returns the filled cells in row-major order.
func (s Shape) Offsets() []Offset {
	out := make([]Offset, 0, 4)
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			if s.cells[r*s.cols+c] {
				out = append(out, Offset{Row: r, Col: c})
			}
		}
	}
	return out
}

// PieceType is a tetromino with its ordered rotation table and display color.
type PieceType struct {
	kind      Kind
	color     core.Color
	rotations []Shape
}

// NewPieceType creates a piece type from its rotation states in clockwise order.
func NewPieceType(kind Kind, color core.Color, rotations ...Shape) PieceType {
	return PieceType{kind: kind, color: color, rotations: append([]Shape(nil), rotations...)}
}

// Kind returns the tetromino identifier.
func (p PieceType) Kind() Kind { return p.kind }

// Color returns the display color cells take when the piece locks.
func (p PieceType) Color() core.Color { return p.color }

// RotationCount returns the number of distinct rotation states.
func (p PieceType) RotationCount() int { return len(p.rotations) }

// Rotation returns the shape for rotation index i. The index wraps modulo
// RotationCount, so negative and oversized indices are valid.
func (p PieceType) Rotation(i int) Shape {
	n := len(p.rotations)
	if n == 0 {
		return Shape{}
	}
	return p.rotations[((i%n)+n)%n]
}

// Randomizer is the source of randomness consumed by piece selection.
// *rand.Rand satisfies it.
type Randomizer interface {
	Intn(n int) int
}

// Catalog is an ordered, read-only set of piece types.
type Catalog struct {
	types []PieceType
}

// NewCatalog creates a catalog from the given types. It panics when types is
// empty, since an engine cannot spawn from an empty set.
func NewCatalog(types ...PieceType) *Catalog {
	if len(types) == 0 {
		panic("tetris: empty catalog")
	}
	return &Catalog{types: append([]PieceType(nil), types...)}
}

// AllTypes returns the catalog in order.
func (c *Catalog) AllTypes() []PieceType {
	return append([]PieceType(nil), c.types...)
}

// Len returns the number of types.
func (c *Catalog) Len() int { return len(c.types) }

// Type looks up a piece type by kind.
func (c *Catalog) Type(k Kind) (PieceType, bool) {
	for _, t := range c.types {
		if t.kind == k {
			return t, true
		}
	}
	return PieceType{}, false
}

// RandomType returns a uniformly chosen piece type.
func (c *Catalog) RandomType(rng Randomizer) PieceType {
	return c.types[rng.Intn(len(c.types))]
}

var standard = NewCatalog(
	PieceType{kind: KindI, color: core.ColorCyan, rotations: []Shape{
		NewShape("XXXX"),
		NewShape("X", "X", "X", "X"),
	}},
	PieceType{kind: KindJ, color: core.ColorBlue, rotations: []Shape{
		NewShape("X..", "XXX"),
		NewShape("XX", "X.", "X."),
		NewShape("XXX", "..X"),
		NewShape(".X", ".X", "XX"),
	}},
	PieceType{kind: KindL, color: core.ColorOrange, rotations: []Shape{
		NewShape("..X", "XXX"),
		NewShape("X.", "X.", "XX"),
		NewShape("XXX", "X.."),
		NewShape("XX", ".X", ".X"),
	}},
	PieceType{kind: KindO, color: core.ColorYellow, rotations: []Shape{
		NewShape("XX", "XX"),
	}},
	PieceType{kind: KindS, color: core.ColorGreen, rotations: []Shape{
		NewShape(".XX", "XX."),
		NewShape("X.", "XX", ".X"),
	}},
	PieceType{kind: KindT, color: core.ColorMagenta, rotations: []Shape{
		NewShape(".X.", "XXX"),
		NewShape("X.", "XX", "X."),
		NewShape("XXX", ".X."),
		NewShape(".X", "XX", ".X"),
	}},
	PieceType{kind: KindZ, color: core.ColorRed, rotations: []Shape{
		NewShape("XX.", ".XX"),
		NewShape(".X", "XX", "X."),
	}},
)

// DefaultCatalog returns the seven standard tetrominoes in I, J, L, O, S, T, Z
// order. The catalog is shared and must not be modified.
func DefaultCatalog() *Catalog {
	return standard
}
