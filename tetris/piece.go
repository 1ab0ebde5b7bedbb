package tetris

import (
	"fmt"
	"image/color"
)

//go:generate go tool stringer -type=Kind -trimprefix=Kind

// Kind identifies one of the seven canonical pieces.
type Kind uint8

const (
	KindI Kind = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
)

// Kinds lists every piece kind in catalog order.
var Kinds = [...]Kind{KindI, KindO, KindT, KindS, KindZ, KindJ, KindL}

// Shape is a rectangular matrix of filled cells, indexed [row][col].
type Shape [][]bool

var baseShapes = [len(Kinds)]Shape{
	mustShape("1111"),
	mustShape("11", "11"),
	mustShape("010", "111"),
	mustShape("011", "110"),
	mustShape("110", "011"),
	mustShape("100", "111"),
	mustShape("001", "111"),
}

var kindColors = [len(Kinds)]color.RGBA{
	{0x00, 0xf5, 0xff, 0xff},
	{0xff, 0xff, 0x00, 0xff},
	{0x80, 0x00, 0x80, 0xff},
	{0x00, 0xff, 0x00, 0xff},
	{0xff, 0x00, 0x00, 0xff},
	{0x00, 0x00, 0xff, 0xff},
	{0xff, 0x7f, 0x00, 0xff},
}

// mustShape builds a shape from rows of '0'/'1'. The catalog is static, so a
// malformed row is a programming error.
func mustShape(rows ...string) Shape {
	if len(rows) == 0 {
		panic("tetris: empty shape")
	}
	shape := make(Shape, len(rows))
	filled := 0
	for i, row := range rows {
		if len(row) != len(rows[0]) {
			panic(fmt.Sprintf("tetris: ragged shape row %q", row))
		}
		shape[i] = make([]bool, len(row))
		for j, c := range row {
			if c == '1' {
				shape[i][j] = true
				filled++
			}
		}
	}
	if filled == 0 {
		panic("tetris: shape has no filled cells")
	}
	return shape
}

// Shape returns a fresh copy of the kind's base shape.
func (k Kind) Shape() Shape {
	return baseShapes[k].Clone()
}

// Fill returns the board marker used when a piece of this kind locks.
func (k Kind) Fill() Cell { return Cell(k) + 1 }

// Color returns the display color for the kind.
func (k Kind) Color() color.RGBA { return kindColors[k] }

// MarshalText encodes a kind by its letter.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(Kinds) {
		return nil, fmt.Errorf("tetris: invalid kind %d", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from its letter.
func (k *Kind) UnmarshalText(text []byte) error {
	for _, kind := range Kinds {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("tetris: unknown kind %q", text)
}

// KindOf maps a non-empty fill marker back to its piece kind.
func KindOf(c Cell) (Kind, bool) {
	if c == Empty || int(c) > len(Kinds) {
		return 0, false
	}
	return Kind(c - 1), true
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for i, row := range s {
		out[i] = make([]bool, len(row))
		copy(out[i], row)
	}
	return out
}

// Equal reports whether two shapes have identical dimensions and cells.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if len(s[i]) != len(o[i]) {
			return false
		}
		for j := range s[i] {
			if s[i][j] != o[i][j] {
				return false
			}
		}
	}
	return true
}

// Rotate returns s turned 90 degrees clockwise: the matrix is transposed and
// each resulting row reversed. s is not modified.
func Rotate(s Shape) Shape {
	rows := len(s)
	cols := len(s[0])
	rotated := make(Shape, cols)
	for j := range cols {
		rotated[j] = make([]bool, rows)
		for i := range rows {
			rotated[j][rows-1-i] = s[i][j]
		}
	}
	return rotated
}

// Piece is a falling piece: its kind, current rotation of the shape, the
// board position of the shape's top-left cell, and its fill marker.
type Piece struct {
	Kind  Kind
	Shape Shape
	X, Y  int
	Fill  Cell
}

// Spawn creates a piece of the given kind centered horizontally on a board
// of the given width, with the top of its shape at row 0.
func Spawn(kind Kind, width int) Piece {
	shape := kind.Shape()
	return Piece{
		Kind:  kind,
		Shape: shape,
		X:     width/2 - len(shape[0])/2,
		Y:     0,
		Fill:  kind.Fill(),
	}
}

// Clone returns a deep copy of the piece.
func (p Piece) Clone() Piece {
	p.Shape = p.Shape.Clone()
	return p
}
