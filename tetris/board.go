package tetris

import "fmt"

const (
	DefaultWidth  = 10
	DefaultHeight = 20
)

// Cell is a single board cell. Empty is zero; any other value is the fill
// marker of the piece that was locked there.
type Cell uint8

const Empty Cell = 0

// Filled reports whether the cell holds a locked piece.
func (c Cell) Filled() bool { return c != Empty }

// Board is a fixed-size grid of cells indexed as Cells[row][col], with row 0
// at the top. Its dimensions never change after construction.
type Board struct {
	Width  int
	Height int
	Cells  [][]Cell
}

// NewBoard creates an empty board. Non-positive dimensions are a programming
// error and panic.
func NewBoard(width, height int) Board {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("tetris: invalid board dimensions %dx%d", width, height))
	}
	cells := make([][]Cell, height)
	for i := range cells {
		cells[i] = make([]Cell, width)
	}
	return Board{Width: width, Height: height, Cells: cells}
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	cells := make([][]Cell, len(b.Cells))
	for i, row := range b.Cells {
		cells[i] = make([]Cell, len(row))
		copy(cells[i], row)
	}
	return Board{Width: b.Width, Height: b.Height, Cells: cells}
}

// At returns the cell at (x, y). Coordinates outside the board read as Empty.
func (b Board) At(x, y int) Cell {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return Empty
	}
	return b.Cells[y][x]
}

// IsLegalPlacement reports whether p, shifted by (dx, dy) and optionally
// using shape instead of its own, fits on b. Cells above the board (y < 0)
// are allowed and never checked for occupancy.
func IsLegalPlacement(p Piece, b Board, dx, dy int, shape Shape) bool {
	if shape == nil {
		shape = p.Shape
	}
	for i, row := range shape {
		for j, value := range row {
			if !value {
				continue
			}

			x := p.X + j + dx
			y := p.Y + i + dy

			if x < 0 || x >= b.Width || y >= b.Height {
				return false
			}

			if y >= 0 && b.Cells[y][x].Filled() {
				return false
			}
		}
	}
	return true
}

// Lock returns a copy of b with p's filled cells stamped using p.Fill.
// Cells above the board are dropped.
func Lock(p Piece, b Board) Board {
	locked := b.Clone()
	for i, row := range p.Shape {
		for j, value := range row {
			if !value {
				continue
			}

			x := p.X + j
			y := p.Y + i

			if y < 0 || y >= locked.Height || x < 0 || x >= locked.Width {
				continue
			}
			locked.Cells[y][x] = p.Fill
		}
	}
	return locked
}
