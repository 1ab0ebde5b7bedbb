package tetris

// Clear removes every full row of b in a single pass and returns the new
// board together with the number of rows removed. Remaining rows keep their
// relative order and empty rows are added on top to restore the height.
func Clear(b Board) (Board, int) {
	kept := make([][]Cell, 0, b.Height)
	for _, row := range b.Cells {
		if rowFull(row) {
			continue
		}
		r := make([]Cell, len(row))
		copy(r, row)
		kept = append(kept, r)
	}

	cleared := b.Height - len(kept)
	cells := make([][]Cell, 0, b.Height)
	for range cleared {
		cells = append(cells, make([]Cell, b.Width))
	}
	cells = append(cells, kept...)

	return Board{Width: b.Width, Height: b.Height, Cells: cells}, cleared
}

func rowFull(row []Cell) bool {
	for _, c := range row {
		if !c.Filled() {
			return false
		}
	}
	return true
}
