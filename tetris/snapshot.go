package tetris

// Snapshot is an immutable copy of a session for rendering and tests.
// Cells already includes the current piece unless the game is over or has
// not started.
type Snapshot struct {
	Width    int
	Height   int
	Cells    [][]Cell
	Current  Piece
	Next     Piece
	Score    int
	Lines    int
	Level    int
	Tetrises int
	Phase    Phase
}

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	board := s.board.Clone()
	if s.phase == PhasePlaying || s.phase == PhasePaused {
		overlay(&board, s.current)
	}
	return Snapshot{
		Width:    s.width,
		Height:   s.height,
		Cells:    board.Cells,
		Current:  s.current.Clone(),
		Next:     s.next.Clone(),
		Score:    s.score,
		Lines:    s.lines,
		Level:    s.level,
		Tetrises: s.tetrises,
		Phase:    s.phase,
	}
}

func overlay(b *Board, p Piece) {
	for i, row := range p.Shape {
		for j, value := range row {
			if !value {
				continue
			}
			x, y := p.X+j, p.Y+i
			if y >= 0 && y < b.Height && x >= 0 && x < b.Width {
				b.Cells[y][x] = p.Fill
			}
		}
	}
}
