package tetris

//go:generate go tool stringer -type=Phase -trimprefix=Phase

// Phase is the lifecycle state of a session.
type Phase uint8

const (
	PhaseNotStarted Phase = iota
	PhasePlaying
	PhasePaused
	PhaseGameOver
)

// Session is one playthrough: the board, the falling and look-ahead pieces,
// and the running totals. All mutation goes through its transition methods.
// A Session is not safe for concurrent use; callers serialize transitions.
type Session struct {
	width  int
	height int
	gen    Generator

	board   Board
	current Piece
	next    Piece

	score    int
	lines    int
	level    int
	tetrises int
	phase    Phase

	events eventBuffer
}

// NewSession creates a session in PhaseNotStarted. It panics on invalid
// board dimensions or a nil generator.
func NewSession(width, height int, gen Generator) *Session {
	if gen == nil {
		panic("tetris: nil generator")
	}
	return &Session{
		width:  width,
		height: height,
		gen:    gen,
		board:  NewBoard(width, height),
		level:  1,
		phase:  PhaseNotStarted,
	}
}

// Start resets the board and totals, deals the current and next pieces and
// enters PhasePlaying. It is accepted from every phase, so it doubles as
// restart.
func (s *Session) Start() {
	s.board = NewBoard(s.width, s.height)
	s.score = 0
	s.lines = 0
	s.level = 1
	s.tetrises = 0
	s.phase = PhasePlaying
	s.events.push(s.event(EventStarted))

	s.current = s.spawn()
	s.next = s.spawn()
}

// Tick applies gravity: the current piece moves down one row, or locks when
// it cannot. It returns true when a piece locked. Ticks outside
// PhasePlaying are ignored.
func (s *Session) Tick() bool {
	if s.phase != PhasePlaying {
		return false
	}
	if IsLegalPlacement(s.current, s.board, 0, 1, nil) {
		s.current.Y++
		return false
	}
	s.lock()
	return true
}

// SoftDrop is the player's request to descend now; it behaves exactly like
// one Tick.
func (s *Session) SoftDrop() bool {
	return s.Tick()
}

// Move shifts the current piece horizontally by dx columns if the result is
// legal. It never locks the piece.
func (s *Session) Move(dx int) bool {
	if s.phase != PhasePlaying {
		return false
	}
	if !IsLegalPlacement(s.current, s.board, dx, 0, nil) {
		return false
	}
	s.current.X += dx
	return true
}

// Rotate turns the current piece clockwise in place if the rotated shape
// fits at the current position. No kicks are attempted.
func (s *Session) Rotate() bool {
	if s.phase != PhasePlaying {
		return false
	}
	rotated := Rotate(s.current.Shape)
	if !IsLegalPlacement(s.current, s.board, 0, 0, rotated) {
		return false
	}
	s.current.Shape = rotated
	return true
}

// TogglePause switches between PhasePlaying and PhasePaused. It reports
// whether the phase changed.
func (s *Session) TogglePause() bool {
	switch s.phase {
	case PhasePlaying:
		s.phase = PhasePaused
		s.events.push(s.event(EventPaused))
	case PhasePaused:
		s.phase = PhasePlaying
		s.events.push(s.event(EventResumed))
	default:
		return false
	}
	return true
}

// Flush drains the events raised since the previous call.
func (s *Session) Flush() []Event {
	return s.events.flush()
}

func (s *Session) Phase() Phase   { return s.phase }
func (s *Session) Score() int     { return s.score }
func (s *Session) Lines() int     { return s.lines }
func (s *Session) Level() int     { return s.level }
func (s *Session) Tetrises() int  { return s.tetrises }
func (s *Session) Board() Board   { return s.board.Clone() }
func (s *Session) Current() Piece { return s.current.Clone() }
func (s *Session) Next() Piece    { return s.next.Clone() }

func (s *Session) lock() {
	board, cleared := Clear(Lock(s.current, s.board))
	s.board = board

	prevLevel := s.level
	s.score += ScoreDelta(cleared, s.level)
	s.lines += cleared
	if cleared == TetrisLines {
		s.tetrises++
	}
	s.level = LevelFor(s.lines)

	locked := s.event(EventLocked)
	locked.Lines = cleared
	s.events.push(locked)
	if s.level > prevLevel {
		s.events.push(s.event(EventLevelUp))
	}

	s.current = s.next
	if !IsLegalPlacement(s.current, s.board, 0, 0, nil) {
		s.phase = PhaseGameOver
		s.events.push(s.event(EventGameOver))
		return
	}
	s.next = s.spawn()
}

func (s *Session) spawn() Piece {
	p := Spawn(s.gen.Next(), s.width)
	e := s.event(EventSpawned)
	e.Piece = p.Kind
	s.events.push(e)
	return p
}

func (s *Session) event(kind EventKind) Event {
	return Event{
		Kind:       kind,
		Score:      s.score,
		TotalLines: s.lines,
		Level:      s.level,
		Tetrises:   s.tetrises,
	}
}
