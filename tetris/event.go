package tetris

//go:generate go tool stringer -type=EventKind -trimprefix=Event

// EventKind identifies what happened during a session transition.
type EventKind uint8

const (
	EventStarted EventKind = iota
	EventSpawned
	EventLocked
	EventLevelUp
	EventPaused
	EventResumed
	EventGameOver
)

// Event is a discrete session outcome. Score, TotalLines, Level and Tetrises
// always carry the session totals after the transition that produced the
// event; Lines is only set for EventLocked and Piece only for EventSpawned.
type Event struct {
	Kind       EventKind
	Piece      Kind
	Lines      int
	Score      int
	TotalLines int
	Level      int
	Tetrises   int
}

// eventBuffer collects events raised during transitions until the owner of
// the session drains them.
type eventBuffer struct {
	events []Event
}

func (b *eventBuffer) push(e Event) {
	b.events = append(b.events, e)
}

// flush returns the buffered events and resets the buffer.
func (b *eventBuffer) flush() []Event {
	if len(b.events) == 0 {
		return nil
	}
	out := make([]Event, len(b.events))
	copy(out, b.events)
	b.events = b.events[:0]
	return out
}
