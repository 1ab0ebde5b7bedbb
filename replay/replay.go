// Package replay records driver commands to compressed JSONL files and
// reproduces sessions from them.
package replay

import (
	"errors"
	"fmt"
	"time"

	"github.com/plus3/chaintris/loop"
	"github.com/plus3/chaintris/tetris"
)

// Version is the log format version written in every header.
const Version = 1

// ErrDiverged is returned when a replayed session does not reach the
// totals that were recorded.
var ErrDiverged = errors.New("replay: session diverged")

// Header is the first line of a log.
type Header struct {
	Version   int       `json:"version"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	StartedAt time.Time `json:"started_at"`
}

// Entry is one executed command. Spawned lists the kinds the session drew
// from its generator during the command; Totals is set when the command
// raised any event.
type Entry struct {
	Seq     uint64        `json:"seq"`
	Command loop.Command  `json:"cmd"`
	Spawned []tetris.Kind `json:"spawned,omitempty"`
	Totals  *Totals       `json:"totals,omitempty"`
}

// Totals are the session totals after a command.
type Totals struct {
	Score    int          `json:"score"`
	Lines    int          `json:"lines"`
	Level    int          `json:"level"`
	Tetrises int          `json:"tetrises"`
	Phase    tetris.Phase `json:"phase"`
}

// Log is a fully decoded replay file.
type Log struct {
	Header  Header
	Entries []Entry
}

// Pieces returns every spawned kind in the order the session drew them.
func (l Log) Pieces() []tetris.Kind {
	var out []tetris.Kind
	for _, e := range l.Entries {
		out = append(out, e.Spawned...)
	}
	return out
}

// Run replays the log against a fresh session fed with the recorded piece
// sequence and returns its final snapshot. Every recorded total is checked
// along the way.
func Run(l Log) (tetris.Snapshot, error) {
	if err := l.Header.validate(); err != nil {
		return tetris.Snapshot{}, err
	}
	pieces := l.Pieces()
	if len(pieces) == 0 {
		pieces = []tetris.Kind{tetris.KindI}
	}
	session := tetris.NewSession(l.Header.Width, l.Header.Height, tetris.NewSequenceGenerator(pieces...))

	for _, e := range l.Entries {
		loop.Apply(session, e.Command)
		events := session.Flush()
		if e.Totals == nil {
			continue
		}
		if len(events) == 0 {
			return session.Snapshot(), fmt.Errorf("%w: entry %d (%s) raised no events", ErrDiverged, e.Seq, e.Command)
		}
		got := totalsOf(events[len(events)-1], session.Phase())
		if got != *e.Totals {
			return session.Snapshot(), fmt.Errorf("%w: entry %d (%s): recorded %+v, replayed %+v", ErrDiverged, e.Seq, e.Command, *e.Totals, got)
		}
	}
	return session.Snapshot(), nil
}

func totalsOf(ev tetris.Event, phase tetris.Phase) Totals {
	return Totals{
		Score:    ev.Score,
		Lines:    ev.TotalLines,
		Level:    ev.Level,
		Tetrises: ev.Tetrises,
		Phase:    phase,
	}
}
