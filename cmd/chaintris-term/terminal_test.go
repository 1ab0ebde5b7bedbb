package main

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/chaintris/loop"
	"github.com/plus3/chaintris/progression"
	"github.com/plus3/chaintris/tetris"
)

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		cmd  loop.Command
		ok   bool
	}{
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), loop.CommandMoveLeft, true},
		{"right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), loop.CommandMoveRight, true},
		{"up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), loop.CommandRotate, true},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), loop.CommandRotate, true},
		{"down", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), loop.CommandSoftDrop, true},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), loop.CommandStart, true},
		{"pause", tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), loop.CommandTogglePause, true},
		{"unbound", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := keyCommand(tt.ev)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.cmd, cmd)
		})
	}

	assert.True(t, isQuit(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, isQuit(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.False(t, isQuit(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)))
}

func screenText(t *testing.T, s tcell.SimulationScreen) string {
	t.Helper()
	cells, width, _ := s.GetContents()
	var b strings.Builder
	for i, c := range cells {
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteByte(' ')
		}
		if (i+1)%width == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func TestTerminalDraw(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(80, 30)

	tracker, err := progression.DefaultCatalog().NewTracker()
	require.NoError(t, err)
	session := tetris.NewSession(tetris.DefaultWidth, tetris.DefaultHeight, tetris.NewSequenceGenerator(tetris.KindO, tetris.KindT))
	d := loop.New(session, loop.WithTracker(tracker), loop.WithInterval(func(int) time.Duration { return time.Hour }))
	defer d.Close()

	term := newTerminal(screen, d)
	term.draw(d.Snapshot())
	text := screenText(t, screen)
	assert.Contains(t, text, "ENTER to start")
	assert.Contains(t, text, "Daily Line Clearer")

	d.Do(loop.CommandStart)
	term.draw(d.Snapshot())
	text = screenText(t, screen)
	assert.Contains(t, text, "NEXT T")
	assert.Contains(t, text, "SCORE  0")

	// The O piece spawns in board columns 4-5, drawn two screen columns
	// per cell right of the frame.
	cells, width, _ := screen.GetContents()
	for x := 9; x <= 12; x++ {
		require.NotEmpty(t, cells[width+x].Runes)
		assert.Equal(t, '█', cells[width+x].Runes[0])
	}
	assert.Empty(t, strings.TrimSpace(string(cells[width+13].Runes)))
}
