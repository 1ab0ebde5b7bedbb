package main

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/chaintris/loop"
	"github.com/plus3/chaintris/tetris"
)

var (
	frameStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	textStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	doneStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// terminal draws driver snapshots with tcell and turns key presses into
// commands.
type terminal struct {
	screen tcell.Screen
	driver *loop.Driver
	redraw chan struct{}
}

func newTerminal(screen tcell.Screen, d *loop.Driver) *terminal {
	t := &terminal{screen: screen, driver: d, redraw: make(chan struct{}, 1)}
	d.Subscribe(func(loop.Snapshot) {
		select {
		case t.redraw <- struct{}{}:
		default:
		}
	})
	return t
}

// keyCommand maps a key press to a driver command.
func keyCommand(ev *tcell.EventKey) (loop.Command, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return loop.CommandMoveLeft, true
	case tcell.KeyRight:
		return loop.CommandMoveRight, true
	case tcell.KeyUp:
		return loop.CommandRotate, true
	case tcell.KeyDown:
		return loop.CommandSoftDrop, true
	case tcell.KeyEnter:
		return loop.CommandStart, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			return loop.CommandRotate, true
		case 'p', 'P':
			return loop.CommandTogglePause, true
		}
	}
	return 0, false
}

func isQuit(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
		(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'))
}

func (t *terminal) run(ctx context.Context) {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	t.draw(t.driver.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuit(ev) {
					return
				}
				if cmd, ok := keyCommand(ev); ok {
					t.driver.Do(cmd)
				}
			case *tcell.EventResize:
				t.screen.Sync()
				t.draw(t.driver.Snapshot())
			}
		case <-t.redraw:
			t.draw(t.driver.Snapshot())
		}
	}
}

// draw renders the board two columns per cell with the sidebar to its
// right.
func (t *terminal) draw(snap loop.Snapshot) {
	t.screen.Clear()

	right := snap.Width*2 + 1
	for y := 0; y <= snap.Height+1; y++ {
		t.screen.SetContent(0, y, '│', nil, frameStyle)
		t.screen.SetContent(right, y, '│', nil, frameStyle)
	}
	for x := 0; x <= right; x++ {
		t.screen.SetContent(x, snap.Height+1, '─', nil, frameStyle)
	}
	t.screen.SetContent(0, snap.Height+1, '└', nil, frameStyle)
	t.screen.SetContent(right, snap.Height+1, '┘', nil, frameStyle)

	for y, row := range snap.Cells {
		for x, cell := range row {
			kind, ok := tetris.KindOf(cell)
			if !ok {
				continue
			}
			style := tcell.StyleDefault.Foreground(tcell.FromImageColor(kind.Color()))
			t.screen.SetContent(1+x*2, y+1, '█', nil, style)
			t.screen.SetContent(2+x*2, y+1, '█', nil, style)
		}
	}

	col := right + 3
	line := 1
	put := func(style tcell.Style, format string, args ...any) {
		for i, r := range []rune(fmt.Sprintf(format, args...)) {
			t.screen.SetContent(col+i, line, r, nil, style)
		}
		line++
	}

	put(textStyle, "SCORE  %d", snap.Score)
	put(textStyle, "LINES  %d", snap.Lines)
	put(textStyle, "LEVEL  %d", snap.Level)
	put(textStyle, "TETRIS %d", snap.Tetrises)
	line++
	switch snap.Phase {
	case tetris.PhaseNotStarted:
		put(textStyle, "ENTER to start")
	case tetris.PhasePaused:
		put(textStyle, "PAUSED")
	case tetris.PhaseGameOver:
		put(textStyle, "GAME OVER, ENTER to restart")
	case tetris.PhasePlaying:
		put(textStyle, "NEXT %s", snap.Next.Kind)
	}
	line++

	for _, m := range snap.Missions {
		style := textStyle
		if m.Completed {
			style = doneStyle
		}
		put(style, "%-18.18s %3d%%", m.Name, m.Percent())
	}
	if len(snap.Traits) > 0 {
		line++
	}
	for _, tr := range snap.Traits {
		put(textStyle, "%-14.14s Lv %d %3d xp", tr.Name, tr.Level, tr.XP)
	}
	line++
	put(frameStyle, "arrows move/rotate/drop  p pause  q quit")

	t.screen.Show()
}
