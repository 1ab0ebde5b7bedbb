package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/chaintris/debugui"
	debugui_ebiten "github.com/plus3/chaintris/debugui/ebiten"
	"github.com/plus3/chaintris/loop"
	"github.com/plus3/chaintris/tetris"
)

var (
	backgroundColor = color.RGBA{18, 18, 24, 255}
	gridColor       = color.RGBA{40, 40, 52, 255}
	sidebarColor    = color.RGBA{28, 28, 36, 255}
)

// Game implements ebiten.Game. The driver advances on its own timer; the
// game only forwards input and draws the latest snapshot.
type Game struct {
	driver *loop.Driver
	keys   *keyboard
	width  int
	height int
	done   <-chan struct{}

	backend *debugui_ebiten.ImguiBackend
	overlay *debugui.Overlay
	timer   *debugui.FrameTimer
}

func (g *Game) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	captured := false
	if g.overlay != nil {
		dt := g.timer.GetDeltaTime()
		g.backend.Frame(func() { g.overlay.Render(dt) })
		captured = g.overlay.Input().WantCaptureKeyboard
	}
	if !captured {
		for _, cmd := range g.keys.commands() {
			g.driver.Do(cmd)
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	snap := g.driver.Snapshot()

	for y, row := range snap.Cells {
		for x, cell := range row {
			sx, sy := float32(x*cellSize), float32(y*cellSize)
			vector.StrokeRect(screen, sx, sy, cellSize, cellSize, 1, gridColor, false)
			if kind, ok := tetris.KindOf(cell); ok {
				vector.DrawFilledRect(screen, sx+1, sy+1, cellSize-2, cellSize-2, kind.Color(), false)
			}
		}
	}

	left := snap.Width * cellSize
	vector.DrawFilledRect(screen, float32(left), 0, sidebarWidth, float32(snap.Height*cellSize), sidebarColor, false)
	g.drawNext(screen, snap.Next, left+20, 40)
	ebitenutil.DebugPrintAt(screen, sidebarText(snap), left+20, 140)

	if g.backend != nil {
		g.backend.Draw(screen)
	}
}

func (g *Game) drawNext(screen *ebiten.Image, next tetris.Piece, x, y int) {
	ebitenutil.DebugPrintAt(screen, "NEXT", x, y-20)
	for i, row := range next.Shape {
		for j, filled := range row {
			if filled {
				sx, sy := float32(x+j*cellSize/2), float32(y+i*cellSize/2)
				vector.DrawFilledRect(screen, sx, sy, cellSize/2-1, cellSize/2-1, next.Kind.Color(), false)
			}
		}
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.backend != nil {
		g.backend.Layout(outsideWidth, outsideHeight)
		return outsideWidth, outsideHeight
	}
	return g.width, g.height
}

// sidebarText lists score, progression and the controls for the current
// phase.
func sidebarText(snap loop.Snapshot) string {
	s := fmt.Sprintf("SCORE  %d\nLINES  %d\nLEVEL  %d\nTETRIS %d\n\n", snap.Score, snap.Lines, snap.Level, snap.Tetrises)

	switch snap.Phase {
	case tetris.PhaseNotStarted:
		s += "ENTER to start\n\n"
	case tetris.PhasePaused:
		s += "PAUSED (P)\n\n"
	case tetris.PhaseGameOver:
		s += "GAME OVER\nENTER to restart\n\n"
	}

	for _, m := range snap.Missions {
		mark := " "
		if m.Completed {
			mark = "*"
		}
		s += fmt.Sprintf("%s %-16.16s %3d%%\n", mark, m.Name, m.Percent())
	}
	if len(snap.Traits) > 0 {
		s += "\n"
	}
	for _, t := range snap.Traits {
		s += fmt.Sprintf("%-14.14s Lv %d\n", t.Name, t.Level)
	}
	return s
}
