package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/chaintris/loop"
)

// Held keys repeat after repeatDelay ticks, every repeatEvery ticks.
const (
	repeatDelay = 12
	repeatEvery = 3
)

type binding struct {
	key    ebiten.Key
	cmd    loop.Command
	repeat bool
}

type keyboard struct {
	bindings []binding
}

func newKeyboard() *keyboard {
	return &keyboard{bindings: []binding{
		{ebiten.KeyEnter, loop.CommandStart, false},
		{ebiten.KeyP, loop.CommandTogglePause, false},
		{ebiten.KeyArrowLeft, loop.CommandMoveLeft, true},
		{ebiten.KeyArrowRight, loop.CommandMoveRight, true},
		{ebiten.KeyArrowUp, loop.CommandRotate, false},
		{ebiten.KeySpace, loop.CommandRotate, false},
		{ebiten.KeyArrowDown, loop.CommandSoftDrop, true},
	}}
}

// commands returns the commands triggered during this tick.
func (k *keyboard) commands() []loop.Command {
	var out []loop.Command
	for _, b := range k.bindings {
		d := inpututil.KeyPressDuration(b.key)
		if d == 1 || (b.repeat && d >= repeatDelay && (d-repeatDelay)%repeatEvery == 0) {
			out = append(out, b.cmd)
		}
	}
	return out
}
