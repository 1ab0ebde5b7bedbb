package main

import (
	"context"
	"log"
	"math/rand/v2"
	"time"

	"github.com/plus3/chaintris/config"
	"github.com/plus3/chaintris/loop"
	"github.com/plus3/chaintris/tetris"
)

// policy weights the commands a random player sends. Ticks are frequent
// enough that every session eventually tops out.
var policy = []struct {
	cmd    loop.Command
	weight int
}{
	{loop.CommandMoveLeft, 4},
	{loop.CommandMoveRight, 4},
	{loop.CommandRotate, 3},
	{loop.CommandSoftDrop, 6},
	{loop.CommandTick, 3},
}

func pick(rng *rand.Rand) loop.Command {
	total := 0
	for _, p := range policy {
		total += p.weight
	}
	n := rng.IntN(total)
	for _, p := range policy {
		if n < p.weight {
			return p.cmd
		}
		n -= p.weight
	}
	return loop.CommandTick
}

// SessionResult is what one played session contributes to the report.
type SessionResult struct {
	Final    loop.Snapshot
	Stats    loop.Stats
	Commands []time.Duration
	Synced   int64
	Dropped  int64
}

// playSession runs one game with the drop timer disabled so the random
// policy alone decides when pieces fall.
func playSession(ctx context.Context, cfg config.Config, budget int, logger *log.Logger) (SessionResult, error) {
	cfg.ReplayDir = ""
	g, err := cfg.NewGame(ctx, logger, loop.WithInterval(func(int) time.Duration { return time.Hour }))
	if err != nil {
		return SessionResult{}, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	res := SessionResult{Commands: make([]time.Duration, 0, budget)}

	do := func(cmd loop.Command) {
		start := time.Now()
		g.Driver.Do(cmd)
		res.Commands = append(res.Commands, time.Since(start))
	}

	do(loop.CommandStart)
	for len(res.Commands) < budget && g.Driver.Snapshot().Phase == tetris.PhasePlaying {
		do(pick(rng))
	}

	res.Final = g.Driver.Snapshot()
	res.Stats = g.Driver.Stats()
	err = g.Close()
	if g.Syncer != nil {
		s := g.Syncer.Stats()
		res.Synced, res.Dropped = s.Sent, s.Dropped
	}
	return res, err
}
