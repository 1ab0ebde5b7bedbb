package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/chaintris/config"
	"github.com/plus3/chaintris/loop"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3, 1, 2}}
	s.Finalize()
	assert.Equal(t, time.Duration(1), s.Min)
	assert.Equal(t, time.Duration(3), s.Max)
	assert.Equal(t, time.Duration(2), s.Avg)
	assert.Equal(t, time.Duration(2), s.P99)

	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Max)
}

func TestPlaySessionIsDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 3
	logger := log.New(io.Discard, "", 0)

	a, err := playSession(context.Background(), cfg, 3000, logger)
	require.NoError(t, err)
	b, err := playSession(context.Background(), cfg, 3000, logger)
	require.NoError(t, err)

	assert.Equal(t, a.Final.Snapshot, b.Final.Snapshot)
	assert.Equal(t, a.Stats.TotalCommands, int64(len(a.Commands)))
	assert.LessOrEqual(t, len(a.Commands), 3000)
	assert.Positive(t, a.Stats.Locks)
}

func TestReportGenerate(t *testing.T) {
	cfg := config.Default()
	r := &Report{Sessions: 2, Budget: 500, Width: cfg.Width, Height: cfg.Height, Generator: cfg.Generator, Ledger: cfg.Ledger.Mode}
	for seed := range uint64(2) {
		cfg.Seed = seed
		res, err := playSession(context.Background(), cfg, 500, log.New(io.Discard, "", 0))
		require.NoError(t, err)
		r.Add(res)
	}
	r.Finalize()

	require.NotEmpty(t, r.PerCommand)
	assert.Equal(t, loop.CommandStart, r.PerCommand[0].Command)
	assert.Equal(t, int64(2), r.PerCommand[0].Count)
	assert.Equal(t, 2, r.Played)

	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))
	out := buf.String()
	assert.Contains(t, out, "**Sessions:** 2 (2 played)")
	assert.Contains(t, out, "| Start | 2 |")
	assert.Contains(t, out, "**Ledger Reports:**")
}

func TestPick(t *testing.T) {
	seen := map[loop.Command]bool{}
	rng := rand.New(rand.NewPCG(1, 2))
	for range 1000 {
		seen[pick(rng)] = true
	}
	for _, p := range policy {
		assert.True(t, seen[p.cmd], "%s never picked", p.cmd)
	}
	assert.False(t, seen[loop.CommandStart])
}
