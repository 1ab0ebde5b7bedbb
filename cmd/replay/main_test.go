package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/chaintris/loop"
	"github.com/plus3/chaintris/replay"
	"github.com/plus3/chaintris/tetris"
)

func record(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.jsonl.zst")
	rec, err := replay.CreateFile(path, replay.Header{Version: replay.Version, Width: 6, Height: 6, StartedAt: time.Now()})
	require.NoError(t, err)

	session := tetris.NewSession(6, 6, tetris.NewSequenceGenerator(tetris.KindO))
	d := loop.New(session, loop.WithRecorder(rec), loop.WithInterval(func(int) time.Duration { return time.Hour }))
	d.Do(loop.CommandStart)
	for range 4 {
		d.Do(loop.CommandSoftDrop)
	}
	d.Close()
	require.NoError(t, rec.Close())
	return path
}

func TestRun(t *testing.T) {
	path := record(t)

	var out bytes.Buffer
	require.NoError(t, run(&out, path, true))
	lines := strings.Split(out.String(), "\n")
	assert.Contains(t, lines[0], "board=6x6 started=")
	assert.Contains(t, lines[0], "commands=5")
	assert.Equal(t, "phase=Playing score=0 lines=0 level=1 tetrises=0", lines[1])
	assert.Equal(t, "|..OO..|", lines[2+4], "piece sits on the floor")
	assert.Equal(t, "|..OO..|", lines[2+5])
	assert.Equal(t, "+------+", lines[2+6])

	out.Reset()
	require.NoError(t, run(&out, path, false))
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 2)

	assert.Error(t, run(&out, filepath.Join(t.TempDir(), "missing"), false))
}
