package replay_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/plus3/chaintris/loop"
	"github.com/plus3/chaintris/replay"
	"github.com/plus3/chaintris/tetris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func never(int) time.Duration { return time.Hour }

// play drives a seeded game with a fixed input pattern until it ends or
// the command budget runs out.
func play(t *testing.T, rec *replay.Recorder) loop.Snapshot {
	t.Helper()
	session := tetris.NewSession(tetris.DefaultWidth, tetris.DefaultHeight, tetris.NewBagGenerator(11))
	d := loop.New(session, loop.WithInterval(never), loop.WithRecorder(rec))
	defer d.Close()

	pattern := []loop.Command{
		loop.CommandRotate, loop.CommandMoveLeft, loop.CommandMoveLeft,
		loop.CommandTick, loop.CommandMoveRight, loop.CommandSoftDrop,
	}
	d.Do(loop.CommandStart)
	for i := 0; i < 2000 && d.Snapshot().Phase == tetris.PhasePlaying; i++ {
		d.Do(pattern[i%len(pattern)])
		if i == 100 {
			d.Do(loop.CommandTogglePause)
			d.Do(loop.CommandTick)
			d.Do(loop.CommandTogglePause)
		}
	}
	return d.Snapshot()
}

func TestRecordAndReplay(t *testing.T) {
	dir := t.TempDir()
	rec, err := replay.Create(dir, tetris.DefaultWidth, tetris.DefaultHeight)
	require.NoError(t, err)

	final := play(t, rec)
	require.NoError(t, rec.Close())

	log, err := replay.ReadFile(rec.Path())
	require.NoError(t, err)
	assert.Equal(t, replay.Version, log.Header.Version)
	assert.Equal(t, tetris.DefaultWidth, log.Header.Width)
	require.NotEmpty(t, log.Entries)
	assert.Equal(t, loop.CommandStart, log.Entries[0].Command)
	assert.Len(t, log.Entries[0].Spawned, 2)
	assert.Equal(t, uint64(len(log.Entries)), log.Entries[len(log.Entries)-1].Seq)

	replayed, err := replay.Run(log)
	require.NoError(t, err)
	assert.Equal(t, final.Snapshot, replayed)
}

func TestRunDetectsDivergence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.jsonl.zst")
	rec, err := replay.CreateFile(path, replay.Header{Version: replay.Version, Width: 10, Height: 20})
	require.NoError(t, err)
	play(t, rec)
	require.NoError(t, rec.Close())

	log, err := replay.ReadFile(path)
	require.NoError(t, err)

	require.NotNil(t, log.Entries[0].Totals)
	log.Entries[0].Totals.Level = 5
	_, err = replay.Run(log)
	assert.ErrorIs(t, err, replay.ErrDiverged)
}

func TestReadRejectsBadLogs(t *testing.T) {
	compress := func(s string) *bytes.Reader {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = enc.Write([]byte(s))
		require.NoError(t, err)
		require.NoError(t, enc.Close())
		return bytes.NewReader(buf.Bytes())
	}

	_, err := replay.Read(compress(""))
	assert.Error(t, err)

	_, err = replay.Read(compress(`{"version":99,"width":10,"height":20}` + "\n"))
	assert.ErrorContains(t, err, "unsupported version")

	_, err = replay.Read(compress(`{"version":1,"width":10,"height":20}` + "\n" + `{"seq":1,"cmd":"HardDrop"}` + "\n"))
	assert.ErrorContains(t, err, "entry 1")

	_, err = replay.Read(compress(`{"version":1,"width":0,"height":20}` + "\n"))
	assert.ErrorContains(t, err, "invalid board 0x20")

	_, err = replay.Read(compress(`{"version":1,"width":10,"height":-3}` + "\n"))
	assert.ErrorContains(t, err, "invalid board 10x-3")

	_, err = replay.Run(replay.Log{Header: replay.Header{Version: replay.Version}})
	assert.ErrorContains(t, err, "invalid board 0x0")

	_, err = replay.ReadFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
