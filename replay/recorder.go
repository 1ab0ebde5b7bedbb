package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/plus3/chaintris/loop"
	"github.com/plus3/chaintris/tetris"
)

// Recorder writes a replay log as zstd-compressed JSONL. It implements
// loop.Recorder.
type Recorder struct {
	path string

	mu  sync.Mutex
	seq uint64
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

var _ loop.Recorder = (*Recorder)(nil)

// Create starts a new log in dir, named after the current time.
func Create(dir string, width, height int) (*Recorder, error) {
	now := time.Now().UTC()
	path := filepath.Join(dir, fmt.Sprintf("chaintris-%s.jsonl.zst", now.Format("2006-01-02-150405.000")))
	return CreateFile(path, Header{Version: Version, Width: width, Height: height, StartedAt: now})
}

// CreateFile starts a new log at path with the given header.
func CreateFile(path string, h Header) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	r := &Recorder{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 64*1024),
	}
	if err := r.writeLine(h); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Recorder) Path() string { return r.path }

// Record appends one entry. It is called by the driver with its lock held.
func (r *Recorder) Record(cmd loop.Command, events []tetris.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return fmt.Errorf("replay: recorder closed")
	}

	r.seq++
	e := Entry{Seq: r.seq, Command: cmd}
	for _, ev := range events {
		if ev.Kind == tetris.EventSpawned {
			e.Spawned = append(e.Spawned, ev.Piece)
		}
	}
	if len(events) > 0 {
		last := events[len(events)-1]
		t := totalsOf(last, phaseAfter(events))
		e.Totals = &t
	}
	return r.writeLine(e)
}

// phaseAfter infers the session phase from the events a command raised.
func phaseAfter(events []tetris.Event) tetris.Phase {
	phase := tetris.PhasePlaying
	for _, ev := range events {
		switch ev.Kind {
		case tetris.EventPaused:
			phase = tetris.PhasePaused
		case tetris.EventResumed, tetris.EventStarted:
			phase = tetris.PhasePlaying
		case tetris.EventGameOver:
			phase = tetris.PhaseGameOver
		}
	}
	return phase
}

func (r *Recorder) writeLine(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Flush pushes buffered entries through the compressor to the file.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil
	}
	if err := r.w.Flush(); err != nil {
		return err
	}
	return r.enc.Flush()
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.w != nil {
		err = r.w.Flush()
	}
	if r.enc != nil {
		err = errors.Join(err, r.enc.Close())
		r.enc = nil
	}
	if r.f != nil {
		err = errors.Join(err, r.f.Close())
		r.f = nil
	}
	r.w = nil
	return err
}
