package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// ReadFile decodes a log written by Recorder.
func ReadFile(path string) (Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return Log{}, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a zstd-compressed JSONL log from r.
func Read(r io.Reader) (Log, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return Log{}, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var l Log
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Log{}, err
		}
		return Log{}, errors.New("replay: empty log")
	}
	if err := json.Unmarshal(sc.Bytes(), &l.Header); err != nil {
		return Log{}, fmt.Errorf("replay: header: %w", err)
	}
	if l.Header.Version != Version {
		return Log{}, fmt.Errorf("replay: unsupported version %d", l.Header.Version)
	}
	if err := l.Header.validate(); err != nil {
		return Log{}, err
	}

	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return Log{}, fmt.Errorf("replay: entry %d: %w", len(l.Entries)+1, err)
		}
		l.Entries = append(l.Entries, e)
	}
	return l, sc.Err()
}

func (h Header) validate() error {
	if h.Width <= 0 || h.Height <= 0 {
		return fmt.Errorf("replay: invalid board %dx%d", h.Width, h.Height)
	}
	return nil
}
