// Command replay rebuilds a recorded game from its replay log and prints
// the final state.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/plus3/chaintris/replay"
	"github.com/plus3/chaintris/tetris"
)

func main() {
	board := flag.Bool("board", true, "print the final board")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: replay [-board=false] <game.jsonl.zst>")
		os.Exit(2)
	}

	if err := run(os.Stdout, flag.Arg(0), *board); err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		if errors.Is(err, replay.ErrDiverged) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

func run(w io.Writer, path string, board bool) error {
	l, err := replay.ReadFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "replay v%d board=%dx%d started=%s commands=%d pieces=%d\n",
		l.Header.Version, l.Header.Width, l.Header.Height, l.Header.StartedAt.UTC().Format(time.RFC3339),
		len(l.Entries), len(l.Pieces()))

	final, err := replay.Run(l)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "phase=%s score=%d lines=%d level=%d tetrises=%d\n",
		final.Phase, final.Score, final.Lines, final.Level, final.Tetrises)
	if board {
		fmt.Fprint(w, render(final))
	}
	return nil
}

// render draws the board with one letter per filled cell.
func render(s tetris.Snapshot) string {
	var b strings.Builder
	for _, row := range s.Cells {
		b.WriteByte('|')
		for _, cell := range row {
			if kind, ok := tetris.KindOf(cell); ok {
				b.WriteString(kind.String())
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("|\n")
	}
	b.WriteString("+" + strings.Repeat("-", s.Width) + "+\n")
	return b.String()
}
