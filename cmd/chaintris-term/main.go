// Command chaintris-term plays the game in a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/chaintris/config"
)

func main() {
	configPath := flag.String("config", "", "YAML config file; CHAINTRIS_* variables override it.")
	logPath := flag.String("log", "", "Append log output to this file. The terminal is busy drawing the board.")
	replayDir := flag.String("replay-dir", "", "Record a replay log into this directory.")
	flag.Parse()

	logger := log.New(io.Discard, "[chaintris] ", log.LstdFlags)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	if err := run(*configPath, *replayDir, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, replayDir string, logger *log.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if replayDir != "" {
		cfg.ReplayDir = replayDir
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	g, err := cfg.NewGame(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	newTerminal(screen, g.Driver).run(ctx)
	return nil
}
