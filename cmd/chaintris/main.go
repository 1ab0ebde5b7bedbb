// Command chaintris plays the game in an ebiten window, optionally with
// the imgui debug overlay.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/chaintris/config"
	"github.com/plus3/chaintris/debugui"
	debugui_ebiten "github.com/plus3/chaintris/debugui/ebiten"
)

const (
	cellSize      = 30
	sidebarWidth  = 220
	overlayWidth  = 1280
	overlayHeight = 760
)

func main() {
	configPath := flag.String("config", "", "YAML config file; CHAINTRIS_* variables override it.")
	debug := flag.Bool("debug", false, "Show the imgui debug overlay.")
	replayDir := flag.String("replay-dir", "", "Record a replay log into this directory.")
	flag.Parse()

	logger := log.New(os.Stderr, "[chaintris] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *debug {
		cfg.Debug = true
	}
	if *replayDir != "" {
		cfg.ReplayDir = *replayDir
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	g, err := cfg.NewGame(ctx, logger)
	if err != nil {
		logger.Fatalf("start game: %v", err)
	}
	defer func() {
		if err := g.Close(); err != nil {
			logger.Printf("shutdown: %v", err)
		}
		if g.Syncer != nil {
			logger.Printf("ledger sync: %+v", g.Syncer.Stats())
		}
	}()
	go g.Driver.Run(ctx)

	game := &Game{
		driver: g.Driver,
		keys:   newKeyboard(),
		width:  cfg.Width*cellSize + sidebarWidth,
		height: cfg.Height * cellSize,
		done:   ctx.Done(),
	}

	if cfg.Debug {
		game.backend = debugui_ebiten.NewImguiBackend("chaintris", overlayWidth, overlayHeight)
		game.overlay = debugui.NewOverlay(g.Driver, 120)
		game.timer = debugui.NewFrameTimer()
	} else {
		ebiten.SetWindowSize(game.width, game.height)
		ebiten.SetWindowTitle("chaintris")
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Printf("playing as %s, ledger %s", g.PlayerID, cfg.Ledger.Mode)
	if err := ebiten.RunGame(game); err != nil {
		logger.Printf("run game: %v", err)
	}
}
