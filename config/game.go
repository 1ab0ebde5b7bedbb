package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/plus3/chaintris/ledger"
	"github.com/plus3/chaintris/loop"
	"github.com/plus3/chaintris/progression"
	"github.com/plus3/chaintris/replay"
)

// Game is a driver wired to everything the configuration asks for. Syncer
// and Recorder are nil when the ledger or replay recording is off.
type Game struct {
	Driver   *loop.Driver
	PlayerID string
	Syncer   *ledger.Syncer
	Recorder *replay.Recorder

	closeLedger func() error
}

// NewGame builds the session, attaches progression to the configured ledger
// and starts replay recording. Without a ledger the tracker starts from the
// catalog with no stored progress. When the ledger cannot be opened or the
// player has no profile the game runs without progression. extra options
// are applied last.
func (c Config) NewGame(ctx context.Context, logger *log.Logger, extra ...loop.Option) (*Game, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	catalog, err := c.LoadCatalog()
	if err != nil {
		return nil, err
	}

	g := &Game{PlayerID: c.PlayerID}
	tracker, err := g.attach(ctx, c, catalog, logger)
	if err != nil {
		logger.Printf("progression disabled: %v", err)
	}

	opts := []loop.Option{loop.WithTracker(tracker), loop.WithLogger(logger)}
	if g.Syncer != nil {
		opts = append(opts, loop.WithSyncer(g.Syncer))
	}
	if c.ReplayDir != "" {
		if g.Recorder, err = replay.Create(c.ReplayDir, c.Width, c.Height); err != nil {
			return nil, errors.Join(err, g.Close())
		}
		logger.Printf("recording replay to %s", g.Recorder.Path())
		opts = append(opts, loop.WithRecorder(g.Recorder))
	}

	g.Driver = loop.New(c.NewSession(), append(opts, extra...)...)
	return g, nil
}

// attach returns a tracker seeded from the ledger and starts the syncer.
// It returns a nil tracker and an error when progression is unavailable.
func (g *Game) attach(ctx context.Context, c Config, catalog progression.Catalog, logger *log.Logger) (*progression.Tracker, error) {
	svc, closeLedger, err := c.Ledger.OpenLedger(ctx, catalog, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s ledger: %w", c.Ledger.Mode, err)
	}
	if svc == nil {
		return catalog.NewTracker()
	}

	if c.Ledger.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Ledger.Timeout)
		defer cancel()
	}
	tracker, playerID, err := ledger.Attach(ctx, svc, ledger.StaticIdentity(c.PlayerID))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("attach ledger: %w", err), closeLedger())
	}
	g.PlayerID = playerID
	g.closeLedger = closeLedger
	g.Syncer = ledger.NewSyncer(svc, playerID, c.Ledger.QueueSize, logger, ledger.WithSyncTimeout(c.Ledger.Timeout))
	return tracker, nil
}

// Close stops the driver, drains the syncer and releases the recorder and
// the ledger, in that order.
func (g *Game) Close() error {
	if g.Driver != nil {
		g.Driver.Close()
	}
	if g.Syncer != nil {
		g.Syncer.Close()
	}
	var errs []error
	if g.Recorder != nil {
		errs = append(errs, g.Recorder.Close())
	}
	if g.closeLedger != nil {
		errs = append(errs, g.closeLedger())
	}
	return errors.Join(errs...)
}
