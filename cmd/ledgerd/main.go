// Command ledgerd serves a progression ledger over websocket for clients
// running with ledger mode remote.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plus3/chaintris/config"
	"github.com/plus3/chaintris/ledger"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file; CHAINTRIS_* variables override it.")
		listen     = flag.String("listen", "", "HTTP listen address (default: ledger.listen from config)")
		mode       = flag.String("mode", config.LedgerSQLite, "storage backend: sqlite or memory")
		dbPath     = flag.String("db", "", "sqlite database path (default: ledger.path from config)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[ledgerd] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *listen != "" {
		cfg.Ledger.Listen = *listen
	}
	if *dbPath != "" {
		cfg.Ledger.Path = *dbPath
	}
	switch *mode {
	case config.LedgerSQLite, config.LedgerMemory:
		cfg.Ledger.Mode = *mode
	default:
		logger.Fatalf("ledgerd cannot serve mode %q", *mode)
	}

	catalog, err := cfg.LoadCatalog()
	if err != nil {
		logger.Fatalf("load catalog: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, closeLedger, err := cfg.Ledger.OpenLedger(ctx, catalog, logger)
	if err != nil {
		logger.Fatalf("open ledger: %v", err)
	}
	defer func() {
		if err := closeLedger(); err != nil {
			logger.Printf("close ledger: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Ledger.Listen,
		Handler:           newMux(svc, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("serving %d missions from %s ledger on %s", len(catalog.Missions), cfg.Ledger.Mode, cfg.Ledger.Listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Printf("ListenAndServe: %v", err)
	}
}

func newMux(svc ledger.Service, logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		fmt.Fprintln(rw, "ok")
	})
	mux.Handle("/ledger", ledger.NewServer(svc, logger).Handler())
	return mux
}
