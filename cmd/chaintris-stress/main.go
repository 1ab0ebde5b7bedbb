// Command chaintris-stress plays many seeded sessions headlessly with a
// random input policy and prints a performance report.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/chaintris/config"
)

func main() {
	configPath := flag.String("config", "", "YAML config file; CHAINTRIS_* variables override it.")
	sessions := flag.Int("sessions", 100, "Number of sessions to play.")
	budget := flag.Int("commands", 5000, "Maximum commands per session.")
	seed := flag.Uint64("seed", 1, "Seed for the first session; session i uses seed+i.")
	duration := flag.Duration("duration", time.Minute, "Stop starting new sessions after this long.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	verbose := flag.Bool("v", false, "Log driver and ledger output from every session.")
	flag.Parse()

	logger := log.New(os.Stderr, "[chaintris-stress] ", log.LstdFlags)
	sessionLogger := log.New(io.Discard, "", 0)
	if *verbose {
		sessionLogger = logger
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	report := &Report{
		Sessions:       *sessions,
		Budget:         *budget,
		Width:          cfg.Width,
		Height:         cfg.Height,
		Generator:      cfg.Generator,
		Ledger:         cfg.Ledger.Mode,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	logger.Printf("Playing %d sessions of up to %d commands...", *sessions, *budget)
	start := time.Now()

	for i := range *sessions {
		if ctx.Err() != nil {
			logger.Printf("Duration reached after %d sessions.", report.Played)
			break
		}
		cfg.Seed = *seed + uint64(i)
		res, err := playSession(ctx, cfg, *budget, sessionLogger)
		if err != nil {
			logger.Fatalf("session %d: %v", i, err)
		}
		report.Add(res)
	}

	report.TotalTime = time.Since(start)
	report.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}
