package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/chaintris/loop"
	"github.com/plus3/chaintris/tetris"
)

type Report struct {
	// Configuration
	Sessions  int
	Budget    int
	Width     int
	Height    int
	Generator string
	Ledger    string

	// Results
	Played         int
	GameOvers      int
	TotalCommands  int64
	Locks          int64
	Lines          int64
	Tetrises       int
	BestScore      int
	MaxLevel       int
	Synced         int64
	Dropped        int64
	TotalTime      time.Duration
	CommandTime    Stats
	PerCommand     []CommandRow
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats

	perCommand map[loop.Command]*CommandRow
}

// CommandRow aggregates one command's driver stats over every session.
type CommandRow struct {
	Command loop.Command
	Count   int64
	Total   time.Duration
	Max     time.Duration
	Avg     time.Duration
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)
	s.P99 = sorted[(len(sorted)-1)*99/100]
}

// Add folds one session into the totals.
func (r *Report) Add(res SessionResult) {
	r.Played++
	if res.Final.Phase == tetris.PhaseGameOver {
		r.GameOvers++
	}
	r.TotalCommands += res.Stats.TotalCommands
	r.Locks += res.Stats.Locks
	r.Lines += res.Stats.LinesCleared
	r.Tetrises += res.Final.Tetrises
	r.BestScore = max(r.BestScore, res.Final.Score)
	r.MaxLevel = max(r.MaxLevel, res.Final.Level)
	r.Synced += res.Synced
	r.Dropped += res.Dropped
	r.CommandTime.Samples = append(r.CommandTime.Samples, res.Commands...)

	if r.perCommand == nil {
		r.perCommand = make(map[loop.Command]*CommandRow)
	}
	for _, cs := range res.Stats.Commands {
		row, ok := r.perCommand[cs.Command]
		if !ok {
			row = &CommandRow{Command: cs.Command}
			r.perCommand[cs.Command] = row
		}
		row.Count += cs.Count
		row.Total += cs.TotalDuration
		row.Max = max(row.Max, cs.MaxDuration)
	}
}

// Finalize computes averages and orders the per-command rows.
func (r *Report) Finalize() {
	r.CommandTime.Finalize()
	r.PerCommand = r.PerCommand[:0]
	for _, cmd := range loop.Commands {
		row, ok := r.perCommand[cmd]
		if !ok {
			continue
		}
		if row.Count > 0 {
			row.Avg = row.Total / time.Duration(row.Count)
		}
		r.PerCommand = append(r.PerCommand, *row)
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# chaintris Stress Test Report

## Test Configuration
- **Sessions:** {{.Sessions}} ({{.Played}} played)
- **Command Budget:** {{.Budget}} per session
- **Board:** {{.Width}}x{{.Height}}, {{.Generator}} generator
- **Ledger:** {{.Ledger}}

## Gameplay Results
- **Game Overs:** {{.GameOvers}}
- **Locks:** {{.Locks}}
- **Lines Cleared:** {{.Lines}}
- **Tetrises:** {{.Tetrises}}
- **Best Score:** {{.BestScore}}
- **Max Level:** {{.MaxLevel}}
{{- if ne .Ledger "none"}}
- **Ledger Reports:** {{.Synced}} sent, {{.Dropped}} dropped
{{- end}}

## Performance Results
- **Total Commands:** {{.TotalCommands}}
- **Total Test Time:** {{.TotalTime}}
- **Command Latency:**
  - **Avg:** {{.CommandTime.Avg}}
  - **P99:** {{.CommandTime.P99}}
  - **Min:** {{.CommandTime.Min}}
  - **Max:** {{.CommandTime.Max}}

| Command | Count | Avg | Max |
|---|---|---|---|
{{- range .PerCommand}}
| {{.Command}} | {{.Count}} | {{.Avg}} | {{.Max}} |
{{- end}}

## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
