package loop

import (
	"time"

	"github.com/kamstrup/intmap"
)

// Stats describes what a driver has executed so far.
type Stats struct {
	TotalCommands int64
	Locks         int64
	LinesCleared  int64
	GameOvers     int64
	Commands      []CommandStats
}

// CommandStats provides execution statistics for one command.
type CommandStats struct {
	Command       Command
	Count         int64
	MinDuration   time.Duration
	MaxDuration   time.Duration
	AvgDuration   time.Duration
	LastDuration  time.Duration
	TotalDuration time.Duration
}

type commandStatsInternal struct {
	count         int64
	minDuration   time.Duration
	maxDuration   time.Duration
	totalDuration time.Duration
	lastDuration  time.Duration
}

type statsRecorder struct {
	commands  *intmap.Map[Command, *commandStatsInternal]
	total     int64
	locks     int64
	lines     int64
	gameOvers int64
}

func newStatsRecorder() *statsRecorder {
	return &statsRecorder{
		commands: intmap.New[Command, *commandStatsInternal](len(Commands)),
	}
}

func (r *statsRecorder) observe(cmd Command, d time.Duration) {
	stats, ok := r.commands.Get(cmd)
	if !ok {
		stats = &commandStatsInternal{minDuration: time.Duration(1<<63 - 1)}
		r.commands.Put(cmd, stats)
	}

	r.total++
	stats.count++
	stats.lastDuration = d
	stats.totalDuration += d
	if d < stats.minDuration {
		stats.minDuration = d
	}
	if d > stats.maxDuration {
		stats.maxDuration = d
	}
}

// snapshot lists the commands that ran at least once, in declaration order.
func (r *statsRecorder) snapshot() Stats {
	out := Stats{
		TotalCommands: r.total,
		Locks:         r.locks,
		LinesCleared:  r.lines,
		GameOvers:     r.gameOvers,
	}
	for _, cmd := range Commands {
		internal, ok := r.commands.Get(cmd)
		if !ok {
			continue
		}
		out.Commands = append(out.Commands, CommandStats{
			Command:       cmd,
			Count:         internal.count,
			MinDuration:   internal.minDuration,
			MaxDuration:   internal.maxDuration,
			AvgDuration:   internal.totalDuration / time.Duration(internal.count),
			LastDuration:  internal.lastDuration,
			TotalDuration: internal.totalDuration,
		})
	}
	return out
}
