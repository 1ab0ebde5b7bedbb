package ledger

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/plus3/chaintris/progression"
)

const (
	DefaultQueueSize   = 64
	DefaultSyncTimeout = 5 * time.Second
)

// SyncStats counts what the syncer did with the jobs it was given.
type SyncStats struct {
	Sent    int64
	Failed  int64
	Dropped int64
}

type syncJob struct {
	update *progression.Update
	stats  progression.Event
	result *progression.GameResult
}

// Syncer reports progression changes to a Service from a background
// goroutine. Trait XP is never sent on its own: the ledger grants mission
// rewards when it records the completion. It is best effort: a full queue drops the job and a failed
// report is logged, never retried, and never affects local state.
type Syncer struct {
	svc      Service
	playerID string
	log      *log.Logger
	timeout  time.Duration

	mu     sync.RWMutex
	closed bool
	jobs   chan syncJob
	wg     sync.WaitGroup

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithSyncTimeout bounds each report. Non-positive values keep
// DefaultSyncTimeout.
func WithSyncTimeout(d time.Duration) SyncerOption {
	return func(s *Syncer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSyncer starts the sync goroutine. A non-positive queue size uses
// DefaultQueueSize; a nil logger discards log output.
func NewSyncer(svc Service, playerID string, queue int, logger *log.Logger, opts ...SyncerOption) *Syncer {
	if queue <= 0 {
		queue = DefaultQueueSize
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Syncer{
		svc:      svc,
		playerID: playerID,
		log:      logger,
		timeout:  DefaultSyncTimeout,
		jobs:     make(chan syncJob, queue),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s
}

// Enqueue schedules a mission update. It never blocks and reports whether
// the job was queued.
func (s *Syncer) Enqueue(u progression.Update, stats progression.Event) bool {
	return s.push(syncJob{update: &u, stats: stats})
}

// EnqueueGameResult schedules a finished game. It never blocks.
func (s *Syncer) EnqueueGameResult(r progression.GameResult) bool {
	return s.push(syncJob{result: &r})
}

func (s *Syncer) push(job syncJob) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		return false
	}
	select {
	case s.jobs <- job:
		return true
	default:
		s.dropped.Add(1)
		s.log.Printf("ledger sync queue full, dropping %s", job)
		return false
	}
}

// Close stops accepting jobs and waits for the queued ones to be sent.
func (s *Syncer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.jobs)
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Syncer) Stats() SyncStats {
	return SyncStats{
		Sent:    s.sent.Load(),
		Failed:  s.failed.Load(),
		Dropped: s.dropped.Load(),
	}
}

func (s *Syncer) loop() {
	for job := range s.jobs {
		if err := s.send(job); err != nil {
			s.failed.Add(1)
			s.log.Printf("ledger sync %s failed: %v", job, err)
			continue
		}
		s.sent.Add(1)
	}
}

func (s *Syncer) send(job syncJob) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if job.result != nil {
		return s.svc.ReportGameResult(ctx, s.playerID, *job.result)
	}

	// The ledger grants the reward XP itself when the report completes the
	// mission, so a lost job can be resent without losing or doubling it.
	u := job.update
	return s.svc.ReportMissionProgress(ctx, s.playerID, u.MissionID, u.MissionProgress, job.stats)
}

func (j syncJob) String() string {
	if j.result != nil {
		return "game result"
	}
	return "mission " + j.update.MissionID
}
