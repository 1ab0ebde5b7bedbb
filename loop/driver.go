// Package loop drives a tetris session in real time: it serializes player
// commands and drop-timer ticks, feeds lock outcomes to the progression
// tracker and the ledger syncer, and publishes snapshots to observers.
package loop

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/plus3/chaintris/progression"
	"github.com/plus3/chaintris/tetris"
)

// Syncer receives progression changes for asynchronous delivery to a
// ledger. Both methods must not block.
type Syncer interface {
	Enqueue(u progression.Update, stats progression.Event) bool
	EnqueueGameResult(r progression.GameResult) bool
}

// Recorder receives every executed command with the events it raised.
type Recorder interface {
	Record(cmd Command, events []tetris.Event) error
}

// Option configures a Driver.
type Option func(*Driver)

// WithTracker attaches a progression tracker. Without one the driver runs
// gameplay only.
func WithTracker(t *progression.Tracker) Option {
	return func(d *Driver) { d.tracker = t }
}

// WithSyncer forwards tracker updates and game results to s. It is only
// used together with WithTracker.
func WithSyncer(s Syncer) Option {
	return func(d *Driver) { d.syncer = s }
}

// WithRecorder records every command. The first Record error is logged
// and stops recording.
func WithRecorder(r Recorder) Option {
	return func(d *Driver) { d.recorder = r }
}

// WithLogger sets the logger for game events and recording errors. The
// default discards output.
func WithLogger(l *log.Logger) Option {
	return func(d *Driver) { d.log = l }
}

// WithInterval replaces tetris.DropInterval as the level to drop-interval
// mapping.
func WithInterval(fn func(level int) time.Duration) Option {
	return func(d *Driver) { d.interval = fn }
}

// Driver owns a session and is the only thing that mutates it. All
// methods are safe for concurrent use.
type Driver struct {
	mu       sync.Mutex
	session  *tetris.Session
	tracker  *progression.Tracker
	syncer   Syncer
	recorder Recorder
	log      *log.Logger
	interval func(level int) time.Duration
	stats    *statsRecorder
	closed   bool

	// Drop timer. A callback only acts when its generation is current.
	timer      *time.Timer
	generation uint64
	armedLevel int

	// Snapshots are numbered under mu and delivered in that order under
	// notifyMu. mu is never held while waiting for notifyMu.
	published uint64
	notifyMu  sync.Mutex
	notified  *sync.Cond
	delivered uint64
	observers []func(Snapshot)
}

// New wraps a session. The session must not be used directly afterwards.
func New(session *tetris.Session, opts ...Option) *Driver {
	if session == nil {
		panic("loop: nil session")
	}
	d := &Driver{
		session:  session,
		log:      log.New(io.Discard, "", 0),
		interval: tetris.DropInterval,
		stats:    newStatsRecorder(),
	}
	d.notified = sync.NewCond(&d.notifyMu)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Subscribe registers fn to receive a snapshot after every transition.
// Observers run one at a time, in transition order, on the goroutine that
// caused the transition. They may call Snapshot and Stats but must not
// call Do.
func (d *Driver) Subscribe(fn func(Snapshot)) {
	d.notifyMu.Lock()
	defer d.notifyMu.Unlock()
	d.observers = append(d.observers, fn)
}

// Do executes one command and reports what the session transition
// reported (see Apply). Commands after Close are ignored.
func (d *Driver) Do(cmd Command) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	ok := d.transition(cmd)
	d.rearm(cmd == CommandStart)
	d.publish()
	return ok
}

// tick is the drop timer callback for the given generation.
func (d *Driver) tick(generation uint64) {
	d.mu.Lock()
	if d.closed || generation != d.generation {
		d.mu.Unlock()
		return
	}
	d.transition(CommandTick)
	d.rearm(true)
	d.publish()
}

// transition runs cmd and fans its events out. Called with mu held.
func (d *Driver) transition(cmd Command) bool {
	start := time.Now()
	ok := Apply(d.session, cmd)
	events := d.session.Flush()
	d.stats.observe(cmd, time.Since(start))

	for _, ev := range events {
		d.handle(ev)
	}

	if d.recorder != nil {
		if err := d.recorder.Record(cmd, events); err != nil {
			d.log.Printf("replay recording stopped: %v", err)
			d.recorder = nil
		}
	}
	return ok
}

func (d *Driver) handle(ev tetris.Event) {
	switch ev.Kind {
	case tetris.EventLocked:
		d.stats.locks++
		d.stats.lines += int64(ev.Lines)
		if d.tracker == nil {
			return
		}
		pe := progression.Event{Lines: ev.Lines, Score: ev.Score, Level: ev.Level, Tetrises: ev.Tetrises}
		for _, u := range d.tracker.Apply(pe) {
			if u.XP > 0 {
				d.log.Printf("mission %s completed: +%d %s xp", u.MissionID, u.XP, u.TraitID)
			}
			if d.syncer != nil {
				d.syncer.Enqueue(u, pe)
			}
		}

	case tetris.EventLevelUp:
		d.log.Printf("level %d, drop interval %s", ev.Level, d.interval(ev.Level))

	case tetris.EventGameOver:
		d.stats.gameOvers++
		d.log.Printf("game over: score=%d lines=%d level=%d tetrises=%d", ev.Score, ev.TotalLines, ev.Level, ev.Tetrises)
		if d.tracker == nil {
			return
		}
		res := progression.GameResult{Score: ev.Score, Lines: ev.TotalLines, Level: ev.Level, Tetrises: ev.Tetrises}
		d.tracker.GameOver(res)
		if d.syncer != nil {
			d.syncer.EnqueueGameResult(res)
		}
	}
}

// rearm keeps the drop timer consistent with the session: running at the
// current level's interval while playing, stopped otherwise. A running
// timer is only replaced when force is set or the level changed. Called
// with mu held.
func (d *Driver) rearm(force bool) {
	if d.session.Phase() != tetris.PhasePlaying {
		d.stopTimer()
		return
	}
	level := d.session.Level()
	if d.timer != nil && !force && level == d.armedLevel {
		return
	}

	d.stopTimer()
	generation := d.generation
	d.armedLevel = level
	d.timer = time.AfterFunc(d.interval(level), func() { d.tick(generation) })
}

func (d *Driver) stopTimer() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
	d.armedLevel = 0
}

// publish numbers the current snapshot, releases mu and delivers the
// snapshot once every earlier one has been delivered.
func (d *Driver) publish() {
	d.published++
	seq := d.published
	snap := d.snapshot()
	d.mu.Unlock()

	d.notifyMu.Lock()
	defer d.notifyMu.Unlock()
	for d.delivered+1 != seq {
		d.notified.Wait()
	}
	for _, fn := range d.observers {
		fn(snap)
	}
	d.delivered = seq
	d.notified.Broadcast()
}

// Snapshot returns the current state.
func (d *Driver) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

func (d *Driver) snapshot() Snapshot {
	snap := Snapshot{
		Snapshot: d.session.Snapshot(),
		Interval: d.interval(d.session.Level()),
	}
	if d.tracker != nil {
		snap.Missions = d.tracker.Missions()
		snap.Traits = d.tracker.Traits()
		snap.Profile = d.tracker.Profile()
	}
	return snap
}

// Stats returns per-command execution statistics.
func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats.snapshot()
}

// Run blocks until ctx is cancelled and then closes the driver.
func (d *Driver) Run(ctx context.Context) {
	<-ctx.Done()
	d.Close()
}

// Close stops the drop timer. Later commands are ignored. Close does not
// close the syncer or recorder; their owner does.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.stopTimer()
}
