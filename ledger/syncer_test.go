package ledger_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/plus3/chaintris/ledger"
	"github.com/plus3/chaintris/progression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingService wraps a Service and holds every report until release is
// closed. Failing reports return an error instead.
type blockingService struct {
	ledger.Service
	release chan struct{}
	fail    bool
}

func (b *blockingService) ReportMissionProgress(ctx context.Context, playerID, missionID string, p progression.MissionProgress, stats progression.Event) error {
	select {
	case <-b.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	if b.fail {
		return errors.New("ledger unavailable")
	}
	return b.Service.ReportMissionProgress(ctx, playerID, missionID, p, stats)
}

// xpDownService rejects every standalone trait XP delta.
type xpDownService struct {
	ledger.Service
}

func (xpDownService) ReportTraitXP(context.Context, string, string, int) error {
	return errors.New("trait xp unavailable")
}

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func newAlice(t *testing.T) *ledger.Memory {
	t.Helper()
	mem := ledger.NewMemory(progression.DefaultCatalog())
	_, err := mem.GetOrCreateProfile(context.Background(), "alice")
	require.NoError(t, err)
	return mem
}

func TestSyncerSendsUpdates(t *testing.T) {
	mem := newAlice(t)
	s := ledger.NewSyncer(mem, "alice", 8, nil)

	assert.True(t, s.Enqueue(progression.Update{
		MissionID:       "tetris_master",
		MissionProgress: progression.MissionProgress{Progress: 1, Completed: true},
		TraitID:         "perfectionist",
		XP:              300,
	}, progression.Event{Lines: 4, Tetrises: 1}))
	assert.True(t, s.EnqueueGameResult(progression.GameResult{Score: 1200, Lines: 4}))
	s.Close()

	p, err := mem.GetOrCreateProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, p.Missions["tetris_master"].Completed)
	assert.Equal(t, 300, p.TraitXP["perfectionist"])
	assert.Equal(t, 1, p.Stats.GamesPlayed)
	assert.Equal(t, ledger.SyncStats{Sent: 2}, s.Stats())

	assert.False(t, s.EnqueueGameResult(progression.GameResult{}))
	s.Close()
}

func TestSyncerNeverBlocks(t *testing.T) {
	svc := &blockingService{Service: newAlice(t), release: make(chan struct{})}
	var logs syncBuffer
	s := ledger.NewSyncer(svc, "alice", 2, log.New(&logs, "", 0))

	update := progression.Update{MissionID: "high_score_5000", MissionProgress: progression.MissionProgress{Progress: 10}}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 10 {
			s.Enqueue(update, progression.Event{})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked")
	}

	// One job may be in flight, two queued; the rest were dropped.
	assert.GreaterOrEqual(t, s.Stats().Dropped, int64(7))
	assert.Contains(t, logs.String(), "queue full")

	close(svc.release)
	s.Close()
	assert.Equal(t, int64(10), s.Stats().Sent+s.Stats().Dropped)
}

func TestSyncerLogsFailures(t *testing.T) {
	release := make(chan struct{})
	close(release)
	svc := &blockingService{Service: newAlice(t), release: release, fail: true}
	var logs syncBuffer
	s := ledger.NewSyncer(svc, "alice", 4, log.New(&logs, "", 0))

	s.Enqueue(progression.Update{MissionID: "level_master_5", MissionProgress: progression.MissionProgress{Progress: 2}}, progression.Event{})
	s.Close()

	assert.Equal(t, ledger.SyncStats{Failed: 1}, s.Stats())
	assert.Contains(t, logs.String(), "mission level_master_5 failed: ledger unavailable")
}

func TestSyncerCompletionCarriesReward(t *testing.T) {
	ctx := context.Background()
	mem := newAlice(t)
	svc := xpDownService{Service: mem}

	tracker, _, err := ledger.Attach(ctx, svc, ledger.StaticIdentity("alice"))
	require.NoError(t, err)

	s := ledger.NewSyncer(svc, "alice", 8, nil)
	ev := progression.Event{Lines: 4, Score: 1200, Level: 1, Tetrises: 1}
	for _, u := range tracker.Apply(ev) {
		assert.True(t, s.Enqueue(u, ev))
	}
	s.Close()
	assert.Zero(t, s.Stats().Failed)

	restored, _, err := ledger.Attach(ctx, svc, ledger.StaticIdentity("alice"))
	require.NoError(t, err)
	for _, m := range restored.Missions() {
		if m.ID == "tetris_master" {
			assert.True(t, m.Completed)
		}
	}
	assert.Equal(t, 300, restored.Traits()[2].XP)

	// Replaying the same completion does not pay out twice.
	s = ledger.NewSyncer(svc, "alice", 8, nil)
	s.Enqueue(progression.Update{
		MissionID:       "tetris_master",
		MissionProgress: progression.MissionProgress{Progress: 1, Completed: true},
		TraitID:         "perfectionist",
		XP:              300,
	}, ev)
	s.Close()

	p, err := mem.GetOrCreateProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 300, p.TraitXP["perfectionist"])
	assert.Equal(t, 1, p.Stats.MissionsCompleted)
}

func TestSyncerTimeout(t *testing.T) {
	svc := &blockingService{Service: newAlice(t), release: make(chan struct{})}
	defer close(svc.release)
	var logs syncBuffer
	s := ledger.NewSyncer(svc, "alice", 4, log.New(&logs, "", 0), ledger.WithSyncTimeout(20*time.Millisecond))

	s.Enqueue(progression.Update{MissionID: "level_master_5", MissionProgress: progression.MissionProgress{Progress: 2}}, progression.Event{})

	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("report was not bounded by the sync timeout")
	}

	assert.Equal(t, ledger.SyncStats{Failed: 1}, s.Stats())
	assert.Contains(t, logs.String(), context.DeadlineExceeded.Error())
}
