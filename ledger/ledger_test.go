package ledger_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/plus3/chaintris/ledger"
	"github.com/plus3/chaintris/progression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backends = map[string]func(t *testing.T) ledger.Service{
	"memory": func(t *testing.T) ledger.Service {
		return ledger.NewMemory(progression.DefaultCatalog())
	},
	"sqlite": func(t *testing.T) ledger.Service {
		db, err := ledger.OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"), progression.DefaultCatalog())
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return db
	},
	"remote": func(t *testing.T) ledger.Service {
		return dialTestServer(t, ledger.NewMemory(progression.DefaultCatalog()))
	},
}

func dialTestServer(t *testing.T, svc ledger.Service) *ledger.Client {
	t.Helper()
	srv := httptest.NewServer(ledger.NewServer(svc, nil).Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, err := ledger.Dial(context.Background(), url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestServiceProfiles(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := open(t)

			p, err := svc.GetOrCreateProfile(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, "alice", p.PlayerID)
			assert.Empty(t, p.Missions)
			assert.Empty(t, p.TraitXP)
			assert.Zero(t, p.Stats.GamesPlayed)

			_, err = svc.GetOrCreateProfile(ctx, "")
			assert.ErrorIs(t, err, ledger.ErrNoIdentity)

			err = svc.ReportTraitXP(ctx, "bob", "speed_demon", 10)
			assert.ErrorIs(t, err, ledger.ErrNotFound)
		})
	}
}

func TestServiceListMissions(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			missions, err := open(t).ListMissions(context.Background())
			require.NoError(t, err)
			require.Len(t, missions, 4)
			assert.Equal(t, "daily_lines_10", missions[0].ID)
			assert.Equal(t, 24*time.Hour, missions[0].Window)
		})
	}
}

func TestServiceMissionProgress(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := open(t)
			_, err := svc.GetOrCreateProfile(ctx, "alice")
			require.NoError(t, err)

			report := func(mission string, mp progression.MissionProgress) {
				t.Helper()
				require.NoError(t, svc.ReportMissionProgress(ctx, "alice", mission, mp, progression.Event{}))
			}

			report("high_score_5000", progression.MissionProgress{Progress: 3000})
			report("high_score_5000", progression.MissionProgress{Progress: 1200})
			report("level_master_5", progression.MissionProgress{Progress: 9, Completed: true})

			window := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
			report("daily_lines_10", progression.MissionProgress{Progress: 10, Completed: true, WindowStart: window})
			report("daily_lines_10", progression.MissionProgress{Progress: 2, WindowStart: window.Add(-24 * time.Hour)})

			p, err := svc.GetOrCreateProfile(ctx, "alice")
			require.NoError(t, err)

			assert.Equal(t, 3000, p.Missions["high_score_5000"].Progress)
			assert.False(t, p.Missions["high_score_5000"].Completed)
			assert.Equal(t, 5, p.Missions["level_master_5"].Progress)
			assert.True(t, p.Missions["level_master_5"].Completed)

			daily := p.Missions["daily_lines_10"]
			assert.Equal(t, 10, daily.Progress)
			assert.True(t, daily.Completed)
			assert.True(t, window.Equal(daily.WindowStart))
			assert.Equal(t, 2, p.Stats.MissionsCompleted)
			assert.Equal(t, 150, p.TraitXP["perfectionist"])
			assert.Equal(t, 100, p.TraitXP["speed_demon"])

			// Resending a completion grants nothing more.
			report("level_master_5", progression.MissionProgress{Progress: 5, Completed: true})
			p, err = svc.GetOrCreateProfile(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, 150, p.TraitXP["perfectionist"])
			assert.Equal(t, 2, p.Stats.MissionsCompleted)

			// A newer window replaces the old one.
			report("daily_lines_10", progression.MissionProgress{Progress: 4, WindowStart: window.Add(24 * time.Hour)})
			p, err = svc.GetOrCreateProfile(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, 4, p.Missions["daily_lines_10"].Progress)
			assert.False(t, p.Missions["daily_lines_10"].Completed)

			err = svc.ReportMissionProgress(ctx, "alice", "no_such_mission", progression.MissionProgress{Progress: 1}, progression.Event{})
			assert.ErrorIs(t, err, ledger.ErrNotFound)
		})
	}
}

func TestServiceTraitXPAndGameResults(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := open(t)
			_, err := svc.GetOrCreateProfile(ctx, "alice")
			require.NoError(t, err)

			require.NoError(t, svc.ReportTraitXP(ctx, "alice", "perfectionist", 300))
			require.NoError(t, svc.ReportTraitXP(ctx, "alice", "perfectionist", 150))
			assert.Error(t, svc.ReportTraitXP(ctx, "alice", "perfectionist", -5))

			require.NoError(t, svc.ReportGameResult(ctx, "alice", progression.GameResult{Score: 900, Lines: 7}))
			require.NoError(t, svc.ReportGameResult(ctx, "alice", progression.GameResult{Score: 300, Lines: 2}))
			assert.ErrorIs(t, svc.ReportGameResult(ctx, "bob", progression.GameResult{}), ledger.ErrNotFound)

			p, err := svc.GetOrCreateProfile(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, 450, p.TraitXP["perfectionist"])
			assert.Equal(t, 2, p.Stats.GamesPlayed)
			assert.Equal(t, 9, p.Stats.TotalLines)
			assert.Equal(t, 900, p.Stats.HighScore)
			assert.False(t, p.Stats.LastPlayed.IsZero())
		})
	}
}

func TestSQLitePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	db, err := ledger.OpenSQLite(path, progression.DefaultCatalog())
	require.NoError(t, err)
	_, err = db.GetOrCreateProfile(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, db.ReportTraitXP(ctx, "alice", "speed_demon", 100))
	require.NoError(t, db.Close())

	db, err = ledger.OpenSQLite(path, progression.DefaultCatalog())
	require.NoError(t, err)
	defer db.Close()

	p, err := db.GetOrCreateProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 100, p.TraitXP["speed_demon"])

	_, err = ledger.OpenSQLite("", progression.DefaultCatalog())
	assert.Error(t, err)
}

func TestClientClosed(t *testing.T) {
	c := dialTestServer(t, ledger.NewMemory(progression.DefaultCatalog()))
	require.NoError(t, c.Close())

	_, err := c.ListMissions(context.Background())
	assert.ErrorIs(t, err, ledger.ErrClosed)
}

func TestStaticIdentity(t *testing.T) {
	id, err := ledger.StaticIdentity("alice").PlayerID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", id)

	_, err = ledger.StaticIdentity("").PlayerID(context.Background())
	assert.ErrorIs(t, err, ledger.ErrNoIdentity)
}

func TestAttach(t *testing.T) {
	ctx := context.Background()
	svc := ledger.NewMemory(progression.DefaultCatalog())

	_, err := svc.GetOrCreateProfile(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, svc.ReportMissionProgress(ctx, "alice", "high_score_5000",
		progression.MissionProgress{Progress: 4200}, progression.Event{}))
	require.NoError(t, svc.ReportTraitXP(ctx, "alice", "line_clearer", 120))

	tracker, playerID, err := ledger.Attach(ctx, svc, ledger.StaticIdentity("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", playerID)

	var progress int
	for _, m := range tracker.Missions() {
		if m.ID == "high_score_5000" {
			progress = m.Progress
		}
	}
	assert.Equal(t, 4200, progress)

	traits := tracker.Traits()
	require.Len(t, traits, 3)
	assert.Equal(t, "line_clearer", traits[1].ID)
	assert.Equal(t, 120, traits[1].XP)
	assert.Equal(t, 2, traits[1].Level)

	_, _, err = ledger.Attach(ctx, svc, ledger.StaticIdentity(""))
	assert.ErrorIs(t, err, ledger.ErrNoIdentity)
	_, _, err = ledger.Attach(ctx, svc, nil)
	assert.ErrorIs(t, err, ledger.ErrNoIdentity)
}
