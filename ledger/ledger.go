// Package ledger persists player progression outside the game: profiles,
// mission progress and trait XP. Implementations are chosen at
// construction and all satisfy Service.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/plus3/chaintris/progression"
)

var (
	ErrNoIdentity = errors.New("ledger: no player identity")
	ErrNotFound   = errors.New("ledger: not found")
	ErrClosed     = errors.New("ledger: closed")
)

// Service is the progression ledger as seen by the game.
type Service interface {
	// GetOrCreateProfile returns the player's profile, creating an empty
	// one on first use.
	GetOrCreateProfile(ctx context.Context, playerID string) (progression.Profile, error)
	ListMissions(ctx context.Context) ([]progression.MissionDef, error)
	// ReportMissionProgress records progress for one mission. Reports for
	// an older window than the stored one are ignored, and progress within
	// a window never decreases. The report that completes a mission also
	// grants its reward XP, in the same update.
	ReportMissionProgress(ctx context.Context, playerID, missionID string, progress progression.MissionProgress, stats progression.Event) error
	ReportTraitXP(ctx context.Context, playerID, traitID string, delta int) error
	ReportGameResult(ctx context.Context, playerID string, result progression.GameResult) error
}

// Identity resolves the current player.
type Identity interface {
	PlayerID(ctx context.Context) (string, error)
}

// StaticIdentity is a fixed player id. The empty id has no identity.
type StaticIdentity string

func (s StaticIdentity) PlayerID(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoIdentity
	}
	return string(s), nil
}

func emptyProfile(playerID string) progression.Profile {
	return progression.Profile{
		PlayerID: playerID,
		Missions: make(map[string]progression.MissionProgress),
		TraitXP:  make(map[string]int),
	}
}

// mergeProgress folds a report into the stored state. It also reports
// whether the merge completed the mission.
func mergeProgress(stored, reported progression.MissionProgress, target int) (progression.MissionProgress, bool) {
	switch {
	case reported.WindowStart.After(stored.WindowStart):
		stored = progression.MissionProgress{WindowStart: reported.WindowStart}
	case reported.WindowStart.Before(stored.WindowStart):
		return stored, false
	}

	wasCompleted := stored.Completed
	stored.Progress = min(target, max(stored.Progress, reported.Progress))
	stored.Completed = stored.Completed || reported.Completed || stored.Progress >= target
	return stored, stored.Completed && !wasCompleted
}

func applyResult(stats progression.ProfileStats, result progression.GameResult, now time.Time) progression.ProfileStats {
	stats.GamesPlayed++
	stats.TotalLines += result.Lines
	stats.HighScore = max(stats.HighScore, result.Score)
	stats.LastPlayed = now
	return stats
}

func checkDelta(traitID string, delta int) error {
	if delta < 0 {
		return fmt.Errorf("ledger: trait %q: negative xp delta %d", traitID, delta)
	}
	return nil
}
