package progression

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCatalog is returned when mission or trait definitions are
// inconsistent.
var ErrInvalidCatalog = errors.New("progression: invalid catalog")

// Event carries the session totals after a lock. Lines is the number of
// rows cleared by that lock alone; the other fields are running totals.
type Event struct {
	Lines    int `json:"lines"`
	Score    int `json:"score"`
	Level    int `json:"level"`
	Tetrises int `json:"tetrises"`
}

// GameResult summarizes a finished session.
type GameResult struct {
	Score    int `json:"score"`
	Lines    int `json:"lines"`
	Level    int `json:"level"`
	Tetrises int `json:"tetrises"`
}

// ProfileStats are the player's lifetime statistics.
type ProfileStats struct {
	GamesPlayed       int       `json:"games_played"`
	TotalLines        int       `json:"total_lines"`
	HighScore         int       `json:"high_score"`
	MissionsCompleted int       `json:"missions_completed"`
	LastPlayed        time.Time `json:"last_played,omitzero"`
}

// Profile is the progression state a ledger holds for one player.
type Profile struct {
	PlayerID string                     `json:"player_id"`
	Missions map[string]MissionProgress `json:"missions"`
	TraitXP  map[string]int             `json:"trait_xp"`
	Stats    ProfileStats               `json:"stats"`
}

// Update describes a change produced by Tracker.Apply. XP is non-zero only
// on the update that completed the mission.
type Update struct {
	MissionID string
	MissionProgress
	TraitID string
	XP      int
}

// Tracker owns mission progress, trait XP and profile statistics. It is
// not safe for concurrent use; the game loop serializes calls.
type Tracker struct {
	missions []*missionState
	traits   []*traitState
	traitIdx map[string]*traitState
	profile  ProfileStats
	now      func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, which drives mission windows.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker validates the definitions and returns a tracker with zero
// progress and XP.
func NewTracker(missions []MissionDef, traits []TraitDef, opts ...Option) (*Tracker, error) {
	if err := validate(missions, traits); err != nil {
		return nil, err
	}

	t := &Tracker{
		traitIdx: make(map[string]*traitState, len(traits)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	for _, def := range traits {
		ts := &traitState{def: def}
		t.traits = append(t.traits, ts)
		t.traitIdx[def.ID] = ts
	}

	start := t.now()
	for _, def := range missions {
		ms := &missionState{def: def}
		if def.Window > 0 {
			ms.WindowStart = start
		}
		t.missions = append(t.missions, ms)
	}
	return t, nil
}

func validate(missions []MissionDef, traits []TraitDef) error {
	traitIDs := make(map[string]bool, len(traits))
	for _, tr := range traits {
		if tr.ID == "" {
			return fmt.Errorf("%w: trait without id", ErrInvalidCatalog)
		}
		if traitIDs[tr.ID] {
			return fmt.Errorf("%w: duplicate trait %q", ErrInvalidCatalog, tr.ID)
		}
		traitIDs[tr.ID] = true
	}

	missionIDs := make(map[string]bool, len(missions))
	for _, m := range missions {
		switch {
		case m.ID == "":
			return fmt.Errorf("%w: mission without id", ErrInvalidCatalog)
		case missionIDs[m.ID]:
			return fmt.Errorf("%w: duplicate mission %q", ErrInvalidCatalog, m.ID)
		case m.Target <= 0:
			return fmt.Errorf("%w: mission %q: target must be positive", ErrInvalidCatalog, m.ID)
		case m.Window < 0:
			return fmt.Errorf("%w: mission %q: negative window", ErrInvalidCatalog, m.ID)
		case m.Reward.XP < 0:
			return fmt.Errorf("%w: mission %q: negative reward", ErrInvalidCatalog, m.ID)
		case !traitIDs[m.Reward.Trait]:
			return fmt.Errorf("%w: mission %q: unknown trait %q", ErrInvalidCatalog, m.ID, m.Reward.Trait)
		}
		if _, ok := lookupRule(m.Rule); !ok {
			return fmt.Errorf("%w: mission %q: unknown rule %q", ErrInvalidCatalog, m.ID, m.Rule)
		}
		missionIDs[m.ID] = true
	}
	return nil
}

// Apply folds a game event into every mission. Progress only rises within
// a window and is capped at the target; the first time a mission reaches
// its target it completes and its reward XP is granted. The returned
// updates list the missions whose state changed, in catalog order; a
// mission whose window rolled over is always listed.
func (t *Tracker) Apply(ev Event) []Update {
	now := t.now()

	var updates []Update
	for _, m := range t.missions {
		rolled := m.expired(now)
		if rolled {
			m.MissionProgress = MissionProgress{WindowStart: now}
		}

		rule, _ := lookupRule(m.def.Rule)
		next := min(m.def.Target, max(m.Progress, rule(m.Progress, ev)))
		if next == m.Progress && !rolled {
			continue
		}
		m.Progress = next

		u := Update{MissionID: m.def.ID, TraitID: m.def.Reward.Trait}
		if !m.Completed && m.Progress >= m.def.Target {
			m.Completed = true
			t.traitIdx[m.def.Reward.Trait].xp += m.def.Reward.XP
			t.profile.MissionsCompleted++
			u.XP = m.def.Reward.XP
		}
		u.MissionProgress = m.MissionProgress
		updates = append(updates, u)
	}
	return updates
}

// GameOver records a finished session in the profile statistics and
// returns the new totals.
func (t *Tracker) GameOver(res GameResult) ProfileStats {
	t.profile.GamesPlayed++
	t.profile.TotalLines += res.Lines
	t.profile.HighScore = max(t.profile.HighScore, res.Score)
	t.profile.LastPlayed = t.now()
	return t.profile
}

// Restore merges a profile loaded from a ledger into the tracker. Every
// value is merged by taking the larger of the local and remote one, so a
// restore never undoes local progress. A remote window that has already
// elapsed is ignored. Restore never grants XP.
func (t *Tracker) Restore(p Profile) {
	now := t.now()

	for _, m := range t.missions {
		remote, ok := p.Missions[m.def.ID]
		if !ok {
			continue
		}
		if m.def.Window > 0 {
			if now.Sub(remote.WindowStart) >= m.def.Window || remote.WindowStart.After(now) {
				continue
			}
			if remote.WindowStart.Before(m.WindowStart) {
				m.WindowStart = remote.WindowStart
			}
		}
		m.Progress = min(m.def.Target, max(m.Progress, remote.Progress))
		m.Completed = m.Completed || remote.Completed || m.Progress >= m.def.Target
	}

	for id, xp := range p.TraitXP {
		if ts, ok := t.traitIdx[id]; ok {
			ts.xp = max(ts.xp, xp)
		}
	}

	t.profile.GamesPlayed = max(t.profile.GamesPlayed, p.Stats.GamesPlayed)
	t.profile.TotalLines = max(t.profile.TotalLines, p.Stats.TotalLines)
	t.profile.HighScore = max(t.profile.HighScore, p.Stats.HighScore)
	t.profile.MissionsCompleted = max(t.profile.MissionsCompleted, p.Stats.MissionsCompleted)
	if p.Stats.LastPlayed.After(t.profile.LastPlayed) {
		t.profile.LastPlayed = p.Stats.LastPlayed
	}
}

// Missions returns a copy of every mission in catalog order.
func (t *Tracker) Missions() []MissionSnapshot {
	out := make([]MissionSnapshot, len(t.missions))
	for i, m := range t.missions {
		out[i] = m.snapshot()
	}
	return out
}

// Traits returns a copy of every trait in catalog order.
func (t *Tracker) Traits() []TraitSnapshot {
	out := make([]TraitSnapshot, len(t.traits))
	for i, tr := range t.traits {
		out[i] = tr.snapshot()
	}
	return out
}

// Profile returns the lifetime statistics.
func (t *Tracker) Profile() ProfileStats {
	return t.profile
}
