package ledger

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/plus3/chaintris/progression"
)

// Memory is an in-process ledger. It is the stand-in used when no durable
// or remote ledger is configured, and in tests.
type Memory struct {
	mu       sync.Mutex
	catalog  progression.Catalog
	profiles map[string]*progression.Profile
	now      func() time.Time
}

// NewMemory returns an empty in-memory ledger serving catalog.
func NewMemory(catalog progression.Catalog) *Memory {
	return &Memory{
		catalog:  catalog,
		profiles: make(map[string]*progression.Profile),
		now:      time.Now,
	}
}

func (m *Memory) GetOrCreateProfile(_ context.Context, playerID string) (progression.Profile, error) {
	if playerID == "" {
		return progression.Profile{}, ErrNoIdentity
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[playerID]
	if !ok {
		fresh := emptyProfile(playerID)
		p = &fresh
		m.profiles[playerID] = p
	}
	return copyProfile(*p), nil
}

func (m *Memory) ListMissions(context.Context) ([]progression.MissionDef, error) {
	return append([]progression.MissionDef(nil), m.catalog.Missions...), nil
}

func (m *Memory) ReportMissionProgress(_ context.Context, playerID, missionID string, progress progression.MissionProgress, _ progression.Event) error {
	def, ok := m.catalog.Mission(missionID)
	if !ok {
		return fmt.Errorf("mission %q: %w", missionID, ErrNotFound)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.profile(playerID)
	if err != nil {
		return err
	}

	merged, completed := mergeProgress(p.Missions[missionID], progress, def.Target)
	p.Missions[missionID] = merged
	if completed {
		p.Stats.MissionsCompleted++
		p.TraitXP[def.Reward.Trait] += def.Reward.XP
	}
	return nil
}

func (m *Memory) ReportTraitXP(_ context.Context, playerID, traitID string, delta int) error {
	if err := checkDelta(traitID, delta); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.profile(playerID)
	if err != nil {
		return err
	}
	p.TraitXP[traitID] += delta
	return nil
}

func (m *Memory) ReportGameResult(_ context.Context, playerID string, result progression.GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.profile(playerID)
	if err != nil {
		return err
	}
	p.Stats = applyResult(p.Stats, result, m.now())
	return nil
}

func (m *Memory) profile(playerID string) (*progression.Profile, error) {
	p, ok := m.profiles[playerID]
	if !ok {
		return nil, fmt.Errorf("player %q: %w", playerID, ErrNotFound)
	}
	return p, nil
}

func copyProfile(p progression.Profile) progression.Profile {
	p.Missions = maps.Clone(p.Missions)
	p.TraitXP = maps.Clone(p.TraitXP)
	return p
}
