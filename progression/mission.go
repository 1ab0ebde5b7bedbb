package progression

import "time"

// MissionKind groups missions for display. It has no effect on scoring.
type MissionKind string

const (
	MissionDaily       MissionKind = "daily"
	MissionAchievement MissionKind = "achievement"
	MissionSkill       MissionKind = "skill"
)

// Reward is the trait XP granted once when a mission completes.
type Reward struct {
	Trait string `yaml:"trait" json:"trait"`
	XP    int    `yaml:"xp" json:"xp"`
}

// MissionDef is the static definition of a mission. Rule names an entry of
// the rule table that derives progress from game events. A non-zero Window
// makes the mission repeatable: progress and completion reset once the
// window has elapsed.
type MissionDef struct {
	ID          string        `yaml:"id" json:"id"`
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Kind        MissionKind   `yaml:"kind" json:"kind"`
	Rule        string        `yaml:"rule" json:"rule"`
	Target      int           `yaml:"target" json:"target"`
	Window      time.Duration `yaml:"window" json:"window"`
	Reward      Reward        `yaml:"reward" json:"reward"`
}

// MissionProgress is the mutable part of a mission as exchanged with the
// ledger.
type MissionProgress struct {
	Progress    int       `json:"progress"`
	Completed   bool      `json:"completed"`
	WindowStart time.Time `json:"window_start,omitzero"`
}

// MissionSnapshot is a read-only view of one mission.
type MissionSnapshot struct {
	MissionDef
	MissionProgress
}

// Percent is the progress towards the target in the range [0, 100].
func (m MissionSnapshot) Percent() int {
	if m.Target <= 0 {
		return 0
	}
	return m.Progress * 100 / m.Target
}

type missionState struct {
	def MissionDef
	MissionProgress
}

// expired reports whether a windowed mission's window has elapsed at now.
func (m *missionState) expired(now time.Time) bool {
	return m.def.Window > 0 && !now.Before(m.WindowStart.Add(m.def.Window))
}

func (m *missionState) snapshot() MissionSnapshot {
	return MissionSnapshot{MissionDef: m.def, MissionProgress: m.MissionProgress}
}
