package progression

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// XPPerLevel is the XP needed to advance one trait level.
const XPPerLevel = 100

// Level derives a trait level from its XP. Levels are never stored.
func Level(xp int) int {
	return xp/XPPerLevel + 1
}

// TraitDef declares a skill trait. An empty Name is derived from the ID.
type TraitDef struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

// TraitSnapshot is a read-only view of one trait.
type TraitSnapshot struct {
	ID    string
	Name  string
	XP    int
	Level int
	// Progress is the XP earned towards the next level, 0-99.
	Progress int
}

// DisplayName turns a trait identifier such as "speed_demon" into
// "Speed Demon".
func DisplayName(id string) string {
	words := strings.ReplaceAll(id, "_", " ")
	return cases.Title(language.English).String(words)
}

type traitState struct {
	def TraitDef
	xp  int
}

func (t *traitState) snapshot() TraitSnapshot {
	name := t.def.Name
	if name == "" {
		name = DisplayName(t.def.ID)
	}
	return TraitSnapshot{
		ID:       t.def.ID,
		Name:     name,
		XP:       t.xp,
		Level:    Level(t.xp),
		Progress: t.xp % XPPerLevel,
	}
}

// RewardTraits lists the traits rewarded by the missions, in the order they
// are first referenced.
func RewardTraits(missions []MissionDef) []TraitDef {
	seen := make(map[string]bool)
	var out []TraitDef
	for _, m := range missions {
		if m.Reward.Trait == "" || seen[m.Reward.Trait] {
			continue
		}
		seen[m.Reward.Trait] = true
		out = append(out, TraitDef{ID: m.Reward.Trait})
	}
	return out
}
