package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/chaintris/loop"
	"github.com/plus3/chaintris/progression"
)

// ProgressionPanelComponent lists missions with progress bars and trait
// levels from the latest snapshot.
type ProgressionPanelComponent struct {
	showCompleted bool
}

func NewProgressionPanelComponent() ProgressionPanelComponent {
	return ProgressionPanelComponent{showCompleted: true}
}

// MissionLabel is the progress bar overlay for a mission.
func MissionLabel(m progression.MissionSnapshot) string {
	if m.Completed {
		return fmt.Sprintf("%d/%d done", m.Progress, m.Target)
	}
	return fmt.Sprintf("%d/%d", m.Progress, m.Target)
}

// TraitLabel summarises a trait's level and progress to the next one.
func TraitLabel(t progression.TraitSnapshot) string {
	return fmt.Sprintf("%s Lv %d (%d/%d)", t.Name, t.Level, t.Progress, progression.XPPerLevel)
}

// Render draws the panel. Snapshots without a tracker show a notice.
func (pp *ProgressionPanelComponent) Render(snap loop.Snapshot) {
	if !imgui.BeginV("Progression", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if len(snap.Missions) == 0 {
		imgui.Text("No tracker attached")
		imgui.End()
		return
	}

	imgui.Checkbox("Show completed", &pp.showCompleted)
	imgui.Separator()

	for _, m := range snap.Missions {
		if m.Completed && !pp.showCompleted {
			continue
		}
		imgui.Text(fmt.Sprintf("%s [%s]", m.Name, m.Kind))
		imgui.ProgressBarV(float32(m.Percent())/100, imgui.NewVec2(-1, 0), MissionLabel(m))
		if !m.WindowStart.IsZero() {
			imgui.BulletText(fmt.Sprintf("Window resets %s", m.WindowStart.Add(m.Window).Format("Jan 2 15:04")))
		}
	}

	if imgui.TreeNodeStr("Traits") {
		for _, t := range snap.Traits {
			imgui.Text(TraitLabel(t))
			imgui.ProgressBarV(float32(t.Progress)/progression.XPPerLevel, imgui.NewVec2(-1, 0), fmt.Sprintf("%d xp", t.XP))
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Profile") {
		imgui.BulletText(fmt.Sprintf("Games played: %d", snap.Profile.GamesPlayed))
		imgui.BulletText(fmt.Sprintf("Total lines: %d", snap.Profile.TotalLines))
		imgui.BulletText(fmt.Sprintf("High score: %d", snap.Profile.HighScore))
		imgui.BulletText(fmt.Sprintf("Missions completed: %d", snap.Profile.MissionsCompleted))
		imgui.TreePop()
	}

	imgui.End()
}
