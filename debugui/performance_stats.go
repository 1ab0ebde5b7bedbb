package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/chaintris/loop"
)

// PerformanceStatsComponent keeps a ring of frame times and shows them
// next to the driver's command statistics.
type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	frames        int
}

func NewPerformanceStatsComponent(historyFrames int) PerformanceStatsComponent {
	if historyFrames <= 0 {
		historyFrames = 120
	}
	return PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

// Record adds a frame time in seconds to the ring buffer.
func (ps *PerformanceStatsComponent) Record(dt float32) {
	ps.frameHistory[ps.frameIndex] = dt * 1000
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
	if ps.frames < ps.historyFrames {
		ps.frames++
	}
}

// History returns the recorded frame times in milliseconds, oldest first.
func (ps *PerformanceStatsComponent) History() []float32 {
	out := make([]float32, 0, ps.frames)
	start := ps.frameIndex - ps.frames
	if start < 0 {
		start += ps.historyFrames
	}
	for i := range ps.frames {
		out = append(out, ps.frameHistory[(start+i)%ps.historyFrames])
	}
	return out
}

// AvgFrameTime is the mean of the recorded frame times in milliseconds.
func (ps *PerformanceStatsComponent) AvgFrameTime() float32 {
	if ps.frames == 0 {
		return 0
	}
	var sum float32
	for _, ms := range ps.History() {
		sum += ms
	}
	return sum / float32(ps.frames)
}

func (ps *PerformanceStatsComponent) Render(stats loop.Stats) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avg := ps.AvgFrameTime()
	fps := float32(0)
	if avg > 0 {
		fps = 1000 / avg
	}
	imgui.Text(fmt.Sprintf("FPS: %.1f (%.2f ms)", fps, avg))
	if hist := ps.History(); len(hist) > 0 {
		imgui.PlotLinesFloatPtr("##frametime", &hist[0], int32(len(hist)))
	}
	imgui.Separator()

	imgui.Text(fmt.Sprintf("Commands: %d", stats.TotalCommands))
	imgui.Text(fmt.Sprintf("Locks: %d  Lines: %d  Game overs: %d", stats.Locks, stats.LinesCleared, stats.GameOvers))

	if len(stats.Commands) > 0 && imgui.TreeNodeStr("Command Timings") {
		if imgui.BeginTableV("command_stats", 5, imgui.TableFlagsBorders|imgui.TableFlagsRowBg, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Command")
			imgui.TableSetupColumn("Count")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableSetupColumn("Last")
			imgui.TableHeadersRow()

			for _, cs := range stats.Commands {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(cs.Command.String())
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", cs.Count))
				imgui.TableNextColumn()
				imgui.Text(cs.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(cs.MaxDuration.String())
				imgui.TableNextColumn()
				imgui.Text(cs.LastDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

// FrameTimer measures the time between frames.
type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{lastFrameTime: time.Now()}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	dt := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return dt
}
