// Package debugui renders Dear ImGui panels for a running chaintris driver:
// per-command performance, mission and trait progress, and a reflective
// inspector over the latest snapshot.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/chaintris/loop"
)

// Item is one render function drawn every frame.
type Item struct {
	Render func()
}

// InputState tracks whether ImGui is consuming mouse or keyboard input.
// Front ends should skip game input while WantCaptureKeyboard is set.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay groups the built-in panels for one driver. Render must be called
// between the backend's BeginFrame and EndFrame.
type Overlay struct {
	driver *loop.Driver
	items  []Item

	perf      PerformanceStatsComponent
	progress  ProgressionPanelComponent
	inspector SnapshotInspectorComponent

	input InputState
}

// NewOverlay builds an overlay reading from d. historyFrames sizes the
// frame time plot.
func NewOverlay(d *loop.Driver, historyFrames int) *Overlay {
	return &Overlay{
		driver:    d,
		perf:      NewPerformanceStatsComponent(historyFrames),
		progress:  NewProgressionPanelComponent(),
		inspector: NewSnapshotInspectorComponent(),
	}
}

// Add registers an extra render function drawn after the built-in panels.
func (o *Overlay) Add(item Item) {
	o.items = append(o.items, item)
}

// Render draws every panel for a frame that took dt seconds.
func (o *Overlay) Render(dt float32) {
	io := imgui.CurrentIO()
	o.input.WantCaptureMouse = io.WantCaptureMouse()
	o.input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	snap := o.driver.Snapshot()
	o.perf.Record(dt)
	o.perf.Render(o.driver.Stats())
	o.progress.Render(snap)
	o.inspector.Render(snap)

	for _, item := range o.items {
		item.Render()
	}
}

// Input returns the capture state observed by the last Render.
func (o *Overlay) Input() InputState {
	return o.input
}
