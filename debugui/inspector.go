package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/chaintris/loop"
)

// SnapshotInspectorComponent shows every exported field of the latest
// driver snapshot. It is read-only: the driver owns the session.
type SnapshotInspectorComponent struct {
	paused bool
	frozen loop.Snapshot
}

func NewSnapshotInspectorComponent() SnapshotInspectorComponent {
	return SnapshotInspectorComponent{}
}

func (si *SnapshotInspectorComponent) Render(snap loop.Snapshot) {
	if !imgui.BeginV("Snapshot Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if imgui.Checkbox("Freeze", &si.paused) && si.paused {
		si.frozen = snap
	}
	if si.paused {
		snap = si.frozen
	}
	imgui.Separator()

	for _, child := range Describe("Snapshot", snap).Children {
		si.renderNode(child)
	}

	imgui.End()
}

func (si *SnapshotInspectorComponent) renderNode(n Node) {
	if n.Children == nil {
		imgui.Text(fmt.Sprintf("%s: %s", n.Name, n.Value))
		return
	}
	if imgui.TreeNodeStr(n.Name) {
		for _, child := range n.Children {
			si.renderNode(child)
		}
		imgui.TreePop()
	}
}
