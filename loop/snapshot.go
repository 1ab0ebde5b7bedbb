package loop

import (
	"time"

	"github.com/plus3/chaintris/progression"
	"github.com/plus3/chaintris/tetris"
)

// Snapshot is everything a renderer needs for one frame. Missions and
// Traits are empty when the driver runs without a tracker.
type Snapshot struct {
	tetris.Snapshot
	Missions []progression.MissionSnapshot
	Traits   []progression.TraitSnapshot
	Profile  progression.ProfileStats
	// Interval is the current drop interval.
	Interval time.Duration
}
