package tetris

import "time"

const (
	LinesPerLevel = 10
	TetrisLines   = 4

	baseLineScore = 100
	tetrisBonus   = 800

	baseDropInterval = 1000 * time.Millisecond
	dropStep         = 50 * time.Millisecond
	minDropInterval  = 50 * time.Millisecond
)

// ScoreDelta is the score awarded for clearing lines at the given level.
// A four-line clear earns a flat bonus on top.
func ScoreDelta(lines, level int) int {
	delta := lines * baseLineScore * level
	if lines == TetrisLines {
		delta += tetrisBonus
	}
	return delta
}

// LevelFor returns the level reached after totalLines cleared lines.
func LevelFor(totalLines int) int {
	return totalLines/LinesPerLevel + 1
}

// DropInterval is the gravity period at the given level, never below 50ms.
func DropInterval(level int) time.Duration {
	d := baseDropInterval - time.Duration(level-1)*dropStep
	return max(d, minDropInterval)
}
