package tetris_test

import (
	"testing"

	"github.com/plus3/chaintris/tetris"
	"github.com/stretchr/testify/assert"
)

func TestRotateRoundTrip(t *testing.T) {
	for _, kind := range tetris.Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			base := kind.Shape()

			half := tetris.Rotate(tetris.Rotate(base))
			full := tetris.Rotate(tetris.Rotate(half))

			assert.True(t, full.Equal(base))
			assert.True(t, kind.Shape().Equal(base), "rotation must not mutate its input")
		})
	}
}

func TestRotateClockwise(t *testing.T) {
	rotated := tetris.Rotate(tetris.KindT.Shape())

	assert.Equal(t, tetris.Shape{
		{true, false},
		{true, true},
		{true, false},
	}, rotated)

	vertical := tetris.Rotate(tetris.KindI.Shape())
	assert.Len(t, vertical, 4)
	for _, row := range vertical {
		assert.Equal(t, []bool{true}, row)
	}
}

func TestSpawn(t *testing.T) {
	tests := []struct {
		kind  tetris.Kind
		wantX int
	}{
		{tetris.KindI, 3},
		{tetris.KindO, 4},
		{tetris.KindT, 4},
		{tetris.KindS, 4},
		{tetris.KindZ, 4},
		{tetris.KindJ, 4},
		{tetris.KindL, 4},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p := tetris.Spawn(tt.kind, tetris.DefaultWidth)
			assert.Equal(t, tt.wantX, p.X)
			assert.Equal(t, 0, p.Y)
			assert.Equal(t, tt.kind.Fill(), p.Fill)

			kind, ok := tetris.KindOf(p.Fill)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}

	_, ok := tetris.KindOf(tetris.Empty)
	assert.False(t, ok)
}

func TestShapesHaveFilledCells(t *testing.T) {
	for _, kind := range tetris.Kinds {
		filled := 0
		for _, row := range kind.Shape() {
			assert.Len(t, row, len(kind.Shape()[0]))
			for _, v := range row {
				if v {
					filled++
				}
			}
		}
		assert.Equal(t, 4, filled, kind.String())
	}
}

func TestGenerators(t *testing.T) {
	t.Run("sequence cycles", func(t *testing.T) {
		g := tetris.NewSequenceGenerator(tetris.KindS, tetris.KindZ)
		assert.Equal(t, tetris.KindS, g.Next())
		assert.Equal(t, tetris.KindZ, g.Next())
		assert.Equal(t, tetris.KindS, g.Next())

		assert.Panics(t, func() { tetris.NewSequenceGenerator() })
	})

	t.Run("bag deals every kind", func(t *testing.T) {
		g := tetris.NewBagGenerator(7)
		for range 3 {
			seen := map[tetris.Kind]int{}
			for range len(tetris.Kinds) {
				seen[g.Next()]++
			}
			assert.Len(t, seen, len(tetris.Kinds))
		}
	})

	t.Run("random is reproducible per seed", func(t *testing.T) {
		a := tetris.NewRandomGenerator(42)
		b := tetris.NewRandomGenerator(42)
		for range 50 {
			k := a.Next()
			assert.Equal(t, k, b.Next())
			assert.Less(t, int(k), len(tetris.Kinds))
		}
	})
}
