package tetris

import (
	"math/rand/v2"
	"time"
)

// Generator produces the kinds of successive pieces.
type Generator interface {
	Next() Kind
}

// RandomGenerator picks every kind uniformly at random.
type RandomGenerator struct {
	rng *rand.Rand
}

// NewRandomGenerator returns a uniform generator. A zero seed is replaced by
// the current time.
func NewRandomGenerator(seed uint64) *RandomGenerator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomGenerator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *RandomGenerator) Next() Kind {
	return Kinds[g.rng.IntN(len(Kinds))]
}

// BagGenerator deals all seven kinds in a shuffled order before repeating.
type BagGenerator struct {
	rng *rand.Rand
	bag []Kind
}

// NewBagGenerator returns a 7-bag generator. A zero seed is replaced by the
// current time.
func NewBagGenerator(seed uint64) *BagGenerator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &BagGenerator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *BagGenerator) Next() Kind {
	if len(g.bag) == 0 {
		g.bag = append(g.bag[:0], Kinds[:]...)
		g.rng.Shuffle(len(g.bag), func(i, j int) {
			g.bag[i], g.bag[j] = g.bag[j], g.bag[i]
		})
	}
	k := g.bag[0]
	g.bag = g.bag[1:]
	return k
}

// SequenceGenerator replays a fixed list of kinds, wrapping around at the
// end. It makes sessions reproducible in tests and replays.
type SequenceGenerator struct {
	kinds []Kind
	pos   int
}

// NewSequenceGenerator panics when kinds is empty.
func NewSequenceGenerator(kinds ...Kind) *SequenceGenerator {
	if len(kinds) == 0 {
		panic("tetris: empty piece sequence")
	}
	return &SequenceGenerator{kinds: append([]Kind(nil), kinds...)}
}

func (g *SequenceGenerator) Next() Kind {
	k := g.kinds[g.pos%len(g.kinds)]
	g.pos++
	return k
}
