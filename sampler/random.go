package sampler

import (
	"golang.org/x/exp/rand"

	"github.com/yozhijk/Banshee/types"
)

// Random draws independent uniform samples (spec §4.8).
type Random struct {
	n   int
	rng *rand.Rand
}

func NewRandom(n int) *Random {
	return &Random{n: n}
}

func (s *Random) NumSamples() int { return s.n }

func (s *Random) StartPixel(seed uint64) {
	s.rng = newRNG(seed)
}

func (s *Random) Sample2D() types.Vec2 {
	return types.Vec2{s.rng.Float32(), s.rng.Float32()}
}
