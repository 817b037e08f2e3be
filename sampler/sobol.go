package sampler

import "github.com/yozhijk/Banshee/types"

// Sobol is a base-2 low-discrepancy sequence with per-pixel scrambling
// (spec §4.8). Dimension 0 is the bit-reversal radical inverse; dimension 1
// uses the Gray-code construction, matching the two lowest-dimension Sobol
// direction numbers (identity direction vectors), which is sufficient for a
// 2D image-plane stream without carrying a full direction-number table for
// higher dimensions.
type Sobol struct {
	n         int
	index     uint32
	scrambleX uint32
	scrambleY uint32
}

func NewSobol(n int) *Sobol {
	return &Sobol{n: n}
}

func (s *Sobol) NumSamples() int { return s.n }

func (s *Sobol) StartPixel(seed uint64) {
	rng := newRNG(seed)
	s.scrambleX = rng.Uint32()
	s.scrambleY = rng.Uint32()
	s.index = 0
}

func (s *Sobol) Sample2D() types.Vec2 {
	i := s.index
	s.index++

	x := radicalInverseBase2(i)
	x = scramble(x, s.scrambleX)

	y := radicalInverseBase2(grayCode(i))
	y = scramble(y, s.scrambleY)

	return types.Vec2{x, y}
}

func grayCode(i uint32) uint32 {
	return i ^ (i >> 1)
}

// radicalInverseBase2 reverses the bits of i and treats the result as a
// binary fraction — the standard base-2 van der Corput sequence.
func radicalInverseBase2(i uint32) float32 {
	i = (i << 16) | (i >> 16)
	i = ((i & 0x00ff00ff) << 8) | ((i & 0xff00ff00) >> 8)
	i = ((i & 0x0f0f0f0f) << 4) | ((i & 0xf0f0f0f0) >> 4)
	i = ((i & 0x33333333) << 2) | ((i & 0xcccccccc) >> 2)
	i = ((i & 0x55555555) << 1) | ((i & 0xaaaaaaaa) >> 1)
	return float32(i) * (1.0 / 4294967296.0)
}

// scramble XORs a digit-scrambling mask into a [0,1) value in its
// fixed-point bit representation, decorrelating the sequence across pixels
// (Cranley-Patterson rotation applied in the bit domain rather than by
// simple wraparound addition, so it preserves the base-2 stratification).
func scramble(v float32, mask uint32) float32 {
	bits := uint32(v * 4294967296.0)
	bits ^= mask
	return float32(bits) * (1.0 / 4294967296.0)
}
