package sampler

import "github.com/yozhijk/Banshee/types"

// CMJ is correlated multi-jittered sampling: an m×m grid stratified in both
// dimensions and in each of its 1D (x and y) projections (spec §4.8), using
// Andrew Kensler's hash-based permutation construction so the pattern is
// reproducible from an integer sample index without storing a shuffle
// table.
type CMJ struct {
	m       int
	pattern uint32
	next    uint32
}

func NewCMJ(m int) *CMJ {
	return &CMJ{m: m}
}

func (s *CMJ) NumSamples() int { return s.m * s.m }

func (s *CMJ) StartPixel(seed uint64) {
	rng := newRNG(seed)
	s.pattern = rng.Uint32()
	s.next = 0
}

func (s *CMJ) Sample2D() types.Vec2 {
	m := uint32(s.m)
	n := m
	i := s.next % (m * n)
	s.next++

	sx := permute(i%m, m, s.pattern*0xa511e9b3)
	sy := permute(i/m, n, s.pattern*0x63d83595)
	jx := cmjRandFloat(i, s.pattern*0xa399d265)
	jy := cmjRandFloat(i, s.pattern*0x711ad6a5)

	x := (float32(i%m) + (float32(sy)+jx)/float32(n)) / float32(m)
	y := (float32(i/m) + (float32(sx)+jy)/float32(m)) / float32(n)
	return types.Vec2{x, y}
}

// permute computes a pseudo-random bijective permutation of [0, l) given a
// stream index i and a per-stream key p.
func permute(i, l, p uint32) uint32 {
	w := l - 1
	w |= w >> 1
	w |= w >> 2
	w |= w >> 4
	w |= w >> 8
	w |= w >> 16

	for {
		i ^= p
		i *= 0xe170893d
		i ^= p >> 16
		i ^= (i & w) >> 4
		i ^= p >> 8
		i *= 0x0929eb3f
		i ^= p >> 23
		i ^= (i & w) >> 1
		i *= 1 | p>>27
		i *= 0x6935fa69
		i ^= (i & w) >> 11
		i *= 0x74dcb303
		i ^= (i & w) >> 2
		i *= 0x9e501cc3
		i ^= (i & w) >> 2
		i *= 0xc860a3df
		i &= w
		i ^= i >> 5

		if i < l {
			break
		}
	}
	return (i + p) % l
}

func cmjRandFloat(i, p uint32) float32 {
	i ^= p
	i ^= i >> 17
	i ^= i >> 10
	i *= 0xb36534e5
	i ^= i >> 12
	i ^= i >> 21
	i *= 0x93fc4795
	i ^= 0xdf6e307f
	i ^= i >> 17
	i *= 1 | p>>18
	return float32(i) * (1.0 / 4294967808.0)
}
