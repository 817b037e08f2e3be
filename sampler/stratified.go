package sampler

import (
	"golang.org/x/exp/rand"

	"github.com/yozhijk/Banshee/types"
)

// Stratified partitions the unit square into a g×g grid and draws one
// jittered sample per cell, visiting cells in a random permutation per pixel
// (spec §4.8).
type Stratified struct {
	grid int
	rng  *rand.Rand
	perm []int
	next int
}

func NewStratified(grid int) *Stratified {
	return &Stratified{grid: grid}
}

func (s *Stratified) NumSamples() int { return s.grid * s.grid }

func (s *Stratified) StartPixel(seed uint64) {
	s.rng = newRNG(seed)
	n := s.grid * s.grid
	if s.perm == nil || len(s.perm) != n {
		s.perm = make([]int, n)
	}
	for i := range s.perm {
		s.perm[i] = i
	}
	s.rng.Shuffle(n, func(i, j int) { s.perm[i], s.perm[j] = s.perm[j], s.perm[i] })
	s.next = 0
}

func (s *Stratified) Sample2D() types.Vec2 {
	g := s.grid
	n := g * g
	cell := s.perm[s.next%n]
	s.next++

	cx, cy := cell%g, cell/g
	jx, jy := s.rng.Float32(), s.rng.Float32()
	return types.Vec2{(float32(cx) + jx) / float32(g), (float32(cy) + jy) / float32(g)}
}
