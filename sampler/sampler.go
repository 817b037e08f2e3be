// Package sampler implements the four 2D sample generators of spec §4.8:
// independent random, stratified jittered grid, correlated multi-jitter and
// a base-2 low-discrepancy sequence. All four reset at pixel boundaries, per
// the renderer's concurrency model: a pixel's samples are fully determined
// by (tile id, pixel index, sample index), never by thread interleaving
// (spec §5).
package sampler

import (
	"golang.org/x/exp/rand"

	"github.com/yozhijk/Banshee/types"
)

// Sampler is the tagged-variant interface each sample generator implements
// (spec.md Design Notes: per-worker RNG/sampler state rather than a shared
// global generator).
type Sampler interface {
	// StartPixel resets the stream for a new pixel, deterministically seeded
	// so a pixel's output doesn't depend on which worker renders it or in
	// what order (spec §5's ordering guarantee).
	StartPixel(seed uint64)

	// Sample2D draws the next (u, v) ∈ [0, 1)² in the current pixel's stream.
	Sample2D() types.Vec2

	// NumSamples is the number of samples per pixel this sampler produces.
	NumSamples() int
}

// PixelSeed combines a tile id and a pixel index into a single deterministic
// seed (spec §5(i)). The sample index is not an input: samplers step through
// a pixel's samples from their own state after StartPixel.
func PixelSeed(tileID, pixelIndex uint64) uint64 {
	// splitmix64-style mixing to decorrelate the two inputs.
	h := tileID*0x9e3779b97f4a7c15 + pixelIndex
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
