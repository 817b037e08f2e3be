package renderer

import (
	"time"

	"github.com/yozhijk/Banshee/imageplane"
	"github.com/yozhijk/Banshee/integrator"
	"github.com/yozhijk/Banshee/sampler"
	"github.com/yozhijk/Banshee/types"
	"github.com/yozhijk/Banshee/world"
)

// RenderTile renders one tile into plane, synchronously, using its own
// sampler instance. Kept as a first-class entry point distinct from the
// tiled scheduler's Render loop (spec.md §8 SUPPLEMENTED FEATURES,
// grounded on original_source/FireRays/Banshee/renderer/imagerenderer.cpp's
// RenderTile), so tests and the single-threaded debug path can render a
// sub-region without spinning up the worker pool.
func RenderTile(t Tile, w *world.World, integ integrator.Integrator, s sampler.Sampler, opts Options, plane *imageplane.Plane) TileStat {
	start := time.Now()

	frameW := float32(opts.FrameW)
	frameH := float32(opts.FrameH)
	spp := int(opts.SamplesPerPixel)
	if spp <= 0 {
		spp = 1
	}

	for py := t.Y; py < t.Y+t.H; py++ {
		for px := t.X; px < t.X+t.W; px++ {
			pixelIndex := uint64(py*int(opts.FrameW) + px)

			// One deterministic seed per pixel (spec §5(i)): the sampler's
			// own sequential internal state (grid cell, Sobol index, ...)
			// plays the role of the sample-index dimension from here on, so
			// it must not be reset between samples within this pixel.
			seed := sampler.PixelSeed(opts.Seed^uint64(t.ID), pixelIndex)
			s.StartPixel(seed)

			var accum types.Vec3
			for sampleIdx := 0; sampleIdx < spp; sampleIdx++ {
				jitter := s.Sample2D()
				uv := types.Vec2{
					(float32(px) + jitter[0]) / frameW,
					(float32(py) + jitter[1]) / frameH,
				}

				ray := w.Camera.GenerateRay(uv)
				l := integ.Li(ray, w, s)
				accum = accum.Add(l.Mul(opts.Exposure))
			}

			plane.AddSample(float32(px)+0.5, float32(py)+0.5, accum.Mul(1/float32(spp)))
		}
	}

	return TileStat{ID: t.ID, X: t.X, Y: t.Y, W: t.W, H: t.H, RenderTime: time.Since(start)}
}
