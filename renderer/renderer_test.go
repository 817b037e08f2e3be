package renderer

import (
	"context"
	"testing"

	"github.com/yozhijk/Banshee/camera"
	"github.com/yozhijk/Banshee/imageplane"
	"github.com/yozhijk/Banshee/integrator"
	"github.com/yozhijk/Banshee/material"
	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/sampler"
	"github.com/yozhijk/Banshee/types"
	"github.com/yozhijk/Banshee/world"
)

func TestTilesCoverFrameExactlyOnce(t *testing.T) {
	ts := tiles(130, 65, 64, 64)

	covered := make([][]bool, 65)
	for y := range covered {
		covered[y] = make([]bool, 130)
	}

	for _, tile := range ts {
		if tile.X+tile.W > 130 || tile.Y+tile.H > 65 {
			t.Fatalf("tile %+v exceeds frame bounds 130x65", tile)
		}
		for y := tile.Y; y < tile.Y+tile.H; y++ {
			for x := tile.X; x < tile.X+tile.W; x++ {
				if covered[y][x] {
					t.Fatalf("pixel (%d,%d) covered by more than one tile", x, y)
				}
				covered[y][x] = true
			}
		}
	}

	for y := range covered {
		for x := range covered[y] {
			if !covered[y][x] {
				t.Fatalf("pixel (%d,%d) not covered by any tile", x, y)
			}
		}
	}
}

func TestTilesAreNumberedSequentially(t *testing.T) {
	ts := tiles(200, 200, 64, 64)
	for i, tile := range ts {
		if tile.ID != i {
			t.Fatalf("expected tile %d to have ID %d; got %d", i, i, tile.ID)
		}
	}
}

func TestGridSizeCoversRequestedSampleCount(t *testing.T) {
	cases := []struct{ spp, wantGrid int }{
		{1, 1}, {4, 2}, {9, 3}, {10, 4}, {64, 8}, {65, 9},
	}
	for _, c := range cases {
		if g := gridSize(uint32(c.spp)); g != c.wantGrid {
			t.Fatalf("gridSize(%d) = %d; want %d", c.spp, g, c.wantGrid)
		}
		if g := gridSize(uint32(c.spp)); g*g < c.spp {
			t.Fatalf("gridSize(%d) = %d, but %d*%d < %d", c.spp, g, g, g, c.spp)
		}
	}
}

func TestNewRejectsUncommittedWorld(t *testing.T) {
	w := world.New()
	if _, err := New(w, DefaultOptions()); err != ErrNotCommitted {
		t.Fatalf("expected ErrNotCommitted for an uncommitted world; got %v", err)
	}
}

func TestNewRejectsNilWorld(t *testing.T) {
	if _, err := New(nil, DefaultOptions()); err != ErrWorldNotDefined {
		t.Fatalf("expected ErrWorldNotDefined for a nil world; got %v", err)
	}
}

func simpleCommittedWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New()
	mat, err := w.AddMaterial(material.Descriptor{Kind: material.KindDiffuse, Albedo: types.Vec3{0.5, 0.5, 0.5}})
	if err != nil {
		t.Fatalf("AddMaterial: %v", err)
	}
	if err := w.AddSphere(primitive.Sphere{Center: types.Vec3{0, 0, -3}, Radius: 1, MaterialIndex: mat}); err != nil {
		t.Fatalf("AddSphere: %v", err)
	}
	w.SetCamera(camera.NewPerspective(types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}, types.Vec3{0, 1, 0}, 0.9, 1))
	w.SetBackground(types.Vec3{0.2, 0.2, 0.2})
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return w
}

func TestRenderTileFillsEveryPixel(t *testing.T) {
	w := simpleCommittedWorld(t)
	opts := DefaultOptions()
	opts.FrameW, opts.FrameH = 16, 16
	opts.SamplesPerPixel = 4

	plane := imageplane.NewPlane(int(opts.FrameW), int(opts.FrameH), imageplane.Box{})
	plane.Prepare()

	integ := integrator.Direct{}
	samp := sampler.NewCMJ(gridSize(opts.SamplesPerPixel))

	stat := RenderTile(Tile{ID: 0, X: 0, Y: 0, W: 16, H: 16}, w, integ, samp, opts, plane)
	if stat.W != 16 || stat.H != 16 {
		t.Fatalf("expected the returned TileStat to report the tile's dimensions; got %+v", stat)
	}

	// The sphere sits at the center of the frame under a narrow FOV; a
	// corner ray misses it and should pick up the nonzero background
	// instead of staying at the accumulator's zero initial value.
	corner := plane.At(0, 0)
	if corner[0] == 0 && corner[1] == 0 && corner[2] == 0 {
		t.Fatalf("expected a corner pixel that misses the sphere to accumulate the nonzero background radiance")
	}
}

func TestTiledRenderProducesStatsForEveryTile(t *testing.T) {
	w := simpleCommittedWorld(t)
	opts := DefaultOptions()
	opts.FrameW, opts.FrameH = 32, 32
	opts.TileW, opts.TileH = 16, 16
	opts.SamplesPerPixel = 4
	opts.NumWorkers = 2
	opts.Integrator = IntegratorAO
	opts.AOSamples = 4

	r, err := New(w, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var lastFraction float32
	r.OnProgress = func(f float32) { lastFraction = f }

	if err := r.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	stats := r.Stats()
	if len(stats.Tiles) != 4 {
		t.Fatalf("expected 4 tiles for a 32x32 frame split into 16x16 tiles; got %d", len(stats.Tiles))
	}
	if lastFraction != 1 {
		t.Fatalf("expected the final progress callback to report fraction 1; got %f", lastFraction)
	}
}

func TestNewIntegratorSelectsRequestedKind(t *testing.T) {
	opts := DefaultOptions()

	opts.Integrator = IntegratorDirect
	if _, ok := newIntegrator(opts).(integrator.Direct); !ok {
		t.Fatalf("expected IntegratorDirect to select integrator.Direct")
	}

	opts.Integrator = IntegratorAO
	if _, ok := newIntegrator(opts).(integrator.AmbientOcclusion); !ok {
		t.Fatalf("expected IntegratorAO to select integrator.AmbientOcclusion")
	}

	opts.Integrator = IntegratorGI
	if _, ok := newIntegrator(opts).(integrator.Path); !ok {
		t.Fatalf("expected IntegratorGI to select integrator.Path")
	}
}

func TestNewSamplerSelectsRequestedKind(t *testing.T) {
	opts := DefaultOptions()
	opts.SamplesPerPixel = 16

	opts.Sampler = SamplerRandom
	if _, ok := newSampler(opts).(*sampler.Random); !ok {
		t.Fatalf("expected SamplerRandom to select *sampler.Random")
	}

	opts.Sampler = SamplerStratified
	if _, ok := newSampler(opts).(*sampler.Stratified); !ok {
		t.Fatalf("expected SamplerStratified to select *sampler.Stratified")
	}

	opts.Sampler = SamplerSobol
	if _, ok := newSampler(opts).(*sampler.Sobol); !ok {
		t.Fatalf("expected SamplerSobol to select *sampler.Sobol")
	}

	opts.Sampler = SamplerCMJ
	if _, ok := newSampler(opts).(*sampler.CMJ); !ok {
		t.Fatalf("expected SamplerCMJ to select *sampler.CMJ")
	}
}
