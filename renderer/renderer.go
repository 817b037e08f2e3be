// Package renderer implements the tiled multithreaded scheduler of spec
// §4.9/§5: a frame is partitioned into fixed-size tiles, worker goroutines
// pull tile indices from a shared atomic counter, and each worker owns a
// sampler/integrator pair cloned from a master configuration with an
// independently seeded RNG stream.
//
// Adapted from achilleasa-polaris/renderer/renderer.go's Renderer
// interface (Render/Close/Stats), replacing its GPU-device-backed tracer
// pool with a goroutine pool coordinated by golang.org/x/sync/errgroup.
package renderer

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yozhijk/Banshee/imageplane"
	"github.com/yozhijk/Banshee/integrator"
	"github.com/yozhijk/Banshee/log"
	"github.com/yozhijk/Banshee/sampler"
	"github.com/yozhijk/Banshee/world"
)

// ProgressFunc is called after each tile completes with a monotonically
// increasing fraction in [0, 1] (spec §5: "A progress-reporter
// collaborator is called after each tile completion").
type ProgressFunc func(fraction float32)

// Renderer is the tagged surface every scheduler (tiled or single-threaded)
// implements.
type Renderer interface {
	// Render renders the whole frame into plane.
	Render(ctx context.Context) error

	// Stats returns the most recently completed frame's per-tile timings.
	Stats() FrameStats
}

// Tiled is the default multithreaded renderer.
type Tiled struct {
	World   *world.World
	Options Options
	Plane   *imageplane.Plane

	OnProgress ProgressFunc

	logger log.Logger
	stats  FrameStats
}

// New validates opts against w and returns a ready-to-run Tiled renderer.
func New(w *world.World, opts Options) (*Tiled, error) {
	if w == nil {
		return nil, ErrWorldNotDefined
	}
	if !w.IsCommitted() {
		return nil, ErrNotCommitted
	}
	if w.Camera == nil {
		return nil, ErrCameraNotDefined
	}

	plane := imageplane.NewPlane(int(opts.FrameW), int(opts.FrameH), imageplane.Box{})
	return &Tiled{
		World:   w,
		Options: opts,
		Plane:   plane,
		logger:  log.New("renderer"),
	}, nil
}

func (r *Tiled) Stats() FrameStats { return r.stats }

// Render drives the tile scheduler: a shared atomic counter hands out
// tiles to NumWorkers goroutines, each with its own integrator/sampler
// pair, until every tile is rendered or ctx is cancelled (spec §5:
// "Workers block only on (a) the atomic tile counter and (b) the final
// join barrier").
func (r *Tiled) Render(ctx context.Context) error {
	start := time.Now()
	r.Plane.Prepare()

	ts := tiles(int(r.Options.FrameW), int(r.Options.FrameH), int(r.Options.TileW), int(r.Options.TileH))

	numWorkers := r.Options.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	var nextTile int64
	var completed int64
	statsCh := make(chan TileStat, len(ts))

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < numWorkers; w++ {
		workerID := w
		g.Go(func() error {
			integ := newIntegrator(r.Options)
			samp := newSampler(r.Options)

			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				idx := atomic.AddInt64(&nextTile, 1) - 1
				if idx >= int64(len(ts)) {
					return nil
				}

				stat := RenderTile(ts[idx], r.World, integ, samp, r.Options, r.Plane)
				statsCh <- stat

				done := atomic.AddInt64(&completed, 1)
				if r.OnProgress != nil {
					r.OnProgress(float32(done) / float32(len(ts)))
				}
				r.logger.Debugf("renderer: worker %d finished tile %d (%d/%d)", workerID, stat.ID, done, len(ts))
			}
		})
	}

	err := g.Wait()
	close(statsCh)

	r.stats = FrameStats{RenderTime: time.Since(start)}
	for stat := range statsCh {
		r.stats.Tiles = append(r.stats.Tiles, stat)
	}

	return err
}

func newIntegrator(opts Options) integrator.Integrator {
	switch opts.Integrator {
	case IntegratorDirect:
		return integrator.Direct{}
	case IntegratorAO:
		return integrator.NewAmbientOcclusion(opts.AOSamples, opts.AORadius)
	default:
		p := integrator.NewPath(int(opts.NumBounces))
		p.MinBounces = int(opts.MinBouncesForRR)
		return p
	}
}

func newSampler(opts Options) sampler.Sampler {
	switch opts.Sampler {
	case SamplerRandom:
		return sampler.NewRandom(int(opts.SamplesPerPixel))
	case SamplerStratified:
		return sampler.NewStratified(gridSize(opts.SamplesPerPixel))
	case SamplerSobol:
		return sampler.NewSobol(int(opts.SamplesPerPixel))
	default:
		return sampler.NewCMJ(gridSize(opts.SamplesPerPixel))
	}
}

// gridSize picks a grid dimension g such that g*g is close to spp, for the
// samplers whose NumSamples is g² (stratified, CMJ).
func gridSize(spp uint32) int {
	g := 1
	for g*g < int(spp) {
		g++
	}
	return g
}
