package imageplane

import (
	"math"
	"testing"

	"github.com/yozhijk/Banshee/types"
)

func TestAtIsZeroForUntouchedPixel(t *testing.T) {
	p := NewPlane(4, 4, Box{})
	if got := p.At(2, 2); got != (types.Vec3{}) {
		t.Fatalf("expected an untouched pixel to read zero; got %v", got)
	}
}

func TestAddSampleBoxFilterStaysInOwnPixel(t *testing.T) {
	p := NewPlane(4, 4, Box{})
	p.AddSample(1.5, 1.5, types.Vec3{1, 1, 1})

	if got := p.At(1, 1); got != (types.Vec3{1, 1, 1}) {
		t.Fatalf("expected a box-filtered sample at the pixel center to land entirely in its own pixel; got %v", got)
	}
	if got := p.At(0, 0); got != (types.Vec3{}) {
		t.Fatalf("expected a neighboring pixel to remain untouched by the box filter; got %v", got)
	}
}

func TestAddSampleAveragesMultipleSamples(t *testing.T) {
	p := NewPlane(2, 2, Box{})
	p.AddSample(0.5, 0.5, types.Vec3{0, 0, 0})
	p.AddSample(0.5, 0.5, types.Vec3{2, 2, 2})

	got := p.At(0, 0)
	want := types.Vec3{1, 1, 1}
	if got != want {
		t.Fatalf("expected two samples of weight 1 to average; got %v, want %v", got, want)
	}
}

func TestAddSampleRejectsNonFiniteRadiance(t *testing.T) {
	p := NewPlane(2, 2, Box{})
	p.AddSample(0.5, 0.5, types.Vec3{float32(math.Inf(1)), 0, 0})

	if got := p.At(0, 0); got != (types.Vec3{}) {
		t.Fatalf("expected a non-finite sample to be dropped rather than poison the accumulator; got %v", got)
	}
}

func TestPrepareClearsPreviousSamples(t *testing.T) {
	p := NewPlane(2, 2, Box{})
	p.AddSample(0.5, 0.5, types.Vec3{1, 1, 1})
	p.Prepare()

	if got := p.At(0, 0); got != (types.Vec3{}) {
		t.Fatalf("expected Prepare to reset accumulators to zero; got %v", got)
	}
}

func TestTentFilterSpreadsAcrossNeighboringPixels(t *testing.T) {
	p := NewPlane(4, 4, NewTent(2))
	p.AddSample(1.5, 1.5, types.Vec3{1, 1, 1})

	if got := p.At(0, 0); got == (types.Vec3{}) {
		t.Fatalf("expected a tent filter with radius 2 to splat onto a diagonal neighbor; got %v", got)
	}
}

func TestTentEvaluateZeroOutsideRadius(t *testing.T) {
	f := NewTent(1)
	if got := f.Evaluate(5, 0); got != 0 {
		t.Fatalf("expected the tent filter to be zero outside its radius; got %f", got)
	}
}

func TestGaussianEvaluateZeroAtAndBeyondRadius(t *testing.T) {
	f := NewGaussian(2, 0.5)
	if got := f.Evaluate(2, 0); got != 0 {
		t.Fatalf("expected the edge-subtracted Gaussian to reach exactly zero at its radius; got %f", got)
	}
	if got := f.Evaluate(0, 0); got <= 0 {
		t.Fatalf("expected a positive weight at the filter center; got %f", got)
	}
}

func TestBoxFilterRadiusIsHalfAPixel(t *testing.T) {
	if r := (Box{}).Radius(); r != 0.5 {
		t.Fatalf("expected Box.Radius() == 0.5; got %f", r)
	}
}
