package light

import (
	"math"
	"testing"

	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/types"
)

func approxEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestPointLightSquaredFalloff(t *testing.T) {
	p := Point{Position: types.Vec3{0, 10, 0}, Intensity: types.Vec3{100, 100, 100}}

	near := types.Vec3{0, 9, 0} // distance 1
	far := types.Vec3{0, 0, 0}  // distance 10

	sNear, ok := p.SampleLi(near, types.Vec3{0, 1, 0}, types.Vec2{})
	if !ok {
		t.Fatalf("expected SampleLi to succeed for a point light above the shading point")
	}
	sFar, ok := p.SampleLi(far, types.Vec3{0, 1, 0}, types.Vec2{})
	if !ok {
		t.Fatalf("expected SampleLi to succeed")
	}

	// Intensity / distance^2: at distance 1 -> 100, at distance 10 -> 1.
	if !approxEqual(sNear.Li[0], 100, 1e-3) {
		t.Fatalf("expected Li == 100 at distance 1; got %f", sNear.Li[0])
	}
	if !approxEqual(sFar.Li[0], 1, 1e-3) {
		t.Fatalf("expected Li == 1 at distance 10 (squared falloff); got %f", sFar.Li[0])
	}
}

func TestPointLightIsDeltaWithZeroPdf(t *testing.T) {
	p := Point{Position: types.Vec3{1, 1, 1}, Intensity: types.Vec3{1, 1, 1}}
	if !p.IsDelta() {
		t.Fatalf("expected Point to report itself as a delta light")
	}
	if pdf := p.Pdf(types.Vec3{}, types.Vec3{0, 1, 0}); pdf != 0 {
		t.Fatalf("expected Point.Pdf to always return 0; got %f", pdf)
	}
}

func TestPointLightDegenerateAtZeroDistance(t *testing.T) {
	p := Point{Position: types.Vec3{5, 5, 5}, Intensity: types.Vec3{1, 1, 1}}
	if _, ok := p.SampleLi(types.Vec3{5, 5, 5}, types.Vec3{0, 1, 0}, types.Vec2{}); ok {
		t.Fatalf("expected SampleLi to fail when the shading point coincides with the light")
	}
}

func TestDirectionalLightArrivesFromFixedDirection(t *testing.T) {
	d := Directional{Direction: types.Vec3{0, -1, 0}, Intensity: types.Vec3{2, 2, 2}}
	s, ok := d.SampleLi(types.Vec3{3, 4, 5}, types.Vec3{0, 1, 0}, types.Vec2{})
	if !ok {
		t.Fatalf("expected SampleLi to always succeed for a directional light")
	}
	want := types.Vec3{0, 1, 0}
	if s.Wi != want {
		t.Fatalf("expected Wi to be the negated travel direction %v regardless of shading point; got %v", want, s.Wi)
	}
	if s.Li != d.Intensity {
		t.Fatalf("expected directional Li to equal Intensity unconditionally; got %v", s.Li)
	}
	if !d.IsDelta() {
		t.Fatalf("expected Directional to report itself as a delta light")
	}
}

func TestAreaLightSampleLiProducesSolidAnglePdf(t *testing.T) {
	sphere := primitive.Sphere{Center: types.Vec3{0, 5, 0}, Radius: 1}
	a := Area{Primitive: sphere, Radiance: types.Vec3{10, 10, 10}}

	if a.IsDelta() {
		t.Fatalf("expected an area light to not be a delta light")
	}

	s, ok := a.SampleLi(types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, types.Vec2{0.25, 0.6})
	if !ok {
		t.Fatalf("expected SampleLi to succeed for a visible area light")
	}
	if s.Pdf <= 0 {
		t.Fatalf("expected a positive solid-angle pdf; got %f", s.Pdf)
	}
	if s.Li != a.Radiance {
		t.Fatalf("expected Li to equal the light's radiance; got %v", s.Li)
	}
}

func TestAreaLightPdfMatchesIntersectionGeometry(t *testing.T) {
	sphere := primitive.Sphere{Center: types.Vec3{0, 5, 0}, Radius: 1}
	a := Area{Primitive: sphere, Radiance: types.Vec3{10, 10, 10}}

	shadingPoint := types.Vec3{0, 0, 0}
	wi := types.Vec3{0, 1, 0}

	pdf := a.Pdf(shadingPoint, wi)
	if pdf <= 0 {
		t.Fatalf("expected a positive pdf for a direction that hits the light; got %f", pdf)
	}

	missWi := types.Vec3{1, 0, 0}
	if pdf := a.Pdf(shadingPoint, missWi); pdf != 0 {
		t.Fatalf("expected zero pdf for a direction that misses the light entirely; got %f", pdf)
	}
}

func TestAreaLightBehindBackfaceFails(t *testing.T) {
	// Sampling the far side of a sphere from inside it (shading point at the
	// center) always samples a point whose normal faces away from the
	// shading point's direction to it, so SampleLi must reject it.
	sphere := primitive.Sphere{Center: types.Vec3{0, 0, 0}, Radius: 1}
	a := Area{Primitive: sphere, Radiance: types.Vec3{1, 1, 1}}

	anyAccepted := false
	for i := 0; i < 8; i++ {
		u := types.Vec2{float32(i) / 8, 0.3}
		if _, ok := a.SampleLi(types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, u); ok {
			anyAccepted = true
		}
	}
	if anyAccepted {
		t.Fatalf("expected sampling a sphere light from its own center to always reject the backfacing side")
	}
}

func TestDirectionalInfiniteDistanceIsLargeButFinite(t *testing.T) {
	d := Directional{Direction: types.Vec3{0, -1, 0}, Intensity: types.Vec3{1, 1, 1}}
	s, _ := d.SampleLi(types.Vec3{}, types.Vec3{0, 1, 0}, types.Vec2{})
	if math.IsInf(float64(s.Distance), 1) {
		t.Fatalf("expected a large finite stand-in distance, not actual infinity")
	}
	if s.Distance <= 0 {
		t.Fatalf("expected a positive distance; got %f", s.Distance)
	}
}
