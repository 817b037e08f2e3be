package light

import (
	"math"

	"github.com/yozhijk/Banshee/types"
)

// Point is a delta light with squared-falloff intensity, grounded on
// original_source/FireRays/Banshee/light/pointlight.cpp.
type Point struct {
	Position  types.Vec3
	Intensity types.Vec3
}

func (p Point) IsDelta() bool { return true }

func (p Point) SampleLi(shadingPoint, n types.Vec3, u types.Vec2) (Sample, bool) {
	d := p.Position.Sub(shadingPoint)
	dist2 := d.Dot(d)
	if dist2 < 1e-12 {
		return Sample{}, false
	}
	dist := sqrt(dist2)
	return Sample{
		Wi:       d.Mul(1 / dist),
		Distance: dist,
		Li:       p.Intensity.Mul(1 / dist2),
		Pdf:      1,
	}, true
}

func (p Point) Pdf(shadingPoint, wi types.Vec3) float32 { return 0 }

func sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
