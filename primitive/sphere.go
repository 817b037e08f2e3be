package primitive

import (
	"math"

	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/types"
)

// Sphere is an analytic sphere primitive (spec §3, §4.1).
type Sphere struct {
	Center        types.Vec3
	Radius        float32
	MaterialIndex uint32
}

func (s Sphere) Kind() Kind { return KindSphere }

func (s Sphere) Bounds() geom.BBox {
	r := types.Vec3{s.Radius, s.Radius, s.Radius}
	return geom.BBox{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

func (s Sphere) Area() float32 {
	return 4 * math.Pi * s.Radius * s.Radius
}

func (s Sphere) Sample(u types.Vec2) (types.Vec3, types.Vec3, float32) {
	z := 1 - 2*u[0]
	r := float32(math.Sqrt(math.Max(0, float64(1-z*z))))
	phi := 2 * math.Pi * u[1]
	n := types.Vec3{r * float32(math.Cos(float64(phi))), r * float32(math.Sin(float64(phi))), z}
	p := s.Center.Add(n.Mul(s.Radius))
	area := s.Area()
	if area <= 0 {
		return p, n, 0
	}
	return p, n, 1 / area
}

// solve the quadratic |o + t*d - center|^2 = r^2 and choose the smaller
// positive root inside the ray interval (spec §4.1).
func (s Sphere) solve(r geom.Ray) (t float32, ok bool) {
	oc := r.Origin.Sub(s.Center)
	a := r.Dir.Dot(r.Dir)
	b := 2 * oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 > t1 {
		t0, t1 = t1, t0
	}

	if t0 > r.TMin && t0 < r.TMax {
		return t0, true
	}
	if t1 > r.TMin && t1 < r.TMax {
		return t1, true
	}
	return 0, false
}

func (s Sphere) Intersect(r geom.Ray) (Hit, bool) {
	t, ok := s.solve(r)
	if !ok {
		return Hit{}, false
	}

	p := r.At(t)
	n := p.Sub(s.Center).Mul(1 / s.Radius)

	// Spherical uv: standard latitude/longitude parametrization.
	phi := float32(math.Atan2(float64(n[1]), float64(n[0])))
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := float32(math.Acos(float64(clamp(n[2], -1, 1))))
	uv := types.Vec2{phi / (2 * math.Pi), theta / math.Pi}

	dpdu, dpdv := types.Basis(n)

	return Hit{
		P:    p,
		N:    n,
		Dpdu: dpdu,
		Dpdv: dpdv,
		UV:   uv,

		MaterialIndex: s.MaterialIndex,
		T:             t,
	}, true
}

func (s Sphere) Occluded(r geom.Ray) bool {
	_, ok := s.solve(r)
	return ok
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
