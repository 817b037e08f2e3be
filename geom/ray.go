// Package geom defines the ray and bounding-box primitives shared by the
// primitive, accel and camera packages.
package geom

import "github.com/yozhijk/Banshee/types"

// Ray is a parametric ray with an active [TMin, TMax] interval. Direction is
// expected to be a unit vector; callers tighten TMax during traversal as
// closer hits are found.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3

	TMin float32
	TMax float32

	// InvDir and Sign are precomputed for the slab test (see bbox.go) and
	// are refreshed whenever Dir changes via NewRay.
	InvDir types.Vec3
	Sign   [3]int
}

// NewRay builds a ray over the interval [tMin, tMax] and precomputes the
// reciprocal direction used by the slab test.
func NewRay(origin, dir types.Vec3, tMin, tMax float32) Ray {
	inv := types.Vec3{1 / dir[0], 1 / dir[1], 1 / dir[2]}
	var sign [3]int
	for i := 0; i < 3; i++ {
		if inv[i] < 0 {
			sign[i] = 1
		}
	}
	return Ray{
		Origin: origin,
		Dir:    dir,
		TMin:   tMin,
		TMax:   tMax,
		InvDir: inv,
		Sign:   sign,
	}
}

// At returns the point along the ray at parameter t.
func (r Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Offset nudges the ray's origin by eps along n, oriented to face away from
// n's opposing incoming direction, to avoid self-intersection at the origin
// of shadow/continuation rays (spec §7, "occlusion-ray self-intersection").
func Offset(p, n types.Vec3, towards types.Vec3) types.Vec3 {
	maxComponent := p.Abs()
	scale := maxComponent[0]
	if maxComponent[1] > scale {
		scale = maxComponent[1]
	}
	if maxComponent[2] > scale {
		scale = maxComponent[2]
	}
	if scale < 1 {
		scale = 1
	}
	eps := float32(1e-4) * scale

	nOriented := n.FaceForward(towards)
	return p.Add(nOriented.Mul(eps))
}
