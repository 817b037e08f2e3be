package geom

import (
	"math"

	"github.com/yozhijk/Banshee/types"
)

// BBox is an axis-aligned bounding box. An empty box has Min = +Inf,
// Max = -Inf so that union with any box returns that box unchanged (spec §3).
type BBox struct {
	Min types.Vec3
	Max types.Vec3
}

// EmptyBBox returns the identity box for Union.
func EmptyBBox() BBox {
	return BBox{
		Min: types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// BBoxFromPoint returns a degenerate box containing a single point.
func BBoxFromPoint(p types.Vec3) BBox {
	return BBox{Min: p, Max: p}
}

// Union returns the smallest box containing both b and other.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		Min: types.MinVec3(b.Min, other.Min),
		Max: types.MaxVec3(b.Max, other.Max),
	}
}

// ExtendPoint grows the box to include p.
func (b BBox) ExtendPoint(p types.Vec3) BBox {
	return BBox{
		Min: types.MinVec3(b.Min, p),
		Max: types.MaxVec3(b.Max, p),
	}
}

// Center returns the box's centroid.
func (b BBox) Center() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Diagonal returns Max - Min.
func (b BBox) Diagonal() types.Vec3 {
	return b.Max.Sub(b.Min)
}

// SurfaceArea returns the total surface area of the box, used by the SAH
// cost model (spec §4.2). Degenerate (empty or planar) boxes return 0.
func (b BBox) SurfaceArea() float32 {
	d := b.Diagonal()
	if d[0] < 0 || d[1] < 0 || d[2] < 0 {
		return 0
	}
	return 2 * (d[0]*d[1] + d[1]*d[2] + d[0]*d[2])
}

// MaxExtentAxis returns the axis (0, 1 or 2) along which the box is widest.
func (b BBox) MaxExtentAxis() int {
	d := b.Diagonal()
	axis := 0
	if d[1] > d[axis] {
		axis = 1
	}
	if d[2] > d[axis] {
		axis = 2
	}
	return axis
}

// Overlaps reports whether b and other intersect, using the separating-axis
// test on each of the three box axes (spec.md Design Note (c): the correct
// componentwise disjoint-axis test, not the original's typo'd comparison).
func (b BBox) Overlaps(other BBox) bool {
	return b.Min[0] <= other.Max[0] && b.Max[0] >= other.Min[0] &&
		b.Min[1] <= other.Max[1] && b.Max[1] >= other.Min[1] &&
		b.Min[2] <= other.Max[2] && b.Max[2] >= other.Min[2]
}

// Intersection returns the box formed by clipping b to other. The result may
// be degenerate (Min > Max on some axis) if the boxes don't overlap.
func (b BBox) Intersection(other BBox) BBox {
	return BBox{
		Min: types.MaxVec3(b.Min, other.Min),
		Max: types.MinVec3(b.Max, other.Max),
	}
}

// Clip restricts the box along a single axis to [lo, hi].
func (b BBox) Clip(axis int, lo, hi float32) BBox {
	out := b
	if lo > out.Min[axis] {
		out.Min[axis] = lo
	}
	if hi < out.Max[axis] {
		out.Max[axis] = hi
	}
	return out
}

// IntersectRay performs the slab test using the ray's precomputed reciprocal
// direction and sign-bit trick (spec §4.1). It returns whether the box is hit
// within the ray's active interval, along with the near/far hit distances.
func (b BBox) IntersectRay(r Ray) (tNear, tFar float32, hit bool) {
	bounds := [2]types.Vec3{b.Min, b.Max}

	tmin := (bounds[r.Sign[0]][0] - r.Origin[0]) * r.InvDir[0]
	tmax := (bounds[1-r.Sign[0]][0] - r.Origin[0]) * r.InvDir[0]

	tymin := (bounds[r.Sign[1]][1] - r.Origin[1]) * r.InvDir[1]
	tymax := (bounds[1-r.Sign[1]][1] - r.Origin[1]) * r.InvDir[1]
	if tmin > tymax || tymin > tmax {
		return 0, 0, false
	}
	if tymin > tmin {
		tmin = tymin
	}
	if tymax < tmax {
		tmax = tymax
	}

	tzmin := (bounds[r.Sign[2]][2] - r.Origin[2]) * r.InvDir[2]
	tzmax := (bounds[1-r.Sign[2]][2] - r.Origin[2]) * r.InvDir[2]
	if tmin > tzmax || tzmin > tmax {
		return 0, 0, false
	}
	if tzmin > tmin {
		tmin = tzmin
	}
	if tzmax < tmax {
		tmax = tzmax
	}

	if tmax < r.TMin || tmin > r.TMax {
		return 0, 0, false
	}
	return tmin, tmax, true
}
