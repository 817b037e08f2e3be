package primitive

import (
	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/types"
)

// Instance wraps an inner primitive with a world transform, re-expressing
// rays in the inner primitive's local space for intersection and
// transforming the resulting hit back to world space (spec §4.1). Normals
// transform by the inverse-transpose of the instance's transform.
type Instance struct {
	Inner Primitive

	Transform       types.Mat4
	InvTransform    types.Mat4
	InvTransposeRot types.Mat4 // inverse-transpose of the upper 3x3, for normals
}

// NewInstance builds an Instance, precomputing the inverse and
// inverse-transpose matrices used during traversal.
func NewInstance(inner Primitive, xform types.Mat4) *Instance {
	inv := xform.Inv()
	return &Instance{
		Inner:           inner,
		Transform:       xform,
		InvTransform:    inv,
		InvTransposeRot: inv.Transpose(),
	}
}

func (i *Instance) Kind() Kind { return KindInstance }

func (i *Instance) Bounds() geom.BBox {
	inner := i.Inner.Bounds()
	// Transform all 8 corners and take their bounds; a tight re-fit isn't
	// attempted since instances are leaves in the top-level accel structure.
	box := geom.EmptyBBox()
	for _, corner := range corners(inner) {
		box = box.ExtendPoint(i.Transform.MulPoint(corner))
	}
	return box
}

func corners(b geom.BBox) [8]types.Vec3 {
	return [8]types.Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
	}
}

func (i *Instance) toLocal(r geom.Ray) geom.Ray {
	localOrigin := i.InvTransform.MulPoint(r.Origin)
	localDir := i.InvTransform.MulDir(r.Dir)
	return geom.NewRay(localOrigin, localDir, r.TMin, r.TMax)
}

func (i *Instance) Intersect(r geom.Ray) (Hit, bool) {
	localRay := i.toLocal(r)
	hit, ok := i.Inner.Intersect(localRay)
	if !ok {
		return Hit{}, false
	}

	hit.P = i.Transform.MulPoint(hit.P)
	hit.N = i.InvTransposeRot.MulDir(hit.N).Normalize()
	hit.Dpdu = i.Transform.MulDir(hit.Dpdu)
	hit.Dpdv = i.Transform.MulDir(hit.Dpdv)
	return hit, true
}

func (i *Instance) Occluded(r geom.Ray) bool {
	return i.Inner.Occluded(i.toLocal(r))
}

func (i *Instance) Area() float32 {
	// Approximate: scale-invariant callers (area lights) should sample the
	// inner primitive directly and transform the result instead of relying
	// on this; exposed for interface completeness.
	return i.Inner.Area()
}

func (i *Instance) Sample(u types.Vec2) (types.Vec3, types.Vec3, float32) {
	p, n, pdf := i.Inner.Sample(u)
	return i.Transform.MulPoint(p), i.InvTransposeRot.MulDir(n).Normalize(), pdf
}
