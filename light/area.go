package light

import (
	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/types"
)

// Area is a light backed by an emissive primitive, sampled uniformly by
// area (spec §4.6: `pdf_sa = dist²/(|cosθ_q|·A)`). It stores the primitive
// by value/interface rather than by an index into a shared arena — unlike
// meshes, a light's backing primitive isn't duplicated across BVH
// references, so there's no aliasing hazard to guard against here (spec.md
// Design Notes).
type Area struct {
	Primitive primitive.Primitive
	Radiance  types.Vec3
}

func (a Area) IsDelta() bool { return false }

func (a Area) SampleLi(shadingPoint, n types.Vec3, u types.Vec2) (Sample, bool) {
	q, nq, pdfArea := a.Primitive.Sample(u)
	if pdfArea <= 0 {
		return Sample{}, false
	}

	d := q.Sub(shadingPoint)
	dist2 := d.Dot(d)
	if dist2 < 1e-12 {
		return Sample{}, false
	}
	dist := float32(sqrt(dist2))
	wi := d.Mul(1 / dist)

	cosThetaQ := nq.Dot(wi.Negate())
	if cosThetaQ <= 1e-6 {
		return Sample{}, false
	}

	pdfSA := dist2 * pdfArea / cosThetaQ
	if pdfSA <= 0 {
		return Sample{}, false
	}

	return Sample{Wi: wi, Distance: dist, Li: a.Radiance, Pdf: pdfSA}, true
}

// Pdf traces toward the primitive to find the solid-angle density of wi,
// used when a BSDF-sampled bounce happens to land on this light (spec
// §4.7's MIS weighting of the BSDF-sampling strategy).
func (a Area) Pdf(shadingPoint, wi types.Vec3) float32 {
	r := geom.NewRay(shadingPoint, wi, 1e-4, infiniteDistance)
	hit, ok := a.Primitive.Intersect(r)
	if !ok {
		return 0
	}
	area := a.Primitive.Area()
	if area <= 0 {
		return 0
	}
	cosThetaQ := hit.N.Dot(wi.Negate())
	if cosThetaQ <= 1e-6 {
		return 0
	}
	return (hit.T * hit.T) / (cosThetaQ * area)
}
