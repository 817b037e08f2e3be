package integrator

import (
	"github.com/yozhijk/Banshee/bsdf"
	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/material"
	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/sampler"
	"github.com/yozhijk/Banshee/types"
	"github.com/yozhijk/Banshee/world"
)

// Direct implements spec §4.7's direct-illumination estimator: emission at
// the first hit plus one MIS-weighted bounce toward every light, no
// recursion — except through a chain of perfect specular surfaces, which
// Direct follows exactly once: a mirror or glass surface has no light- or
// BSDF-sampling contribution of its own (Evaluate is zero everywhere on a
// delta distribution), so without following the one deterministic direction
// its Sample reports, every mirror and glass surface would render black.
type Direct struct{}

func (Direct) Li(ray geom.Ray, w *world.World, s sampler.Sampler) types.Vec3 {
	hit, ok := w.Intersect(ray)
	if !ok {
		return w.Le(ray.Dir)
	}

	le := w.Materials.Emission(hit.MaterialIndex)

	woWorld := ray.Dir.Negate()
	adapter := material.NewAdapter(hit, woWorld)
	bsdfObj := w.Materials.BSDF(hit.MaterialIndex)

	var l types.Vec3
	if bsdfObj.IsSingular() {
		l = le.Add(specularBounce(w, hit, adapter, bsdfObj, woWorld, s))
	} else {
		l = le.Add(directLighting(w, hit, adapter, bsdfObj, woWorld, s))
	}
	if !isFinite3(l) {
		return types.Vec3{}
	}
	return l
}

// specularBounce follows a single specular Sample direction and evaluates
// emission plus one NEE-only direct-lighting pass at the surface it lands
// on, scaled by the delta BSDF's f*cosTheta/pdf throughput factor. It does
// not recurse past that one bounce — a chain of two mirrors still renders
// the second one black, same as stopping at the first would — since Direct
// is a single-bounce estimator by contract.
func specularBounce(w *world.World, hit primitive.Hit, adapter material.Adapter, b bsdf.BSDF, woWorld types.Vec3, s sampler.Sampler) types.Vec3 {
	woLocal := adapter.ToLocal(woWorld)
	wiLocal, f, pdf, ok := b.Sample(woLocal, s.Sample2D())
	if !ok || pdf <= 0 {
		return types.Vec3{}
	}
	if f[0] == 0 && f[1] == 0 && f[2] == 0 {
		return types.Vec3{}
	}

	wiWorld := adapter.ToWorld(wiLocal)
	cosTheta := absf32(hit.N.Dot(wiWorld))
	scale := cosTheta / pdf

	bounceRay := geom.NewRay(geom.Offset(hit.P, hit.N, wiWorld), wiWorld, shadowEpsilon, 1e30)
	bounceHit, hitSomething := w.Intersect(bounceRay)
	if !hitSomething {
		return w.Le(wiWorld).MulVec(f).Mul(scale)
	}

	bounceLe := w.Materials.Emission(bounceHit.MaterialIndex)
	bounceWoWorld := wiWorld.Negate()
	bounceAdapter := material.NewAdapter(bounceHit, bounceWoWorld)
	bounceBSDF := w.Materials.BSDF(bounceHit.MaterialIndex)

	direct := directLightingNEE(w, bounceHit, bounceAdapter, bounceBSDF, bounceWoWorld, s)
	return bounceLe.Add(direct).MulVec(f).Mul(scale)
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
