package integrator

import (
	"github.com/yozhijk/Banshee/bsdf"
	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/light"
	"github.com/yozhijk/Banshee/material"
	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/sampler"
	"github.com/yozhijk/Banshee/types"
	"github.com/yozhijk/Banshee/world"
)

// directLighting estimates the single-bounce direct illumination at hit via
// multiple importance sampling between every light in the scene and the
// BSDF itself (spec §4.7's direct-illumination pseudocode): one
// light-sampling estimate per light, plus a single BSDF-sampling estimate
// weighted against the combined pdf of every non-delta light for the
// direction actually sampled. Used by integrators that don't continue the
// path themselves (Direct); Path uses directLightingNEE instead and folds
// the BSDF-sampling half into its own continuation ray.
func directLighting(w *world.World, hit primitive.Hit, adapter material.Adapter, b bsdf.BSDF, woWorld types.Vec3, s sampler.Sampler) types.Vec3 {
	l := directLightingNEE(w, hit, adapter, b, woWorld, s)
	if !b.IsSingular() {
		l = l.Add(estimateBSDF(w, hit, adapter, b, woWorld, s.Sample2D()))
	}
	return l
}

// directLightingNEE is the next-event-estimation half of directLighting on
// its own: one light-sampling estimate per light, with no BSDF-sampling
// counterpart. Path calls this instead of directLighting because its own
// path continuation ray already plays the BSDF-sampling half's role
// (weighted against the light pdf at the bounce it lands on) — running both
// an extra look-ahead BSDF sample here and the continuation ray would count
// every area light's contribution twice.
func directLightingNEE(w *world.World, hit primitive.Hit, adapter material.Adapter, b bsdf.BSDF, woWorld types.Vec3, s sampler.Sampler) types.Vec3 {
	var l types.Vec3
	for _, lt := range w.Lights {
		l = l.Add(estimateLight(w, lt, hit, adapter, b, woWorld, s.Sample2D()))
	}
	return l
}

// estimateLight is the light-sampling half of MIS: sample a direction toward
// lt, evaluate the BSDF at that direction, weight by the power heuristic
// against the BSDF's own pdf for the same direction.
func estimateLight(w *world.World, lt light.Light, hit primitive.Hit, adapter material.Adapter, b bsdf.BSDF, woWorld types.Vec3, u types.Vec2) types.Vec3 {
	ls, ok := lt.SampleLi(hit.P, hit.N, u)
	if !ok || ls.Pdf <= 0 {
		return types.Vec3{}
	}
	if ls.Li[0] == 0 && ls.Li[1] == 0 && ls.Li[2] == 0 {
		return types.Vec3{}
	}

	cosTheta := hit.N.Dot(ls.Wi)
	if cosTheta <= 0 {
		return types.Vec3{}
	}

	woLocal := adapter.ToLocal(woWorld)
	wiLocal := adapter.ToLocal(ls.Wi)
	f, bsdfPdf := b.Evaluate(woLocal, wiLocal)
	if f[0] == 0 && f[1] == 0 && f[2] == 0 {
		return types.Vec3{}
	}

	if w.Occluded(shadowRay(hit, ls.Wi, ls.Distance)) {
		return types.Vec3{}
	}

	weight := float32(1)
	if !lt.IsDelta() {
		weight = bsdf.PowerHeuristic(1, ls.Pdf, 1, bsdfPdf)
	}

	contrib := ls.Li.MulVec(f).Mul(cosTheta * weight / ls.Pdf)
	if !isFinite3(contrib) {
		return types.Vec3{}
	}
	return contrib
}

// estimateBSDF is the BSDF-sampling half of MIS: sample a bounce direction
// from the BSDF once, trace it, and if it lands on an emissive surface or
// escapes into the environment, weight the contribution against the
// combined light-sampling pdf every non-delta light would have assigned to
// the same direction (spec §4.6, §4.7, §8: delta lights are never
// MIS-weighted, so they contribute 0 to that sum by construction).
func estimateBSDF(w *world.World, hit primitive.Hit, adapter material.Adapter, b bsdf.BSDF, woWorld types.Vec3, u types.Vec2) types.Vec3 {
	woLocal := adapter.ToLocal(woWorld)
	wiLocal, f, bsdfPdf, ok := b.Sample(woLocal, u)
	if !ok || bsdfPdf <= 0 {
		return types.Vec3{}
	}
	if f[0] == 0 && f[1] == 0 && f[2] == 0 {
		return types.Vec3{}
	}

	wiWorld := adapter.ToWorld(wiLocal)
	cosTheta := hit.N.Dot(wiWorld)
	if cosTheta <= 0 {
		return types.Vec3{}
	}

	ray := geom.NewRay(geom.Offset(hit.P, hit.N, wiWorld), wiWorld, shadowEpsilon, 1e30)
	bounceHit, hitSomething := w.Intersect(ray)

	var le types.Vec3
	if hitSomething {
		le = w.Materials.Emission(bounceHit.MaterialIndex)
	} else if w.Environment != nil {
		le = w.Environment.Le(wiWorld)
	}
	if le[0] == 0 && le[1] == 0 && le[2] == 0 {
		return types.Vec3{}
	}

	lightPdf := nonDeltaLightPdf(w, hit.P, wiWorld)
	if lightPdf <= 0 {
		return types.Vec3{}
	}

	weight := bsdf.PowerHeuristic(1, bsdfPdf, 1, lightPdf)
	contrib := le.MulVec(f).Mul(cosTheta * weight / bsdfPdf)
	if !isFinite3(contrib) {
		return types.Vec3{}
	}
	return contrib
}

// nonDeltaLightPdf sums the light-sampling pdf every non-delta light in the
// scene would assign to direction wi from p, for MIS-weighting a
// BSDF-sampled direction against the equivalent NEE draw (spec §4.7). Delta
// lights contribute 0, since they're never reached by light-sampling a
// direction (their pdf over directions is a delta, not a density).
func nonDeltaLightPdf(w *world.World, p, wi types.Vec3) float32 {
	var pdf float32
	for _, lt := range w.Lights {
		if lt.IsDelta() {
			continue
		}
		pdf += lt.Pdf(p, wi)
	}
	return pdf
}
