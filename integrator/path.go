package integrator

import (
	"github.com/yozhijk/Banshee/bsdf"
	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/material"
	"github.com/yozhijk/Banshee/sampler"
	"github.com/yozhijk/Banshee/types"
	"github.com/yozhijk/Banshee/world"
)

// defaultMinBounces is spec §4.7's bmin: Russian roulette never kicks in
// before this many bounces.
const defaultMinBounces = 3

// Path implements spec §4.7's global-illumination estimator: direct
// lighting at every bounce, extended by recursive BSDF sampling for the
// indirect term, with Russian roulette path termination after
// MinBounces (default 3).
type Path struct {
	MaxBounces int
	MinBounces int
}

// NewPath returns a GI integrator with the given bounce budget. A
// MaxBounces of 0 uses an effectively unbounded budget (Russian roulette
// still terminates paths stochastically).
func NewPath(maxBounces int) Path {
	return Path{MaxBounces: maxBounces, MinBounces: defaultMinBounces}
}

func (p Path) Li(ray geom.Ray, w *world.World, s sampler.Sampler) types.Vec3 {
	var l types.Vec3
	throughput := types.Vec3{1, 1, 1}
	currentRay := ray

	// specularBounce tracks whether currentRay was produced by a singular
	// BSDF sample (or is the primary camera ray): light sampling can never
	// reach a delta distribution, so NEE contributes nothing for it and the
	// emission found by following it must be added unweighted rather than
	// MIS-weighted against a light pdf that doesn't apply.
	specularBounce := true
	prevBsdfPdf := float32(1)
	prevPoint := ray.Origin

	maxBounces := p.MaxBounces
	if maxBounces <= 0 {
		maxBounces = 1 << 30
	}
	minBounces := p.MinBounces
	if minBounces <= 0 {
		minBounces = defaultMinBounces
	}

	for bounce := 0; bounce < maxBounces; bounce++ {
		hit, ok := w.Intersect(currentRay)
		if !ok {
			escaped := w.Le(currentRay.Dir).MulVec(throughput)
			l = l.Add(escaped)
			break
		}

		le := w.Materials.Emission(hit.MaterialIndex)
		if le[0] != 0 || le[1] != 0 || le[2] != 0 {
			weight := float32(1)
			if !specularBounce {
				if lightPdf := nonDeltaLightPdf(w, prevPoint, currentRay.Dir); lightPdf > 0 {
					weight = bsdf.PowerHeuristic(1, prevBsdfPdf, 1, lightPdf)
				} else {
					weight = 0
				}
			}
			l = l.Add(le.Mul(weight).MulVec(throughput))
		}

		woWorld := currentRay.Dir.Negate()
		adapter := material.NewAdapter(hit, woWorld)
		bsdfObj := w.Materials.BSDF(hit.MaterialIndex)

		// Next-event estimation only: the continuation ray sampled below
		// plays the BSDF-sampling half of MIS for this hit's direct
		// lighting, so it must not be estimated again here (that would count
		// every area light's contribution twice, once here and once when
		// the continuation ray lands on it above).
		direct := directLightingNEE(w, hit, adapter, bsdfObj, woWorld, s).MulVec(throughput)
		if isFinite3(direct) {
			l = l.Add(direct)
		}

		woLocal := adapter.ToLocal(woWorld)
		wiLocal, f, pdf, sampleOK := bsdfObj.Sample(woLocal, s.Sample2D())
		if !sampleOK || pdf <= 0 {
			break
		}
		if f[0] == 0 && f[1] == 0 && f[2] == 0 {
			break
		}

		wiWorld := adapter.ToWorld(wiLocal)
		cosTheta := absf(hit.N.Dot(wiWorld))

		throughput = throughput.MulVec(f).Mul(cosTheta / pdf)
		if !isFinite3(throughput) {
			break
		}

		if bounce >= minBounces {
			q := clampf(maxComponent(throughput), 0.05, 0.95)
			if s.Sample2D()[0] > q {
				break
			}
			throughput = throughput.Mul(1 / q)
		}

		specularBounce = bsdfObj.IsSingular()
		prevBsdfPdf = pdf
		prevPoint = hit.P

		origin := geom.Offset(hit.P, hit.N, wiWorld)
		currentRay = geom.NewRay(origin, wiWorld, shadowEpsilon, 1e30)
	}

	if !isFinite3(l) {
		return types.Vec3{}
	}
	return l
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
