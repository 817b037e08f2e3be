package integrator

import (
	"github.com/yozhijk/Banshee/bsdf"
	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/sampler"
	"github.com/yozhijk/Banshee/types"
	"github.com/yozhijk/Banshee/world"
)

// AmbientOcclusion implements spec §4.7's ambient-occlusion estimator:
// materials are ignored entirely; the result is the fraction of K
// cosine-weighted hemisphere rays, clamped to radius R, that escape without
// hitting anything.
type AmbientOcclusion struct {
	Samples int     // K
	Radius  float32 // R
}

// NewAmbientOcclusion returns an AO integrator with the given ray count and
// occlusion radius.
func NewAmbientOcclusion(samples int, radius float32) AmbientOcclusion {
	return AmbientOcclusion{Samples: samples, Radius: radius}
}

func (a AmbientOcclusion) Li(ray geom.Ray, w *world.World, s sampler.Sampler) types.Vec3 {
	hit, ok := w.Intersect(ray)
	if !ok {
		return w.Le(ray.Dir)
	}

	n := hit.N.FaceForward(ray.Dir.Negate())
	frame := bsdf.NewFrame(n)

	k := a.Samples
	if k <= 0 {
		k = 1
	}

	unoccluded := 0
	for i := 0; i < k; i++ {
		u := s.Sample2D()
		localDir := bsdf.CosineSampleHemisphere(u)
		wi := frame.ToWorld(localDir)

		origin := geom.Offset(hit.P, hit.N, wi)
		r := geom.NewRay(origin, wi, shadowEpsilon, a.Radius)
		if !w.Occluded(r) {
			unoccluded++
		}
	}

	fraction := float32(unoccluded) / float32(k)
	return types.Vec3{fraction, fraction, fraction}
}
