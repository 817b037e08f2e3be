// Package integrator implements the direct, ambient-occlusion and global
// illumination light transport estimators of spec §4.7, all sharing the
// same Li(ray, world, sampler) contract so the renderer can select one by
// name.
package integrator

import (
	"math"

	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/sampler"
	"github.com/yozhijk/Banshee/types"
	"github.com/yozhijk/Banshee/world"
)

// Integrator estimates the radiance arriving along a camera ray.
type Integrator interface {
	// Li returns the estimated radiance along ray, drawing whatever extra
	// random numbers it needs from s (already positioned within the current
	// pixel's stream by the caller).
	Li(ray geom.Ray, w *world.World, s sampler.Sampler) types.Vec3
}

const shadowEpsilon = 1e-4

// isFinite3 reports whether every component of v is finite (spec §7:
// "Numeric non-finite... clamp radiance to zero for that sample").
func isFinite3(v types.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(float64(v[i])) || math.IsInf(float64(v[i]), 0) {
			return false
		}
	}
	return true
}

func maxComponent(v types.Vec3) float32 {
	m := v[0]
	if v[1] > m {
		m = v[1]
	}
	if v[2] > m {
		m = v[2]
	}
	return m
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// shadowRay builds the occlusion-test ray from a shading point toward a
// light sample, offsetting the origin along the geometric normal to avoid
// self-intersection (spec §7).
func shadowRay(hit primitive.Hit, wi types.Vec3, distance float32) geom.Ray {
	origin := geom.Offset(hit.P, hit.N, wi)
	return geom.NewRay(origin, wi, shadowEpsilon, distance-shadowEpsilon)
}
