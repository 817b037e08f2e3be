// Package light implements the point, directional, area and environment
// light sources of spec §4.6, sharing a single sampling contract:
// (wi_world, distance, Li, pdf_sa).
package light

import "github.com/yozhijk/Banshee/types"

// Sample is the result of sampling a light from a shading point.
type Sample struct {
	Wi       types.Vec3 // world-space direction from the shading point to the light
	Distance float32    // distance to travel along Wi before reaching the light (visibility ray tmax)
	Li       types.Vec3 // incident radiance, ignoring occlusion
	Pdf      float32    // solid-angle pdf of Wi
}

// Light is the tagged-variant interface every light type implements.
// Delta lights (point, directional) have zero measure and are never
// reachable by BSDF sampling, so Pdf always returns 0 for them and the
// integrator must skip MIS weighting on their contribution (spec §4.6,
// §4.7).
type Light interface {
	// SampleLi samples an incident direction from p (whose surface normal is
	// n) toward the light. ok is false if the light contributes nothing from
	// this point (e.g. the point coincides with a point light, or an area
	// light sampled a point on its own back face).
	SampleLi(p, n types.Vec3, u types.Vec2) (Sample, bool)

	// Pdf returns the solid-angle density of sampling direction wi from p via
	// SampleLi, for the light-independent half of MIS (spec §4.7). Always 0
	// for delta lights.
	Pdf(p, wi types.Vec3) float32

	// IsDelta reports whether the light has zero angular measure.
	IsDelta() bool
}
