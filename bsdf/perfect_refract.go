package bsdf

import "github.com/yozhijk/Banshee/types"

// PerfectRefract is the delta-distribution dielectric BSDF: Snell
// transmission with a fallback to perfect reflection under total internal
// reflection (spec §4.5).
type PerfectRefract struct {
	Albedo types.Vec3
	EtaI   float32 // IOR on the wo side, i.e. outside the surface
	EtaT   float32 // IOR on the far side, i.e. inside the surface
}

func (r PerfectRefract) IsSingular() bool { return true }

func (r PerfectRefract) Evaluate(wo, wi types.Vec3) (types.Vec3, float32) {
	return types.Vec3{}, 0
}

func (r PerfectRefract) Pdf(wo, wi types.Vec3) float32 {
	return 0
}

func (r PerfectRefract) Sample(wo types.Vec3, u types.Vec2) (types.Vec3, types.Vec3, float32, bool) {
	entering := cosTheta(wo) > 0
	n := types.Vec3{0, 0, 1}
	etaI, etaT := r.EtaI, r.EtaT
	if !entering {
		n = n.Negate()
		etaI, etaT = etaT, etaI
	}

	eta := etaI / etaT
	wi, ok := wo.Refract(n, eta)
	if !ok {
		// Total internal reflection: fall back to a mirror bounce instead of
		// absorbing the path.
		mirror := types.Vec3{-wo[0], -wo[1], wo[2]}
		if absCosTheta(mirror) < 1e-7 {
			return types.Vec3{}, types.Vec3{}, 0, false
		}
		return mirror, r.Albedo.Mul(1 / absCosTheta(mirror)), 1, true
	}

	if absCosTheta(wi) < 1e-7 {
		return types.Vec3{}, types.Vec3{}, 0, false
	}

	// Radiance scales by eta^2 when crossing between media of different
	// index of refraction (non-symmetric transport, spec.md's note that the
	// core tracks radiance rather than importance).
	f := r.Albedo.Mul(eta * eta / absCosTheta(wi))
	return wi, f, 1, true
}
