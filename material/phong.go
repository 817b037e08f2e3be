package material

import (
	"github.com/yozhijk/Banshee/bsdf"
	"github.com/yozhijk/Banshee/types"
)

// Phong combines a Lambert diffuse lobe with a perfect-specular lobe,
// blended by a Fresnel-dielectric weight, grounded directly on
// original_source/FireRays/Banshee/material/phong.h.
//
// The original's Sample and Evaluate both draw a fresh random number and
// branch on it to pick diffuse vs specular. That's correct Monte Carlo
// practice inside Sample (a sampling strategy is allowed to be stochastic)
// but is a bug inside Evaluate: Evaluate must be a deterministic function of
// (wo, wi) since the integrator calls it to weight a direction it already
// chose by other means (e.g. light sampling) — reevaluating it with fresh
// randomness breaks MIS's bookkeeping. Evaluate here is the deterministic
// weighted sum instead.
type Phong struct {
	Diffuse  bsdf.Lambert
	Specular bsdf.PerfectReflect
	Eta      float32
}

func NewPhong(diffuse, specular types.Vec3, eta float32) Phong {
	return Phong{
		Diffuse:  bsdf.Lambert{Albedo: diffuse},
		Specular: bsdf.PerfectReflect{Albedo: specular},
		Eta:      eta,
	}
}

func (p Phong) IsSingular() bool { return false }

func (p Phong) fresnel(wo types.Vec3) float32 {
	return bsdf.FresnelDielectric(wo[2], 1, p.Eta)
}

// Evaluate is the deterministic weighted sum `r*specular.Evaluate +
// (1-r)*diffuse.Evaluate`. The specular term is always zero since
// PerfectReflect is a delta distribution, so this reduces to the diffuse
// lobe scaled by the fraction of energy Fresnel didn't send to the mirror
// lobe — exactly the Lambertian behavior a Phong material should expose to
// light sampling.
func (p Phong) Evaluate(wo, wi types.Vec3) (types.Vec3, float32) {
	r := p.fresnel(wo)
	specF, specPdf := p.Specular.Evaluate(wo, wi)
	diffF, diffPdf := p.Diffuse.Evaluate(wo, wi)
	f := specF.Mul(r).Add(diffF.Mul(1 - r))
	pdf := r*specPdf + (1-r)*diffPdf
	return f, pdf
}

func (p Phong) Pdf(wo, wi types.Vec3) float32 {
	r := p.fresnel(wo)
	return r*p.Specular.Pdf(wo, wi) + (1-r)*p.Diffuse.Pdf(wo, wi)
}

// Sample reproduces the original's stochastic strategy choice: pick the
// specular lobe with probability r, otherwise the diffuse lobe. u[0] is
// reused as the strategy-selection random variable and remapped into the
// chosen lobe's own sample space, so only one 2D sample is required per
// call.
func (p Phong) Sample(wo types.Vec3, u types.Vec2) (types.Vec3, types.Vec3, float32, bool) {
	r := p.fresnel(wo)
	if u[0] < r {
		remapped := types.Vec2{u[0] / r, u[1]}
		return p.Specular.Sample(wo, remapped)
	}
	remapped := types.Vec2{(u[0] - r) / (1 - r), u[1]}
	return p.Diffuse.Sample(wo, remapped)
}
