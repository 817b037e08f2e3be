package bsdf

import (
	"math"

	"github.com/yozhijk/Banshee/types"
)

// Lambert is the ideal diffuse BSDF: f = ρ/π, cosine-weighted sampling
// (spec §4.5).
type Lambert struct {
	Albedo types.Vec3
}

func (l Lambert) IsSingular() bool { return false }

func (l Lambert) Evaluate(wo, wi types.Vec3) (types.Vec3, float32) {
	if !sameHemisphere(wo, wi) {
		return types.Vec3{}, 0
	}
	return l.Albedo.Mul(1 / math.Pi), CosineHemispherePdf(absCosTheta(wi))
}

func (l Lambert) Sample(wo types.Vec3, u types.Vec2) (types.Vec3, types.Vec3, float32, bool) {
	wi := CosineSampleHemisphere(u)
	if wo[2] < 0 {
		wi[2] = -wi[2]
	}
	f, pdf := l.Evaluate(wo, wi)
	return wi, f, pdf, pdf > 0
}

func (l Lambert) Pdf(wo, wi types.Vec3) float32 {
	if !sameHemisphere(wo, wi) {
		return 0
	}
	return CosineHemispherePdf(absCosTheta(wi))
}
