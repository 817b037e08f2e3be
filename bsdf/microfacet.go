package bsdf

import (
	"math"

	"github.com/yozhijk/Banshee/types"
)

// Distribution is a microfacet normal distribution function, grounded on
// original_source/FireRays/Banshee/bsdf/microfacet.h's MicrofacetDistribution
// interface (D/Sample/Pdf), extended with a G term per distribution so each
// implementation can supply the geometric-attenuation model that matches its
// D (spec §4.5).
type Distribution interface {
	// D evaluates the normal distribution at half vector wh (local frame).
	D(wh types.Vec3) float32

	// Sample draws a half vector wh with density proportional to D(wh)·cosθh.
	Sample(u types.Vec2) types.Vec3

	// Pdf returns the density Sample draws wh with.
	Pdf(wh types.Vec3) float32

	// G is the Smith-style shadowing-masking term for the pair (wo, wi).
	G(wo, wi types.Vec3) float32
}

// Microfacet is the Torrance-Sparrow BSDF: f = D·G·F / (4 cosθi cosθo),
// parametrized by a Distribution (spec §4.5).
type Microfacet struct {
	Albedo       types.Vec3
	Distribution Distribution
	EtaI, EtaT   float32
}

func (m Microfacet) IsSingular() bool { return false }

func halfVector(wo, wi types.Vec3) (types.Vec3, bool) {
	wh := wo.Add(wi)
	if wh.Len() < 1e-8 {
		return types.Vec3{}, false
	}
	wh = wh.Normalize()
	if wh[2] < 0 {
		wh = wh.Negate()
	}
	return wh, true
}

func (m Microfacet) Evaluate(wo, wi types.Vec3) (types.Vec3, float32) {
	if !sameHemisphere(wo, wi) {
		return types.Vec3{}, 0
	}
	cosO, cosI := absCosTheta(wo), absCosTheta(wi)
	if cosO < 1e-7 || cosI < 1e-7 {
		return types.Vec3{}, 0
	}
	wh, ok := halfVector(wo, wi)
	if !ok {
		return types.Vec3{}, 0
	}

	f := FresnelDielectric(wo.Dot(wh), m.EtaI, m.EtaT)
	d := m.Distribution.D(wh)
	g := m.Distribution.G(wo, wi)

	value := m.Albedo.Mul(d * g * f / (4 * cosI * cosO))
	pdf := m.Distribution.Pdf(wh) / (4 * absf32(wo.Dot(wh)))
	return value, pdf
}

func (m Microfacet) Pdf(wo, wi types.Vec3) float32 {
	if !sameHemisphere(wo, wi) {
		return 0
	}
	wh, ok := halfVector(wo, wi)
	if !ok {
		return 0
	}
	return m.Distribution.Pdf(wh) / (4 * absf32(wo.Dot(wh)))
}

func (m Microfacet) Sample(wo types.Vec3, u types.Vec2) (types.Vec3, types.Vec3, float32, bool) {
	if wo[2] == 0 {
		return types.Vec3{}, types.Vec3{}, 0, false
	}
	wh := m.Distribution.Sample(u)
	wi := wo.Reflect(wh)
	if !sameHemisphere(wo, wi) {
		return types.Vec3{}, types.Vec3{}, 0, false
	}
	f, pdf := m.Evaluate(wo, wi)
	if pdf <= 0 {
		return types.Vec3{}, types.Vec3{}, 0, false
	}
	return wi, f, pdf, true
}

// BlinnDistribution is the Blinn-Phong normal distribution, grounded on
// original_source/FireRays/Banshee/bsdf/microfacet.h's BlinnDistribution.
type BlinnDistribution struct {
	Exponent float32
}

func (d BlinnDistribution) D(wh types.Vec3) float32 {
	cosH := absCosTheta(wh)
	return (d.Exponent + 2) / (2 * math.Pi) * powf(cosH, d.Exponent)
}

func (d BlinnDistribution) Pdf(wh types.Vec3) float32 {
	return d.D(wh) * absCosTheta(wh)
}

func (d BlinnDistribution) Sample(u types.Vec2) types.Vec3 {
	cosTheta := powf(u[0], 1/(d.Exponent+2))
	sinTheta := float32(math.Sqrt(math.Max(0, float64(1-cosTheta*cosTheta))))
	phi := 2 * math.Pi * u[1]
	return types.Vec3{
		sinTheta * float32(math.Cos(float64(phi))),
		sinTheta * float32(math.Sin(float64(phi))),
		cosTheta,
	}
}

func (d BlinnDistribution) G(wo, wi types.Vec3) float32 {
	return classicG(wo, wi)
}

func classicG(wo, wi types.Vec3) float32 {
	wh, ok := halfVector(wo, wi)
	if !ok {
		return 0
	}
	nDotH := absCosTheta(wh)
	nDotO := absCosTheta(wo)
	nDotI := absCosTheta(wi)
	voDotH := absf32(wo.Dot(wh))
	if voDotH < 1e-7 {
		return 0
	}
	g := float32(math.Min(
		1,
		math.Min(
			float64(2*nDotH*nDotO/voDotH),
			float64(2*nDotH*nDotI/voDotH),
		),
	))
	return g
}

func powf(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}

// GGXDistribution is the Trowbridge-Reitz normal distribution with
// Smith-style shadowing-masking. Banshee's reference implementation only
// provides Blinn; GGX is this repo's addition per spec §4.5.
type GGXDistribution struct {
	Alpha float32
}

func (d GGXDistribution) D(wh types.Vec3) float32 {
	cosH := absCosTheta(wh)
	a2 := d.Alpha * d.Alpha
	denom := cosH*cosH*(a2-1) + 1
	return a2 / (math.Pi * denom * denom)
}

func (d GGXDistribution) Pdf(wh types.Vec3) float32 {
	return d.D(wh) * absCosTheta(wh)
}

func (d GGXDistribution) Sample(u types.Vec2) types.Vec3 {
	a2 := d.Alpha * d.Alpha
	cosTheta := float32(math.Sqrt(math.Max(0, float64((1-u[0])/(1+(a2-1)*u[0])))))
	sinTheta := float32(math.Sqrt(math.Max(0, float64(1-cosTheta*cosTheta))))
	phi := 2 * math.Pi * u[1]
	return types.Vec3{
		sinTheta * float32(math.Cos(float64(phi))),
		sinTheta * float32(math.Sin(float64(phi))),
		cosTheta,
	}
}

func (d GGXDistribution) lambda(w types.Vec3) float32 {
	cosT := absCosTheta(w)
	if cosT >= 1-1e-7 {
		return 0
	}
	sin2 := float32(math.Max(0, float64(1-cosT*cosT)))
	tan2Theta := sin2 / (cosT * cosT)
	return (-1 + float32(math.Sqrt(float64(1+d.Alpha*d.Alpha*tan2Theta)))) / 2
}

func (d GGXDistribution) G(wo, wi types.Vec3) float32 {
	return 1 / (1 + d.lambda(wo) + d.lambda(wi))
}
