// Package bsdf implements the local-frame reflectance models enumerated in
// spec §4.5: Lambertian, perfect specular reflect/refract, Torrance-Sparrow
// microfacet (Blinn and GGX distributions) and a weight-mixed composite.
//
// Every BSDF operates in a local shading frame where the surface normal is
// (0, 0, 1); material.Adapter builds the frame from a primitive.Hit and
// converts directions in and out of it (spec §4.5's backface-correction
// note). Directions passed to Evaluate/Sample/Pdf point away from the
// surface, matching the convention used throughout the original renderer
// this design is grounded on.
package bsdf

import (
	"math"

	"github.com/yozhijk/Banshee/types"
)

// BSDF is the tagged-variant interface implemented by each reflectance
// model (spec.md Design Notes: prefer small tagged variants over deep
// polymorphic hierarchies on the hot path — each concrete type here is a
// leaf, never composed by embedding).
type BSDF interface {
	// Evaluate returns f(wo, wi) and the pdf of sampling wi from wo via
	// Sample. Delta distributions return a zero f and pdf here; integrators
	// must branch on IsSingular before calling Evaluate.
	Evaluate(wo, wi types.Vec3) (f types.Vec3, pdf float32)

	// Sample draws a wi given wo and a uniform 2D sample, returning the BSDF
	// value, the pdf (meaningless for singular BSDFs, which use pdf = 1 by
	// convention), and whether a valid sample was produced.
	Sample(wo types.Vec3, u types.Vec2) (wi types.Vec3, f types.Vec3, pdf float32, ok bool)

	// Pdf evaluates the sampling density of wi given wo, consistent with
	// Sample. Used by the light-sampling half of MIS (spec §4.7).
	Pdf(wo, wi types.Vec3) float32

	// IsSingular reports whether the BSDF is a delta distribution: such
	// BSDFs are never reached via light sampling (the probability of
	// sampling the exact delta direction is zero) and never MIS-weighted
	// against a light-sampling pdf (spec §4.5, §4.6).
	IsSingular() bool
}

// Frame is an orthonormal shading frame built from a surface normal.
type Frame struct {
	T, B, N types.Vec3
}

// NewFrame builds a right-handed frame with N as the up axis, using the same
// branchless tangent construction as types.Basis.
func NewFrame(n types.Vec3) Frame {
	t, b := types.Basis(n)
	return Frame{T: t, B: b, N: n}
}

// ToLocal expresses a world-space direction in this frame.
func (f Frame) ToLocal(v types.Vec3) types.Vec3 {
	return types.Vec3{v.Dot(f.T), v.Dot(f.B), v.Dot(f.N)}
}

// ToWorld expresses a local-frame direction in world space.
func (f Frame) ToWorld(v types.Vec3) types.Vec3 {
	return f.T.Mul(v[0]).Add(f.B.Mul(v[1])).Add(f.N.Mul(v[2]))
}

func cosTheta(w types.Vec3) float32    { return w[2] }
func absCosTheta(w types.Vec3) float32 { return absf32(w[2]) }

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sameHemisphere(a, b types.Vec3) bool {
	return a[2]*b[2] > 0
}

// CosineSampleHemisphere maps u to a direction distributed proportional to
// cos θ over the hemisphere around local-frame z, via the concentric disk
// mapping.
func CosineSampleHemisphere(u types.Vec2) types.Vec3 {
	dx, dy := concentricSampleDisk(u)
	z := float32(math.Sqrt(math.Max(0, float64(1-dx*dx-dy*dy))))
	return types.Vec3{dx, dy, z}
}

// CosineHemispherePdf returns the pdf of a direction produced by
// CosineSampleHemisphere, in the same hemisphere.
func CosineHemispherePdf(cosThetaVal float32) float32 {
	return cosThetaVal / math.Pi
}

func concentricSampleDisk(u types.Vec2) (float32, float32) {
	ox := 2*u[0] - 1
	oy := 2*u[1] - 1
	if ox == 0 && oy == 0 {
		return 0, 0
	}
	var r, theta float32
	if absf32(ox) > absf32(oy) {
		r = ox
		theta = (math.Pi / 4) * (oy / ox)
	} else {
		r = oy
		theta = (math.Pi / 2) - (math.Pi/4)*(ox/oy)
	}
	return r * float32(math.Cos(float64(theta))), r * float32(math.Sin(float64(theta)))
}

// UniformSampleHemisphere maps u to a direction uniformly distributed over
// the hemisphere around local-frame z.
func UniformSampleHemisphere(u types.Vec2) types.Vec3 {
	z := u[0]
	r := float32(math.Sqrt(math.Max(0, float64(1-z*z))))
	phi := 2 * math.Pi * u[1]
	return types.Vec3{r * float32(math.Cos(float64(phi))), r * float32(math.Sin(float64(phi))), z}
}

// UniformHemispherePdf is the constant density of UniformSampleHemisphere.
func UniformHemispherePdf() float32 {
	return 1 / (2 * math.Pi)
}

// PowerHeuristic is the β=2 MIS weight from spec §4.7.
func PowerHeuristic(nf int, fPdf float32, ng int, gPdf float32) float32 {
	f := float32(nf) * fPdf
	g := float32(ng) * gPdf
	if f == 0 && g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}
