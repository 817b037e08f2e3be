package bsdf

import "math"

// FresnelDielectric returns the unpolarized Fresnel reflectance for a
// dielectric interface, given the cosine of the incident angle (signed: the
// function handles the ray entering or leaving the denser medium) and the
// indices of refraction on either side (spec §4.5).
func FresnelDielectric(cosThetaI, etaI, etaT float32) float32 {
	cosI := clamp(cosThetaI, -1, 1)

	if cosI < 0 {
		etaI, etaT = etaT, etaI
		cosI = -cosI
	}

	sinThetaI := float32(math.Sqrt(math.Max(0, float64(1-cosI*cosI))))
	sinThetaT := etaI / etaT * sinThetaI
	if sinThetaT >= 1 {
		return 1 // total internal reflection
	}
	cosThetaT := float32(math.Sqrt(math.Max(0, float64(1-sinThetaT*sinThetaT))))

	rParl := ((etaT * cosI) - (etaI * cosThetaT)) / ((etaT * cosI) + (etaI * cosThetaT))
	rPerp := ((etaI * cosI) - (etaT * cosThetaT)) / ((etaI * cosI) + (etaT * cosThetaT))
	return (rParl*rParl + rPerp*rPerp) / 2
}

// FresnelSchlick is the cheap polynomial approximation to FresnelDielectric,
// used where the microfacet model calls for a fast Fresnel term.
func FresnelSchlick(cosTheta, r0 float32) float32 {
	c := clamp(1-cosTheta, 0, 1)
	c2 := c * c
	return r0 + (1-r0)*c2*c2*c
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
