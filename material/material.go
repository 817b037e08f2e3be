// Package material maps a primitive.Hit and a material index to the BSDF
// the integrator should shade with, adapted from achilleasa-polaris's
// scene/material.go (MaterialType enum over Diffuse/Specular/Refractive/
// Emissive) and generalized to the richer BSDF library in package bsdf.
package material

import (
	"github.com/yozhijk/Banshee/bsdf"
	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/types"
)

// Kind tags which BSDF shape a Descriptor builds, following spec.md's
// preference for tagged variants over a deep material class hierarchy.
type Kind uint8

const (
	KindDiffuse Kind = iota
	KindSpecular
	KindRefractive
	KindPhong
	KindMicrofacet
	KindMix
)

// Distribution names the microfacet normal distribution a KindMicrofacet
// descriptor uses (spec §4.5: Blinn or GGX).
type Distribution uint8

const (
	DistributionBlinn Distribution = iota
	DistributionGGX
)

// Descriptor is the serializable, scene-authored description of a material;
// World.Commit resolves one into a concrete bsdf.BSDF per shading point.
type Descriptor struct {
	Kind Kind

	Albedo   types.Vec3 // diffuse/reflective/refractive base color
	Specular types.Vec3 // KindPhong's specular lobe color

	Emissive types.Vec3 // non-zero marks the material as a light emitter

	IOR          float32 // index of refraction (KindRefractive, KindPhong, KindMicrofacet)
	Roughness    float32 // Blinn exponent or GGX alpha
	Distribution Distribution

	// Mix blends two descriptors by index into the owning Library, weighted
	// by MixWeight (probability assigned to Mix[0]).
	Mix       [2]uint32
	MixWeight float32
}

// IsEmissive reports whether the descriptor contributes radiance directly
// (spec §4.7: `L = Le(x, wo) if primitive is emissive`).
func (d Descriptor) IsEmissive() bool {
	return d.Emissive[0] > 0 || d.Emissive[1] > 0 || d.Emissive[2] > 0
}

// Library owns every material descriptor in a world by stable index,
// matching the arena+index ownership model used for meshes (spec.md Design
// Notes).
type Library struct {
	Descriptors []Descriptor
}

// NewLibrary returns an empty material library.
func NewLibrary() *Library {
	return &Library{}
}

// Add appends a descriptor and returns its stable index.
func (l *Library) Add(d Descriptor) uint32 {
	idx := uint32(len(l.Descriptors))
	l.Descriptors = append(l.Descriptors, d)
	return idx
}

// Emission returns the emitted radiance of the material at index idx.
func (l *Library) Emission(idx uint32) types.Vec3 {
	if int(idx) >= len(l.Descriptors) {
		return types.Vec3{}
	}
	return l.Descriptors[idx].Emissive
}

// IsEmissive reports whether the material at idx emits.
func (l *Library) IsEmissive(idx uint32) bool {
	if int(idx) >= len(l.Descriptors) {
		return false
	}
	return l.Descriptors[idx].IsEmissive()
}

// BSDF builds the shading-time BSDF for the material at idx.
func (l *Library) BSDF(idx uint32) bsdf.BSDF {
	return l.build(l.Descriptors[idx])
}

func (l *Library) build(d Descriptor) bsdf.BSDF {
	switch d.Kind {
	case KindDiffuse:
		return bsdf.Lambert{Albedo: d.Albedo}
	case KindSpecular:
		return bsdf.PerfectReflect{Albedo: d.Albedo}
	case KindRefractive:
		return bsdf.PerfectRefract{Albedo: d.Albedo, EtaI: 1, EtaT: d.IOR}
	case KindPhong:
		return NewPhong(d.Albedo, d.Specular, d.IOR)
	case KindMicrofacet:
		var dist bsdf.Distribution
		if d.Distribution == DistributionGGX {
			dist = bsdf.GGXDistribution{Alpha: d.Roughness}
		} else {
			dist = bsdf.BlinnDistribution{Exponent: d.Roughness}
		}
		return bsdf.Microfacet{Albedo: d.Albedo, Distribution: dist, EtaI: 1, EtaT: d.IOR}
	case KindMix:
		a := l.build(l.Descriptors[d.Mix[0]])
		b := l.build(l.Descriptors[d.Mix[1]])
		return bsdf.NewMix(
			bsdf.Weighted{Weight: d.MixWeight, BSDF: a},
			bsdf.Weighted{Weight: 1 - d.MixWeight, BSDF: b},
		)
	default:
		return bsdf.Lambert{Albedo: d.Albedo}
	}
}

// Adapter builds the shading frame for a hit, applying the backface
// correction spec §4.5 requires: the frame's normal is flipped to the side
// the viewing direction arrived from, so a BSDF implemented purely in terms
// of a canonical local +z hemisphere behaves correctly when traced through a
// double-sided surface.
type Adapter struct {
	Frame bsdf.Frame
}

// NewAdapter builds an Adapter from a hit and the world-space direction
// pointing back toward the ray's origin (i.e. -ray.Dir).
func NewAdapter(hit primitive.Hit, woWorld types.Vec3) Adapter {
	n := hit.N
	if n.Dot(woWorld) < 0 {
		n = n.Negate()
	}
	return Adapter{Frame: bsdf.NewFrame(n)}
}

// ToLocal converts a world-space direction into the adapter's shading frame.
func (a Adapter) ToLocal(v types.Vec3) types.Vec3 { return a.Frame.ToLocal(v) }

// ToWorld converts a local-frame direction back to world space.
func (a Adapter) ToWorld(v types.Vec3) types.Vec3 { return a.Frame.ToWorld(v) }
