package material

import (
	"testing"

	"github.com/yozhijk/Banshee/bsdf"
	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/types"
)

func TestLibraryAddReturnsStableIndices(t *testing.T) {
	lib := NewLibrary()
	a := lib.Add(Descriptor{Kind: KindDiffuse, Albedo: types.Vec3{1, 0, 0}})
	b := lib.Add(Descriptor{Kind: KindSpecular, Albedo: types.Vec3{0, 1, 0}})

	if a != 0 || b != 1 {
		t.Fatalf("expected sequential stable indices 0, 1; got %d, %d", a, b)
	}
	if lib.Descriptors[a].Kind != KindDiffuse || lib.Descriptors[b].Kind != KindSpecular {
		t.Fatalf("expected Add to preserve each descriptor at its returned index")
	}
}

func TestIsEmissiveDetectsNonZeroEmission(t *testing.T) {
	lib := NewLibrary()
	dark := lib.Add(Descriptor{Kind: KindDiffuse})
	bright := lib.Add(Descriptor{Kind: KindDiffuse, Emissive: types.Vec3{5, 5, 5}})

	if lib.IsEmissive(dark) {
		t.Fatalf("expected a material with zero Emissive to not be emissive")
	}
	if !lib.IsEmissive(bright) {
		t.Fatalf("expected a material with nonzero Emissive to be emissive")
	}
	if lib.Emission(bright) != (types.Vec3{5, 5, 5}) {
		t.Fatalf("expected Emission to return the descriptor's Emissive field")
	}
}

func TestIsEmissiveOutOfRangeIsFalse(t *testing.T) {
	lib := NewLibrary()
	if lib.IsEmissive(99) {
		t.Fatalf("expected an out-of-range index to report not emissive rather than panic")
	}
	if lib.Emission(99) != (types.Vec3{}) {
		t.Fatalf("expected an out-of-range index to return zero emission")
	}
}

func TestBSDFBuildsExpectedConcreteType(t *testing.T) {
	lib := NewLibrary()

	diffuse := lib.Add(Descriptor{Kind: KindDiffuse, Albedo: types.Vec3{1, 1, 1}})
	if _, ok := lib.BSDF(diffuse).(bsdf.Lambert); !ok {
		t.Fatalf("expected KindDiffuse to build a bsdf.Lambert")
	}

	specular := lib.Add(Descriptor{Kind: KindSpecular, Albedo: types.Vec3{1, 1, 1}})
	if _, ok := lib.BSDF(specular).(bsdf.PerfectReflect); !ok {
		t.Fatalf("expected KindSpecular to build a bsdf.PerfectReflect")
	}

	refractive := lib.Add(Descriptor{Kind: KindRefractive, Albedo: types.Vec3{1, 1, 1}, IOR: 1.5})
	if _, ok := lib.BSDF(refractive).(bsdf.PerfectRefract); !ok {
		t.Fatalf("expected KindRefractive to build a bsdf.PerfectRefract")
	}

	phong := lib.Add(Descriptor{Kind: KindPhong, Albedo: types.Vec3{0.5, 0.5, 0.5}, Specular: types.Vec3{1, 1, 1}, IOR: 1.5})
	if _, ok := lib.BSDF(phong).(Phong); !ok {
		t.Fatalf("expected KindPhong to build a material.Phong")
	}

	blinn := lib.Add(Descriptor{Kind: KindMicrofacet, Distribution: DistributionBlinn, Roughness: 20, IOR: 1.5})
	mf, ok := lib.BSDF(blinn).(bsdf.Microfacet)
	if !ok {
		t.Fatalf("expected KindMicrofacet to build a bsdf.Microfacet")
	}
	if _, ok := mf.Distribution.(bsdf.BlinnDistribution); !ok {
		t.Fatalf("expected DistributionBlinn to select bsdf.BlinnDistribution")
	}

	ggx := lib.Add(Descriptor{Kind: KindMicrofacet, Distribution: DistributionGGX, Roughness: 0.3, IOR: 1.5})
	mf2 := lib.BSDF(ggx).(bsdf.Microfacet)
	if _, ok := mf2.Distribution.(bsdf.GGXDistribution); !ok {
		t.Fatalf("expected DistributionGGX to select bsdf.GGXDistribution")
	}
}

func TestBSDFMixBlendsTwoSubMaterials(t *testing.T) {
	lib := NewLibrary()
	diffuse := lib.Add(Descriptor{Kind: KindDiffuse, Albedo: types.Vec3{1, 0, 0}})
	specular := lib.Add(Descriptor{Kind: KindSpecular, Albedo: types.Vec3{0, 1, 0}})
	mix := lib.Add(Descriptor{Kind: KindMix, Mix: [2]uint32{diffuse, specular}, MixWeight: 0.25})

	m, ok := lib.BSDF(mix).(*bsdf.Mix)
	if !ok {
		t.Fatalf("expected KindMix to build a *bsdf.Mix")
	}
	if len(m.Components) != 2 {
		t.Fatalf("expected a two-component mix; got %d", len(m.Components))
	}
}

// TestPhongEvaluateIsDeterministic guards the fixed Evaluate/Sample split
// (spec.md SUPPLEMENTED FEATURES): calling Evaluate twice with the same
// (wo, wi) must return identical results, unlike the original's
// randomized-branch Evaluate.
func TestPhongEvaluateIsDeterministic(t *testing.T) {
	p := NewPhong(types.Vec3{0.6, 0.6, 0.6}, types.Vec3{0.3, 0.3, 0.3}, 1.5)
	wo := types.Vec3{0, 0, 1}
	wi := types.Vec3{0.1, 0, 0.99}

	f1, pdf1 := p.Evaluate(wo, wi)
	f2, pdf2 := p.Evaluate(wo, wi)
	if f1 != f2 || pdf1 != pdf2 {
		t.Fatalf("expected Phong.Evaluate to be a deterministic function of (wo, wi); got (%v,%f) then (%v,%f)", f1, pdf1, f2, pdf2)
	}
}

func TestPhongSampleStaysInHemisphere(t *testing.T) {
	p := NewPhong(types.Vec3{0.6, 0.6, 0.6}, types.Vec3{0.3, 0.3, 0.3}, 1.5)
	wo := types.Vec3{0, 0, 1}

	for _, u := range []types.Vec2{{0.1, 0.2}, {0.5, 0.5}, {0.9, 0.8}} {
		wi, _, _, ok := p.Sample(wo, u)
		if !ok {
			t.Fatalf("expected Phong.Sample to succeed for u=%v", u)
		}
		if wi[2] <= 0 {
			t.Fatalf("expected sampled direction to stay on wo's side of the surface; got wi=%v for u=%v", wi, u)
		}
	}
}

func TestAdapterFlipsNormalToFaceViewer(t *testing.T) {
	hit := primitive.Hit{N: types.Vec3{0, 0, -1}}
	woWorld := types.Vec3{0, 0, 1} // viewer is on the +z side

	a := NewAdapter(hit, woWorld)
	if a.Frame.N.Dot(woWorld) < 0 {
		t.Fatalf("expected the adapter's shading normal to be flipped toward the viewer; got N=%v", a.Frame.N)
	}
}

func TestAdapterKeepsNormalWhenAlreadyFacingViewer(t *testing.T) {
	hit := primitive.Hit{N: types.Vec3{0, 0, 1}}
	woWorld := types.Vec3{0, 0, 1}

	a := NewAdapter(hit, woWorld)
	if a.Frame.N != hit.N {
		t.Fatalf("expected the adapter to leave an already-front-facing normal unchanged; got %v", a.Frame.N)
	}
}
