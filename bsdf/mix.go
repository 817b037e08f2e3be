package bsdf

import "github.com/yozhijk/Banshee/types"

// Weighted pairs a sub-BSDF with its mixture weight.
type Weighted struct {
	Weight float32
	BSDF   BSDF
}

// Mix selects among its components with probability proportional to weight,
// grounded on spec §4.5's mix contract and on
// achilleasa-polaris/scene/compiler/compiler.go's Fresnel-blend material
// node (SetBlendFunc), generalized here to an arbitrary weighted list rather
// than a hardcoded two-way Fresnel blend.
type Mix struct {
	Components []Weighted
	total      float32
}

// NewMix precomputes the weight normalization constant.
func NewMix(components ...Weighted) *Mix {
	var total float32
	for _, c := range components {
		total += c.Weight
	}
	return &Mix{Components: components, total: total}
}

func (m *Mix) IsSingular() bool {
	if len(m.Components) == 0 {
		return false
	}
	for _, c := range m.Components {
		if !c.BSDF.IsSingular() {
			return false
		}
	}
	return true
}

func (m *Mix) Evaluate(wo, wi types.Vec3) (types.Vec3, float32) {
	if m.total <= 0 {
		return types.Vec3{}, 0
	}
	var f types.Vec3
	var pdf float32
	for _, c := range m.Components {
		if c.BSDF.IsSingular() {
			continue
		}
		w := c.Weight / m.total
		cf, cpdf := c.BSDF.Evaluate(wo, wi)
		f = f.Add(cf.Mul(w))
		pdf += w * cpdf
	}
	return f, pdf
}

func (m *Mix) Pdf(wo, wi types.Vec3) float32 {
	if m.total <= 0 {
		return 0
	}
	var pdf float32
	for _, c := range m.Components {
		if c.BSDF.IsSingular() {
			continue
		}
		pdf += (c.Weight / m.total) * c.BSDF.Pdf(wo, wi)
	}
	return pdf
}

// Sample picks a component proportional to weight using u[0] and remaps the
// remainder into a fresh 2D sample for the chosen component. When the chosen
// component isn't a delta distribution, the returned pdf is recomputed as
// the true mixture density (spec §4.5: pdf = Σ wk·pdf_k) rather than just
// the chosen component's own pdf.
func (m *Mix) Sample(wo types.Vec3, u types.Vec2) (types.Vec3, types.Vec3, float32, bool) {
	if m.total <= 0 || len(m.Components) == 0 {
		return types.Vec3{}, types.Vec3{}, 0, false
	}

	target := u[0] * m.total
	var cum float32
	var chosen Weighted
	for i, c := range m.Components {
		if i == len(m.Components)-1 || target < cum+c.Weight {
			chosen = c
			break
		}
		cum += c.Weight
	}
	remapped := clamp((target-cum)/chosen.Weight, 0, 1)

	wi, f, pdf, ok := chosen.BSDF.Sample(wo, types.Vec2{remapped, u[1]})
	if !ok {
		return types.Vec3{}, types.Vec3{}, 0, false
	}
	if chosen.BSDF.IsSingular() {
		return wi, f, pdf, true
	}

	mixF, mixPdf := m.Evaluate(wo, wi)
	if mixPdf <= 0 {
		return wi, f, pdf, true
	}
	return wi, mixF, mixPdf, true
}
