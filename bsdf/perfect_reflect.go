package bsdf

import "github.com/yozhijk/Banshee/types"

// PerfectReflect is the delta-distribution mirror BSDF (spec §4.5). Its
// value is only meaningful through Sample; Evaluate and Pdf always return
// zero since the probability of any other caller guessing the exact
// reflected direction is zero.
type PerfectReflect struct {
	Albedo types.Vec3
}

func (r PerfectReflect) IsSingular() bool { return true }

func (r PerfectReflect) Evaluate(wo, wi types.Vec3) (types.Vec3, float32) {
	return types.Vec3{}, 0
}

func (r PerfectReflect) Pdf(wo, wi types.Vec3) float32 {
	return 0
}

func (r PerfectReflect) Sample(wo types.Vec3, u types.Vec2) (types.Vec3, types.Vec3, float32, bool) {
	wi := types.Vec3{-wo[0], -wo[1], wo[2]}
	if absCosTheta(wi) < 1e-7 {
		return types.Vec3{}, types.Vec3{}, 0, false
	}
	f := r.Albedo.Mul(1 / absCosTheta(wi))
	return wi, f, 1, true
}
