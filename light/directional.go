package light

import "github.com/yozhijk/Banshee/types"

// infiniteDistance stands in for "no finite distance" on lights that model
// something infinitely far away (directional lights, the environment):
// large enough that any scene geometry lies well within it, short enough
// to avoid float precision loss in the visibility ray.
const infiniteDistance = 1e7

// Directional is a delta light whose rays all arrive from a fixed world
// direction, as if from an infinitely distant source (spec §4.6).
type Directional struct {
	Direction types.Vec3 // direction the light travels (points away from the source)
	Intensity types.Vec3
}

func (d Directional) IsDelta() bool { return true }

func (d Directional) SampleLi(shadingPoint, n types.Vec3, u types.Vec2) (Sample, bool) {
	wi := d.Direction.Negate()
	return Sample{
		Wi:       wi,
		Distance: infiniteDistance,
		Li:       d.Intensity,
		Pdf:      1,
	}, true
}

func (d Directional) Pdf(shadingPoint, wi types.Vec3) float32 { return 0 }
