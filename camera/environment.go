package camera

import (
	"math"

	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/types"
)

// Environment is a latlong (equirectangular) camera: every image-plane
// coordinate maps to a distinct outgoing direction from a single eye point,
// covering the full sphere (spec §6: "Perspective and environment (latlong)
// cameras exist").
type Environment struct {
	Eye                types.Vec3
	forward, right, up types.Vec3
}

// NewEnvironment builds a latlong camera whose (0.5, 0.5) pixel looks along
// forward.
func NewEnvironment(eye, forward, worldUp types.Vec3) *Environment {
	f := forward.Normalize()
	right := f.Cross(worldUp).Normalize()
	up := right.Cross(f).Normalize()
	return &Environment{Eye: eye, forward: f, right: right, up: up}
}

func (c *Environment) GenerateRay(uv types.Vec2) geom.Ray {
	phi := uv[0] * 2 * math.Pi
	theta := uv[1] * math.Pi

	sinTheta := float32(math.Sin(float64(theta)))
	local := types.Vec3{
		-sinTheta * float32(math.Sin(float64(phi))),
		float32(math.Cos(float64(theta))),
		-sinTheta * float32(math.Cos(float64(phi))),
	}

	dir := c.right.Mul(local[0]).Add(c.up.Mul(local[1])).Add(c.forward.Mul(local[2])).Normalize()
	return geom.NewRay(c.Eye, dir, rayEpsilon, rayFar)
}
