package camera

import (
	"math"

	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/types"
)

// Perspective is a pinhole camera with a vertical field of view, grounded on
// achilleasa-polaris/scene/camera.go's Position/LookAt/Up/FOV fields.
type Perspective struct {
	Eye types.Vec3

	forward, right, up types.Vec3
	halfHeight         float32
	halfWidth          float32
}

// NewPerspective builds a perspective camera looking from eye toward
// lookAt, with fovY in radians and aspect = width/height.
func NewPerspective(eye, lookAt, worldUp types.Vec3, fovY, aspect float32) *Perspective {
	forward := lookAt.Sub(eye).Normalize()
	right := forward.Cross(worldUp).Normalize()
	up := right.Cross(forward).Normalize()

	halfHeight := float32(math.Tan(float64(fovY) / 2))
	return &Perspective{
		Eye:        eye,
		forward:    forward,
		right:      right,
		up:         up,
		halfHeight: halfHeight,
		halfWidth:  halfHeight * aspect,
	}
}

func (c *Perspective) GenerateRay(uv types.Vec2) geom.Ray {
	ndcX := (2*uv[0] - 1) * c.halfWidth
	ndcY := (1 - 2*uv[1]) * c.halfHeight

	dir := c.forward.Add(c.right.Mul(ndcX)).Add(c.up.Mul(ndcY)).Normalize()
	return geom.NewRay(c.Eye, dir, rayEpsilon, rayFar)
}
