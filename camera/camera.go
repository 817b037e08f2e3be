// Package camera implements the ray-generation contract of spec §6:
// generate_ray(image_plane_uv) -> ray, in world space. Grounded on
// achilleasa-polaris/scene/camera.go's Camera type, replacing its
// view/projection-matrix + frustum-corner GPU ray-generation scheme (built
// for a compute shader to consume) with the direct basis-vector
// ray-generation a CPU per-pixel loop wants.
package camera

import (
	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/types"
)

// Camera is the tagged-variant interface both camera models implement.
type Camera interface {
	// GenerateRay returns the world-space ray through image-plane coordinate
	// uv ∈ [0,1)², with (0,0) at the top-left.
	GenerateRay(uv types.Vec2) geom.Ray
}

const rayEpsilon = 1e-4
const rayFar = 1e30
