// Package scene implements the compiled scene format spec §7 calls for: a
// binary, portable snapshot of a world's pre-commit inputs that the
// "compile" step produces from a Wavefront import and the "render" step
// loads back without re-parsing OBJ text.
//
// Adapted from achilleasa-polaris/scene/scene.go's Scene (Camera/Materials/
// Primitives/BgColor), generalized from that flat material+primitive
// scene to the mesh/sphere/light/camera aggregate this repo's world.World
// builds from, and restricted to the Perspective camera and the two
// analytic light kinds (Point, Directional) so gob never needs to decode
// either the Camera or light.Light interfaces.
package scene

import (
	"github.com/yozhijk/Banshee/material"
	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/types"
)

// PerspectiveCamera is the gob-friendly subset of camera.Perspective's
// construction parameters.
type PerspectiveCamera struct {
	Eye, LookAt, WorldUp types.Vec3
	FovY                 float32
}

// PointLight and DirectionalLight mirror light.Point/light.Directional's
// exported fields; kept as distinct concrete types here (rather than
// encoding light.Light directly) so the snapshot format never needs
// gob.Register for an interface.
type PointLight struct {
	Position  types.Vec3
	Intensity types.Vec3
}

type DirectionalLight struct {
	Direction types.Vec3
	Intensity types.Vec3
}

// Snapshot is the compiled scene: every builder input world.World needs
// short of the BVH, which Commit rebuilds on load instead of being
// serialized itself (spec §3: "the BVH is a derived structure, not part
// of the world's persistent identity").
type Snapshot struct {
	Materials []material.Descriptor

	Meshes  []*primitive.Mesh
	Spheres []primitive.Sphere

	PointLights       []PointLight
	DirectionalLights []DirectionalLight

	Camera     PerspectiveCamera
	Background types.Vec3
}

// NewSnapshot returns an empty snapshot ready for population by a loader.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}
