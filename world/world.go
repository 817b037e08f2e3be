// Package world implements the World type of spec §3: the single owner of
// mesh/primitive storage, the materials table, the light list, the camera
// and the root acceleration structure, built once per render via a
// load-then-commit lifecycle.
//
// The builder-then-validate shape is grounded on
// achilleasa-polaris/scene/scene.go's Scene/AddMaterial/AddPrimitive
// (reject bad references before commit rather than panic mid-render),
// generalized from a flat primitive+material scene to the mesh/instance/
// light/camera aggregate spec §3 describes.
package world

import (
	"fmt"

	"github.com/yozhijk/Banshee/accel"
	"github.com/yozhijk/Banshee/camera"
	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/light"
	"github.com/yozhijk/Banshee/log"
	"github.com/yozhijk/Banshee/material"
	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/types"
)

// World owns every immutable-after-commit resource a render needs (spec §3
// Lifecycle: "load -> commit -> render -> drop").
type World struct {
	Materials *material.Library

	Camera      camera.Camera
	Background  types.Vec3
	Environment *light.Environment // nil if the scene has no environment map

	Lights []light.Light

	meshes    []*primitive.Mesh
	spheres   []primitive.Sphere
	instances []*primitive.Instance

	Primitives []primitive.Primitive
	BVH        *accel.BVH

	committed bool
	logger    log.Logger
}

// New returns an empty, uncommitted world.
func New() *World {
	return &World{
		Materials: material.NewLibrary(),
		logger:    log.New("world"),
	}
}

// AddMesh registers a mesh and returns its stable index, matching the
// mesh-loader contract's "on_primitive" return value (spec §6).
func (w *World) AddMesh(m *primitive.Mesh) (uint32, error) {
	if w.committed {
		return 0, fmt.Errorf("world: cannot add a mesh after Commit")
	}
	idx := uint32(len(w.meshes))
	w.meshes = append(w.meshes, m)
	return idx, nil
}

// AddSphere registers an analytic sphere primitive.
func (w *World) AddSphere(s primitive.Sphere) error {
	if w.committed {
		return fmt.Errorf("world: cannot add a sphere after Commit")
	}
	if int(s.MaterialIndex) >= len(w.Materials.Descriptors) {
		return fmt.Errorf("world: sphere references out-of-range material index %d", s.MaterialIndex)
	}
	w.spheres = append(w.spheres, s)
	return nil
}

// AddInstance registers a transformed instance of an existing primitive
// (typically a whole mesh's triangles wrapped as one bundle, or a nested
// instance).
func (w *World) AddInstance(inst *primitive.Instance) error {
	if w.committed {
		return fmt.Errorf("world: cannot add an instance after Commit")
	}
	w.instances = append(w.instances, inst)
	return nil
}

// AddMaterial registers a material descriptor and returns its stable index
// (spec §6's on_material contract).
func (w *World) AddMaterial(d material.Descriptor) (uint32, error) {
	if w.committed {
		return 0, fmt.Errorf("world: cannot add a material after Commit")
	}
	return w.Materials.Add(d), nil
}

// AddLight registers a non-primitive-backed light (point, directional,
// environment). Area lights are discovered automatically during Commit from
// emissive materials (spec §3: "lights hold only weak references to
// primitives").
func (w *World) AddLight(l light.Light) error {
	if w.committed {
		return fmt.Errorf("world: cannot add a light after Commit")
	}
	w.Lights = append(w.Lights, l)
	return nil
}

// SetCamera installs the render camera.
func (w *World) SetCamera(c camera.Camera) {
	w.Camera = c
}

// SetEnvironment installs the environment map used for escaping rays and,
// once Commit runs, as a light source (with either sampling strategy).
func (w *World) SetEnvironment(env *light.Environment) {
	w.Environment = env
}

// SetBackground sets the flat background color added to every escaping ray,
// on top of the environment map's radiance when one is set (spec §4.7:
// "Return Le_env(ray.d) + bg").
func (w *World) SetBackground(c types.Vec3) {
	w.Background = c
}

// Commit finalizes the world: validates every reference, refines meshes
// into per-triangle primitives (skipping degenerate ones per spec §7),
// discovers area lights from emissive materials, and builds the SBVH once.
// After Commit, the world is immutable for the remainder of the render.
func (w *World) Commit() error {
	if w.committed {
		return fmt.Errorf("world: already committed")
	}
	if w.Camera == nil {
		return fmt.Errorf("world: no camera set")
	}

	var prims []primitive.Primitive

	for _, m := range w.meshes {
		skipped := 0
		for i := 0; i < m.TriangleCount(); i++ {
			matIdx := m.MaterialIndices[i]
			if int(matIdx) >= len(w.Materials.Descriptors) {
				return fmt.Errorf("world: mesh %q triangle %d references out-of-range material index %d", m.Name, i, matIdx)
			}
			tri := primitive.Triangle{Mesh: m, Index: i}
			if !validTriangle(tri) {
				skipped++
				continue
			}
			prims = append(prims, tri)
			if w.Materials.IsEmissive(matIdx) {
				w.Lights = append(w.Lights, light.Area{
					Primitive: tri,
					Radiance:  w.Materials.Emission(matIdx),
				})
			}
		}
		if skipped > 0 {
			w.logger.Warningf("world: mesh %q: skipped %d degenerate triangle(s)", m.Name, skipped)
		}
	}

	for _, s := range w.spheres {
		prims = append(prims, s)
		if w.Materials.IsEmissive(s.MaterialIndex) {
			w.Lights = append(w.Lights, light.Area{
				Primitive: s,
				Radiance:  w.Materials.Emission(s.MaterialIndex),
			})
		}
	}

	for _, inst := range w.instances {
		prims = append(prims, inst)
	}

	if w.Environment != nil {
		w.Lights = append(w.Lights, w.Environment)
	}

	w.Primitives = prims
	w.BVH = accel.Build(prims, accel.DefaultBuildOptions())
	w.committed = true
	return nil
}

// validTriangle rejects degenerate geometry per spec §7: non-finite
// vertices or a near-zero area.
func validTriangle(t primitive.Triangle) bool {
	b := t.Bounds()
	if !finite3(b.Min) || !finite3(b.Max) {
		return false
	}
	return t.Area() > 1e-12
}

func finite3(v types.Vec3) bool {
	for i := 0; i < 3; i++ {
		if v[i] != v[i] { // NaN
			return false
		}
		if v[i] > 3.0e38 || v[i] < -3.0e38 {
			return false
		}
	}
	return true
}

// Intersect finds the nearest hit along r, returning the hit record and
// whether anything was hit.
func (w *World) Intersect(r geom.Ray) (primitive.Hit, bool) {
	hit, _, ok := w.BVH.Intersect(w.Primitives, r)
	return hit, ok
}

// Occluded is the any-hit shadow-ray query.
func (w *World) Occluded(r geom.Ray) bool {
	return w.BVH.Occluded(w.Primitives, r)
}

// IsCommitted reports whether Commit has run.
func (w *World) IsCommitted() bool {
	return w.committed
}

// Le returns the radiance contribution of a ray that left the scene without
// hitting anything (spec §4.7).
func (w *World) Le(dir types.Vec3) types.Vec3 {
	if w.Environment != nil {
		return w.Environment.Le(dir).Add(w.Background)
	}
	return w.Background
}
