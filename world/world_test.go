package world

import (
	"testing"

	"github.com/yozhijk/Banshee/camera"
	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/material"
	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/types"
)

func perspectiveAt(eye, lookAt types.Vec3) camera.Camera {
	return camera.NewPerspective(eye, lookAt, types.Vec3{0, 1, 0}, 0.9, 1)
}

func TestCommitFailsWithoutCamera(t *testing.T) {
	w := New()
	if err := w.Commit(); err == nil {
		t.Fatalf("expected Commit to fail when no camera has been set")
	}
}

func TestCommitFailsOnOutOfRangeMaterialReference(t *testing.T) {
	w := New()
	w.SetCamera(perspectiveAt(types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}))

	mesh := primitive.NewMesh("bad")
	mesh.Positions = []types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	mesh.Indices = []uint32{0, 1, 2}
	mesh.MaterialIndices = []uint32{7} // no material 7 was ever added
	if _, err := w.AddMesh(mesh); err != nil {
		t.Fatalf("AddMesh: %v", err)
	}

	if err := w.Commit(); err == nil {
		t.Fatalf("expected Commit to fail on an out-of-range material index")
	}
}

func TestAddSphereRejectsOutOfRangeMaterial(t *testing.T) {
	w := New()
	err := w.AddSphere(primitive.Sphere{Center: types.Vec3{}, Radius: 1, MaterialIndex: 3})
	if err == nil {
		t.Fatalf("expected AddSphere to reject a sphere referencing an undefined material")
	}
}

func TestCommitSkipsDegenerateTriangles(t *testing.T) {
	w := New()
	mat, err := w.AddMaterial(material.Descriptor{Kind: material.KindDiffuse, Albedo: types.Vec3{1, 1, 1}})
	if err != nil {
		t.Fatalf("AddMaterial: %v", err)
	}

	mesh := primitive.NewMesh("mixed")
	// Triangle 0: degenerate (zero area, all three points coincide).
	// Triangle 1: a valid triangle.
	mesh.Positions = []types.Vec3{
		{0, 0, 0}, {0, 0, 0}, {0, 0, 0},
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	}
	mesh.Indices = []uint32{0, 1, 2, 3, 4, 5}
	mesh.MaterialIndices = []uint32{mat, mat}
	if _, err := w.AddMesh(mesh); err != nil {
		t.Fatalf("AddMesh: %v", err)
	}

	w.SetCamera(perspectiveAt(types.Vec3{0, 0, 5}, types.Vec3{0, 0, 0}))
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if len(w.Primitives) != 1 {
		t.Fatalf("expected the degenerate triangle to be skipped, leaving 1 primitive; got %d", len(w.Primitives))
	}
}

func TestCommitDiscoversAreaLightsFromEmissiveMaterials(t *testing.T) {
	w := New()
	emissive, err := w.AddMaterial(material.Descriptor{Kind: material.KindDiffuse, Emissive: types.Vec3{5, 5, 5}})
	if err != nil {
		t.Fatalf("AddMaterial: %v", err)
	}

	mesh := primitive.NewMesh("light")
	mesh.Positions = []types.Vec3{{-1, 2, -1}, {1, 2, -1}, {0, 2, 1}}
	mesh.Indices = []uint32{0, 1, 2}
	mesh.MaterialIndices = []uint32{emissive}
	if _, err := w.AddMesh(mesh); err != nil {
		t.Fatalf("AddMesh: %v", err)
	}

	w.SetCamera(perspectiveAt(types.Vec3{0, 0, 5}, types.Vec3{0, 0, 0}))
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if len(w.Lights) != 1 {
		t.Fatalf("expected Commit to discover exactly 1 area light from the emissive triangle; got %d", len(w.Lights))
	}
}

func TestDoubleCommitFails(t *testing.T) {
	w := New()
	w.SetCamera(perspectiveAt(types.Vec3{0, 0, 5}, types.Vec3{0, 0, 0}))
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := w.Commit(); err == nil {
		t.Fatalf("expected a second Commit call to fail")
	}
}

func TestMutationsRejectedAfterCommit(t *testing.T) {
	w := New()
	w.SetCamera(perspectiveAt(types.Vec3{0, 0, 5}, types.Vec3{0, 0, 0}))
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, err := w.AddMaterial(material.Descriptor{}); err == nil {
		t.Fatalf("expected AddMaterial to fail after Commit")
	}
	if _, err := w.AddMesh(primitive.NewMesh("late")); err == nil {
		t.Fatalf("expected AddMesh to fail after Commit")
	}
	if err := w.AddSphere(primitive.Sphere{}); err == nil {
		t.Fatalf("expected AddSphere to fail after Commit")
	}
}

func TestIsCommittedReflectsState(t *testing.T) {
	w := New()
	if w.IsCommitted() {
		t.Fatalf("expected a fresh world to report not committed")
	}
	w.SetCamera(perspectiveAt(types.Vec3{0, 0, 5}, types.Vec3{0, 0, 0}))
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !w.IsCommitted() {
		t.Fatalf("expected IsCommitted to report true after a successful Commit")
	}
}

func TestIntersectAndOccludedAfterCommit(t *testing.T) {
	w := New()
	mat, err := w.AddMaterial(material.Descriptor{Kind: material.KindDiffuse, Albedo: types.Vec3{1, 1, 1}})
	if err != nil {
		t.Fatalf("AddMaterial: %v", err)
	}
	if err := w.AddSphere(primitive.Sphere{Center: types.Vec3{0, 0, -5}, Radius: 1, MaterialIndex: mat}); err != nil {
		t.Fatalf("AddSphere: %v", err)
	}
	w.SetCamera(perspectiveAt(types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}))
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	hitRay := geom.NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}, 0, 1e9)
	if _, ok := w.Intersect(hitRay); !ok {
		t.Fatalf("expected Intersect to hit the sphere along -z")
	}
	if !w.Occluded(hitRay) {
		t.Fatalf("expected Occluded to report true along the same ray")
	}

	missRay := geom.NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, 0, 1e9)
	if _, ok := w.Intersect(missRay); ok {
		t.Fatalf("expected Intersect to miss along +y")
	}
}

func TestLeReturnsBackgroundWithoutEnvironment(t *testing.T) {
	w := New()
	w.SetBackground(types.Vec3{0.25, 0.5, 0.75})
	if got := w.Le(types.Vec3{0, 1, 0}); got != w.Background {
		t.Fatalf("expected Le to return the flat background color when no environment is set; got %v", got)
	}
}
