package accel

import (
	"testing"

	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/primitive"
	"github.com/yozhijk/Banshee/types"
)

func sphereAt(x, y, z, r float32) primitive.Sphere {
	return primitive.Sphere{Center: types.Vec3{x, y, z}, Radius: r}
}

func TestBuildEmpty(t *testing.T) {
	bvh := Build(nil, DefaultBuildOptions())
	if len(bvh.Nodes) != 0 {
		t.Fatalf("expected no nodes for an empty primitive list; got %d", len(bvh.Nodes))
	}
	if bvh.Bounds().SurfaceArea() != 0 {
		t.Fatalf("expected empty bounds for an empty tree")
	}
	if _, _, hit := bvh.Intersect(nil, geom.NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}, 0, 1e9)); hit {
		t.Fatalf("expected no hit against an empty tree")
	}
}

func TestBuildSinglePrimitiveIsOneLeaf(t *testing.T) {
	prims := []primitive.Primitive{sphereAt(0, 0, 0, 1)}
	bvh := Build(prims, DefaultBuildOptions())

	if len(bvh.Nodes) != 1 {
		t.Fatalf("expected a single leaf node for one primitive; got %d nodes", len(bvh.Nodes))
	}
	if bvh.Nodes[0].Kind != NodeLeaf {
		t.Fatalf("expected the root to be a leaf when only one primitive is present")
	}
	if bvh.Stats.InputPrimitives != 1 {
		t.Fatalf("expected InputPrimitives == 1; got %d", bvh.Stats.InputPrimitives)
	}
}

// TestIntersectFindsNearest builds a BVH over several spheres spaced out
// along -z and checks that Intersect reports the nearest one, not merely
// any hit, mirroring bvh_builder_test.go's leaf-callback style fixture.
func TestIntersectFindsNearest(t *testing.T) {
	prims := []primitive.Primitive{
		sphereAt(0, 0, -5, 1),
		sphereAt(0, 0, -10, 1),
		sphereAt(0, 0, -20, 1),
	}
	bvh := Build(prims, DefaultBuildOptions())

	r := geom.NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}, 0, 1e9)
	hit, idx, ok := bvh.Intersect(prims, r)
	if !ok {
		t.Fatalf("expected a hit along -z through all three spheres")
	}
	if idx != 0 {
		t.Fatalf("expected the nearest sphere (index 0) to win; got index %d", idx)
	}
	if hit.T < 3.9 || hit.T > 4.1 {
		t.Fatalf("expected hit distance close to 4 (sphere at z=-5, radius 1); got %f", hit.T)
	}
}

func TestIntersectMissesWhenRayPointsAway(t *testing.T) {
	prims := []primitive.Primitive{sphereAt(0, 0, -5, 1)}
	bvh := Build(prims, DefaultBuildOptions())

	r := geom.NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 0, 1}, 0, 1e9)
	if _, _, ok := bvh.Intersect(prims, r); ok {
		t.Fatalf("expected no hit when the ray points away from the only primitive")
	}
}

func TestOccludedShortCircuitsOnAnyHit(t *testing.T) {
	prims := []primitive.Primitive{
		sphereAt(0, 0, -5, 1),
		sphereAt(3, 0, -5, 1),
	}
	bvh := Build(prims, DefaultBuildOptions())

	r := geom.NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}, 0, 1e9)
	if !bvh.Occluded(prims, r) {
		t.Fatalf("expected Occluded to report true for a ray that hits a primitive")
	}

	miss := geom.NewRay(types.Vec3{0, 10, 0}, types.Vec3{0, 0, -1}, 0, 1e9)
	if bvh.Occluded(prims, miss) {
		t.Fatalf("expected Occluded to report false for a ray that misses everything")
	}
}

// TestBuildManyPrimitivesSplits checks that a large enough primitive set
// produces internal nodes and a tree whose root bounds contain every leaf's
// references, exercising the recursive split path rather than only the
// single-leaf base case above.
func TestBuildManyPrimitivesSplits(t *testing.T) {
	var prims []primitive.Primitive
	for i := 0; i < 64; i++ {
		prims = append(prims, sphereAt(float32(i)*2, 0, 0, 0.4))
	}
	bvh := Build(prims, DefaultBuildOptions())

	if bvh.Stats.Leaves < 2 {
		t.Fatalf("expected more than one leaf for 64 spread-out primitives; got %d", bvh.Stats.Leaves)
	}
	if bvh.Stats.OutputReferences < bvh.Stats.InputPrimitives {
		t.Fatalf("expected at least as many output references (%d) as input primitives (%d)",
			bvh.Stats.OutputReferences, bvh.Stats.InputPrimitives)
	}

	root := bvh.Bounds()
	for _, p := range prims {
		b := p.Bounds()
		if b.Min[0] < root.Min[0]-1e-3 || b.Max[0] > root.Max[0]+1e-3 {
			t.Fatalf("primitive bounds %v escape root bounds %v", b, root)
		}
	}
}
