package geom

import (
	"testing"

	"github.com/yozhijk/Banshee/types"
)

func TestEmptyBBoxUnionIdentity(t *testing.T) {
	b := BBoxFromPoint(types.Vec3{1, 2, 3}).Union(BBoxFromPoint(types.Vec3{-1, -2, -3}))
	empty := EmptyBBox()
	got := empty.Union(b)
	if got.Min != b.Min || got.Max != b.Max {
		t.Fatalf("expected EmptyBBox to be the identity element for Union; got %+v, want %+v", got, b)
	}
}

func TestBBoxUnionGrowsToCoverBoth(t *testing.T) {
	a := BBox{Min: types.Vec3{0, 0, 0}, Max: types.Vec3{1, 1, 1}}
	b := BBox{Min: types.Vec3{2, -1, 0}, Max: types.Vec3{3, 0, 2}}
	u := a.Union(b)

	want := BBox{Min: types.Vec3{0, -1, 0}, Max: types.Vec3{3, 1, 2}}
	if u.Min != want.Min || u.Max != want.Max {
		t.Fatalf("Union = %+v; want %+v", u, want)
	}
}

func TestSurfaceAreaOfUnitCube(t *testing.T) {
	b := BBox{Min: types.Vec3{0, 0, 0}, Max: types.Vec3{1, 1, 1}}
	if got := b.SurfaceArea(); got != 6 {
		t.Fatalf("expected a unit cube's surface area to be 6; got %f", got)
	}
}

func TestSurfaceAreaOfDegenerateBoxIsZero(t *testing.T) {
	b := EmptyBBox()
	if got := b.SurfaceArea(); got != 0 {
		t.Fatalf("expected a degenerate (empty) box to have zero surface area; got %f", got)
	}
}

func TestMaxExtentAxisPicksWidestDimension(t *testing.T) {
	b := BBox{Min: types.Vec3{0, 0, 0}, Max: types.Vec3{1, 5, 2}}
	if axis := b.MaxExtentAxis(); axis != 1 {
		t.Fatalf("expected axis 1 (y, extent 5) to be widest; got %d", axis)
	}
}

// TestOverlapsSeparatingAxis exercises the corrected disjoint-axis test
// (spec.md Design Note (c)): two boxes separated along a single axis must
// report no overlap, even though they overlap on the other two axes.
func TestOverlapsSeparatingAxis(t *testing.T) {
	a := BBox{Min: types.Vec3{0, 0, 0}, Max: types.Vec3{1, 1, 1}}
	separatedOnX := BBox{Min: types.Vec3{5, 0, 0}, Max: types.Vec3{6, 1, 1}}
	if a.Overlaps(separatedOnX) {
		t.Fatalf("expected boxes separated along x to not overlap")
	}

	touching := BBox{Min: types.Vec3{1, 0, 0}, Max: types.Vec3{2, 1, 1}}
	if !a.Overlaps(touching) {
		t.Fatalf("expected boxes sharing a face to overlap (closed interval)")
	}

	overlapping := BBox{Min: types.Vec3{0.5, 0.5, 0.5}, Max: types.Vec3{1.5, 1.5, 1.5}}
	if !a.Overlaps(overlapping) {
		t.Fatalf("expected genuinely overlapping boxes to report overlap")
	}
}

func TestClipRestrictsToInterval(t *testing.T) {
	b := BBox{Min: types.Vec3{0, 0, 0}, Max: types.Vec3{10, 10, 10}}
	c := b.Clip(0, 2, 5)
	if c.Min[0] != 2 || c.Max[0] != 5 {
		t.Fatalf("expected Clip on axis 0 to [2,5] to produce Min.x=2 Max.x=5; got Min=%v Max=%v", c.Min, c.Max)
	}
	if c.Min[1] != 0 || c.Max[1] != 10 {
		t.Fatalf("expected Clip to leave the other axes untouched; got Min=%v Max=%v", c.Min, c.Max)
	}
}

func TestIntersectRayHitsUnitCubeCenter(t *testing.T) {
	b := BBox{Min: types.Vec3{-1, -1, -1}, Max: types.Vec3{1, 1, 1}}
	r := NewRay(types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1}, 0, 1e9)

	tNear, tFar, hit := b.IntersectRay(r)
	if !hit {
		t.Fatalf("expected a ray through the box center to hit")
	}
	if tNear < 3.9 || tNear > 4.1 {
		t.Fatalf("expected tNear close to 4; got %f", tNear)
	}
	if tFar < 5.9 || tFar > 6.1 {
		t.Fatalf("expected tFar close to 6; got %f", tFar)
	}
}

func TestIntersectRayMissesWhenParallelAndOffset(t *testing.T) {
	b := BBox{Min: types.Vec3{-1, -1, -1}, Max: types.Vec3{1, 1, 1}}
	r := NewRay(types.Vec3{0, 5, -5}, types.Vec3{0, 0, 1}, 0, 1e9)

	if _, _, hit := b.IntersectRay(r); hit {
		t.Fatalf("expected a ray offset above the box, parallel to one face, to miss")
	}
}

func TestIntersectRayRespectsTMaxInterval(t *testing.T) {
	b := BBox{Min: types.Vec3{-1, -1, -1}, Max: types.Vec3{1, 1, 1}}
	// The box sits at t in [4, 6]; a ray whose active interval ends at 3
	// must not report a hit even though it is geometrically aimed at it.
	r := NewRay(types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1}, 0, 3)

	if _, _, hit := b.IntersectRay(r); hit {
		t.Fatalf("expected IntersectRay to respect TMax and report no hit before the box")
	}
}

func TestRayAtEvaluatesParametricPoint(t *testing.T) {
	r := NewRay(types.Vec3{1, 0, 0}, types.Vec3{0, 1, 0}, 0, 10)
	p := r.At(3)
	want := types.Vec3{1, 3, 0}
	if p != want {
		t.Fatalf("r.At(3) = %v; want %v", p, want)
	}
}

func TestOffsetMovesAlongOutwardNormal(t *testing.T) {
	p := types.Vec3{0, 0, 0}
	n := types.Vec3{0, 1, 0}
	towards := types.Vec3{0, 1, 0}

	offset := Offset(p, n, towards)
	if offset[1] <= 0 {
		t.Fatalf("expected Offset to nudge the point along +n when towards agrees with n; got %v", offset)
	}
}

func TestOffsetFlipsWithOpposingNormal(t *testing.T) {
	p := types.Vec3{0, 0, 0}
	n := types.Vec3{0, 1, 0}
	towards := types.Vec3{0, -1, 0}

	offset := Offset(p, n, towards)
	if offset[1] >= 0 {
		t.Fatalf("expected Offset to nudge the point along -n when towards opposes n; got %v", offset)
	}
}
