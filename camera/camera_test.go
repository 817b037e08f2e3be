package camera

import (
	"testing"

	"github.com/yozhijk/Banshee/types"
)

func approxEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestPerspectiveCenterRayLooksAtTarget(t *testing.T) {
	c := NewPerspective(types.Vec3{0, 0, 5}, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, 0.9, 1)
	r := c.GenerateRay(types.Vec2{0.5, 0.5})

	want := types.Vec3{0, 0, -1}
	for i := 0; i < 3; i++ {
		if !approxEqual(r.Dir[i], want[i], 1e-4) {
			t.Fatalf("expected the center pixel's ray to point at the look-at target; got %v", r.Dir)
		}
	}
}

func TestPerspectiveRayOriginatesAtEye(t *testing.T) {
	eye := types.Vec3{1, 2, 3}
	c := NewPerspective(eye, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, 0.9, 1)
	r := c.GenerateRay(types.Vec2{0.3, 0.7})
	if r.Origin != eye {
		t.Fatalf("expected every generated ray to originate at the camera eye; got %v", r.Origin)
	}
}

func TestPerspectiveWideningAspectStretchesX(t *testing.T) {
	square := NewPerspective(types.Vec3{0, 0, 5}, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, 0.9, 1)
	wide := NewPerspective(types.Vec3{0, 0, 5}, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, 0.9, 2)

	rSquare := square.GenerateRay(types.Vec2{1, 0.5})
	rWide := wide.GenerateRay(types.Vec2{1, 0.5})

	if rWide.Dir[0] <= rSquare.Dir[0] {
		t.Fatalf("expected a wider aspect ratio to widen the horizontal field of view: square=%v wide=%v", rSquare.Dir, rWide.Dir)
	}
}

func TestPerspectiveTopLeftIsUpAndLeftOfCenter(t *testing.T) {
	c := NewPerspective(types.Vec3{0, 0, 5}, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, 0.9, 1)
	center := c.GenerateRay(types.Vec2{0.5, 0.5})
	topLeft := c.GenerateRay(types.Vec2{0, 0})

	if topLeft.Dir[0] >= center.Dir[0] {
		t.Fatalf("expected uv=(0,0) to point left of the center ray; got topLeft=%v center=%v", topLeft.Dir, center.Dir)
	}
	if topLeft.Dir[1] <= center.Dir[1] {
		t.Fatalf("expected uv=(0,0) to point above the center ray (top-left origin); got topLeft=%v center=%v", topLeft.Dir, center.Dir)
	}
}

func TestEnvironmentCoversFullSphereOfDirections(t *testing.T) {
	c := NewEnvironment(types.Vec3{}, types.Vec3{0, 0, -1}, types.Vec3{0, 1, 0})

	front := c.GenerateRay(types.Vec2{0.5, 0.5})
	back := c.GenerateRay(types.Vec2{0, 0.5})

	dot := front.Dir[0]*back.Dir[0] + front.Dir[1]*back.Dir[1] + front.Dir[2]*back.Dir[2]
	if dot >= 0 {
		t.Fatalf("expected the latlong camera's opposite azimuth to point roughly backward from center; front=%v back=%v dot=%f", front.Dir, back.Dir, dot)
	}
}

func TestEnvironmentPolesAreUpAndDown(t *testing.T) {
	c := NewEnvironment(types.Vec3{}, types.Vec3{0, 0, -1}, types.Vec3{0, 1, 0})

	top := c.GenerateRay(types.Vec2{0.5, 0})
	bottom := c.GenerateRay(types.Vec2{0.5, 1})

	if !approxEqual(top.Dir[1], 1, 1e-3) {
		t.Fatalf("expected v=0 to point straight up; got %v", top.Dir)
	}
	if !approxEqual(bottom.Dir[1], -1, 1e-3) {
		t.Fatalf("expected v=1 to point straight down; got %v", bottom.Dir)
	}
}

func TestGeneratedDirectionsAreNormalized(t *testing.T) {
	cams := []Camera{
		NewPerspective(types.Vec3{0, 0, 5}, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, 1.2, 1.7),
		NewEnvironment(types.Vec3{}, types.Vec3{1, 0, 0}, types.Vec3{0, 1, 0}),
	}
	for _, c := range cams {
		r := c.GenerateRay(types.Vec2{0.2, 0.8})
		length := r.Dir[0]*r.Dir[0] + r.Dir[1]*r.Dir[1] + r.Dir[2]*r.Dir[2]
		if !approxEqual(length, 1, 1e-3) {
			t.Fatalf("expected a unit-length ray direction; got squared length %f for dir %v", length, r.Dir)
		}
	}
}
