// Package primitive implements the ray-intersectable geometry the renderer
// traces against: triangles (sharing a mesh's vertex buffers), spheres,
// transformed instances, and the mesh container that owns triangle storage.
//
// Primitives are three variants (triangle, sphere, instance) behind the
// Primitive interface. Each reports its variant through Kind, but
// intersection and sampling calls go through the interface and are
// dispatched dynamically; no code path switches on Kind to call a concrete
// variant directly.
package primitive

import (
	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/types"
)

// Kind tags the variant of a Primitive.
type Kind uint8

const (
	KindTriangle Kind = iota
	KindSphere
	KindInstance
)

// Hit carries the result of a successful intersection (spec §3).
type Hit struct {
	P    types.Vec3
	N    types.Vec3
	Dpdu types.Vec3
	Dpdv types.Vec3
	UV   types.Vec2

	MaterialIndex uint32
	T             float32
}

// Primitive is the common ray-query surface implemented by all geometry
// variants.
type Primitive interface {
	Kind() Kind
	Bounds() geom.BBox
	Intersect(r geom.Ray) (Hit, bool)
	Occluded(r geom.Ray) bool
	// Area returns the surface area, used by area lights to sample points
	// uniformly (spec §4.6).
	Area() float32
	// Sample draws a point on the primitive's surface uniformly by area,
	// returning the point, its normal, and the probability density with
	// respect to area (1/Area for a single primitive).
	Sample(u types.Vec2) (p, n types.Vec3, pdfArea float32)
}
