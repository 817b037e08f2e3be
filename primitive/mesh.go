package primitive

import (
	"math"

	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/types"
)

// Mesh owns the vertex/normal/uv buffers and per-triangle material indices
// for an indexed triangle soup (spec §3). Triangles reference their owning
// mesh by index rather than by pointer (spec.md Design Notes: "arena+index:
// one arena owns meshes; triangles store a mesh-index and vertex-indices").
type Mesh struct {
	Name string

	Positions []types.Vec3
	Normals   []types.Vec3 // optional; nil means "fall back to geometric normal"
	UVs       []types.Vec2 // optional; nil means "(0,0)"

	// Indices are grouped in triples, one per triangle.
	Indices []uint32

	// MaterialIndices holds one entry per triangle.
	MaterialIndices []uint32

	Transform    types.Mat4
	InvTransform types.Mat4

	// InvTransposeRot is the inverse-transpose of Transform, used to
	// transform vertex normals (spec §4.1): Transform itself is only correct
	// for normals under rigid or uniform-scale transforms, and a non-uniform
	// mesh scale skews a normal transformed directly by Transform.
	InvTransposeRot types.Mat4
}

// NewMesh builds a mesh with an identity transform.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:            name,
		Transform:       types.Ident4(),
		InvTransform:    types.Ident4(),
		InvTransposeRot: types.Ident4(),
	}
}

// SetTransform installs a world transform and its precomputed inverse and
// inverse-transpose (the latter for correct normal transformation under
// non-uniform scale).
func (m *Mesh) SetTransform(xform types.Mat4) {
	m.Transform = xform
	m.InvTransform = xform.Inv()
	m.InvTransposeRot = m.InvTransform.Transpose()
}

// TriangleCount returns the number of triangles owned by the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle is one logical primitive referencing its owning mesh's buffers by
// index; it shares vertex storage rather than copying it (spec §3).
type Triangle struct {
	Mesh  *Mesh
	Index int // triangle index within Mesh.Indices/3
}

func (t Triangle) Kind() Kind { return KindTriangle }

func (t Triangle) vertexIndices() (uint32, uint32, uint32) {
	base := t.Index * 3
	return t.Mesh.Indices[base], t.Mesh.Indices[base+1], t.Mesh.Indices[base+2]
}

func (t Triangle) positions() (a, b, c types.Vec3) {
	i0, i1, i2 := t.vertexIndices()
	local0, local1, local2 := t.Mesh.Positions[i0], t.Mesh.Positions[i1], t.Mesh.Positions[i2]
	return t.Mesh.Transform.MulPoint(local0), t.Mesh.Transform.MulPoint(local1), t.Mesh.Transform.MulPoint(local2)
}

func (t Triangle) Bounds() geom.BBox {
	a, b, c := t.positions()
	box := geom.BBoxFromPoint(a)
	box = box.ExtendPoint(b)
	box = box.ExtendPoint(c)
	return box
}

func (t Triangle) Area() float32 {
	a, b, c := t.positions()
	return b.Sub(a).Cross(c.Sub(a)).Len() * 0.5
}

func (t Triangle) Sample(u types.Vec2) (types.Vec3, types.Vec3, float32) {
	a, b, c := t.positions()
	su0 := float32(math.Sqrt(float64(u[0])))
	bary0 := 1 - su0
	bary1 := u[1] * su0
	p := a.Mul(bary0).Add(b.Mul(bary1)).Add(c.Mul(1 - bary0 - bary1))
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	area := t.Area()
	if area <= 0 {
		return p, n, 0
	}
	return p, n, 1 / area
}

// watertightEps rejects near-degenerate determinants in Möller-Trumbore
// (spec §4.1: "determinant near zero rejects the triangle").
const watertightEps = 1e-8

// Intersect implements watertight Möller-Trumbore ray/triangle intersection
// (spec §4.1), interpolating the shading normal and uv barycentrically with
// a fallback to the geometric normal when the mesh has no vertex normals.
func (t Triangle) Intersect(r geom.Ray) (Hit, bool) {
	a, b, c := t.positions()

	e1 := b.Sub(a)
	e2 := c.Sub(a)
	pvec := r.Dir.Cross(e2)
	det := e1.Dot(pvec)
	if det > -watertightEps && det < watertightEps {
		return Hit{}, false
	}
	invDet := 1 / det

	tvec := r.Origin.Sub(a)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return Hit{}, false
	}

	qvec := tvec.Cross(e1)
	v := r.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return Hit{}, false
	}

	tHit := e2.Dot(qvec) * invDet
	if tHit <= r.TMin || tHit >= r.TMax {
		return Hit{}, false
	}

	geometricN := e1.Cross(e2).Normalize()

	i0, i1, i2 := t.vertexIndices()
	w := 1 - u - v

	var n types.Vec3
	if t.Mesh.Normals != nil {
		n0 := t.Mesh.InvTransposeRot.MulDir(t.Mesh.Normals[i0])
		n1 := t.Mesh.InvTransposeRot.MulDir(t.Mesh.Normals[i1])
		n2 := t.Mesh.InvTransposeRot.MulDir(t.Mesh.Normals[i2])
		n = n0.Mul(w).Add(n1.Mul(u)).Add(n2.Mul(v)).Normalize()
		if n.Len() < 0.5 {
			n = geometricN
		}
	} else {
		n = geometricN
	}

	var uv types.Vec2
	if t.Mesh.UVs != nil {
		uv0, uv1, uv2 := t.Mesh.UVs[i0], t.Mesh.UVs[i1], t.Mesh.UVs[i2]
		uv = types.Vec2{
			w*uv0[0] + u*uv1[0] + v*uv2[0],
			w*uv0[1] + u*uv1[1] + v*uv2[1],
		}
	}

	dpdu, dpdv := types.Basis(n)

	return Hit{
		P:             r.At(tHit),
		N:             n,
		Dpdu:          dpdu,
		Dpdv:          dpdv,
		UV:            uv,
		MaterialIndex: t.Mesh.MaterialIndices[t.Index],
		T:             tHit,
	}, true
}

// Occluded is the any-hit variant: it returns as soon as a hit is found in
// (0, tmax) without tightening tmax (spec §4.4).
func (t Triangle) Occluded(r geom.Ray) bool {
	_, hit := t.Intersect(r)
	return hit
}
