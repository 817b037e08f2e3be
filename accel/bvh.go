// Package accel implements the spatial-split bounding volume hierarchy
// (SBVH) described in spec.md §4.2-§4.4: a binned-SAH object-split builder
// extended with spatial splits, and a stack-based front-to-back traverser.
//
// The node layout and the "build once, traverse many times" shape are
// grounded on achilleasa-polaris/scene/compiler/bvh_builder.go, generalized
// from that builder's single-split-per-axis sweep to binned SAH with
// spatial splits per spec §4.2-§4.3.
package accel

import (
	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/primitive"
)

// NodeKind tags a BVH node as internal or leaf, per spec.md's Design Note
// preferring tagged variants over polymorphic dispatch on the hot path.
type NodeKind uint8

const (
	NodeInternal NodeKind = iota
	NodeLeaf
)

// Node is one entry in the flat node array. Internal nodes store child node
// indices; leaves store a [Start, Start+Count) slice into the BVH's
// reference array.
type Node struct {
	Bounds geom.BBox
	Kind   NodeKind

	// Internal node fields.
	Left, Right int32
	Axis        int8 // split axis, used to pick traversal order

	// Leaf node fields.
	Start, Count int32
}

// Ref is a (possibly clipped) reference to a primitive. Spatial splits
// duplicate a primitive across sibling leaves by emitting multiple Refs with
// the same PrimIndex but different clipped Bounds (spec §4.3).
type Ref struct {
	PrimIndex uint32
	Bounds    geom.BBox
}

// BVH is the built acceleration structure. It does not own the primitive
// list; callers pass the same slice supplied to Build on every traversal
// call.
type BVH struct {
	Nodes []Node
	Refs  []Ref

	Stats Stats
}

// Stats summarizes a build, mirroring the kind of counters the teacher's
// bvhStats struct tracked (node/leaf/depth counts), extended with the
// spatial-split duplication ratio called out by spec §4.3's build-complexity
// note.
type Stats struct {
	Nodes, Leaves, MaxDepth int
	SpatialSplits           int
	InputPrimitives         int
	OutputReferences        int
}

// Bounds returns the root node's bounding box, or an empty box for an empty
// tree.
func (b *BVH) Bounds() geom.BBox {
	if len(b.Nodes) == 0 {
		return geom.EmptyBBox()
	}
	return b.Nodes[0].Bounds
}

// maxStackDepth sizes the fixed traversal stack. An unbalanced root-to-leaf
// path of depth D can leave up to D sibling subtrees sitting on the stack
// before the deepest leaf is reached, so this must stay comfortably above
// build.go's depth cap (maxBuildDepth) rather than merely matching it.
const maxStackDepth = 96

// Intersect performs a nearest-hit query against prims, returning the
// closest Hit and the index (into prims) of the primitive that produced it.
// Traversal descends into the nearer child first and culls the farther child
// whenever its near distance exceeds the ray's current TMax (spec §4.4).
func (b *BVH) Intersect(prims []primitive.Primitive, r geom.Ray) (primitive.Hit, int, bool) {
	if len(b.Nodes) == 0 {
		return primitive.Hit{}, -1, false
	}

	var stack [maxStackDepth]int32
	sp := 0
	stack[sp] = 0
	sp++

	var best primitive.Hit
	bestIdx := -1
	found := false

	for sp > 0 {
		sp--
		nodeIdx := stack[sp]
		node := &b.Nodes[nodeIdx]

		if _, _, hit := node.Bounds.IntersectRay(r); !hit {
			continue
		}

		if node.Kind == NodeLeaf {
			for i := node.Start; i < node.Start+node.Count; i++ {
				ref := b.Refs[i]
				prim := prims[ref.PrimIndex]
				if hit, ok := prim.Intersect(r); ok {
					best = hit
					bestIdx = int(ref.PrimIndex)
					found = true
					r.TMax = hit.T
				}
			}
			continue
		}

		left, right := &b.Nodes[node.Left], &b.Nodes[node.Right]
		lNear, _, lHit := left.Bounds.IntersectRay(r)
		rNear, _, rHit := right.Bounds.IntersectRay(r)

		switch {
		case lHit && rHit:
			// Push farther first so the nearer child is processed next
			// (stack is LIFO).
			if lNear <= rNear {
				stack[sp] = node.Right
				sp++
				stack[sp] = node.Left
				sp++
			} else {
				stack[sp] = node.Left
				sp++
				stack[sp] = node.Right
				sp++
			}
		case lHit:
			stack[sp] = node.Left
			sp++
		case rHit:
			stack[sp] = node.Right
			sp++
		}
	}

	return best, bestIdx, found
}

// Occluded is the any-hit query: it returns as soon as any primitive reports
// an intersection within (0, TMax), without tightening TMax (spec §4.4).
func (b *BVH) Occluded(prims []primitive.Primitive, r geom.Ray) bool {
	if len(b.Nodes) == 0 {
		return false
	}

	var stack [maxStackDepth]int32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		nodeIdx := stack[sp]
		node := &b.Nodes[nodeIdx]

		if _, _, hit := node.Bounds.IntersectRay(r); !hit {
			continue
		}

		if node.Kind == NodeLeaf {
			for i := node.Start; i < node.Start+node.Count; i++ {
				ref := b.Refs[i]
				if prims[ref.PrimIndex].Occluded(r) {
					return true
				}
			}
			continue
		}

		stack[sp] = node.Left
		sp++
		stack[sp] = node.Right
		sp++
	}

	return false
}
