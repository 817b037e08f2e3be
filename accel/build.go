package accel

import (
	"sort"
	"time"

	"github.com/yozhijk/Banshee/geom"
	"github.com/yozhijk/Banshee/log"
	"github.com/yozhijk/Banshee/primitive"
)

// BuildOptions configures the SBVH builder (spec §4.2-§4.3).
type BuildOptions struct {
	// Lmin: leaves are emitted once a node holds this many references or
	// fewer, regardless of SAH cost.
	MaxLeafSize int

	// Number of SAH bins used when evaluating object splits.
	NumBins int

	// Number of bins used when sweeping for a spatial split plane.
	NumSpatialBins int

	// Alpha is the overlap-area threshold (relative to the root's surface
	// area) above which spatial splits are considered (spec §4.3).
	Alpha float32

	// Traversal/intersection cost constants for the SAH cost model.
	Ct, Ci float32

	MaxDepth int
}

// DefaultBuildOptions returns the parameter defaults named in spec §4.2-§4.3.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		MaxLeafSize:    4,
		NumBins:        32,
		NumSpatialBins: 32,
		Alpha:          1e-5,
		Ct:             1,
		Ci:             1,
		MaxDepth:       64,
	}
}

// maxBuildDepth caps the effective tree depth strictly below maxStackDepth
// (bvh.go), regardless of what a caller requests via BuildOptions.MaxDepth:
// the traversal stack is a fixed array sized for this cap, and a deeper tree
// would overrun it on an unbalanced subtree.
const maxBuildDepth = maxStackDepth - 32

type builder struct {
	opts   BuildOptions
	logger log.Logger

	nodes   []Node
	outRefs []Ref

	rootSA float32
	stats  Stats
}

// Build constructs an SBVH over prims. The returned tree indexes into the
// same prims slice passed here on every subsequent traversal call.
func Build(prims []primitive.Primitive, opts BuildOptions) *BVH {
	b := &builder{
		opts:   opts,
		logger: log.New("accel"),
		nodes:  make([]Node, 0, 2*len(prims)),
	}
	b.stats.InputPrimitives = len(prims)

	refs := make([]Ref, len(prims))
	rootBounds := geom.EmptyBBox()
	for i, p := range prims {
		box := p.Bounds()
		refs[i] = Ref{PrimIndex: uint32(i), Bounds: box}
		rootBounds = rootBounds.Union(box)
	}
	b.rootSA = rootBounds.SurfaceArea()
	if b.rootSA <= 0 {
		b.rootSA = 1
	}

	start := time.Now()
	if len(prims) > 0 {
		b.buildRecursive(refs, 0)
	}
	b.stats.OutputReferences = len(b.outRefs)

	b.logger.Debugf(
		"sbvh build: %d prims -> %d refs (%.2fx), %d nodes, %d leaves, depth %d, %d spatial splits, %d ms",
		b.stats.InputPrimitives, b.stats.OutputReferences,
		float64(b.stats.OutputReferences)/float64(max(1, b.stats.InputPrimitives)),
		b.stats.Nodes, b.stats.Leaves, b.stats.MaxDepth, b.stats.SpatialSplits,
		time.Since(start).Milliseconds(),
	)

	return &BVH{Nodes: b.nodes, Refs: b.outRefs, Stats: b.stats}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func unionBounds(refs []Ref) geom.BBox {
	box := geom.EmptyBBox()
	for _, r := range refs {
		box = box.Union(r.Bounds)
	}
	return box
}

func centroidBounds(refs []Ref) geom.BBox {
	box := geom.EmptyBBox()
	for _, r := range refs {
		box = box.ExtendPoint(r.Bounds.Center())
	}
	return box
}

// buildRecursive partitions refs and returns the index of the node built for
// them. Ties when choosing a split axis are broken in favor of the axis with
// the largest centroid extent, then by split index (spec §4.2).
func (b *builder) buildRecursive(refs []Ref, depth int) int32 {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	bounds := unionBounds(refs)

	if len(refs) <= b.opts.MaxLeafSize || depth >= b.opts.MaxDepth || depth >= maxBuildDepth {
		return b.makeLeaf(refs, bounds)
	}

	cBounds := centroidBounds(refs)
	leafCost := b.opts.Ci * float32(len(refs))

	objSplit, objOK := b.findObjectSplit(refs, bounds, cBounds)
	bestCost := leafCost
	if objOK {
		bestCost = objSplit.cost
	}

	useSpatial := false
	var spSplit spatialSplit
	if objOK {
		overlap := objSplit.leftBounds.Intersection(objSplit.rightBounds)
		lambda := overlap.SurfaceArea() / b.rootSA
		if lambda > b.opts.Alpha {
			if sp, ok := b.findSpatialSplit(refs, bounds); ok && sp.cost < bestCost {
				bestCost = sp.cost
				spSplit = sp
				useSpatial = true
			}
		}
	}

	if !objOK && !useSpatial {
		return b.makeLeaf(refs, bounds)
	}
	if bestCost >= leafCost {
		return b.makeLeaf(refs, bounds)
	}

	var left, right []Ref
	var axis int
	if useSpatial {
		left, right = b.partitionSpatial(refs, spSplit)
		axis = spSplit.axis
		b.stats.SpatialSplits++
	} else {
		left, right = partitionObject(refs, objSplit)
		axis = objSplit.axis
	}

	// Guard against a degenerate partition (can happen when many
	// primitives share an identical centroid): fall back to a leaf rather
	// than recursing forever.
	if len(left) == 0 || len(right) == 0 {
		return b.makeLeaf(refs, bounds)
	}

	nodeIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes, Node{})
	b.stats.Nodes++

	leftIdx := b.buildRecursive(left, depth+1)
	rightIdx := b.buildRecursive(right, depth+1)

	b.nodes[nodeIndex] = Node{
		Bounds: bounds,
		Kind:   NodeInternal,
		Left:   leftIdx,
		Right:  rightIdx,
		Axis:   int8(axis),
	}
	return nodeIndex
}

func (b *builder) makeLeaf(refs []Ref, bounds geom.BBox) int32 {
	start := int32(len(b.outRefs))
	b.outRefs = append(b.outRefs, refs...)

	nodeIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes, Node{
		Bounds: bounds,
		Kind:   NodeLeaf,
		Start:  start,
		Count:  int32(len(refs)),
	})
	b.stats.Leaves++
	return nodeIndex
}

// ---- object (SAH) split ----

type objectSplitCandidate struct {
	valid                 bool
	axis, bin             int
	cost                  float32
	leftBounds            geom.BBox
	rightBounds           geom.BBox
	leftCount, rightCount int
	cmin, scale           float32
}

type binInfo struct {
	bounds geom.BBox
	count  int
}

// findObjectSplit evaluates a binned SAH object split on each axis and
// returns the lowest-cost candidate (spec §4.2).
func (b *builder) findObjectSplit(refs []Ref, bounds, cBounds geom.BBox) (objectSplitCandidate, bool) {
	nBins := b.opts.NumBins
	if nBins < 2 {
		nBins = 2
	}

	var best objectSplitCandidate
	best.cost = maxFloat32
	var bestExtent float32

	diag := cBounds.Diagonal()

	for axis := 0; axis < 3; axis++ {
		extent := diag[axis]
		if extent <= 1e-8 {
			continue
		}
		scale := float32(nBins) / extent
		cmin := cBounds.Min[axis]

		binOf := func(r Ref) int {
			idx := int((r.Bounds.Center()[axis] - cmin) * scale)
			if idx < 0 {
				idx = 0
			}
			if idx >= nBins {
				idx = nBins - 1
			}
			return idx
		}

		bins := make([]binInfo, nBins)
		for i := range bins {
			bins[i].bounds = geom.EmptyBBox()
		}
		for _, r := range refs {
			bi := binOf(r)
			bins[bi].bounds = bins[bi].bounds.Union(r.Bounds)
			bins[bi].count++
		}

		// Prefix sweep (left of each split) and suffix sweep (right of
		// each split), then combine into a cost per split plane.
		leftBounds := make([]geom.BBox, nBins)
		leftCount := make([]int, nBins)
		accBox := geom.EmptyBBox()
		accCount := 0
		for i := 0; i < nBins; i++ {
			accBox = accBox.Union(bins[i].bounds)
			accCount += bins[i].count
			leftBounds[i] = accBox
			leftCount[i] = accCount
		}

		rightBounds := make([]geom.BBox, nBins)
		rightCount := make([]int, nBins)
		accBox = geom.EmptyBBox()
		accCount = 0
		for i := nBins - 1; i >= 0; i-- {
			accBox = accBox.Union(bins[i].bounds)
			accCount += bins[i].count
			rightBounds[i] = accBox
			rightCount[i] = accCount
		}

		for split := 0; split < nBins-1; split++ {
			nl, nr := leftCount[split], rightCount[split+1]
			if nl == 0 || nr == 0 {
				continue
			}
			cost := b.opts.Ct + (leftBounds[split].SurfaceArea()*float32(nl)+
				rightBounds[split+1].SurfaceArea()*float32(nr))/bounds.SurfaceArea()

			if cost < best.cost || (best.valid && cost == best.cost && extent > bestExtent) {
				best = objectSplitCandidate{
					valid:       true,
					axis:        axis,
					bin:         split,
					cost:        cost,
					leftBounds:  leftBounds[split],
					rightBounds: rightBounds[split+1],
					leftCount:   nl,
					rightCount:  nr,
					cmin:        cmin,
					scale:       scale,
				}
				bestExtent = extent
			}
		}
	}

	return best, best.valid
}

func partitionObject(refs []Ref, split objectSplitCandidate) ([]Ref, []Ref) {
	// Recompute the same binning used during scoring so the partition is
	// consistent with the chosen plane: sort by centroid on the split axis
	// and send items whose bin lies at or left of the chosen split bin left.
	sorted := append([]Ref(nil), refs...)
	axis := split.axis
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Bounds.Center()[axis] < sorted[j].Bounds.Center()[axis]
	})

	// The bin-based split corresponds to a position along the axis rather
	// than an index into this sort, so compare each reference's bin index
	// with the chosen split bin instead of slicing by rank.
	var left, right []Ref
	for _, r := range sorted {
		if int((r.Bounds.Center()[axis]-split.cmin)*split.scale) <= split.bin {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		// Degenerate plane position (all centroids on one side): fall
		// back to a balanced median split on this axis.
		mid := len(sorted) / 2
		left = sorted[:mid]
		right = sorted[mid:]
	}
	return left, right
}

const maxFloat32 = 3.4e38

// ---- spatial split (SBVH) ----

type spatialSplit struct {
	axis     int
	planePos float32
	cost     float32
}

type spatialBin struct {
	bounds     geom.BBox
	entryCount int
	exitCount  int
}

// findSpatialSplit sweeps equal-width slabs of the node's bounds (not its
// centroid bounds) along each axis, clipping each reference into every bin
// it overlaps, to find the minimum-cost spatial split plane (spec §4.3).
func (b *builder) findSpatialSplit(refs []Ref, bounds geom.BBox) (spatialSplit, bool) {
	nBins := b.opts.NumSpatialBins
	if nBins < 2 {
		nBins = 2
	}

	var best spatialSplit
	best.cost = maxFloat32
	found := false

	diag := bounds.Diagonal()

	for axis := 0; axis < 3; axis++ {
		extent := diag[axis]
		if extent <= 1e-8 {
			continue
		}
		binSize := extent / float32(nBins)
		axisMin := bounds.Min[axis]

		binIndex := func(v float32) int {
			idx := int((v - axisMin) / binSize)
			if idx < 0 {
				idx = 0
			}
			if idx >= nBins {
				idx = nBins - 1
			}
			return idx
		}

		bins := make([]spatialBin, nBins)
		for i := range bins {
			bins[i].bounds = geom.EmptyBBox()
		}

		for _, r := range refs {
			b0 := binIndex(r.Bounds.Min[axis])
			b1 := binIndex(r.Bounds.Max[axis])
			bins[b0].entryCount++
			bins[b1].exitCount++

			for i := b0; i <= b1; i++ {
				lo := axisMin + float32(i)*binSize
				hi := axisMin + float32(i+1)*binSize
				clipped := r.Bounds.Clip(axis, lo, hi)
				bins[i].bounds = bins[i].bounds.Union(clipped)
			}
		}

		leftBounds := make([]geom.BBox, nBins)
		leftCount := make([]int, nBins)
		accBox := geom.EmptyBBox()
		accCount := 0
		for i := 0; i < nBins; i++ {
			accBox = accBox.Union(bins[i].bounds)
			accCount += bins[i].entryCount
			leftBounds[i] = accBox
			leftCount[i] = accCount
		}

		rightBounds := make([]geom.BBox, nBins)
		rightCount := make([]int, nBins)
		accBox = geom.EmptyBBox()
		accCount = 0
		for i := nBins - 1; i >= 0; i-- {
			accBox = accBox.Union(bins[i].bounds)
			accCount += bins[i].exitCount
			rightBounds[i] = accBox
			rightCount[i] = accCount
		}

		for split := 0; split < nBins-1; split++ {
			nl, nr := leftCount[split], rightCount[split+1]
			if nl == 0 || nr == 0 {
				continue
			}
			cost := b.opts.Ct + (leftBounds[split].SurfaceArea()*float32(nl)+
				rightBounds[split+1].SurfaceArea()*float32(nr))/bounds.SurfaceArea()

			if cost < best.cost {
				found = true
				best = spatialSplit{
					axis:     axis,
					planePos: axisMin + float32(split+1)*binSize,
					cost:     cost,
				}
			}
		}
	}

	return best, found
}

// partitionSpatial applies a spatial split: references wholly on one side of
// the plane go to that side unclipped; straddling references are clipped
// into both children unless the unsplitting heuristic determines that
// keeping the whole reference on a single side yields a lower cost (spec
// §4.3's unsplitting step).
func (b *builder) partitionSpatial(refs []Ref, split spatialSplit) ([]Ref, []Ref) {
	axis := split.axis
	plane := split.planePos

	var left, right []Ref
	leftBounds := geom.EmptyBBox()
	rightBounds := geom.EmptyBBox()
	leftCount, rightCount := 0, 0

	var straddling []Ref
	for _, r := range refs {
		switch {
		case r.Bounds.Max[axis] <= plane:
			left = append(left, r)
			leftBounds = leftBounds.Union(r.Bounds)
			leftCount++
		case r.Bounds.Min[axis] >= plane:
			right = append(right, r)
			rightBounds = rightBounds.Union(r.Bounds)
			rightCount++
		default:
			straddling = append(straddling, r)
		}
	}

	for _, r := range straddling {
		leftClip := r.Bounds.Clip(axis, -maxFloat32, plane)
		rightClip := r.Bounds.Clip(axis, plane, maxFloat32)

		bothLeft := leftBounds.Union(r.Bounds)
		bothRight := rightBounds.Union(r.Bounds)
		splitLeft := leftBounds.Union(leftClip)
		splitRight := rightBounds.Union(rightClip)

		costSplit := bothLeft.SurfaceArea()*0 + splitLeft.SurfaceArea()*float32(leftCount+1) +
			splitRight.SurfaceArea()*float32(rightCount+1)
		costLeftOnly := bothLeft.SurfaceArea()*float32(leftCount+1) + rightBounds.SurfaceArea()*float32(rightCount)
		costRightOnly := leftBounds.SurfaceArea()*float32(leftCount) + bothRight.SurfaceArea()*float32(rightCount+1)

		switch {
		case costLeftOnly <= costSplit && costLeftOnly <= costRightOnly:
			left = append(left, Ref{PrimIndex: r.PrimIndex, Bounds: r.Bounds})
			leftBounds = bothLeft
			leftCount++
		case costRightOnly <= costSplit && costRightOnly <= costLeftOnly:
			right = append(right, Ref{PrimIndex: r.PrimIndex, Bounds: r.Bounds})
			rightBounds = bothRight
			rightCount++
		default:
			left = append(left, Ref{PrimIndex: r.PrimIndex, Bounds: leftClip})
			right = append(right, Ref{PrimIndex: r.PrimIndex, Bounds: rightClip})
			leftBounds = splitLeft
			rightBounds = splitRight
			leftCount++
			rightCount++
		}
	}

	return left, right
}
