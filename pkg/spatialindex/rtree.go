// Package spatialindex provides a build-once, read-only bounding-box
// index over net-element geometries (§4.3), so candidate search doesn't
// have to scan every element in the network for every fix.
//
// The index is a simple bulk-loaded R-tree: elements are sorted once by
// bounding-box centroid and tiled into fixed-capacity leaves, then
// nearest_within pushes every leaf whose bounding box lies within the
// cutoff onto a container/heap min-heap and pops them in order of box
// distance, computing each popped leaf's item bounding-box distances.
// Every leaf within the cutoff is scanned; the search does not stop
// early once k items have been found.
package spatialindex

import (
	"container/heap"
	"math"
	"sort"

	"github.com/Matdata-eu/tp-lib/pkg/errs"
)

// Item is one entry in the index: an element id and its bounding box.
type Item struct {
	ElementID              string
	MinX, MinY, MaxX, MaxY float64
}

// Hit is one result of a NearestWithin query.
type Hit struct {
	ElementID    string
	BBoxDistance float64 // index coordinate units, lower bound on the true distance
}

const defaultLeafCapacity = 16

// RTree is an immutable, read-only spatial index over a fixed set of
// Items.
type RTree struct {
	leaves []leaf
}

type leafItem struct {
	Item
	insertOrder int
}

type leaf struct {
	minX, minY, maxX, maxY float64
	items                  []leafItem
}

// Build constructs an RTree over items. Build fails with
// errs.ErrEmptyNetwork if items is empty.
func Build(items []Item) (*RTree, error) {
	if len(items) == 0 {
		return nil, errs.ErrEmptyNetwork
	}

	sorted := make([]Item, len(items))
	copy(sorted, items)
	// Sort-tile: order by bbox centroid X, tile into fixed leaves. This
	// is a single-axis simplification of sort-tile-recursive bulk
	// loading; sufficient for the network sizes this pipeline targets
	// and, crucially, deterministic given identical input order (stable
	// sort, ties broken by original index).
	type indexed struct {
		item     Item
		centroid float64
		orig     int
	}
	tmp := make([]indexed, len(sorted))
	for i, it := range sorted {
		tmp[i] = indexed{item: it, centroid: (it.MinX + it.MaxX) / 2, orig: i}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		if tmp[i].centroid != tmp[j].centroid {
			return tmp[i].centroid < tmp[j].centroid
		}
		return tmp[i].orig < tmp[j].orig
	})

	var leaves []leaf
	for start := 0; start < len(tmp); start += defaultLeafCapacity {
		end := start + defaultLeafCapacity
		if end > len(tmp) {
			end = len(tmp)
		}
		l := leaf{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
		for _, ix := range tmp[start:end] {
			l.items = append(l.items, leafItem{Item: ix.item, insertOrder: ix.orig})
			l.minX = math.Min(l.minX, ix.item.MinX)
			l.minY = math.Min(l.minY, ix.item.MinY)
			l.maxX = math.Max(l.maxX, ix.item.MaxX)
			l.maxY = math.Max(l.maxY, ix.item.MaxY)
		}
		leaves = append(leaves, l)
	}

	return &RTree{leaves: leaves}, nil
}

// bboxDistance is the minimum possible distance from point (x,y) to any
// point inside the box — zero if the point is inside the box.
func bboxDistance(x, y, minX, minY, maxX, maxY float64) float64 {
	dx := math.Max(math.Max(minX-x, x-maxX), 0)
	dy := math.Max(math.Max(minY-y, y-maxY), 0)
	return math.Sqrt(dx*dx + dy*dy)
}

type leafHeapEntry struct {
	leafIdx int
	dist    float64
}

type leafHeap []leafHeapEntry

func (h leafHeap) Len() int            { return len(h) }
func (h leafHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h leafHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *leafHeap) Push(x any)         { *h = append(*h, x.(leafHeapEntry)) }
func (h *leafHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// NearestWithin returns up to k items whose bounding-box distance to
// (x,y) is <= cutoff, in non-decreasing bbox-distance order, ties broken
// by insertion order (§4.3). Callers must refine with true perpendicular
// distance — the bbox distance is a lower bound, not the real distance.
func (t *RTree) NearestWithin(x, y, cutoff float64, k int) []Hit {
	if k <= 0 {
		return nil
	}

	h := &leafHeap{}
	heap.Init(h)
	for i, l := range t.leaves {
		d := bboxDistance(x, y, l.minX, l.minY, l.maxX, l.maxY)
		if d <= cutoff {
			heap.Push(h, leafHeapEntry{leafIdx: i, dist: d})
		}
	}

	type candidate struct {
		hit   Hit
		order int
	}
	var all []candidate
	for h.Len() > 0 {
		entry := heap.Pop(h).(leafHeapEntry)
		for _, it := range t.leaves[entry.leafIdx].items {
			d := bboxDistance(x, y, it.MinX, it.MinY, it.MaxX, it.MaxY)
			if d <= cutoff {
				all = append(all, candidate{hit: Hit{ElementID: it.ElementID, BBoxDistance: d}, order: it.insertOrder})
			}
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].hit.BBoxDistance != all[j].hit.BBoxDistance {
			return all[i].hit.BBoxDistance < all[j].hit.BBoxDistance
		}
		return all[i].order < all[j].order
	})

	if len(all) > k {
		all = all[:k]
	}
	out := make([]Hit, len(all))
	for i, c := range all {
		out[i] = c.hit
	}
	return out
}
