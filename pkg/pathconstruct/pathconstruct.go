// Package pathconstruct runs the bidirectional beam search that turns
// per-element probabilities into candidate walks through the topology
// graph (§4.7): a best-first exploration, keyed by partial
// length-weighted probability, bounded to a fixed beam width.
package pathconstruct

import (
	"container/heap"

	"github.com/Matdata-eu/tp-lib/pkg/topology"
)

// Direction distinguishes forward (first fix to last) from backward
// (last fix to first) construction.
type Direction int

// Directions.
const (
	Forward Direction = iota
	Backward
)

// FixRange is the inclusive [begin,end] fix-index span a candidate
// element covers, keyed by element id — the per-element summary the
// constructor needs to enforce admissibility rule 3 (no backtracking
// along the fix order) without re-deriving it from raw links each step.
type FixRange struct {
	Begin, End int
}

// Input bundles everything the constructor needs that isn't a tuning
// parameter.
type Input struct {
	Graph           *topology.Graph
	ElementP        map[string]float64    // P(e), from probability.AggregateElement
	ElementLength   map[string]float64    // polyline length in meters
	FixRanges       map[string]FixRange   // which fixes each element has candidates for
	FirstFixIndex   int
	LastFixIndex    int
	ProbabilityMin  float64
	BeamWidth       int
}

// Walk is one candidate path: an ordered list of (element, entry side)
// pairs plus the fix range it was built to cover and its running score.
type Walk struct {
	Elements []WalkStep
	Score    float64 // partial length-weighted probability sum
	Length   float64 // total arc length walked, for normalizing Score
	Reached  int     // furthest fix index covered so far
	Complete bool    // Reached == target last/first fix index
}

// WalkStep is one element visited by a walk, recording which side it
// was entered on so direction/intrinsic bookkeeping downstream (§4.8)
// can tell which way the element was traversed.
type WalkStep struct {
	ElementID string
	EntrySide topology.Side
}

type beamItem struct {
	walk     Walk
	priority float64 // higher is better; beamQueue pops the max
}

// beamQueue is a max-heap over partial walk scores, the same
// container/heap.Interface shape the wider codebase uses for its own
// best-first graph search, adapted here to pop the highest-priority
// item instead of the lowest.
type beamQueue []beamItem

func (q beamQueue) Len() int            { return len(q) }
func (q beamQueue) Less(i, j int) bool  { return q[i].priority > q[j].priority }
func (q beamQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *beamQueue) Push(x any)         { *q = append(*q, x.(beamItem)) }
func (q *beamQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Construct runs the beam search in the given direction, starting from
// startElement entered on startSide, and returns every walk the beam
// retained at termination (i.e. every walk whose branch ran out of
// admissible extensions or reached the target fix), in the order they
// were popped from the priority queue. Walks of equal priority are not
// ordered by insertion into the beam.
func Construct(in Input, dir Direction, startElement string, startSide topology.Side) []Walk {
	beamWidth := in.BeamWidth
	if beamWidth < 1 {
		beamWidth = 1
	}

	start := Walk{
		Elements: []WalkStep{{ElementID: startElement, EntrySide: startSide}},
		Score:    in.ElementP[startElement] * in.ElementLength[startElement],
		Length:   in.ElementLength[startElement],
		Reached:  fixRangeFarEnd(in.FixRanges[startElement], dir),
	}
	target := in.LastFixIndex
	if dir == Backward {
		target = in.FirstFixIndex
	}
	start.Complete = start.Reached == target

	q := &beamQueue{}
	heap.Init(q)
	heap.Push(q, beamItem{walk: start, priority: walkPriority(start)})

	var finished []Walk
	for q.Len() > 0 {
		item := heap.Pop(q).(beamItem)
		w := item.walk
		if w.Complete {
			finished = append(finished, w)
			continue
		}

		extensions := expand(in, dir, w)
		if len(extensions) == 0 {
			finished = append(finished, w) // dead end before reaching target fix
			continue
		}
		for _, ext := range extensions {
			heap.Push(q, beamItem{walk: ext, priority: walkPriority(ext)})
		}
		// Bound the beam: keep only the beamWidth best-scoring partials
		// in flight at any time.
		if q.Len() > beamWidth {
			trimBeam(q, beamWidth)
		}
	}
	return finished
}

func walkPriority(w Walk) float64 {
	if w.Length == 0 {
		return 0
	}
	return w.Score / w.Length
}

// trimBeam keeps only the beamWidth highest-priority items in q.
func trimBeam(q *beamQueue, beamWidth int) {
	all := make([]beamItem, q.Len())
	copy(all, *q)
	*q = (*q)[:0]
	heap.Init(q)
	// Selection by priority: repeatedly take the max until beamWidth
	// items are kept. Small N (bounded by beam width) so a simple sort
	// is clear and cheap enough.
	for len(all) > 0 && q.Len() < beamWidth {
		best := 0
		for i := 1; i < len(all); i++ {
			if all[i].priority > all[best].priority {
				best = i
			}
		}
		heap.Push(q, all[best])
		all = append(all[:best], all[best+1:]...)
	}
}

// expand produces one extended walk per admissible next element from
// the current walk's exit side (§4.7 rules 1-3).
func expand(in Input, dir Direction, w Walk) []Walk {
	last := w.Elements[len(w.Elements)-1]
	exitSide := last.EntrySide.Opposite()

	var neighbors []topology.NodeID
	if dir == Forward {
		neighbors = in.Graph.Neighbors(topology.NodeID{ElementID: last.ElementID, Side: exitSide})
	} else {
		neighbors = in.Graph.NeighborsIncoming(topology.NodeID{ElementID: last.ElementID, Side: exitSide})
	}
	if len(neighbors) == 0 {
		return nil
	}

	visited := make(map[string]bool, len(w.Elements))
	for _, e := range w.Elements {
		visited[e.ElementID] = true
	}

	var out []Walk
	for _, n := range neighbors {
		if visited[n.ElementID] {
			continue // no element revisits within a single walk
		}
		p, hasP := in.ElementP[n.ElementID]
		fr, hasRange := in.FixRanges[n.ElementID]
		admissible := hasP && (p >= in.ProbabilityMin || len(neighbors) == 1)
		if !admissible || !hasRange {
			continue
		}
		if !rangeAdvancesFixOrder(fr, w.Reached, dir) {
			continue
		}

		step := WalkStep{ElementID: n.ElementID, EntrySide: n.Side}
		elements := append(append([]WalkStep{}, w.Elements...), step)
		length := in.ElementLength[n.ElementID]
		reached := fixRangeFarEnd(fr, dir)

		nw := Walk{
			Elements: elements,
			Score:    w.Score + p*length,
			Length:   w.Length + length,
			Reached:  reached,
		}
		target := in.LastFixIndex
		if dir == Backward {
			target = in.FirstFixIndex
		}
		nw.Complete = reached == target
		out = append(out, nw)
	}
	return out
}

// rangeAdvancesFixOrder enforces admissibility rule 3: the candidate
// element's fix range must extend at or beyond the walk's current
// position in the fix sequence.
func rangeAdvancesFixOrder(fr FixRange, reached int, dir Direction) bool {
	if dir == Forward {
		return fr.End >= reached
	}
	return fr.Begin <= reached
}

func fixRangeFarEnd(fr FixRange, dir Direction) int {
	if dir == Forward {
		return fr.End
	}
	return fr.Begin
}

// Reverse converts a backward walk into forward fix order for comparison
// against forward walks (§4.7): reverse the element order and flip each
// step's entry side. No begin/end intrinsic swap follows;
// pathselect.AssociateElements derives those from the projected fixes in
// fix order. Reverse only reorders the element/side sequence; it is
// direction-agnostic bookkeeping, not a geometric operation.
func Reverse(w Walk) Walk {
	n := len(w.Elements)
	reversed := make([]WalkStep, n)
	for i, e := range w.Elements {
		reversed[n-1-i] = WalkStep{ElementID: e.ElementID, EntrySide: e.EntrySide.Opposite()}
	}
	return Walk{Elements: reversed, Score: w.Score, Length: w.Length, Reached: w.Reached, Complete: w.Complete}
}

// BestStartElement picks the element with the highest P(e) among a set
// of candidate element ids, tie-broken lexicographically for
// determinism, and the side closer to the given intrinsic coordinate of
// the anchoring fix (§4.7: intrinsic < 0.5 enters at side 0, else side 1).
func BestStartElement(elementP map[string]float64, candidateElements []string, intrinsicByElement map[string]float64) (string, topology.Side, bool) {
	best := ""
	bestP := -1.0
	for _, id := range candidateElements {
		p := elementP[id]
		if p > bestP || (p == bestP && id < best) {
			best, bestP = id, p
		}
	}
	if best == "" {
		return "", 0, false
	}
	side := topology.SideStart
	if intrinsicByElement[best] >= 0.5 {
		side = topology.SideEnd
	}
	return best, side, true
}
