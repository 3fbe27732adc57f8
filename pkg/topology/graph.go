// Package topology builds the directed graph over net-element sides
// that the path constructor walks (§4.4): two nodes per element (its two
// ends), internal traversal of an element given by NodeID.Opposite rather
// than stored edges, and one connection edge per direction a net-relation
// permits.
package topology

import (
	"fmt"

	"github.com/Matdata-eu/tp-lib/pkg/model"
)

// Side identifies one end of a net-element: 0 is the polyline start,
// 1 is the polyline end.
type Side int

// Side values.
const (
	SideStart Side = 0
	SideEnd   Side = 1
)

// NodeID identifies one SegmentSide: an element and one of its two ends.
type NodeID struct {
	ElementID string
	Side      Side
}

// Opposite returns the other side of the same element — the node a walk
// arrives at after traversing the element internally.
func (n NodeID) Opposite() NodeID {
	return NodeID{ElementID: n.ElementID, Side: 1 - n.Side}
}

// Graph is the adjacency-list graph of connection edges between element
// sides. Internal (same-element) traversal doesn't need an edge list —
// it's always just NodeID.Opposite() — so Graph only stores the
// navigability-derived connection edges, in both directions so forward
// and backward construction (§4.7) can each do O(1) amortized neighbor
// lookup.
type Graph struct {
	out      map[NodeID][]NodeID
	in       map[NodeID][]NodeID
	elements map[string]bool
}

// Build constructs the topology graph from a network's elements and
// relations. Relations that reference unknown elements, self-reference,
// or use out-of-range side positions are skipped with a warning rather
// than failing the build (§3, §4.4, §4.11).
func Build(elements []model.NetElement, relations []model.NetRelation) (*Graph, []model.Warning) {
	g := &Graph{
		out:      make(map[NodeID][]NodeID),
		in:       make(map[NodeID][]NodeID),
		elements: make(map[string]bool, len(elements)),
	}
	for _, e := range elements {
		g.elements[e.ID] = true
	}

	var warnings []model.Warning
	for _, r := range relations {
		if !g.elements[r.ElementA] || !g.elements[r.ElementB] {
			warnings = append(warnings, model.Warning{
				Code:    "invalid_net_relation",
				Message: fmt.Sprintf("net relation %s references an unknown element (A=%s, B=%s)", r.ID, r.ElementA, r.ElementB),
			})
			continue
		}
		if r.ElementA == r.ElementB {
			warnings = append(warnings, model.Warning{
				Code:    "invalid_net_relation",
				Message: fmt.Sprintf("net relation %s self-references element %s", r.ID, r.ElementA),
			})
			continue
		}
		if (r.PositionOnA != 0 && r.PositionOnA != 1) || (r.PositionOnB != 0 && r.PositionOnB != 1) {
			warnings = append(warnings, model.Warning{
				Code:    "invalid_net_relation",
				Message: fmt.Sprintf("net relation %s has an out-of-range side position", r.ID),
			})
			continue
		}

		sideA := NodeID{ElementID: r.ElementA, Side: Side(r.PositionOnA)}
		sideB := NodeID{ElementID: r.ElementB, Side: Side(r.PositionOnB)}

		switch r.Navigability {
		case model.NavigabilityBoth:
			g.addEdge(sideA, sideB)
			g.addEdge(sideB, sideA)
		case model.NavigabilityAB:
			g.addEdge(sideA, sideB)
		case model.NavigabilityBA:
			g.addEdge(sideB, sideA)
		case model.NavigabilityNone:
			// Connection exists but is not traversable; no edge.
		}
	}

	return g, warnings
}

func (g *Graph) addEdge(from, to NodeID) {
	g.out[from] = append(g.out[from], to)
	g.in[to] = append(g.in[to], from)
}

// Neighbors returns the sides reachable from n via a single navigable
// connection edge (outgoing direction).
func (g *Graph) Neighbors(n NodeID) []NodeID {
	return g.out[n]
}

// NeighborsIncoming returns the sides that have a navigable connection
// edge arriving at n — used by backward construction (§4.7).
func (g *Graph) NeighborsIncoming(n NodeID) []NodeID {
	return g.in[n]
}

// HasElement reports whether id is a known element in this graph.
func (g *Graph) HasElement(id string) bool {
	return g.elements[id]
}
