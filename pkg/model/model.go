// Package model defines the data contracts the map-matching core consumes
// and produces (§3): GNSS fixes, network topology (net elements and net
// relations), and the projected output (TrainPath, ProjectedFix,
// PathResult). These types are plain data; the core never mutates a
// GnssFix, NetElement, or NetRelation after it is handed in.
package model

import "time"

// GnssFix is one GNSS sample from a single continuous train journey.
//
// Invariants: Latitude in [-90,90] and Longitude in [-180,180] when CRS
// is empty or geographic (in a projected CRS they hold northing and
// easting), Heading (if HasHeading) in [0,360), CRS non-empty, Timestamp
// set.
type GnssFix struct {
	Latitude  float64
	Longitude float64
	Timestamp time.Time // must be set (non-zero); see validate.Fixes

	CRS string

	HasHeading bool
	Heading    float64 // degrees, [0,360)

	HasDistance bool
	Distance    float64 // meters; cumulative or incremental, caller's convention

	Metadata map[string]any
}

// NetElement is a directed track segment: a polyline of at least two
// points defining an intrinsic direction from point 0 to point n-1.
type NetElement struct {
	ID       string
	Geometry []Point // len >= 2, in CRS
	CRS      string
}

// Point is a 2D coordinate in some CRS (geographic degrees, or projected
// meters, depending on that CRS's kind).
type Point struct {
	X float64 // longitude or easting
	Y float64 // latitude or northing
}

// Navigability describes which direction(s) of travel a NetRelation
// permits across the two sides it joins.
type Navigability int

// Navigability values.
const (
	NavigabilityNone Navigability = iota
	NavigabilityAB
	NavigabilityBA
	NavigabilityBoth
)

// NetRelation is a navigability connection between one side of
// NetElement A and one side of NetElement B.
type NetRelation struct {
	ID           string
	ElementA     string
	ElementB     string
	PositionOnA  int // 0 (start) or 1 (end)
	PositionOnB  int // 0 (start) or 1 (end)
	Navigability Navigability
	// Connection is an optional connection-point geometry; unused by the
	// core's topology/probability computations, carried through for
	// format adapters that render it.
	Connection []Point
}

// Network is the parsed-input contract for one map-matching call: a set
// of net elements, the relations connecting their sides, and the CRS the
// elements are expressed in.
type Network struct {
	Elements  []NetElement
	Relations []NetRelation
	CRS       string
}

// CandidateLink is an intermediate (fix, netelement) pairing produced by
// the candidate builder (§4.5) and consumed by the probability model
// (§4.6). Candidate links are call-local: they must not outlive
// probability aggregation (§5).
type CandidateLink struct {
	FixIndex       int
	ElementID      string
	Point          Point
	PerpDistance   float64 // meters
	Intrinsic      float64 // [0,1]
	HasHeadingDiff bool
	HeadingDiff    float64 // degrees, folded into [0,90]; only meaningful if HasHeadingDiff
	Probability    float64 // P_link
}

// AssociatedElement is one slice of a NetElement attributed to a portion
// of the fix sequence in a chosen path.
//
// Invariant: BeginIntrinsic, EndIntrinsic in [0,1]; BeginFixIndex <=
// EndFixIndex. Per the spec's open question on traversal direction,
// EndIntrinsic may be less than BeginIntrinsic when the walk traverses
// the element from side 1 to side 0 — consumers must tolerate both
// orderings.
type AssociatedElement struct {
	ElementID      string
	BeginIntrinsic float64
	EndIntrinsic   float64
	Probability    float64
	BeginFixIndex  int
	EndFixIndex    int
}

// CalculationMode records how a TrainPath was produced.
type CalculationMode int

// Calculation modes.
const (
	ModeTopologyBased CalculationMode = iota
	ModeFallbackIndependent
)

func (m CalculationMode) String() string {
	if m == ModeFallbackIndependent {
		return "FallbackIndependent"
	}
	return "TopologyBased"
}

// TrainPath is the chosen continuous path through the network.
type TrainPath struct {
	Elements        []AssociatedElement // len >= 1
	Probability     float64             // overall probability in [0,1]
	Mode            CalculationMode
	ParametersUsed  map[string]float64 // snapshot of tuning parameters (see config.Snapshot)
}

// ProjectedFix is one original GNSS fix projected onto the chosen (or
// fallback) path.
//
// Invariants: PerpendicularDistance >= 0; Measure >= 0; Intrinsic in [0,1].
type ProjectedFix struct {
	Original              GnssFix
	Point                 Point
	ElementID             string
	Intrinsic             float64
	Measure               float64 // meters from path start (or, in fallback mode, from the element start)
	PerpendicularDistance float64
	ResultCRS             string
}

// Warning is a structured, non-fatal diagnostic accumulated during a
// Match call (§7). FixIndex and ElementID are populated when the warning
// concerns a specific fix or element; both may be absent (nil / "").
type Warning struct {
	Code      string
	Message   string
	FixIndex  *int
	ElementID string
}

// PathResult is the synchronous output of one Match call.
type PathResult struct {
	Path          *TrainPath // set for ModeTopologyBased; nil in ModeFallbackIndependent
	Mode          CalculationMode
	ProjectedFixes []ProjectedFix
	Warnings      []Warning
}

// Strings renders Warnings as human-readable strings, for callers that
// don't want the structured form.
func (r PathResult) Strings() []string {
	out := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		out[i] = w.Message
	}
	return out
}
