package geo

import (
	"sort"

	"github.com/Matdata-eu/tp-lib/pkg/errs"
	"github.com/Matdata-eu/tp-lib/pkg/model"
)

// LineString is a polyline with precomputed cumulative arc length, so
// Measure is a single multiplication and SegmentHeading binary-searches
// for the containing segment instead of rescanning the whole geometry.
// Project still visits every segment to find the closest one.
type LineString struct {
	Points  []model.Point
	backend Backend

	cumLen []float64 // cumLen[i] = length from Points[0] to Points[i], meters
	total  float64
}

// NewLineString validates and wraps a polyline. A polyline of exactly two
// equal points is rejected (§4.1 edge case); any geometry with fewer than
// two points is rejected.
func NewLineString(points []model.Point, backend Backend) (*LineString, error) {
	if len(points) < 2 {
		return nil, errs.ErrInvalidGeometry
	}
	cum := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cum[i] = cum[i-1] + backend.Length(points[i-1], points[i])
	}
	total := cum[len(cum)-1]
	if total == 0 {
		return nil, errs.ErrInvalidGeometry
	}
	return &LineString{Points: points, backend: backend, cumLen: cum, total: total}, nil
}

// TotalLength returns the polyline's total arc length in meters.
func (ls *LineString) TotalLength() float64 { return ls.total }

// Bounds returns the axis-aligned bounding box of the polyline, for the
// spatial index.
func (ls *LineString) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = ls.Points[0].X, ls.Points[0].Y
	maxX, maxY = minX, minY
	for _, p := range ls.Points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return
}

// Projection is the result of projecting a point onto a LineString (§4.1).
type Projection struct {
	Foot          model.Point
	Intrinsic     float64 // [0,1]
	PerpDistance  float64 // meters
	SegmentIndex  int
	Measure       float64 // meters from Points[0]
}

const tieTolerance = 1e-9

// Project finds the closest point on ls to p, clamping each candidate
// segment's foot to its endpoints, and picking the segment with the
// smallest perpendicular distance; ties within tieTolerance keep the
// smaller segment index (§4.1).
func Project(ls *LineString, p model.Point) Projection {
	best := Projection{PerpDistance: -1}
	for i := 0; i+1 < len(ls.Points); i++ {
		a, b := ls.Points[i], ls.Points[i+1]
		foot, t := closestPointOnSegment(p, a, b)
		dist := ls.backend.Length(p, foot)
		if best.PerpDistance < 0 || dist < best.PerpDistance-tieTolerance {
			segLen := ls.cumLen[i+1] - ls.cumLen[i]
			measure := ls.cumLen[i] + t*segLen
			best = Projection{
				Foot:         foot,
				PerpDistance: dist,
				SegmentIndex: i,
				Measure:      measure,
				Intrinsic:    measure / ls.total,
			}
		}
	}
	return best
}

// Measure returns the arc length (meters) from the start of ls to the
// point at the given intrinsic coordinate.
func Measure(ls *LineString, intrinsic float64) float64 {
	return intrinsic * ls.total
}

// SegmentHeading returns the compass heading, in degrees [0,360), of the
// segment containing the given intrinsic coordinate. A foot exactly at a
// shared vertex uses the heading of the segment that starts there,
// except at intrinsic == 1 where the last segment's heading is used
// (§4.1 edge case: "a projection foot equal to an endpoint uses the
// adjacent segment's heading").
func SegmentHeading(ls *LineString, intrinsic float64) float64 {
	idx := segmentIndexForIntrinsic(ls, intrinsic)
	a, b := ls.Points[idx], ls.Points[idx+1]
	return ls.backend.Azimuth(a, b)
}

func segmentIndexForIntrinsic(ls *LineString, intrinsic float64) int {
	target := intrinsic * ls.total
	n := len(ls.cumLen)
	// The last vertex at or before target starts the containing segment.
	idx := sort.Search(n, func(i int) bool { return ls.cumLen[i] > target }) - 1
	switch {
	case idx <= 0:
		return 0
	case idx >= n-1:
		return n - 2
	default:
		return idx
	}
}

// closestPointOnSegment finds the closest point to p on segment (a,b),
// clamped to the endpoints, via a local-planar approximation over the
// segment's own coordinate space (valid because segments are short
// relative to the earth's radius, the standard approximation for
// foot-of-perpendicular on a near-straight geodesic). The exact
// perpendicular *distance* and arc-length numerator still go through the
// backend's own Length, so geographic accuracy is preserved for anything
// that matters downstream.
func closestPointOnSegment(p, a, b model.Point) (model.Point, float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a, 0
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return model.Point{X: a.X + t*dx, Y: a.Y + t*dy}, t
}
