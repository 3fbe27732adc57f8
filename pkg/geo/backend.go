package geo

import (
	"math"
	"strings"

	geolib "github.com/kellydunn/golang-geo"

	"github.com/Matdata-eu/tp-lib/pkg/model"
)

// Backend is the geometry capability set the rest of the pipeline is
// written against: segment length and azimuth, parameterized by whether
// the network's CRS is geographic (degrees) or projected (meters). The
// choice of backend is made once per network build (§4.1) and is
// consistent across every geometric routine for that call — this is a
// strategy pair behind one interface rather than an inheritance
// hierarchy, per the design notes in §9.
type Backend interface {
	// Length returns the distance between a and b in meters.
	Length(a, b model.Point) float64
	// Azimuth returns the compass bearing from a to b in degrees,
	// [0,360), with 0 = north, 90 = east.
	Azimuth(a, b model.Point) float64
}

// knownGeographicCRS lists the CRS names this module recognizes as
// geographic (degrees-based); anything else is treated as projected
// (meters-based). This fixed list is the core's own minimal,
// self-contained heuristic; nothing else in the module extends it.
var knownGeographicCRS = map[string]bool{
	"WGS84":     true,
	"EPSG:4326": true,
	"CRS84":     true,
	"OGC:CRS84": true,
}

// IsGeographic reports whether crsName should use haversine/great-circle
// geometry rather than planar Euclidean geometry.
func IsGeographic(crsName string) bool {
	return knownGeographicCRS[strings.ToUpper(strings.TrimSpace(crsName))]
}

// NewBackend selects the geometry backend for a network's declared CRS.
func NewBackend(crsName string) Backend {
	if IsGeographic(crsName) {
		return GeographicBackend{}
	}
	return ProjectedBackend{}
}

// GeographicBackend computes great-circle distance (haversine) and
// initial bearing (azimuth) for geographic (lat/lon) coordinates, via
// github.com/kellydunn/golang-geo — the same library the wider corpus
// this module grew from uses for GNSS position math.
type GeographicBackend struct{}

func (GeographicBackend) Length(a, b model.Point) float64 {
	pa := geolib.NewPoint(a.Y, a.X)
	pb := geolib.NewPoint(b.Y, b.X)
	return pa.GreatCircleDistance(pb) * 1000.0 // km -> m
}

func (GeographicBackend) Azimuth(a, b model.Point) float64 {
	pa := geolib.NewPoint(a.Y, a.X)
	pb := geolib.NewPoint(b.Y, b.X)
	brng := pa.BearingTo(pb)
	return normalizeDegrees(brng)
}

// ProjectedBackend computes planar Euclidean distance and heading for
// projected (meters) coordinates.
type ProjectedBackend struct{}

func (ProjectedBackend) Length(a, b model.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func (ProjectedBackend) Azimuth(a, b model.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	// Compass bearing: 0 = north (+Y), 90 = east (+X).
	brng := math.Atan2(dx, dy) * 180 / math.Pi
	return normalizeDegrees(brng)
}

// metersPerDegreeLatitude is the approximate length of one degree of
// latitude, used to convert a meters distance into a conservative degrees
// equivalent for geographic networks.
const metersPerDegreeLatitude = 111320.0

// CutoffToNative converts a cutoff distance expressed in meters into the
// coordinate units a spatial index built over a network in crsName
// operates in: unchanged for a projected (meters) network, or a degrees
// bound for a geographic one. The conversion overestimates near the poles
// (cosLat floored at 0.1) rather than risk a bounding-box pre-filter
// excluding an element a precise perpendicular-distance check would have
// kept — the index's cutoff only needs to be wide enough to not truncate
// real candidates; exact meters filtering happens downstream.
func CutoffToNative(crsName string, cutoffMeters, atLatitude float64) float64 {
	if !IsGeographic(crsName) {
		return cutoffMeters
	}
	cosLat := math.Cos(atLatitude * math.Pi / 180)
	if cosLat < 0.1 {
		cosLat = 0.1
	}
	metersPerDegreeLongitude := metersPerDegreeLatitude * cosLat
	// Degrees needed along whichever axis has fewer meters per degree
	// (longitude, away from the equator) bounds the other axis too.
	return cutoffMeters / metersPerDegreeLongitude
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
