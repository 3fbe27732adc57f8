package geo

import "github.com/Matdata-eu/tp-lib/pkg/model"

// FixPoint extracts the (X=longitude, Y=latitude) point a GnssFix
// carries, for use with Project/Length/Azimuth.
func FixPoint(fix model.GnssFix) model.Point {
	return model.Point{X: fix.Longitude, Y: fix.Latitude}
}

// FixSpacing is the distance between two fixes, used by both the
// resampler (§4.10) and per-element aggregation (§4.6): the
// fix-provided odometer delta when both fixes carry one, otherwise the
// backend's geometric distance between their raw coordinates.
func FixSpacing(a, b model.GnssFix, backend Backend) float64 {
	if a.HasDistance && b.HasDistance {
		d := b.Distance - a.Distance
		if d < 0 {
			d = -d
		}
		return d
	}
	return backend.Length(FixPoint(a), FixPoint(b))
}
