// Package validate implements the input rejection rules of §4.11: what
// fails the call outright versus what is silently skipped with a
// warning.
package validate

import (
	"fmt"

	"github.com/Matdata-eu/tp-lib/pkg/errs"
	"github.com/Matdata-eu/tp-lib/pkg/geo"
	"github.com/Matdata-eu/tp-lib/pkg/model"
)

// Fixes rejects a fix list containing any coordinate out of range, any
// present heading outside [0,360), or any unset (zero) timestamp. The
// latitude/longitude range applies to fixes whose CRS is empty or
// geographic; a fix in a projected CRS carries easting/northing in those
// fields and is not range-checked. A non-zero time.Time always carries a
// location, so no further offset check is made.
func Fixes(fixes []model.GnssFix) error {
	for i, f := range fixes {
		geographic := f.CRS == "" || geo.IsGeographic(f.CRS)
		if geographic && (f.Latitude < -90 || f.Latitude > 90 || f.Longitude < -180 || f.Longitude > 180) {
			return errs.NewValidation("fixes", fmt.Sprintf("fix %d has an out-of-range coordinate", i), errs.ErrInvalidCoordinate)
		}
		if f.HasHeading && (f.Heading < 0 || f.Heading >= 360) {
			return errs.NewValidation("fixes", fmt.Sprintf("fix %d has an out-of-range heading", i), errs.ErrInvalidCoordinate)
		}
		if f.Timestamp.IsZero() {
			return errs.NewValidation("fixes", fmt.Sprintf("fix %d is missing a timestamp with a UTC offset", i), errs.ErrMissingTimezone)
		}
	}
	return nil
}

// Elements rejects an empty element list, or any element with fewer
// than two polyline points.
func Elements(elements []model.NetElement) error {
	if len(elements) == 0 {
		return errs.NewValidation("elements", "network has no net elements", errs.ErrEmptyNetwork)
	}
	for _, e := range elements {
		if len(e.Geometry) < 2 {
			return errs.NewValidation("elements", fmt.Sprintf("element %s has fewer than 2 geometry points", e.ID), errs.ErrInvalidGeometry)
		}
	}
	return nil
}
