// Package resample strides down a fix sequence for path-construction-only
// use (§4.10); projection and output always use the full original
// sequence so cardinality is preserved end to end.
package resample

import (
	"math"

	"github.com/Matdata-eu/tp-lib/pkg/geo"
	"github.com/Matdata-eu/tp-lib/pkg/model"
)

// Stride computes the fix stride for a given resampling distance r: the
// mean inter-fix spacing s is measured across the sequence (odometer
// deltas when available, else geometric distance), and stride =
// max(1, round(r/s)). A zero or negative r disables resampling (stride 1).
func Stride(fixes []model.GnssFix, backend geo.Backend, r float64) int {
	if r <= 0 || len(fixes) < 2 {
		return 1
	}

	var total float64
	for i := 1; i < len(fixes); i++ {
		total += geo.FixSpacing(fixes[i-1], fixes[i], backend)
	}
	meanSpacing := total / float64(len(fixes)-1)
	if meanSpacing <= 0 {
		return 1
	}

	stride := int(math.Round(r / meanSpacing))
	if stride < 1 {
		stride = 1
	}
	return stride
}

// Indices returns the strided subset of fix indices into the original
// sequence, always including the first and last index so construction
// still spans the whole journey.
func Indices(n, stride int) []int {
	if n == 0 {
		return nil
	}
	var idx []int
	for i := 0; i < n; i += stride {
		idx = append(idx, i)
	}
	if idx[len(idx)-1] != n-1 {
		idx = append(idx, n-1)
	}
	return idx
}

// Select returns fixes[indices...]; position i of the result is original
// fix indices[i], so callers map a resampled position back through the
// indices slice they passed in.
func Select(fixes []model.GnssFix, indices []int) []model.GnssFix {
	out := make([]model.GnssFix, len(indices))
	for i, idx := range indices {
		out[i] = fixes[idx]
	}
	return out
}
