package resample

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Matdata-eu/tp-lib/pkg/geo"
	"github.com/Matdata-eu/tp-lib/pkg/model"
)

func fixesAtDistances(distances ...float64) []model.GnssFix {
	out := make([]model.GnssFix, len(distances))
	for i, d := range distances {
		out[i] = model.GnssFix{HasDistance: true, Distance: d, Timestamp: time.Unix(int64(i), 0)}
	}
	return out
}

func TestStrideDisabledWhenRNonPositive(t *testing.T) {
	fixes := fixesAtDistances(0, 10, 20)
	assert.Equal(t, 1, Stride(fixes, geo.ProjectedBackend{}, 0))
}

func TestStrideComputesFromMeanSpacing(t *testing.T) {
	fixes := fixesAtDistances(0, 10, 20, 30, 40) // mean spacing 10
	assert.Equal(t, 5, Stride(fixes, geo.ProjectedBackend{}, 50))
}

func TestStrideNeverBelowOne(t *testing.T) {
	fixes := fixesAtDistances(0, 100, 200)
	assert.Equal(t, 1, Stride(fixes, geo.ProjectedBackend{}, 1))
}

func TestIndicesAlwaysIncludesLast(t *testing.T) {
	idx := Indices(10, 3)
	assert.Equal(t, []int{0, 3, 6, 9}, idx)
}

func TestIndicesSingleFix(t *testing.T) {
	idx := Indices(1, 4)
	assert.Equal(t, []int{0}, idx)
}

func TestSelectMapsIndicesToFixes(t *testing.T) {
	fixes := fixesAtDistances(0, 10, 20, 30)
	selected := Select(fixes, []int{0, 2})
	assert.Equal(t, fixes[0], selected[0])
	assert.Equal(t, fixes[2], selected[1])
}
