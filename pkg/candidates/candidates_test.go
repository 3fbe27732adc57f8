package candidates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matdata-eu/tp-lib/pkg/crs"
	"github.com/Matdata-eu/tp-lib/pkg/geo"
	"github.com/Matdata-eu/tp-lib/pkg/model"
	"github.com/Matdata-eu/tp-lib/pkg/spatialindex"
)

func buildStraightElement(t *testing.T, id string, x0, y0, x1, y1 float64) *geo.LineString {
	t.Helper()
	ls, err := geo.NewLineString([]model.Point{{X: x0, Y: y0}, {X: x1, Y: y1}}, geo.ProjectedBackend{})
	require.NoError(t, err)
	return ls
}

func TestBuildProducesNearestCandidateWithinCutoff(t *testing.T) {
	elementA := buildStraightElement(t, "a", 0, 0, 1000, 0)
	elementB := buildStraightElement(t, "b", 0, 100, 1000, 100)

	index, err := spatialindex.Build([]spatialindex.Item{
		{ElementID: "a", MinX: 0, MinY: 0, MaxX: 1000, MaxY: 0},
		{ElementID: "b", MinX: 0, MinY: 100, MaxX: 1000, MaxY: 100},
	})
	require.NoError(t, err)

	fixes := []model.GnssFix{
		{Latitude: 5, Longitude: 100, CRS: "LOCAL"},
	}
	geomtry := Geometry{LineStrings: map[string]*geo.LineString{"a": elementA, "b": elementB}}

	// FixPoint uses (X=Longitude, Y=Latitude); give the fix a point near
	// element a (y=0) by placing it close to that line in this planar CRS.
	fixes[0] = model.GnssFix{Longitude: 100, Latitude: 5, CRS: "LOCAL"}

	result, warnings, err := Build(fixes, index, geomtry, crs.NoopTransformer{}, Params{
		NetworkCRS: "LOCAL", CutoffDist: 50, MaxCandidates: 3, Oversample: 2,
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, result, 1)
	require.NotEmpty(t, result[0])
	assert.Equal(t, "a", result[0][0].ElementID)
	assert.InDelta(t, 5.0, result[0][0].PerpDistance, 1e-9)
	assert.InDelta(t, 0.1, result[0][0].Intrinsic, 1e-9)
}

func TestBuildFlagsFixWithNoCandidates(t *testing.T) {
	elementA := buildStraightElement(t, "a", 0, 0, 1000, 0)
	index, err := spatialindex.Build([]spatialindex.Item{
		{ElementID: "a", MinX: 0, MinY: 0, MaxX: 1000, MaxY: 0},
	})
	require.NoError(t, err)

	fixes := []model.GnssFix{{Longitude: 500, Latitude: 5000, CRS: "LOCAL"}}
	geomtry := Geometry{LineStrings: map[string]*geo.LineString{"a": elementA}}

	result, warnings, err := Build(fixes, index, geomtry, crs.NoopTransformer{}, Params{
		NetworkCRS: "LOCAL", CutoffDist: 50, MaxCandidates: 3, Oversample: 2,
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "no_candidates", warnings[0].Code)
	assert.Empty(t, result[0])
}

func TestBuildCapsAtMaxCandidates(t *testing.T) {
	lines := map[string]*geo.LineString{
		"a": buildStraightElement(t, "a", 0, 1, 1000, 1),
		"b": buildStraightElement(t, "b", 0, 2, 1000, 2),
		"c": buildStraightElement(t, "c", 0, 3, 1000, 3),
	}
	index, err := spatialindex.Build([]spatialindex.Item{
		{ElementID: "a", MinX: 0, MinY: 1, MaxX: 1000, MaxY: 1},
		{ElementID: "b", MinX: 0, MinY: 2, MaxX: 1000, MaxY: 2},
		{ElementID: "c", MinX: 0, MinY: 3, MaxX: 1000, MaxY: 3},
	})
	require.NoError(t, err)

	fixes := []model.GnssFix{{Longitude: 500, Latitude: 0, CRS: "LOCAL"}}
	geomtry := Geometry{LineStrings: lines}

	result, _, err := Build(fixes, index, geomtry, crs.NoopTransformer{}, Params{
		NetworkCRS: "LOCAL", CutoffDist: 50, MaxCandidates: 2, Oversample: 3,
	})
	require.NoError(t, err)
	assert.Len(t, result[0], 2)
	assert.Equal(t, "a", result[0][0].ElementID)
	assert.Equal(t, "b", result[0][1].ElementID)
}
