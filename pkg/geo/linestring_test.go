package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matdata-eu/tp-lib/pkg/model"
)

func straightLine(t *testing.T) *LineString {
	t.Helper()
	ls, err := NewLineString([]model.Point{{X: 0, Y: 0}, {X: 0, Y: 1000}}, ProjectedBackend{})
	require.NoError(t, err)
	return ls
}

func TestProjectOnStraightSegment(t *testing.T) {
	ls := straightLine(t)

	proj := Project(ls, model.Point{X: 5, Y: 100})
	assert.InDelta(t, 5.0, proj.PerpDistance, 1e-9)
	assert.InDelta(t, 100.0, proj.Measure, 1e-9)
	assert.InDelta(t, 0.1, proj.Intrinsic, 1e-9)

	proj = Project(ls, model.Point{X: 5, Y: 900})
	assert.InDelta(t, 0.9, proj.Intrinsic, 1e-9)
}

func TestProjectClampsToEndpoints(t *testing.T) {
	ls := straightLine(t)
	proj := Project(ls, model.Point{X: 0, Y: -50})
	assert.Equal(t, 0.0, proj.Intrinsic)
	assert.InDelta(t, 50.0, proj.PerpDistance, 1e-9)

	proj = Project(ls, model.Point{X: 0, Y: 1050})
	assert.Equal(t, 1.0, proj.Intrinsic)
}

func TestSegmentHeadingNorthSouth(t *testing.T) {
	ls := straightLine(t)
	h := SegmentHeading(ls, 0.5)
	assert.InDelta(t, 0.0, h, 1e-9) // +Y is north
}

func TestNewLineStringRejectsDegenerate(t *testing.T) {
	_, err := NewLineString([]model.Point{{X: 0, Y: 0}}, ProjectedBackend{})
	require.Error(t, err)

	_, err = NewLineString([]model.Point{{X: 1, Y: 1}, {X: 1, Y: 1}}, ProjectedBackend{})
	require.Error(t, err)
}

func TestProjectMultiSegmentTieBreaksSmallerIndex(t *testing.T) {
	// Two collinear segments meeting at (0,500): equidistant point from
	// both should resolve to the earlier segment's index.
	ls, err := NewLineString([]model.Point{{X: 0, Y: 0}, {X: 0, Y: 500}, {X: 0, Y: 1000}}, ProjectedBackend{})
	require.NoError(t, err)

	proj := Project(ls, model.Point{X: 0, Y: 500})
	assert.Equal(t, 0, proj.SegmentIndex)
}

func TestIsGeographic(t *testing.T) {
	assert.True(t, IsGeographic("WGS84"))
	assert.True(t, IsGeographic("epsg:4326"))
	assert.False(t, IsGeographic("EPSG:2154"))
}

func TestGeographicBackendHaversine(t *testing.T) {
	b := GeographicBackend{}
	// Roughly 111.2km per degree of latitude near the equator.
	d := b.Length(model.Point{X: 0, Y: 0}, model.Point{X: 0, Y: 1})
	assert.InDelta(t, 111195.0, d, 500)
}
