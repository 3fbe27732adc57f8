package crs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matdata-eu/tp-lib/pkg/model"
)

func TestProjTransformerIdentityShortCircuits(t *testing.T) {
	// Same source and target CRS must return the point unchanged
	// without touching the PROJ context at all.
	tr := NewProjTransformer(8)
	defer tr.Close()

	p := model.Point{X: 7.4475, Y: 46.948056}
	out, err := tr.Transform(p, "EPSG:4326", "EPSG:4326")
	require.NoError(t, err)
	assert.Equal(t, p, out)
}

func TestProjTransformerRejectsEmptyCRS(t *testing.T) {
	tr := NewProjTransformer(8)
	defer tr.Close()

	_, err := tr.Transform(model.Point{}, "", "EPSG:4326")
	require.Error(t, err)
}

// TestProjTransformerUsesLonLatAxisOrder guards against the PROJ axis-order
// gotcha: a raw NewCRSToCRS pipeline for EPSG:4326 uses authority order
// (lat,lon), not this package's GIS-convention model.Point{X: lon, Y: lat}.
// New York: EPSG:4326 (lon -74.006111, lat 40.712778) -> EPSG:3857.
func TestProjTransformerUsesLonLatAxisOrder(t *testing.T) {
	tr := NewProjTransformer(8)
	defer tr.Close()

	p := model.Point{X: -74.006111, Y: 40.712778}
	out, err := tr.Transform(p, "EPSG:4326", "EPSG:3857")
	require.NoError(t, err)
	assert.InDelta(t, -8238322.592110482, out.X, 1e-2)
	assert.InDelta(t, 4970068.348185822, out.Y, 1e-2)
}
