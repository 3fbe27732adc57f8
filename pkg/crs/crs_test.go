package crs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matdata-eu/tp-lib/pkg/errs"
	"github.com/Matdata-eu/tp-lib/pkg/model"
)

func TestNoopTransformerIdentity(t *testing.T) {
	var tr NoopTransformer
	p := model.Point{X: 1, Y: 2}
	out, err := tr.Transform(p, "WGS84", "WGS84")
	require.NoError(t, err)
	assert.Equal(t, p, out)
}

func TestNoopTransformerRejectsCrossCRS(t *testing.T) {
	var tr NoopTransformer
	_, err := tr.Transform(model.Point{}, "WGS84", "EPSG:2154")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidCrs)
}

func TestTransformCacheEviction(t *testing.T) {
	c := newTransformCache(2)
	c.put("a", "b", 1)
	c.put("c", "d", 2)
	c.put("e", "f", 3) // evicts (a,b), the least recently used

	_, ok := c.get("a", "b")
	assert.False(t, ok)

	v, ok := c.get("c", "d")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTransformCacheUpdateRefreshesRecency(t *testing.T) {
	c := newTransformCache(2)
	c.put("a", "b", 1)
	c.put("c", "d", 2)
	c.get("a", "b") // touch a,b so it's most-recently-used
	c.put("e", "f", 3)

	_, ok := c.get("c", "d")
	assert.False(t, ok, "c,d should have been evicted instead of a,b")
}
