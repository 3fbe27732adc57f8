package spatialindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRejectsEmpty(t *testing.T) {
	_, err := Build(nil)
	require.Error(t, err)
}

func TestNearestWithinOrdersByDistance(t *testing.T) {
	items := []Item{
		{ElementID: "far", MinX: 100, MinY: 100, MaxX: 100, MaxY: 100},
		{ElementID: "near", MinX: 1, MinY: 1, MaxX: 1, MaxY: 1},
		{ElementID: "mid", MinX: 10, MinY: 10, MaxX: 10, MaxY: 10},
	}
	tree, err := Build(items)
	require.NoError(t, err)

	hits := tree.NearestWithin(0, 0, 1000, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].ElementID)
	assert.Equal(t, "mid", hits[1].ElementID)
}

func TestNearestWithinRespectsCutoff(t *testing.T) {
	items := []Item{
		{ElementID: "a", MinX: 0, MinY: 0, MaxX: 0, MaxY: 0},
		{ElementID: "b", MinX: 1000, MinY: 1000, MaxX: 1000, MaxY: 1000},
	}
	tree, err := Build(items)
	require.NoError(t, err)

	hits := tree.NearestWithin(0, 0, 10, 5)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ElementID)
}

func TestNearestWithinTieBreaksByInsertionOrder(t *testing.T) {
	items := []Item{
		{ElementID: "first", MinX: 5, MinY: 0, MaxX: 5, MaxY: 0},
		{ElementID: "second", MinX: -5, MinY: 0, MaxX: -5, MaxY: 0},
	}
	tree, err := Build(items)
	require.NoError(t, err)

	hits := tree.NearestWithin(0, 0, 100, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, "first", hits[0].ElementID)
	assert.Equal(t, "second", hits[1].ElementID)
}

func TestNearestWithinManyItemsSpansMultipleLeaves(t *testing.T) {
	var items []Item
	for i := 0; i < 200; i++ {
		x := float64(i)
		items = append(items, Item{ElementID: "e" + string(rune('a'+i%26)) + string(rune('0'+i/26)), MinX: x, MinY: 0, MaxX: x, MaxY: 0})
	}
	tree, err := Build(items)
	require.NoError(t, err)

	hits := tree.NearestWithin(0, 0, 5, 3)
	assert.Len(t, hits, 3)
	assert.Equal(t, 0.0, hits[0].BBoxDistance)
}
