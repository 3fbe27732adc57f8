package pathselect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matdata-eu/tp-lib/pkg/crs"
	"github.com/Matdata-eu/tp-lib/pkg/geo"
	"github.com/Matdata-eu/tp-lib/pkg/model"
	"github.com/Matdata-eu/tp-lib/pkg/pathconstruct"
	"github.com/Matdata-eu/tp-lib/pkg/topology"
)

func TestPDirectionZeroForIncompleteWalk(t *testing.T) {
	w := pathconstruct.Walk{Elements: []pathconstruct.WalkStep{{ElementID: "a"}}, Complete: false}
	assert.Equal(t, 0.0, PDirection(w, nil, nil))
}

func TestPDirectionWeightsByLength(t *testing.T) {
	w := pathconstruct.Walk{
		Elements: []pathconstruct.WalkStep{{ElementID: "a"}, {ElementID: "b"}},
		Complete: true,
	}
	elementP := map[string]float64{"a": 1.0, "b": 0.0}
	elementLength := map[string]float64{"a": 100, "b": 100}
	assert.InDelta(t, 0.5, PDirection(w, elementP, elementLength), 1e-9)
}

func TestPPathAveragesMissingDirectionAsZero(t *testing.T) {
	assert.InDelta(t, 0.4, PPath(0.8, 0.0), 1e-9)
}

func TestSelectPicksHighestScore(t *testing.T) {
	candidates := []ScoredWalk{
		{Walk: pathconstruct.Walk{}, Score: 0.3},
		{Walk: pathconstruct.Walk{}, Score: 0.9},
		{Walk: pathconstruct.Walk{}, Score: 0.5},
	}
	best, ok := Select(candidates)
	require.True(t, ok)
	assert.Equal(t, 0.9, best.Score)
}

func TestSelectFailsWhenAllZero(t *testing.T) {
	candidates := []ScoredWalk{{Score: 0}, {Score: 0}}
	_, ok := Select(candidates)
	assert.False(t, ok)
}

func TestProjectAssignsFixesToClosestElement(t *testing.T) {
	backend := geo.ProjectedBackend{}
	lsA, err := geo.NewLineString([]model.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}, backend)
	require.NoError(t, err)
	lsB, err := geo.NewLineString([]model.Point{{X: 100, Y: 0}, {X: 200, Y: 0}}, backend)
	require.NoError(t, err)

	walk := pathconstruct.Walk{Elements: []pathconstruct.WalkStep{
		{ElementID: "a", EntrySide: topology.SideStart},
		{ElementID: "b", EntrySide: topology.SideStart},
	}}
	lineStrings := map[string]*geo.LineString{"a": lsA, "b": lsB}
	lengths := map[string]float64{"a": 100, "b": 100}

	fixes := []model.GnssFix{
		{Longitude: 10, Latitude: 1},
		{Longitude: 150, Latitude: 1},
	}

	projected, err := Project(fixes, walk, lineStrings, lengths, crs.NoopTransformer{}, "LOCAL")
	require.NoError(t, err)
	require.Len(t, projected, 2)
	assert.Equal(t, "a", projected[0].ElementID)
	assert.Equal(t, "b", projected[1].ElementID)
	assert.InDelta(t, 10, projected[0].Measure, 1e-6)
	assert.InDelta(t, 150, projected[1].Measure, 1e-6)
}

func TestCombineWalksMergesSameSignatureFromBothDirections(t *testing.T) {
	w := pathconstruct.Walk{
		Elements: []pathconstruct.WalkStep{{ElementID: "a"}, {ElementID: "b"}},
		Complete: true,
	}
	elementP := map[string]float64{"a": 0.8, "b": 0.8}
	elementLength := map[string]float64{"a": 100, "b": 100}

	scored := CombineWalks([]pathconstruct.Walk{w}, []pathconstruct.Walk{w}, elementP, elementLength)
	require.Len(t, scored, 1)
	assert.InDelta(t, 0.8, scored[0].Score, 1e-9)
}

func TestCombineWalksTreatsMissingDirectionAsZero(t *testing.T) {
	w := pathconstruct.Walk{
		Elements: []pathconstruct.WalkStep{{ElementID: "a"}},
		Complete: true,
	}
	elementP := map[string]float64{"a": 0.8}
	elementLength := map[string]float64{"a": 100}

	scored := CombineWalks([]pathconstruct.Walk{w}, nil, elementP, elementLength)
	require.Len(t, scored, 1)
	assert.InDelta(t, 0.4, scored[0].Score, 1e-9)
	assert.False(t, scored[0].FromBackward)
}

func TestAssociateElementsTracksFixRangePerElement(t *testing.T) {
	walk := pathconstruct.Walk{Elements: []pathconstruct.WalkStep{{ElementID: "a"}, {ElementID: "b"}}}
	elementP := map[string]float64{"a": 0.8, "b": 0.6}
	projected := []model.ProjectedFix{
		{ElementID: "a", Intrinsic: 0.1},
		{ElementID: "a", Intrinsic: 0.9},
		{ElementID: "b", Intrinsic: 0.2},
	}
	assoc := AssociateElements(walk, elementP, projected)
	require.Len(t, assoc, 2)
	assert.Equal(t, "a", assoc[0].ElementID)
	assert.Equal(t, 0, assoc[0].BeginFixIndex)
	assert.Equal(t, 1, assoc[0].EndFixIndex)
	assert.InDelta(t, 0.1, assoc[0].BeginIntrinsic, 1e-9)
	assert.InDelta(t, 0.9, assoc[0].EndIntrinsic, 1e-9)
	assert.Equal(t, "b", assoc[1].ElementID)
	assert.Equal(t, 2, assoc[1].BeginFixIndex)
}
