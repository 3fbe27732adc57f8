package netcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matdata-eu/tp-lib/pkg/model"
)

func sampleNetwork() model.Network {
	return model.Network{
		CRS: "LOCAL",
		Elements: []model.NetElement{
			{ID: "e1", Geometry: []model.Point{{X: 0, Y: 0}, {X: 0, Y: 1000}}, CRS: "LOCAL"},
		},
	}
}

func TestPutThenGetRoundTrips(t *testing.T) {
	c, err := Open("")
	require.NoError(t, err)
	defer c.Close()

	network := sampleNetwork()
	hash, err := c.Put(network)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	got, ok, err := c.Get(hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, network, got)
}

func TestGetMissingKeyReturnsNotFound(t *testing.T) {
	c, err := Open("")
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.Get("does-not-exist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashNetworkIsStableForIdenticalInput(t *testing.T) {
	a, err := HashNetwork(sampleNetwork())
	require.NoError(t, err)
	b, err := HashNetwork(sampleNetwork())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
