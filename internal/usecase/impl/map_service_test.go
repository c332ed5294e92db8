package impl

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapService_RenderUserMap(t *testing.T) {
	fixtures := createTestServices(t)
	ctx := context.Background()

	unlocated := validSignupInput("nowhere")
	_, err := fixtures.authService.Signup(ctx, unlocated)
	require.NoError(t, err)

	first := validSignupInput("alice")
	first.Latitude = "25.03"
	first.Longitude = "121.56"
	_, err = fixtures.authService.Signup(ctx, first)
	require.NoError(t, err)

	second := validSignupInput("bob")
	second.Latitude = "48.85"
	second.Longitude = "2.35"
	_, err = fixtures.authService.Signup(ctx, second)
	require.NoError(t, err)

	artifact, err := fixtures.mapService.RenderUserMap(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, artifact.Markers)
	assert.False(t, artifact.Empty)
	// Centered on the located account with the lowest ID.
	assert.InDelta(t, 121.56, artifact.Center.Lon(), 1e-9)
	assert.InDelta(t, 25.03, artifact.Center.Lat(), 1e-9)
	assert.Contains(t, string(artifact.HTML), "alice")
	assert.NotContains(t, string(artifact.HTML), "nowhere")
}

func TestMapService_RenderUserMap_Empty(t *testing.T) {
	fixtures := createTestServices(t)

	artifact, err := fixtures.mapService.RenderUserMap(context.Background())

	require.NoError(t, err)
	assert.True(t, artifact.Empty)
	assert.Zero(t, artifact.Markers)
}

func TestMapService_UserGeoJSON(t *testing.T) {
	fixtures := createTestServices(t)
	ctx := context.Background()

	input := validSignupInput("alice")
	input.Latitude = "35.68"
	input.Longitude = "139.69"
	created, err := fixtures.authService.Signup(ctx, input)
	require.NoError(t, err)

	collection, err := fixtures.mapService.UserGeoJSON(ctx)

	require.NoError(t, err)
	require.Len(t, collection.Features, 1)

	feature := collection.Features[0]
	point, ok := feature.Geometry.(orb.Point)
	require.True(t, ok)
	assert.InDelta(t, 139.69, point.Lon(), 1e-9)
	assert.InDelta(t, 35.68, point.Lat(), 1e-9)
	assert.Equal(t, created.ID, feature.Properties["id"])
	assert.Equal(t, "alice", feature.Properties["username"])
}
