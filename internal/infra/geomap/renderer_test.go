package geomap

import (
	"strings"
	"testing"

	"usermap/config"
	"usermap/internal/domain/entity"
	"usermap/internal/domain/service"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMapTestRenderer(t *testing.T) service.MapRenderer {
	t.Helper()

	mapRenderer, err := NewRenderer(&config.Config{
		Map: &config.MapConfig{
			DefaultZoom: 13,
			TileURL:     "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		},
	})
	require.NoError(t, err)

	return mapRenderer
}

func locatedAccount(id int64, username string, lon, lat float64) *entity.Account {
	point := orb.Point{lon, lat}

	return &entity.Account{ID: id, Username: username, Location: &point}
}

func TestRenderer_Render_CentersOnLowestID(t *testing.T) {
	mapRenderer := newMapTestRenderer(t)

	accounts := []*entity.Account{
		locatedAccount(3, "alice", 121.56, 25.03),
		locatedAccount(7, "bob", 2.35, 48.85),
	}

	artifact, err := mapRenderer.Render(accounts)

	require.NoError(t, err)
	assert.Equal(t, 2, artifact.Markers)
	assert.False(t, artifact.Empty)
	assert.InDelta(t, 121.56, artifact.Center.Lon(), 1e-9)
	assert.InDelta(t, 25.03, artifact.Center.Lat(), 1e-9)
	assert.Contains(t, string(artifact.HTML), "alice")
	assert.Contains(t, string(artifact.HTML), "L.geoJSON")
}

func TestRenderer_Render_SkipsUnlocatedAccounts(t *testing.T) {
	mapRenderer := newMapTestRenderer(t)

	accounts := []*entity.Account{
		{ID: 1, Username: "nowhere"},
		locatedAccount(2, "somewhere", -0.12, 51.5),
	}

	artifact, err := mapRenderer.Render(accounts)

	require.NoError(t, err)
	assert.Equal(t, 1, artifact.Markers)
	assert.NotContains(t, string(artifact.HTML), "nowhere")
}

func TestRenderer_Render_EmptyMap(t *testing.T) {
	mapRenderer := newMapTestRenderer(t)

	artifact, err := mapRenderer.Render(nil)

	require.NoError(t, err)
	assert.True(t, artifact.Empty)
	assert.Zero(t, artifact.Markers)
	assert.True(t, strings.Contains(string(artifact.HTML), "No users have shared a location yet."))
}

func TestRenderer_Collect_Properties(t *testing.T) {
	mapRenderer := newMapTestRenderer(t)

	account := locatedAccount(9, "carol", 139.69, 35.68)
	account.FirstName = "Carol"
	account.LastName = "Jones"

	collection := mapRenderer.Collect([]*entity.Account{account})

	require.Len(t, collection.Features, 1)
	props := collection.Features[0].Properties
	assert.Equal(t, int64(9), props["id"])
	assert.Equal(t, "carol", props["username"])
	assert.Equal(t, "Carol Jones", props["name"])
}
