package service

import (
	"html/template"

	"usermap/internal/domain/entity"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// MapArtifact is a rendered user map. HTML is a complete page embedding the
// markers; Collection carries the same markers as GeoJSON for API use.
type MapArtifact struct {
	HTML       template.HTML
	Collection *geojson.FeatureCollection
	Markers    int
	Empty      bool
	Center     orb.Point
}

// MapRenderer builds map artifacts from located accounts.
type MapRenderer interface {
	// Render produces the full map page. Accounts without a location are
	// skipped; an empty input yields an artifact with Empty set.
	Render(accounts []*entity.Account) (*MapArtifact, error)

	// Collect builds just the GeoJSON feature collection.
	Collect(accounts []*entity.Account) *geojson.FeatureCollection
}
