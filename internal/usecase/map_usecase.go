package usecase

import (
	"context"

	"usermap/internal/domain/service"

	"github.com/paulmach/orb/geojson"
)

// MapUsecase defines the interface for the user map artifact.
type MapUsecase interface {
	// RenderUserMap builds the map page from all located accounts. The
	// artifact is recomputed on every call.
	RenderUserMap(ctx context.Context) (*service.MapArtifact, error)

	// UserGeoJSON returns the located accounts as a GeoJSON feature
	// collection for client-side rendering.
	UserGeoJSON(ctx context.Context) (*geojson.FeatureCollection, error)
}
