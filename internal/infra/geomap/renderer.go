// Package geomap renders the user map page from the set of located accounts.
package geomap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"usermap/config"
	"usermap/internal/domain/entity"
	"usermap/internal/domain/service"
	"usermap/internal/errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type renderer struct {
	zoom     int
	tileURL  string
	template *template.Template
}

// NewRenderer creates a map renderer from configuration.
func NewRenderer(cfg *config.Config) (service.MapRenderer, error) {
	tmpl, err := template.New("usermap").Parse(mapPageTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse map page template")
	}

	return &renderer{
		zoom:     cfg.Map.DefaultZoom,
		tileURL:  cfg.Map.TileURL,
		template: tmpl,
	}, nil
}

func (r *renderer) Collect(accounts []*entity.Account) *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()
	for _, account := range accounts {
		if !account.HasLocation() {
			continue
		}

		feature := geojson.NewFeature(*account.Location)
		feature.Properties["id"] = account.ID
		feature.Properties["username"] = account.Username
		feature.Properties["name"] = displayName(account)
		collection.Append(feature)
	}

	return collection
}

// Render centers the map on the located account with the lowest ID; with no
// located accounts it renders a world view instead.
func (r *renderer) Render(accounts []*entity.Account) (*service.MapArtifact, error) {
	collection := r.Collect(accounts)

	artifact := &service.MapArtifact{
		Collection: collection,
		Markers:    len(collection.Features),
		Empty:      len(collection.Features) == 0,
	}

	zoom := r.zoom
	if artifact.Empty {
		zoom = 2
	} else {
		point, ok := collection.Features[0].Geometry.(orb.Point)
		if !ok {
			return nil, errors.New("map feature geometry is not a point")
		}
		artifact.Center = point
	}

	markerJSON, err := json.Marshal(collection)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal map markers")
	}

	var buf bytes.Buffer
	err = r.template.Execute(&buf, mapPageData{
		TileURL:   r.tileURL,
		CenterLat: artifact.Center.Lat(),
		CenterLon: artifact.Center.Lon(),
		Zoom:      zoom,
		Empty:     artifact.Empty,
		Markers:   template.JS(markerJSON),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render map page")
	}

	artifact.HTML = template.HTML(buf.String())

	return artifact, nil
}

func displayName(account *entity.Account) string {
	switch {
	case account.FirstName != "" && account.LastName != "":
		return fmt.Sprintf("%s %s", account.FirstName, account.LastName)
	case account.FirstName != "":
		return account.FirstName
	default:
		return account.Username
	}
}

type mapPageData struct {
	TileURL   string
	CenterLat float64
	CenterLon float64
	Zoom      int
	Empty     bool
	Markers   template.JS
}

const mapPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>User Map</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <style>
    html, body { height: 100%; margin: 0; }
    #map { height: 100%; }
    .map-empty { padding: 1rem; font-family: sans-serif; }
  </style>
</head>
<body>
{{- if .Empty}}
  <p class="map-empty">No users have shared a location yet.</p>
{{- end}}
  <div id="map"></div>
  <script>
    var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
    L.tileLayer('{{.TileURL}}', {
      attribution: '&copy; OpenStreetMap contributors'
    }).addTo(map);
    var markers = {{.Markers}};
    L.geoJSON(markers, {
      onEachFeature: function (feature, layer) {
        layer.bindPopup(
          '<a href="/profile/' + feature.properties.id + '">' +
          feature.properties.name + '</a>'
        );
      }
    }).addTo(map);
  </script>
</body>
</html>
`
