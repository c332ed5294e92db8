package handler

import (
	"log/slog"
	"net/http"

	"usermap/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MapHandler holds dependencies for the user map handlers.
type MapHandler struct {
	mapUsecase usecase.MapUsecase
	logger     *slog.Logger
}

// NewMapHandler is the constructor for MapHandler, injected by Fx.
func NewMapHandler(mapUsecase usecase.MapUsecase, logger *slog.Logger) *MapHandler {
	return &MapHandler{
		mapUsecase: mapUsecase,
		logger:     logger,
	}
}

// UserMap serves the map page with one marker per located user. An empty map
// is still a 200.
func (h *MapHandler) UserMap(c echo.Context) error {
	artifact, err := h.mapUsecase.RenderUserMap(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return c.HTML(http.StatusOK, string(artifact.HTML))
}

// UserGeoJSON serves the located users as a GeoJSON feature collection.
func (h *MapHandler) UserGeoJSON(c echo.Context) error {
	collection, err := h.mapUsecase.UserGeoJSON(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, collection)
}
