package impl

import (
	"context"
	"log/slog"

	deliverycontext "usermap/internal/delivery/context"
	domainerrors "usermap/internal/domain/errors"
	"usermap/internal/domain/repository"
	"usermap/internal/domain/service"
	"usermap/internal/usecase"

	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// mapService implements the MapUsecase interface.
type mapService struct {
	accountRepo repository.AccountRepository
	renderer    service.MapRenderer
	logger      *slog.Logger
}

// MapServiceParams holds dependencies for MapService, injected by Fx.
type MapServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Renderer    service.MapRenderer
	Logger      *slog.Logger
}

// NewMapService is the constructor for mapService.
func NewMapService(params MapServiceParams) usecase.MapUsecase {
	return &mapService{
		accountRepo: params.AccountRepo,
		renderer:    params.Renderer,
		logger:      params.Logger,
	}
}

func (srv *mapService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RenderUserMap builds the map page from all located accounts.
func (srv *mapService) RenderUserMap(ctx context.Context) (*service.MapArtifact, error) {
	accounts, err := srv.accountRepo.FindLocated(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to load located accounts", slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "map accounts lookup")
	}

	artifact, err := srv.renderer.Render(accounts)
	if err != nil {
		srv.log(ctx).Error("Failed to render user map", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to render user map")
	}

	srv.log(ctx).Debug("User map rendered", slog.Int("markers", artifact.Markers))

	return artifact, nil
}

// UserGeoJSON returns the located accounts as a GeoJSON feature collection.
func (srv *mapService) UserGeoJSON(ctx context.Context) (*geojson.FeatureCollection, error) {
	accounts, err := srv.accountRepo.FindLocated(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to load located accounts", slog.Any("error", err))

		return nil, domainerrors.NewDatabaseExecuteError(err, "map accounts lookup")
	}

	return srv.renderer.Collect(accounts), nil
}
