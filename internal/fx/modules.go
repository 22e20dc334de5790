package fx

import (
	"go.uber.org/fx"

	"github.com/otvkatibe/riot-backend/internal/config"
	"github.com/otvkatibe/riot-backend/internal/database"
	"github.com/otvkatibe/riot-backend/internal/logger"
	"github.com/otvkatibe/riot-backend/internal/repository"
	"github.com/otvkatibe/riot-backend/internal/riot"
	"github.com/otvkatibe/riot-backend/internal/server"
	"github.com/otvkatibe/riot-backend/internal/service"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewQueryCacheRepository),
	fx.Provide(repository.NewCacheStoreRepository),
	fx.Provide(repository.NewFavoriteRepository),
	fx.Provide(repository.NewAnalyticsRepository),
	// upstream client
	fx.Provide(riot.NewClient),
	// svc
	fx.Provide(service.NewCacheManager),
	fx.Provide(service.NewIdentityService),
	fx.Provide(service.NewCatalogService),
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewLeaderboardService),
	fx.Provide(service.NewAnalyticsService),
	fx.Provide(service.NewFavoriteService),
	// server
	fx.Provide(server.NewServer),
)
