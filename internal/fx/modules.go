package fx

import (
	"context"
	"database/sql"

	"monke-bot/internal/api"
	"monke-bot/internal/config"
	"monke-bot/internal/database"
	"monke-bot/internal/discord"
	"monke-bot/internal/logger"
	"monke-bot/internal/metrics"
	"monke-bot/internal/repository"
	"monke-bot/internal/server"
	"monke-bot/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// ProvideMatchStore picks the match record backend. Snapshots and tracking
// always live in sqlite.
func ProvideMatchStore(lc fx.Lifecycle, cfg *config.Config, sqlDB *sql.DB, logger zerolog.Logger) (service.MatchStore, error) {
	if cfg.StoreBackend != config.StoreBadger {
		return repository.NewMatchRepository(sqlDB, logger), nil
	}

	bdb, err := database.NewBadger(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return bdb.Close()
		},
	})
	return repository.NewBadgerMatchRepository(bdb, logger), nil
}

func ProvideMatchCache(cfg *config.Config, store service.MatchStore, source service.MatchSource, m *metrics.Metrics, logger zerolog.Logger) *service.MatchCache {
	return service.NewMatchCache(store, source, cfg.FetchConcurrency, m, logger)
}

func ProvideRiotAPI(client *api.RiotClient) service.RiotAPI {
	return client
}

func ProvideMatchSource(client *api.RiotClient) service.MatchSource {
	return api.NewMatchSource(client)
}

// Core is everything both binaries need: config, storage, the Riot client
// and the services built on them.
var Core = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(ProvideMatchStore),
	fx.Provide(repository.NewRankSnapshotRepository),
	fx.Provide(func(r *repository.RankSnapshotRepository) service.SnapshotStore { return r }),
	fx.Provide(func(r *repository.RankSnapshotRepository) service.SnapshotWriter { return r }),
	fx.Provide(repository.NewTrackingRepository),
	fx.Provide(func(r *repository.TrackingRepository) service.TrackingStore { return r }),
	// api client
	fx.Provide(api.NewRiotClient),
	fx.Provide(ProvideRiotAPI),
	fx.Provide(ProvideMatchSource),
	// svc
	fx.Provide(ProvideMatchCache),
	fx.Provide(service.NewRecapEngine),
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewTrackingService),
	fx.Provide(service.NewReportService),
	fx.Provide(service.NewSnapshotService),
)

var Module = fx.Options(
	Core,
	// server
	fx.Provide(discord.NewVerifier),
	fx.Provide(func(s *service.ReportService) server.Reports { return s }),
	fx.Provide(func(s *service.TrackingService) server.Tracker { return s }),
	fx.Provide(server.NewInteractionServer),
)
