package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/constants"
	"github.com/otvkatibe/riot-backend/internal/domain"
	"github.com/otvkatibe/riot-backend/internal/repository"
	"github.com/otvkatibe/riot-backend/internal/riot"
)

// StatsService answers the match-derived queries: winrate, per-champion
// aggregates, and match history. Each query runs through the cache manager;
// on a miss it resolves identity, fans out match fetches, and aggregates.
type StatsService struct {
	client   *riot.Client
	identity *IdentityService
	cache    *CacheManager
	store    *repository.CacheStoreRepository
	catalog  *CatalogService
	logger   zerolog.Logger
}

func NewStatsService(client *riot.Client, identity *IdentityService, cache *CacheManager, store *repository.CacheStoreRepository, catalog *CatalogService, logger zerolog.Logger) *StatsService {
	return &StatsService{
		client:   client,
		identity: identity,
		cache:    cache,
		store:    store,
		catalog:  catalog,
		logger:   logger,
	}
}

// matchLoader builds the per-match fetcher used by the fan-out, with a
// read-through on the cache store keyed by match id.
func (s *StatsService) matchLoader(platform string) matchFetcher {
	return func(ctx context.Context, matchID string) (*riot.MatchRecord, error) {
		if payload, ok := s.store.Get(ctx, matchID, domain.StoreMatches); ok {
			var match riot.MatchRecord
			if err := json.Unmarshal(payload, &match); err == nil {
				return &match, nil
			}
			s.logger.Warn().Str("match_id", matchID).Msg("corrupt stored match record, refetching")
		}

		match, err := s.client.MatchByID(ctx, matchID, platform)
		if err != nil {
			return nil, err
		}

		if payload, err := json.Marshal(match); err == nil {
			if err := s.store.Set(ctx, matchID, domain.StoreMatches, payload, constants.MatchStoreTTL); err != nil {
				s.logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to store match record")
			}
		}
		return match, nil
	}
}

// GetWinrate computes the player's ranked solo winrate over recent matches.
func (s *StatsService) GetWinrate(ctx context.Context, nome, tag, platform, tenant string) (*Result, error) {
	identifier := PlayerKey(nome, tag)
	return s.cache.Resolve(ctx, domain.QueryWinrate, identifier, tenant, func(ctx context.Context) (any, error) {
		puuid, err := s.identity.ResolvePUUID(ctx, nome, tag, platform)
		if err != nil {
			return nil, err
		}

		ids, err := s.client.MatchIDs(ctx, puuid, platform, constants.RankedSoloQueueID, constants.WinrateMatchCount)
		if err != nil {
			return nil, err
		}

		matches := fetchMatches(ctx, ids, s.logger, s.matchLoader(platform))
		stats := buildMatchStats(matches, puuid, 0)

		return domain.WinrateStats{
			Winrate:  formatWinRate(stats.Vitorias, stats.Total),
			Vitorias: stats.Vitorias,
			Derrotas: stats.Total - stats.Vitorias,
			Total:    stats.Total,
		}, nil
	})
}

// GetChampionStats computes the player's aggregate on a single champion.
func (s *StatsService) GetChampionStats(ctx context.Context, nome, tag, champion, platform, tenant string) (*Result, error) {
	championID, canonical, _, err := s.catalog.ChampionByName(ctx, champion)
	if err != nil {
		return nil, err
	}

	identifier := PlayerChampionKey(nome, tag, canonical)
	return s.cache.Resolve(ctx, domain.QueryChampionStats, identifier, tenant, func(ctx context.Context) (any, error) {
		puuid, err := s.identity.ResolvePUUID(ctx, nome, tag, platform)
		if err != nil {
			return nil, err
		}

		ids, err := s.client.MatchIDs(ctx, puuid, platform, 0, constants.ChampionStatsMatchCount)
		if err != nil {
			return nil, err
		}

		matches := fetchMatches(ctx, ids, s.logger, s.matchLoader(platform))
		return buildMatchStats(matches, puuid, championID), nil
	})
}

// GetHistory returns the player's recent matches, newest first.
func (s *StatsService) GetHistory(ctx context.Context, nome, tag, platform, tenant string) (*Result, error) {
	identifier := PlayerKey(nome, tag)
	return s.cache.Resolve(ctx, domain.QueryHistory, identifier, tenant, func(ctx context.Context) (any, error) {
		puuid, err := s.identity.ResolvePUUID(ctx, nome, tag, platform)
		if err != nil {
			return nil, err
		}

		ids, err := s.client.MatchIDs(ctx, puuid, platform, 0, constants.HistoryMatchCount)
		if err != nil {
			return nil, err
		}

		matches := fetchMatches(ctx, ids, s.logger, s.matchLoader(platform))
		stats := buildMatchStats(matches, puuid, 0)
		return domain.MatchHistory{Matches: stats.Matches}, nil
	})
}
