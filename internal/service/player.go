package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/constants"
	"github.com/otvkatibe/riot-backend/internal/domain"
	"github.com/otvkatibe/riot-backend/internal/riot"
)

// PlayerService answers the identity-centric queries: ranked profile and
// champion mastery.
type PlayerService struct {
	client   *riot.Client
	identity *IdentityService
	cache    *CacheManager
	catalog  *CatalogService
	logger   zerolog.Logger
}

func NewPlayerService(client *riot.Client, identity *IdentityService, cache *CacheManager, catalog *CatalogService, logger zerolog.Logger) *PlayerService {
	return &PlayerService{
		client:   client,
		identity: identity,
		cache:    cache,
		catalog:  catalog,
		logger:   logger,
	}
}

// GetProfile returns the ranked profile for a puuid. The cache identifier
// is the lowercased puuid itself; name#tag callers resolve identity first.
func (s *PlayerService) GetProfile(ctx context.Context, puuid, platform, tenant string) (*Result, error) {
	identifier := strings.ToLower(puuid)
	return s.cache.Resolve(ctx, domain.QueryProfile, identifier, tenant, func(ctx context.Context) (any, error) {
		summoner, err := s.client.SummonerByPUUID(ctx, puuid, platform)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch summoner: %w", err)
		}

		account, err := s.client.AccountByPUUID(ctx, puuid, platform)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch account: %w", err)
		}

		entries, err := s.client.RankedEntries(ctx, puuid, platform)
		if err != nil {
			return nil, err
		}

		return domain.Profile{
			ProfileIconID: summoner.ProfileIconID,
			SummonerLevel: summoner.SummonerLevel,
			Name:          account.GameName + "#" + account.TagLine,
			Ranks:         processRanked(entries),
		}, nil
	})
}

// processRanked keeps the two tracked queues, leaving absent queues nil so
// an unranked player renders as such.
func processRanked(entries []riot.RankEntry) domain.ProfileRanks {
	ranks := domain.ProfileRanks{}
	for _, entry := range entries {
		info := &domain.RankInfo{
			Tier:         entry.Tier,
			Rank:         entry.Rank,
			LeaguePoints: entry.LeaguePoints,
			Wins:         entry.Wins,
			Losses:       entry.Losses,
		}
		switch entry.QueueType {
		case "RANKED_SOLO_5x5":
			info.QueueType = "Ranqueada Solo/Duo"
			ranks.SoloDuo = info
		case "RANKED_FLEX_SR":
			info.QueueType = "Ranqueada Flexível"
			ranks.Flex = info
		}
	}
	return ranks
}

// GetMastery returns the player's top champions by mastery points.
func (s *PlayerService) GetMastery(ctx context.Context, nome, tag, platform, tenant string) (*Result, error) {
	identifier := PlayerKey(nome, tag)
	return s.cache.Resolve(ctx, domain.QueryMastery, identifier, tenant, func(ctx context.Context) (any, error) {
		puuid, err := s.identity.ResolvePUUID(ctx, nome, tag, platform)
		if err != nil {
			return nil, err
		}

		entries, err := s.client.Masteries(ctx, puuid, platform)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch masteries: %w", err)
		}

		if len(entries) > constants.MasteryTopN {
			entries = entries[:constants.MasteryTopN]
		}

		top := make([]domain.MasteryChampion, 0, len(entries))
		for i, entry := range entries {
			row := domain.MasteryChampion{
				Posicao:        i + 1,
				Nome:           fmt.Sprintf("Campeão %d", entry.ChampionID),
				ChampionPoints: entry.ChampionPoints,
			}
			if champ, version, err := s.catalog.ChampionByKey(ctx, entry.ChampionID); err == nil {
				row.Nome = champ.Name
				row.ChampionIcon = ChampionIconURL(version, champ.ID)
			} else {
				s.logger.Warn().Err(err).Int("champion_id", entry.ChampionID).Msg("champion missing from catalog")
			}
			top = append(top, row)
		}
		return top, nil
	})
}
