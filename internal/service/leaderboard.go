package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/otvkatibe/riot-backend/internal/constants"
	"github.com/otvkatibe/riot-backend/internal/domain"
	"github.com/otvkatibe/riot-backend/internal/riot"
)

// LeaderboardService builds challenger leaderboard snapshots. A snapshot is
// expensive to rebuild (one secondary identity lookup per row), so it lives
// under a longer TTL and is eligible for stale fallback when the upstream
// is down.
type LeaderboardService struct {
	client *riot.Client
	cache  *CacheManager
	logger zerolog.Logger
}

func NewLeaderboardService(client *riot.Client, cache *CacheManager, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{client: client, cache: cache, logger: logger}
}

// GetChallengerTop returns the top challenger players for a platform's solo
// queue, enriched with display names.
func (s *LeaderboardService) GetChallengerTop(ctx context.Context, platform, tenant string) (*Result, error) {
	identifier := strings.ToLower(constants.LeaderboardQueue + "#" + platform)
	return s.cache.Resolve(ctx, domain.QueryLeaderboard, identifier, tenant, func(ctx context.Context) (any, error) {
		league, err := s.client.ChallengerLeague(ctx, constants.LeaderboardQueue, platform)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch challenger league: %w", err)
		}

		entries := league.Entries
		// Stable keeps upstream order on league point ties.
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].LeaguePoints > entries[j].LeaguePoints
		})
		if len(entries) > constants.LeaderboardTopN {
			entries = entries[:constants.LeaderboardTopN]
		}

		snapshot := make([]domain.LeaderboardEntry, len(entries))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(constants.LeaderboardTopN)
		for i, entry := range entries {
			g.Go(func() error {
				snapshot[i] = s.enrich(gctx, entry, i+1, platform)
				return nil
			})
		}
		// Enrichment never fails the group; each row degrades on its own.
		_ = g.Wait()

		return snapshot, nil
	})
}

// enrich resolves a league entry's display name and tag. Enrichment is
// best-effort per row: a failed lookup still yields a usable entry with the
// raw summoner name and a placeholder tag.
func (s *LeaderboardService) enrich(ctx context.Context, entry riot.LeagueEntry, position int, platform string) domain.LeaderboardEntry {
	row := domain.LeaderboardEntry{
		Position:     position,
		Name:         entry.SummonerName,
		Tag:          "????",
		LeaguePoints: entry.LeaguePoints,
		Wins:         entry.Wins,
		Losses:       entry.Losses,
	}

	summoner, err := s.client.SummonerByID(ctx, entry.SummonerID, platform)
	if err != nil {
		s.logger.Warn().Err(err).Str("summoner_id", entry.SummonerID).Msg("leaderboard enrichment failed at summoner lookup")
		return row
	}
	row.PUUID = summoner.PUUID

	account, err := s.client.AccountByPUUID(ctx, summoner.PUUID, platform)
	if err != nil {
		s.logger.Warn().Err(err).Str("puuid", summoner.PUUID).Msg("leaderboard enrichment failed at account lookup")
		return row
	}

	row.Name = account.GameName
	row.Tag = account.TagLine
	return row
}
