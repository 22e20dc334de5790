package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/otvkatibe/riot-backend/internal/domain"
	"github.com/otvkatibe/riot-backend/internal/repository"
)

const topListSize = 10

// AnalyticsService shapes the read-only rollups derived from the query
// cache. It never mutates cache state.
type AnalyticsService struct {
	repo   *repository.AnalyticsRepository
	store  *repository.CacheStoreRepository
	logger zerolog.Logger
}

func NewAnalyticsService(repo *repository.AnalyticsRepository, store *repository.CacheStoreRepository, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, store: store, logger: logger}
}

// Community assembles the community-wide view: most-searched players and
// champions, rank distribution, and popular hours.
func (s *AnalyticsService) Community(ctx context.Context) (*domain.CommunityAnalytics, error) {
	overview, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, err
	}
	topPlayers, err := s.repo.TopPlayers(ctx, topListSize)
	if err != nil {
		return nil, err
	}
	topChampions, err := s.topChampions(ctx)
	if err != nil {
		return nil, err
	}
	ranks, err := s.repo.RankDistribution(ctx)
	if err != nil {
		return nil, err
	}
	hours, err := s.repo.ActivityByHour(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.CommunityAnalytics{
		TopPlayers:       topPlayers,
		TopChampions:     topChampions,
		Overview:         *overview,
		RankDistribution: ranks,
		PopularHours:     hours,
		GeneratedAt:      time.Now().UTC(),
	}, nil
}

// topChampions splits the champion suffix off champion-stats identifiers
// (formatted name#tag-champion) and aggregates query counts per champion.
func (s *AnalyticsService) topChampions(ctx context.Context) ([]domain.TopChampion, error) {
	rows, err := s.repo.ChampionStatsRows(ctx)
	if err != nil {
		return nil, err
	}

	grouped := lo.GroupBy(rows, func(row domain.ChampionStatsRow) string {
		idx := strings.LastIndex(row.Identifier, "-")
		if idx < 0 {
			return row.Identifier
		}
		return row.Identifier[idx+1:]
	})

	champions := lo.MapToSlice(grouped, func(champion string, rows []domain.ChampionStatsRow) domain.TopChampion {
		return domain.TopChampion{
			Champion: champion,
			TotalQueries: lo.SumBy(rows, func(row domain.ChampionStatsRow) int {
				return row.TotalQueries
			}),
		}
	})

	sort.Slice(champions, func(i, j int) bool {
		return champions[i].TotalQueries > champions[j].TotalQueries
	})
	if len(champions) > topListSize {
		champions = champions[:topListSize]
	}
	return champions, nil
}

// PlayerInsights reports how often one player has been looked up and which
// cached views exist for them.
func (s *AnalyticsService) PlayerInsights(ctx context.Context, nome, tag string) (*domain.PlayerInsights, error) {
	identifier := PlayerKey(nome, tag)

	popularity, err := s.repo.PlayerPopularity(ctx, identifier)
	if err != nil {
		return nil, err
	}

	insights := &domain.PlayerInsights{Player: identifier}
	if popularity == nil {
		return insights, nil
	}

	points, err := s.repo.PlayerHistory(ctx, identifier)
	if err != nil {
		return nil, err
	}

	insights.Available = true
	insights.Popularity = popularity
	insights.Data = points
	return insights, nil
}

// CacheStatus is the cache-admin introspection view.
type CacheStatus struct {
	Overview     *domain.QueryCacheOverview `json:"queryCache"`
	Distribution []domain.TypeDistribution  `json:"porTipo"`
	Store        *domain.StoreStats         `json:"cacheStore"`
	LastActivity *time.Time                 `json:"ultimaAtividade,omitempty"`
}

// Status assembles per-type cache counts and store stats.
func (s *AnalyticsService) Status(ctx context.Context) (*CacheStatus, error) {
	overview, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build cache status: %w", err)
	}
	distribution, err := s.repo.TypeDistribution(ctx)
	if err != nil {
		return nil, err
	}
	storeStats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}

	status := &CacheStatus{
		Overview:     overview,
		Distribution: distribution,
		Store:        storeStats,
	}
	last, err := s.repo.LastActivity(ctx)
	if err != nil {
		return nil, err
	}
	if !last.IsZero() {
		status.LastActivity = &last
	}
	return status, nil
}
