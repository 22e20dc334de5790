package repository

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/domain"
)

func seedAnalytics(t *testing.T, cache *QueryCacheRepository) {
	t.Helper()
	ctx := context.Background()

	seed := []struct {
		queryType  domain.QueryType
		identifier string
		payload    string
		times      int
	}{
		{domain.QueryWinrate, "foo#br1", `{"total":10}`, 3},
		{domain.QueryHistory, "foo#br1", `{"matches":[]}`, 1},
		{domain.QueryWinrate, "bar#br1", `{"total":5}`, 1},
		{domain.QueryChampionStats, "foo#br1-ahri", `{}`, 2},
		{domain.QueryChampionStats, "bar#br1-ahri", `{}`, 1},
		{domain.QueryProfile, "puuid-1", `{"ranks":{"soloDuo":{"tier":"GOLD"}}}`, 1},
		{domain.QueryProfile, "puuid-2", `{"ranks":{"soloDuo":null}}`, 1},
	}
	for _, s := range seed {
		for i := 0; i < s.times; i++ {
			if _, err := cache.Upsert(ctx, s.queryType, s.identifier, []byte(s.payload), time.Minute); err != nil {
				t.Fatalf("seed upsert failed: %v", err)
			}
		}
	}
}

func TestAnalyticsOverview(t *testing.T) {
	db := testDB(t)
	cache := NewQueryCacheRepository(db, zerolog.Nop())
	analytics := NewAnalyticsRepository(db, zerolog.Nop())
	seedAnalytics(t, cache)

	overview, err := analytics.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.TotalEntries != 7 {
		t.Errorf("expected 7 entries, got %d", overview.TotalEntries)
	}
	if overview.TotalQueries != 10 {
		t.Errorf("expected 10 total queries, got %d", overview.TotalQueries)
	}
	// foo#br1 and bar#br1 plus the two profile puuids.
	if overview.UniquePlayers != 4 {
		t.Errorf("expected 4 unique players, got %d", overview.UniquePlayers)
	}
	if overview.QueryTypesUsed != 4 {
		t.Errorf("expected 4 query types, got %d", overview.QueryTypesUsed)
	}
}

func TestAnalyticsTopPlayers(t *testing.T) {
	db := testDB(t)
	cache := NewQueryCacheRepository(db, zerolog.Nop())
	analytics := NewAnalyticsRepository(db, zerolog.Nop())
	seedAnalytics(t, cache)

	players, err := analytics.TopPlayers(context.Background(), 10)
	if err != nil {
		t.Fatalf("top players failed: %v", err)
	}
	// foo#br1, bar#br1 and the two profile puuids.
	if len(players) != 4 {
		t.Fatalf("expected 4 players, got %d", len(players))
	}
	if players[0].Player != "foo#br1" || players[0].TotalQueries != 4 {
		t.Errorf("unexpected leader: %+v", players[0])
	}
	// MAX(last_queried_at) comes back as stored text and must parse.
	if players[0].LastQueriedAt.IsZero() {
		t.Error("expected a parsed last-queried timestamp")
	}
	if time.Since(players[0].LastQueriedAt) > time.Minute {
		t.Errorf("last-queried timestamp too old: %v", players[0].LastQueriedAt)
	}
}

func TestAnalyticsRankDistribution(t *testing.T) {
	db := testDB(t)
	cache := NewQueryCacheRepository(db, zerolog.Nop())
	analytics := NewAnalyticsRepository(db, zerolog.Nop())
	seedAnalytics(t, cache)

	buckets, err := analytics.RankDistribution(context.Background())
	if err != nil {
		t.Fatalf("rank distribution failed: %v", err)
	}

	byTier := map[string]int{}
	for _, b := range buckets {
		byTier[b.Tier] = b.Players
	}
	if byTier["GOLD"] != 1 {
		t.Errorf("expected 1 gold profile, got %d", byTier["GOLD"])
	}
	if byTier["UNRANKED"] != 1 {
		t.Errorf("expected 1 unranked profile, got %d", byTier["UNRANKED"])
	}
}

func TestAnalyticsPlayerPopularity(t *testing.T) {
	db := testDB(t)
	cache := NewQueryCacheRepository(db, zerolog.Nop())
	analytics := NewAnalyticsRepository(db, zerolog.Nop())
	seedAnalytics(t, cache)

	popularity, err := analytics.PlayerPopularity(context.Background(), "foo#br1")
	if err != nil {
		t.Fatalf("popularity failed: %v", err)
	}
	if popularity == nil {
		t.Fatal("expected popularity for a seeded player")
	}
	// winrate 3 + history 1 + champion-stats suffix 2.
	if popularity.TotalQueries != 6 {
		t.Errorf("expected 6 total queries, got %d", popularity.TotalQueries)
	}
	if popularity.FirstQuery.IsZero() || popularity.LastQuery.IsZero() {
		t.Errorf("expected parsed first/last query timestamps, got %+v", popularity)
	}
	if popularity.LastQuery.Before(popularity.FirstQuery) {
		t.Errorf("last query %v precedes first query %v", popularity.LastQuery, popularity.FirstQuery)
	}

	unknown, err := analytics.PlayerPopularity(context.Background(), "ghost#br1")
	if err != nil {
		t.Fatalf("popularity failed: %v", err)
	}
	if unknown != nil {
		t.Errorf("expected nil popularity for unknown player, got %+v", unknown)
	}
}

func TestAnalyticsLastActivity(t *testing.T) {
	db := testDB(t)
	cache := NewQueryCacheRepository(db, zerolog.Nop())
	analytics := NewAnalyticsRepository(db, zerolog.Nop())

	last, err := analytics.LastActivity(context.Background())
	if err != nil {
		t.Fatalf("last activity on empty cache failed: %v", err)
	}
	if !last.IsZero() {
		t.Errorf("expected zero time for empty cache, got %v", last)
	}

	seedAnalytics(t, cache)

	last, err = analytics.LastActivity(context.Background())
	if err != nil {
		t.Fatalf("last activity failed: %v", err)
	}
	if last.IsZero() {
		t.Fatal("expected a parsed last-activity timestamp")
	}
	if time.Since(last) > time.Minute {
		t.Errorf("last activity too old: %v", last)
	}
}

func TestAnalyticsPlayerHistoryIncludesChampionEntries(t *testing.T) {
	db := testDB(t)
	cache := NewQueryCacheRepository(db, zerolog.Nop())
	analytics := NewAnalyticsRepository(db, zerolog.Nop())
	seedAnalytics(t, cache)

	points, err := analytics.PlayerHistory(context.Background(), "foo#br1")
	if err != nil {
		t.Fatalf("player history failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 data points, got %d", len(points))
	}
}
