package constants

import "time"

// Default TTL per query type. Inversely proportional to upstream data
// volatility, directly proportional to fetch cost.
const (
	ProfileTTL       = 15 * time.Minute
	MasteryTTL       = 60 * time.Minute
	WinrateTTL       = 10 * time.Minute
	ChampionStatsTTL = 30 * time.Minute
	HistoryTTL       = 5 * time.Minute
	LeaderboardTTL   = 30 * time.Minute
	CatalogTTL       = 24 * time.Hour
)

// Cache-store TTLs for sub-query memoization.
const (
	PUUIDStoreTTL = 60 * time.Minute
	MatchStoreTTL = 5 * time.Minute
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	MatchFetchConcurrency   = 10
	WinrateMatchCount       = 30
	ChampionStatsMatchCount = 30
	HistoryMatchCount       = 20
	MasteryTopN             = 10
	LeaderboardTopN         = 5
	RankedSoloQueueID       = 420
	LeaderboardQueue        = "RANKED_SOLO_5x5"
)
