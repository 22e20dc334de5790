package domain

import (
	"encoding/json"
	"time"
)

// QueryType tags a logical query whose result is memoized in the query cache.
type QueryType string

const (
	QueryProfile       QueryType = "profile"
	QueryMastery       QueryType = "mastery"
	QueryWinrate       QueryType = "winrate"
	QueryChampionStats QueryType = "champion-stats"
	QueryHistory       QueryType = "history"
	QueryLeaderboard   QueryType = "leaderboard"
	QueryCatalog       QueryType = "catalog"
)

// Cache-store types for sub-query memoization, separate from query types.
const (
	StorePUUID   = "puuid"
	StoreMatches = "matches"
)

// CacheEntry is one memoized query result. At most one entry exists per
// (QueryType, Identifier) pair; the identifier is already normalized
// (lowercased, composed) by the cache manager.
type CacheEntry struct {
	ID            string
	QueryType     QueryType
	Identifier    string
	Payload       json.RawMessage
	TotalQueries  int
	LastQueriedAt time.Time
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Fresh reports whether the entry may be served without recomputation.
func (e *CacheEntry) Fresh(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// TenantQuery is one (tenant, timestamp) attribution on a cache entry.
// Tenants are appended at most once per entry.
type TenantQuery struct {
	Tenant    string    `json:"tenant"`
	QueriedAt time.Time `json:"queriedAt"`
}

// MatchSummary is the per-match slice of an aggregated stats payload.
type MatchSummary struct {
	MatchID      string `json:"matchId"`
	ChampionID   int    `json:"championId"`
	ChampionName string `json:"championName"`
	Win          bool   `json:"win"`
	Kills        int    `json:"kills"`
	Deaths       int    `json:"deaths"`
	Assists      int    `json:"assists"`
	TotalCS      int    `json:"totalCS"`
	GameDuration int64  `json:"gameDuration"`
	Lane         string `json:"lane"`
	Role         string `json:"role"`
	Date         int64  `json:"date"`
}

// AggregatedMatchStats is fully recomputed on every cache miss; totals only
// count matches that were actually fetched and in which the subject appears.
type AggregatedMatchStats struct {
	Vitorias          int            `json:"vitorias"`
	Total             int            `json:"total"`
	TotalKills        int            `json:"totalKills"`
	TotalDeaths       int            `json:"totalDeaths"`
	TotalAssists      int            `json:"totalAssists"`
	TotalCS           int            `json:"totalCS"`
	TotalGameDuration int64          `json:"totalGameDuration"`
	Matches           []MatchSummary `json:"matches"`
}

// WinrateStats is the winrate query payload.
type WinrateStats struct {
	Winrate  string `json:"winrate"`
	Vitorias int    `json:"vitorias"`
	Derrotas int    `json:"derrotas"`
	Total    int    `json:"total"`
}

// MatchHistory is the history query payload.
type MatchHistory struct {
	Matches []MatchSummary `json:"matches"`
}

// LeaderboardEntry is one enriched row of a leaderboard snapshot.
type LeaderboardEntry struct {
	Position     int    `json:"position"`
	Name         string `json:"name"`
	Tag          string `json:"tag"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	PUUID        string `json:"puuid"`
}

// RankInfo is one ranked queue standing on a profile.
type RankInfo struct {
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	QueueType    string `json:"queueType"`
}

// ProfileRanks carries the two tracked queues; absent queues stay nil.
type ProfileRanks struct {
	SoloDuo *RankInfo `json:"soloDuo"`
	Flex    *RankInfo `json:"flex"`
}

// Profile is the profile query payload.
type Profile struct {
	ProfileIconID int          `json:"profileIconId"`
	SummonerLevel int          `json:"summonerLevel"`
	Name          string       `json:"name"`
	Ranks         ProfileRanks `json:"ranks"`
}

// MasteryChampion is one row of the mastery top list.
type MasteryChampion struct {
	Posicao        int    `json:"posicao"`
	Nome           string `json:"nome"`
	ChampionIcon   string `json:"championIcon"`
	ChampionPoints int    `json:"championPoints"`
}

// Favorite is a user-pinned player or champion.
type Favorite struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	Nome       string    `json:"nome"`
	Tag        string    `json:"tag"`
	Tipo       string    `json:"tipo"`
	Observacao string    `json:"observacao,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

const (
	FavoritePlayer   = "player"
	FavoriteChampion = "champion"
)
