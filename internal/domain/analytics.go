package domain

import "time"

// Read-only rollup views derived from the query cache. None of these carry
// independent state.

type QueryCacheOverview struct {
	TotalEntries   int `json:"totalEntradas"`
	TotalQueries   int `json:"totalConsultas"`
	UniquePlayers  int `json:"jogadoresUnicos"`
	QueryTypesUsed int `json:"tiposConsulta"`
}

type TypeDistribution struct {
	QueryType    QueryType `json:"tipo"`
	Entries      int       `json:"entradas"`
	TotalQueries int       `json:"totalConsultas"`
}

type TopPlayer struct {
	Player        string    `json:"jogador"`
	TotalQueries  int       `json:"consultas"`
	LastQueriedAt time.Time `json:"ultimaConsulta"`
}

// ChampionStatsRow is a raw champion-stats cache row; the champion suffix
// is still embedded in the identifier.
type ChampionStatsRow struct {
	Identifier   string
	TotalQueries int
}

type TopChampion struct {
	Champion     string `json:"campeao"`
	TotalQueries int    `json:"consultas"`
}

type RankBucket struct {
	Tier         string `json:"rank"`
	Players      int    `json:"jogadores"`
	TotalQueries int    `json:"consultasTotal"`
}

type HourBucket struct {
	Hour          int `json:"hora"`
	TotalQueries  int `json:"consultas"`
	UniquePlayers int `json:"jogadoresUnicos"`
}

type CommunityAnalytics struct {
	TopPlayers       []TopPlayer        `json:"jogadoresMaisBuscados"`
	TopChampions     []TopChampion      `json:"championsMaisConsultados"`
	Overview         QueryCacheOverview `json:"estatisticasGerais"`
	RankDistribution []RankBucket       `json:"distribuicaoRanks"`
	PopularHours     []HourBucket       `json:"horariosPopulares"`
	GeneratedAt      time.Time          `json:"geradoEm"`
}

type PlayerDataPoint struct {
	QueryType     QueryType `json:"tipo"`
	LastQueriedAt time.Time `json:"ultimaAtualizacao"`
	TotalQueries  int       `json:"consultas"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type PlayerPopularity struct {
	TotalQueries int       `json:"totalConsultas"`
	FirstQuery   time.Time `json:"primeiraConsulta"`
	LastQuery    time.Time `json:"ultimaConsulta"`
}

type PlayerInsights struct {
	Player     string            `json:"jogador"`
	Available  bool              `json:"disponivel"`
	Popularity *PlayerPopularity `json:"popularidade,omitempty"`
	Data       []PlayerDataPoint `json:"dadosDisponiveis,omitempty"`
}

// StoreStats is the cache-store introspection view.
type StoreStats struct {
	TotalEntries   int            `json:"totalEntries"`
	ExpiredEntries int            `json:"expiredEntries"`
	PerTypeCounts  map[string]int `json:"perTypeCounts"`
}
