package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/domain"
)

// AnalyticsRepository runs the read-only rollup queries over the query
// cache. Everything here is derived data; nothing mutates the cache.
type AnalyticsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewAnalyticsRepository(sqlDB *sql.DB, logger zerolog.Logger) *AnalyticsRepository {
	return &AnalyticsRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Aggregate expressions (MAX/MIN over a TIMESTAMP column) lose the column's
// declared type, so go-sqlite3 hands back the stored text instead of a
// time.Time. Parse with the layouts the driver writes.
var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseStoredTime(value string) (time.Time, error) {
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

func (r *AnalyticsRepository) Overview(ctx context.Context) (*domain.QueryCacheOverview, error) {
	overview := &domain.QueryCacheOverview{}
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_queries), 0),
		       COUNT(DISTINCT CASE WHEN query_type IN ('profile', 'mastery', 'winrate', 'history') THEN identifier END),
		       COUNT(DISTINCT query_type)
		FROM query_cache`)
	err := row.Scan(&overview.TotalEntries, &overview.TotalQueries, &overview.UniquePlayers, &overview.QueryTypesUsed)
	if err != nil {
		return nil, fmt.Errorf("failed to build cache overview: %w", err)
	}
	return overview, nil
}

func (r *AnalyticsRepository) TypeDistribution(ctx context.Context) ([]domain.TypeDistribution, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT query_type, COUNT(*), COALESCE(SUM(total_queries), 0)
		FROM query_cache
		GROUP BY query_type
		ORDER BY SUM(total_queries) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query type distribution: %w", err)
	}
	defer rows.Close()

	distribution := []domain.TypeDistribution{}
	for rows.Next() {
		var d domain.TypeDistribution
		if err := rows.Scan(&d.QueryType, &d.Entries, &d.TotalQueries); err != nil {
			return nil, fmt.Errorf("failed to scan type distribution: %w", err)
		}
		distribution = append(distribution, d)
	}
	return distribution, rows.Err()
}

// TopPlayers ranks player identifiers by aggregate query volume across the
// player-keyed query types.
func (r *AnalyticsRepository) TopPlayers(ctx context.Context, limit int) ([]domain.TopPlayer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT identifier, SUM(total_queries) AS searches, MAX(last_queried_at)
		FROM query_cache
		WHERE query_type IN ('profile', 'mastery', 'winrate', 'history')
		GROUP BY identifier
		ORDER BY searches DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top players: %w", err)
	}
	defer rows.Close()

	players := []domain.TopPlayer{}
	for rows.Next() {
		var p domain.TopPlayer
		var last sql.NullString
		if err := rows.Scan(&p.Player, &p.TotalQueries, &last); err != nil {
			return nil, fmt.Errorf("failed to scan top player: %w", err)
		}
		if last.Valid {
			if p.LastQueriedAt, err = parseStoredTime(last.String); err != nil {
				return nil, fmt.Errorf("failed to parse top player timestamp: %w", err)
			}
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// ChampionStatsRows returns the raw per-champion cache rows; splitting the
// champion suffix off the identifier happens in the service layer.
func (r *AnalyticsRepository) ChampionStatsRows(ctx context.Context) ([]domain.ChampionStatsRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT identifier, total_queries
		FROM query_cache
		WHERE query_type = 'champion-stats'
		ORDER BY total_queries DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query champion stats rows: %w", err)
	}
	defer rows.Close()

	result := []domain.ChampionStatsRow{}
	for rows.Next() {
		var row domain.ChampionStatsRow
		if err := rows.Scan(&row.Identifier, &row.TotalQueries); err != nil {
			return nil, fmt.Errorf("failed to scan champion stats row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// RankDistribution buckets cached profiles by solo queue tier, read straight
// out of the stored payloads.
func (r *AnalyticsRepository) RankDistribution(ctx context.Context) ([]domain.RankBucket, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(json_extract(payload, '$.ranks.soloDuo.tier'), 'UNRANKED') AS tier,
		       COUNT(*),
		       COALESCE(SUM(total_queries), 0)
		FROM query_cache
		WHERE query_type = 'profile'
		GROUP BY tier
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rank distribution: %w", err)
	}
	defer rows.Close()

	buckets := []domain.RankBucket{}
	for rows.Next() {
		var b domain.RankBucket
		if err := rows.Scan(&b.Tier, &b.Players, &b.TotalQueries); err != nil {
			return nil, fmt.Errorf("failed to scan rank bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// ActivityByHour buckets query activity by hour of day (UTC).
func (r *AnalyticsRepository) ActivityByHour(ctx context.Context) ([]domain.HourBucket, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(strftime('%H', last_queried_at) AS INTEGER) AS hour,
		       SUM(total_queries),
		       COUNT(DISTINCT identifier)
		FROM query_cache
		GROUP BY hour
		ORDER BY hour`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly activity: %w", err)
	}
	defer rows.Close()

	buckets := []domain.HourBucket{}
	for rows.Next() {
		var b domain.HourBucket
		if err := rows.Scan(&b.Hour, &b.TotalQueries, &b.UniquePlayers); err != nil {
			return nil, fmt.Errorf("failed to scan hour bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// PlayerHistory returns every cached entry for a player identifier across
// query types, including per-champion entries, newest first.
func (r *AnalyticsRepository) PlayerHistory(ctx context.Context, identifier string) ([]domain.PlayerDataPoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT query_type, last_queried_at, total_queries, expires_at
		FROM query_cache
		WHERE identifier = ? OR identifier LIKE ?
		ORDER BY last_queried_at DESC`,
		identifier, identifier+"-%")
	if err != nil {
		return nil, fmt.Errorf("failed to query player history: %w", err)
	}
	defer rows.Close()

	points := []domain.PlayerDataPoint{}
	for rows.Next() {
		var p domain.PlayerDataPoint
		if err := rows.Scan(&p.QueryType, &p.LastQueriedAt, &p.TotalQueries, &p.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan player data point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// PlayerPopularity aggregates query volume for one player identifier.
// Returns nil when the identifier has never been queried.
func (r *AnalyticsRepository) PlayerPopularity(ctx context.Context, identifier string) (*domain.PlayerPopularity, error) {
	var total int
	var first, last sql.NullString
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_queries), 0), MIN(created_at), MAX(last_queried_at)
		FROM query_cache
		WHERE identifier = ? OR identifier LIKE ?`,
		identifier, identifier+"-%")
	if err := row.Scan(&total, &first, &last); err != nil {
		return nil, fmt.Errorf("failed to query player popularity: %w", err)
	}
	if total == 0 {
		return nil, nil
	}
	popularity := &domain.PlayerPopularity{TotalQueries: total}
	var err error
	if first.Valid {
		if popularity.FirstQuery, err = parseStoredTime(first.String); err != nil {
			return nil, fmt.Errorf("failed to parse first query timestamp: %w", err)
		}
	}
	if last.Valid {
		if popularity.LastQuery, err = parseStoredTime(last.String); err != nil {
			return nil, fmt.Errorf("failed to parse last query timestamp: %w", err)
		}
	}
	return popularity, nil
}

// LastActivity returns the newest last_queried_at across the cache, zero
// time when the cache is empty.
func (r *AnalyticsRepository) LastActivity(ctx context.Context) (time.Time, error) {
	var last sql.NullString
	row := r.db.QueryRowContext(ctx, `SELECT MAX(last_queried_at) FROM query_cache`)
	if err := row.Scan(&last); err != nil {
		return time.Time{}, fmt.Errorf("failed to query last activity: %w", err)
	}
	if !last.Valid {
		return time.Time{}, nil
	}
	return parseStoredTime(last.String)
}
