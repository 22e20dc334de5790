package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/domain"
)

// QueryCacheRepository persists the popularity-tracking query cache. One row
// per (query_type, identifier) pair, enforced by a unique index.
type QueryCacheRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewQueryCacheRepository(sqlDB *sql.DB, logger zerolog.Logger) *QueryCacheRepository {
	return &QueryCacheRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Get returns the cache entry for the pair regardless of freshness, or
// (nil, nil) when no entry exists. Freshness is the caller's concern.
func (r *QueryCacheRepository) Get(ctx context.Context, queryType domain.QueryType, identifier string) (*domain.CacheEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, query_type, identifier, payload, total_queries,
		       last_queried_at, expires_at, created_at, updated_at
		FROM query_cache
		WHERE query_type = ? AND identifier = ?`,
		string(queryType), identifier)

	var entry domain.CacheEntry
	err := row.Scan(&entry.ID, &entry.QueryType, &entry.Identifier, &entry.Payload,
		&entry.TotalQueries, &entry.LastQueriedAt, &entry.ExpiresAt,
		&entry.CreatedAt, &entry.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return &entry, nil
}

// Upsert writes a fresh payload for the pair, incrementing total_queries
// when the row already exists. The increment happens inside the statement so
// concurrent upserts never lose counts. Returns the resulting entry.
func (r *QueryCacheRepository) Upsert(ctx context.Context, queryType domain.QueryType, identifier string, payload []byte, ttl time.Duration) (*domain.CacheEntry, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate cache id: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO query_cache (id, query_type, identifier, payload, total_queries,
		                         last_queried_at, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?, ?, ?)
		ON CONFLICT(query_type, identifier) DO UPDATE SET
			payload = excluded.payload,
			total_queries = query_cache.total_queries + 1,
			last_queried_at = excluded.last_queried_at,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		id, string(queryType), identifier, payload,
		now, now.Add(ttl), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cache entry: %w", err)
	}

	return r.Get(ctx, queryType, identifier)
}

// RecordTenant attributes a query to a tenant. Repeated attributions for the
// same pair are collapsed by the unique index.
func (r *QueryCacheRepository) RecordTenant(ctx context.Context, cacheID, tenant string) error {
	if tenant == "" {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO query_cache_tenants (cache_id, tenant, queried_at)
		VALUES (?, ?, ?)`,
		cacheID, tenant, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record tenant: %w", err)
	}
	return nil
}

// DeleteExpired removes entries past their expiry. Returns rows removed.
func (r *QueryCacheRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM query_cache WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cache entries: %w", err)
	}
	return res.RowsAffected()
}

// DeleteAll drops the whole query cache. Tenant rows follow via cascade.
func (r *QueryCacheRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM query_cache`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear query cache: %w", err)
	}
	return res.RowsAffected()
}

// DeleteWhere removes entries matching the optional query type and
// identifier LIKE pattern. Empty filters match everything.
func (r *QueryCacheRepository) DeleteWhere(ctx context.Context, queryType domain.QueryType, pattern string) (int64, error) {
	query := `DELETE FROM query_cache WHERE 1=1`
	args := []any{}
	if queryType != "" {
		query += ` AND query_type = ?`
		args = append(args, string(queryType))
	}
	if pattern != "" {
		query += ` AND identifier LIKE ?`
		args = append(args, pattern)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clear query cache entries: %w", err)
	}
	return res.RowsAffected()
}
