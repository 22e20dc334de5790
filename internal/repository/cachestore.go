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

// CacheStoreRepository is the low-level key/value store for intermediate
// upstream data (resolved puuids, raw match records). It degrades to a miss
// on read failure so the store never takes a request down with it.
type CacheStoreRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewCacheStoreRepository(sqlDB *sql.DB, logger zerolog.Logger) *CacheStoreRepository {
	return &CacheStoreRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Get returns the stored payload when the key exists and has not expired.
// Any failure, including an unreachable store, reads as a miss.
func (r *CacheStoreRepository) Get(ctx context.Context, key string, cacheType string) ([]byte, bool) {
	row := r.db.QueryRowContext(ctx, `
		SELECT payload FROM cache_store
		WHERE key = ? AND cache_type = ? AND expires_at > ?`,
		key, cacheType, time.Now().UTC())

	var payload []byte
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Str("cache_type", cacheType).Msg("cache store read failed, treating as miss")
		return nil, false
	}
	return payload, true
}

// Set writes the payload with the given TTL, replacing any existing row for
// the key. The caller decides whether a write failure matters.
func (r *CacheStoreRepository) Set(ctx context.Context, key string, cacheType string, payload []byte, ttl time.Duration) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate store id: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cache_store (id, key, cache_type, payload, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key, cache_type) DO UPDATE SET
			payload = excluded.payload,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		id, key, cacheType, payload, now.Add(ttl), now, now)
	if err != nil {
		return fmt.Errorf("failed to set cache store entry: %w", err)
	}
	return nil
}

// DeleteExpired removes entries past their expiry. Returns rows removed.
func (r *CacheStoreRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cache_store WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired store entries: %w", err)
	}
	return res.RowsAffected()
}

// DeleteWhere removes entries matching the optional cache type and key
// pattern (SQL LIKE syntax). Empty filters match everything.
func (r *CacheStoreRepository) DeleteWhere(ctx context.Context, cacheType, pattern string) (int64, error) {
	query := `DELETE FROM cache_store WHERE 1=1`
	args := []any{}
	if cacheType != "" {
		query += ` AND cache_type = ?`
		args = append(args, cacheType)
	}
	if pattern != "" {
		query += ` AND key LIKE ?`
		args = append(args, pattern)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete store entries: %w", err)
	}
	return res.RowsAffected()
}

// DeleteAll drops every entry in the store.
func (r *CacheStoreRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cache_store`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache store: %w", err)
	}
	return res.RowsAffected()
}

// Stats reports entry counts overall, expired, and per cache type.
func (r *CacheStoreRepository) Stats(ctx context.Context) (*domain.StoreStats, error) {
	stats := &domain.StoreStats{PerTypeCounts: map[string]int{}}
	now := time.Now().UTC()

	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN expires_at <= ? THEN 1 ELSE 0 END), 0)
		FROM cache_store`, now)
	if err := row.Scan(&stats.TotalEntries, &stats.ExpiredEntries); err != nil {
		return nil, fmt.Errorf("failed to count store entries: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT cache_type, COUNT(*) FROM cache_store GROUP BY cache_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count store entries by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cacheType string
		var count int
		if err := rows.Scan(&cacheType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan store type count: %w", err)
		}
		stats.PerTypeCounts[cacheType] = count
	}
	return stats, rows.Err()
}
