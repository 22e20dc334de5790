package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/constants"
	"github.com/otvkatibe/riot-backend/internal/domain"
	"github.com/otvkatibe/riot-backend/internal/repository"
	"github.com/otvkatibe/riot-backend/internal/riot"
)

// defaultTTLs drive the fresh/stale decision per query type. Volatile data
// gets short windows, near-static catalog data gets a day.
var defaultTTLs = map[domain.QueryType]time.Duration{
	domain.QueryProfile:       constants.ProfileTTL,
	domain.QueryMastery:       constants.MasteryTTL,
	domain.QueryWinrate:       constants.WinrateTTL,
	domain.QueryChampionStats: constants.ChampionStatsTTL,
	domain.QueryHistory:       constants.HistoryTTL,
	domain.QueryLeaderboard:   constants.LeaderboardTTL,
	domain.QueryCatalog:       constants.CatalogTTL,
}

// fallbackEligible marks the query types whose stale payload may be served
// when the upstream is down. Player-scoped types propagate the error
// instead: stale personal stats are worse than an honest failure.
var fallbackEligible = map[domain.QueryType]bool{
	domain.QueryLeaderboard: true,
	domain.QueryCatalog:     true,
}

// TTLFor returns the default TTL for a query type. Unknown types fall back
// to the shortest window.
func TTLFor(queryType domain.QueryType) time.Duration {
	if ttl, ok := defaultTTLs[queryType]; ok {
		return ttl
	}
	return constants.HistoryTTL
}

// PlayerKey builds the canonical cache identifier for a player. Lowercasing
// makes the key idempotent: PlayerKey over its own output is a no-op.
func PlayerKey(nome, tag string) string {
	return strings.ToLower(nome + "#" + tag)
}

// PlayerChampionKey scopes a player key to a single champion.
func PlayerChampionKey(nome, tag, champion string) string {
	return strings.ToLower(fmt.Sprintf("%s#%s-%s", nome, tag, champion))
}

// Result is a resolved query: the payload plus how it was obtained.
type Result struct {
	Data      json.RawMessage
	FromCache bool
	Stale     bool
	Timestamp time.Time
}

// CacheManager owns the fresh/stale decision, TTL policy, popularity
// bookkeeping, and stale-fallback-on-error. Cache unavailability never
// surfaces to callers: failed reads degrade to misses, failed writes are
// logged and dropped.
type CacheManager struct {
	repo   *repository.QueryCacheRepository
	logger zerolog.Logger
}

func NewCacheManager(repo *repository.QueryCacheRepository, logger zerolog.Logger) *CacheManager {
	return &CacheManager{repo: repo, logger: logger}
}

// Lookup returns the fresh entry for the pair, or a miss when the entry is
// absent, expired, or the cache is unreachable. Hits are read-only: nothing
// about the stored entry changes.
func (m *CacheManager) Lookup(ctx context.Context, queryType domain.QueryType, identifier string) (*domain.CacheEntry, bool) {
	entry, err := m.repo.Get(ctx, queryType, identifier)
	if err != nil {
		m.logger.Warn().Err(err).
			Str("query_type", string(queryType)).
			Str("identifier", identifier).
			Msg("cache lookup failed, treating as miss")
		return nil, false
	}
	if entry == nil || !entry.Fresh(time.Now().UTC()) {
		return nil, false
	}
	return entry, true
}

// Record persists a computed payload, creating the entry or incrementing
// its popularity counter in place, and attributes the query to the tenant.
// A ttlOverride of zero means the type's default TTL. Persistence failures
// are logged and swallowed; the marshaled payload is returned either way.
func (m *CacheManager) Record(ctx context.Context, queryType domain.QueryType, identifier string, value any, tenant string, ttlOverride time.Duration) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s/%s: %w", queryType, identifier, err)
	}

	ttl := ttlOverride
	if ttl <= 0 {
		ttl = TTLFor(queryType)
	}

	entry, err := m.repo.Upsert(ctx, queryType, identifier, payload, ttl)
	if err != nil {
		m.logger.Warn().Err(err).
			Str("query_type", string(queryType)).
			Str("identifier", identifier).
			Msg("cache write failed, serving uncached result")
		return payload, nil
	}

	if tenant != "" && entry != nil {
		if err := m.repo.RecordTenant(ctx, entry.ID, tenant); err != nil {
			m.logger.Warn().Err(err).Str("identifier", identifier).Msg("failed to attribute tenant")
		}
	}
	return payload, nil
}

// Resolve is the read-through path: serve fresh cache, otherwise compute,
// record, and serve. When compute fails because the upstream is down and
// the type is fallback-eligible, a stale entry is served instead of the
// error.
func (m *CacheManager) Resolve(ctx context.Context, queryType domain.QueryType, identifier, tenant string, compute func(context.Context) (any, error)) (*Result, error) {
	entry, err := m.repo.Get(ctx, queryType, identifier)
	if err != nil {
		m.logger.Warn().Err(err).
			Str("query_type", string(queryType)).
			Str("identifier", identifier).
			Msg("cache read failed, treating as miss")
		entry = nil
	}

	now := time.Now().UTC()
	if entry != nil && entry.Fresh(now) {
		m.logger.Debug().
			Str("query_type", string(queryType)).
			Str("identifier", identifier).
			Msg("cache hit")
		return &Result{Data: entry.Payload, FromCache: true, Timestamp: now}, nil
	}

	value, err := compute(ctx)
	if err != nil {
		if errors.Is(err, riot.ErrUpstreamUnavailable) && fallbackEligible[queryType] && entry != nil {
			m.logger.Warn().Err(err).
				Str("query_type", string(queryType)).
				Str("identifier", identifier).
				Time("expired_at", entry.ExpiresAt).
				Msg("upstream unavailable, serving stale cache entry")
			return &Result{Data: entry.Payload, FromCache: true, Stale: true, Timestamp: now}, nil
		}
		return nil, err
	}

	payload, err := m.Record(ctx, queryType, identifier, value, tenant, 0)
	if err != nil {
		return nil, err
	}
	return &Result{Data: payload, FromCache: false, Timestamp: now}, nil
}

// PurgeExpired removes entries past their expiry from the query cache.
func (m *CacheManager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.repo.DeleteExpired(ctx)
}

// PurgeAll empties the query cache.
func (m *CacheManager) PurgeAll(ctx context.Context) (int64, error) {
	return m.repo.DeleteAll(ctx)
}

// PurgeMatching removes entries by optional query type and identifier
// pattern; empty filters match everything.
func (m *CacheManager) PurgeMatching(ctx context.Context, queryType domain.QueryType, pattern string) (int64, error) {
	return m.repo.DeleteWhere(ctx, queryType, pattern)
}
