package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/domain"
	"github.com/otvkatibe/riot-backend/internal/riot"
)

// ErrChampionNotFound means the requested champion does not exist in the
// current catalog.
var ErrChampionNotFound = errors.New("champion not found in catalog")

// CatalogService serves the static champion catalog through the query
// cache. The catalog is a single entry under a day-long TTL; when the
// upstream is down a stale catalog is served rather than an error.
type CatalogService struct {
	client *riot.Client
	cache  *CacheManager
	logger zerolog.Logger
}

func NewCatalogService(client *riot.Client, cache *CacheManager, logger zerolog.Logger) *CatalogService {
	return &CatalogService{client: client, cache: cache, logger: logger}
}

// Snapshot returns the latest champion catalog.
func (s *CatalogService) Snapshot(ctx context.Context, tenant string) (*Result, error) {
	return s.cache.Resolve(ctx, domain.QueryCatalog, "latest", tenant, func(ctx context.Context) (any, error) {
		return s.client.ChampionCatalog(ctx)
	})
}

func (s *CatalogService) catalog(ctx context.Context) (*riot.ChampionCatalog, error) {
	res, err := s.Snapshot(ctx, "")
	if err != nil {
		return nil, err
	}
	var catalog riot.ChampionCatalog
	if err := json.Unmarshal(res.Data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode cached catalog: %w", err)
	}
	return &catalog, nil
}

// ChampionByName resolves a champion by internal id or display name,
// case-insensitively. Returns the numeric key, the canonical internal id,
// and the catalog version.
func (s *CatalogService) ChampionByName(ctx context.Context, name string) (championID int, canonical string, version string, err error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return 0, "", "", err
	}

	target := strings.ToLower(name)
	for _, champ := range catalog.Data {
		if strings.ToLower(champ.ID) == target || strings.ToLower(champ.Name) == target {
			id, err := strconv.Atoi(champ.Key)
			if err != nil {
				return 0, "", "", fmt.Errorf("malformed champion key %q: %w", champ.Key, err)
			}
			return id, champ.ID, catalog.Version, nil
		}
	}
	return 0, "", "", fmt.Errorf("%w: %s", ErrChampionNotFound, name)
}

// ChampionByKey resolves a champion by its numeric key.
func (s *CatalogService) ChampionByKey(ctx context.Context, key int) (*riot.CatalogChampion, string, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, "", err
	}

	wanted := strconv.Itoa(key)
	for _, champ := range catalog.Data {
		if champ.Key == wanted {
			return &champ, catalog.Version, nil
		}
	}
	return nil, "", fmt.Errorf("%w: key %d", ErrChampionNotFound, key)
}

// ChampionIconURL builds the static icon URL for a champion id in a given
// catalog version.
func ChampionIconURL(version, championID string) string {
	return fmt.Sprintf("https://ddragon.leagueoflegends.com/cdn/%s/img/champion/%s.png", version, championID)
}
