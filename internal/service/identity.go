package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/constants"
	"github.com/otvkatibe/riot-backend/internal/domain"
	"github.com/otvkatibe/riot-backend/internal/repository"
	"github.com/otvkatibe/riot-backend/internal/riot"
)

// IdentityService resolves name#tag pairs to puuids, memoizing results in
// the cache store so repeated queries for the same player skip an upstream
// round trip.
type IdentityService struct {
	client *riot.Client
	store  *repository.CacheStoreRepository
	logger zerolog.Logger
}

func NewIdentityService(client *riot.Client, store *repository.CacheStoreRepository, logger zerolog.Logger) *IdentityService {
	return &IdentityService{client: client, store: store, logger: logger}
}

// ResolvePUUID returns the puuid for a player, from the store when present.
func (s *IdentityService) ResolvePUUID(ctx context.Context, nome, tag, platform string) (string, error) {
	key := PlayerKey(nome, tag)
	if payload, ok := s.store.Get(ctx, key, domain.StorePUUID); ok {
		return string(payload), nil
	}

	account, err := s.client.AccountByRiotID(ctx, nome, tag, platform)
	if err != nil {
		return "", fmt.Errorf("failed to resolve puuid for %s: %w", key, err)
	}

	if err := s.store.Set(ctx, key, domain.StorePUUID, []byte(account.PUUID), constants.PUUIDStoreTTL); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store resolved puuid")
	}
	return account.PUUID, nil
}

// Account returns the full account record for a name#tag pair.
func (s *IdentityService) Account(ctx context.Context, nome, tag, platform string) (*riot.Account, error) {
	return s.client.AccountByRiotID(ctx, nome, tag, platform)
}
