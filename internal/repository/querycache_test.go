package repository

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/domain"
)

func TestQueryCacheGetAbsent(t *testing.T) {
	repo := NewQueryCacheRepository(testDB(t), zerolog.Nop())

	entry, err := repo.Get(context.Background(), domain.QueryWinrate, "foo#br1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected no entry, got %+v", entry)
	}
}

func TestQueryCacheUpsertCreatesThenIncrements(t *testing.T) {
	repo := NewQueryCacheRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	first, err := repo.Upsert(ctx, domain.QueryWinrate, "foo#br1", []byte(`{"total":10}`), time.Minute)
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if first.TotalQueries != 1 {
		t.Errorf("expected total_queries 1 after create, got %d", first.TotalQueries)
	}

	second, err := repo.Upsert(ctx, domain.QueryWinrate, "foo#br1", []byte(`{"total":11}`), time.Minute)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if second.TotalQueries != 2 {
		t.Errorf("expected total_queries 2 after update, got %d", second.TotalQueries)
	}
	if second.ID != first.ID {
		t.Errorf("upsert must update in place, got new id %s != %s", second.ID, first.ID)
	}
	if string(second.Payload) != `{"total":11}` {
		t.Errorf("payload not replaced: %s", second.Payload)
	}
}

func TestQueryCacheUpsertKeepsOneRowPerKey(t *testing.T) {
	repo := NewQueryCacheRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := repo.Upsert(ctx, domain.QueryProfile, "some-puuid", []byte(`{}`), time.Minute); err != nil {
			t.Fatalf("upsert %d failed: %v", i, err)
		}
	}

	entry, err := repo.Get(ctx, domain.QueryProfile, "some-puuid")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if entry.TotalQueries != 5 {
		t.Errorf("expected total_queries 5, got %d", entry.TotalQueries)
	}
}

func TestQueryCacheSeparateTypesDoNotCollide(t *testing.T) {
	repo := NewQueryCacheRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, domain.QueryWinrate, "foo#br1", []byte(`{"a":1}`), time.Minute); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if _, err := repo.Upsert(ctx, domain.QueryHistory, "foo#br1", []byte(`{"b":2}`), time.Minute); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	winrate, err := repo.Get(ctx, domain.QueryWinrate, "foo#br1")
	if err != nil || winrate == nil {
		t.Fatalf("winrate entry missing: %v", err)
	}
	history, err := repo.Get(ctx, domain.QueryHistory, "foo#br1")
	if err != nil || history == nil {
		t.Fatalf("history entry missing: %v", err)
	}
	if winrate.TotalQueries != 1 || history.TotalQueries != 1 {
		t.Errorf("entries must be independent: winrate=%d history=%d", winrate.TotalQueries, history.TotalQueries)
	}
}

func TestQueryCacheRecordTenantIgnoresDuplicates(t *testing.T) {
	db := testDB(t)
	repo := NewQueryCacheRepository(db, zerolog.Nop())
	ctx := context.Background()

	entry, err := repo.Upsert(ctx, domain.QueryWinrate, "foo#br1", []byte(`{}`), time.Minute)
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.RecordTenant(ctx, entry.ID, "user-1"); err != nil {
			t.Fatalf("record tenant failed: %v", err)
		}
	}
	if err := repo.RecordTenant(ctx, entry.ID, "user-2"); err != nil {
		t.Fatalf("record tenant failed: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM query_cache_tenants WHERE cache_id = ?`, entry.ID).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 tenant rows, got %d", count)
	}
}

func TestQueryCacheDeleteExpired(t *testing.T) {
	repo := NewQueryCacheRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, domain.QueryWinrate, "stale#br1", []byte(`{}`), -time.Minute); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if _, err := repo.Upsert(ctx, domain.QueryWinrate, "fresh#br1", []byte(`{}`), time.Minute); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	removed, err := repo.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("delete expired failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}

	fresh, err := repo.Get(ctx, domain.QueryWinrate, "fresh#br1")
	if err != nil || fresh == nil {
		t.Fatalf("fresh entry must survive the sweep: %v", err)
	}
}

func TestQueryCacheDeleteWhere(t *testing.T) {
	repo := NewQueryCacheRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	seed := []struct {
		queryType  domain.QueryType
		identifier string
	}{
		{domain.QueryWinrate, "foo#br1"},
		{domain.QueryWinrate, "bar#br1"},
		{domain.QueryHistory, "foo#br1"},
		{domain.QueryLeaderboard, "ranked_solo_5x5#br1"},
	}
	for _, s := range seed {
		if _, err := repo.Upsert(ctx, s.queryType, s.identifier, []byte(`{}`), time.Minute); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	// Type and pattern combine.
	removed, err := repo.DeleteWhere(ctx, domain.QueryWinrate, "foo%")
	if err != nil {
		t.Fatalf("delete where failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if entry, err := repo.Get(ctx, domain.QueryHistory, "foo#br1"); err != nil || entry == nil {
		t.Fatalf("other types must survive a combined filter: %v", err)
	}

	// Type alone clears the remaining winrate entry.
	removed, err = repo.DeleteWhere(ctx, domain.QueryWinrate, "")
	if err != nil {
		t.Fatalf("delete where failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}

	// Pattern alone spans types.
	removed, err = repo.DeleteWhere(ctx, "", "foo%")
	if err != nil {
		t.Fatalf("delete where failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}

	board, err := repo.Get(ctx, domain.QueryLeaderboard, "ranked_solo_5x5#br1")
	if err != nil || board == nil {
		t.Fatalf("unmatched entries must survive: %v", err)
	}
}
