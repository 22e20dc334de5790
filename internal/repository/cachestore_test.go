package repository

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/otvkatibe/riot-backend/internal/domain"
)

func TestCacheStoreRoundTrip(t *testing.T) {
	store := NewCacheStoreRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	if err := store.Set(ctx, "foo#br1", domain.StorePUUID, []byte("some-puuid"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	payload, ok := store.Get(ctx, "foo#br1", domain.StorePUUID)
	if !ok {
		t.Fatal("expected a hit")
	}
	if string(payload) != "some-puuid" {
		t.Errorf("unexpected payload: %s", payload)
	}
}

func TestCacheStoreMissOnAbsentKey(t *testing.T) {
	store := NewCacheStoreRepository(testDB(t), zerolog.Nop())

	if _, ok := store.Get(context.Background(), "nope", domain.StorePUUID); ok {
		t.Fatal("expected a miss")
	}
}

func TestCacheStoreMissOnExpiredEntry(t *testing.T) {
	store := NewCacheStoreRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	if err := store.Set(ctx, "foo#br1", domain.StorePUUID, []byte("some-puuid"), 30*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if _, ok := store.Get(ctx, "foo#br1", domain.StorePUUID); ok {
		t.Fatal("expected a miss after expiry")
	}
}

func TestCacheStoreSetReplacesExisting(t *testing.T) {
	store := NewCacheStoreRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	if err := store.Set(ctx, "foo#br1", domain.StorePUUID, []byte("old"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "foo#br1", domain.StorePUUID, []byte("new"), time.Minute); err != nil {
		t.Fatalf("second set failed: %v", err)
	}

	payload, ok := store.Get(ctx, "foo#br1", domain.StorePUUID)
	if !ok || string(payload) != "new" {
		t.Fatalf("expected replaced payload, got %q (hit=%v)", payload, ok)
	}
}

func TestCacheStoreTypesAreIndependent(t *testing.T) {
	store := NewCacheStoreRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	if err := store.Set(ctx, "shared-key", domain.StorePUUID, []byte("a"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "shared-key", domain.StoreMatches, []byte("b"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	a, _ := store.Get(ctx, "shared-key", domain.StorePUUID)
	b, _ := store.Get(ctx, "shared-key", domain.StoreMatches)
	if string(a) != "a" || string(b) != "b" {
		t.Errorf("cache types must not collide: %q / %q", a, b)
	}
}

func TestCacheStoreStats(t *testing.T) {
	store := NewCacheStoreRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	if err := store.Set(ctx, "live", domain.StorePUUID, []byte("x"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "dead", domain.StoreMatches, []byte("y"), -time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalEntries != 2 {
		t.Errorf("expected 2 entries, got %d", stats.TotalEntries)
	}
	if stats.ExpiredEntries != 1 {
		t.Errorf("expected 1 expired entry, got %d", stats.ExpiredEntries)
	}
	if stats.PerTypeCounts[domain.StorePUUID] != 1 || stats.PerTypeCounts[domain.StoreMatches] != 1 {
		t.Errorf("unexpected per-type counts: %+v", stats.PerTypeCounts)
	}
}

func TestCacheStoreDeleteWhere(t *testing.T) {
	store := NewCacheStoreRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	if err := store.Set(ctx, "foo#br1", domain.StorePUUID, []byte("x"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "BR1_100", domain.StoreMatches, []byte("y"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "BR1_200", domain.StoreMatches, []byte("z"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	removed, err := store.DeleteWhere(ctx, domain.StoreMatches, "BR1_%")
	if err != nil {
		t.Fatalf("delete where failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}

	if _, ok := store.Get(ctx, "foo#br1", domain.StorePUUID); !ok {
		t.Error("non-matching entry must survive")
	}
}

func TestCacheStoreDeleteAll(t *testing.T) {
	store := NewCacheStoreRepository(testDB(t), zerolog.Nop())
	ctx := context.Background()

	if err := store.Set(ctx, "one", domain.StorePUUID, []byte("x"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "two", domain.StorePUUID, []byte("y"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	removed, err := store.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("delete all failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
}
