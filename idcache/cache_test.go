package idcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, "gid"), mr
}

func sampleRecord() *Record {
	return &Record{
		ID:        "u1",
		Email:     "alice@example.com",
		Roles:     []string{"USER"},
		Provider:  "LOCAL",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSetWritesBothAliases(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, sampleRecord(), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	byID, err := cache.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get by id failed: %v", err)
	}
	byEmail, err := cache.Get(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Get by email failed: %v", err)
	}

	if byID == nil || byEmail == nil {
		t.Fatal("expected both aliases to resolve")
	}
	if byID.Email != "alice@example.com" || byEmail.ID != "u1" {
		t.Fatalf("aliases disagree: %+v vs %+v", byID, byEmail)
	}
}

func TestGetMissIsNil(t *testing.T) {
	cache, _ := newTestCache(t)

	rec, err := cache.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil on miss, got %+v", rec)
	}
}

func TestDeleteEvictsAliases(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, sampleRecord(), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Delete(ctx, "u1", "alice@example.com"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	for _, alias := range []string{"u1", "alice@example.com"} {
		rec, err := cache.Get(ctx, alias)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if rec != nil {
			t.Fatalf("expected alias %q evicted", alias)
		}
	}

	// Deleting absent keys is fine.
	if err := cache.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete of absent key failed: %v", err)
	}
	if err := cache.Delete(ctx); err != nil {
		t.Fatalf("Delete with no keys failed: %v", err)
	}
}

func TestEntriesExpireTogether(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, sampleRecord(), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	for _, alias := range []string{"u1", "alice@example.com"} {
		rec, err := cache.Get(ctx, alias)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if rec != nil {
			t.Fatalf("expected alias %q expired", alias)
		}
	}
}

func TestCorruptEntryTreatedAsMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if err := mr.Set(cache.Key("u1"), "{not json"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	rec, err := cache.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec != nil {
		t.Fatal("corrupt entry must read as a miss")
	}
	if mr.Exists(cache.Key("u1")) {
		t.Fatal("corrupt entry must be deleted")
	}
}

func TestRedisDownSurfacesError(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	if _, err := cache.Get(context.Background(), "u1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
	if err := cache.Set(context.Background(), sampleRecord(), time.Minute); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
	if err := cache.Delete(context.Background(), "u1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}

func TestSetValidation(t *testing.T) {
	cache, _ := newTestCache(t)

	if err := cache.Set(context.Background(), nil, time.Minute); err == nil {
		t.Fatal("expected error for nil record")
	}
	if err := cache.Set(context.Background(), sampleRecord(), 0); err == nil {
		t.Fatal("expected error for zero TTL")
	}
}
