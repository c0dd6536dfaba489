package shopconfig

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func redisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &RedisStore{Client: client, TTL: time.Hour}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := redisStore(t)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "k", `{"value":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := store.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if value != `{"value":1}` {
		t.Fatalf("unexpected value %q", value)
	}

	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expected key to be removed")
	}
}

func TestCachePersistsThroughRedis(t *testing.T) {
	store := redisStore(t)
	src := testSource()
	clock := newFakeClock()
	ctx := context.Background()

	first := newTestCache(src, store, clock)
	first.Shipping(ctx)
	first.VolumeTiers(ctx)

	second := newTestCache(src, store, clock)
	shipping := second.Shipping(ctx)
	if !shipping.DefaultCost.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("unexpected persisted shipping %+v", shipping)
	}
	tiers := second.VolumeTiers(ctx)
	if len(tiers.Tiers) != 2 {
		t.Fatalf("unexpected persisted tiers %+v", tiers)
	}

	shippingCalls, tierCalls, _ := src.counts()
	if shippingCalls != 1 || tierCalls != 1 {
		t.Fatalf("persisted entries should satisfy the second cache, got %d/%d fetches", shippingCalls, tierCalls)
	}
}

func TestCacheClearRemovesPersistedCopy(t *testing.T) {
	store := redisStore(t)
	src := testSource()
	clock := newFakeClock()
	ctx := context.Background()

	cache := newTestCache(src, store, clock)
	cache.Shipping(ctx)
	if err := cache.Clear(ctx, KindShipping); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "pricing:config:shipping"); ok {
		t.Fatal("expected the persisted copy to be removed with the memory copy")
	}
}
