package cache

import (
	"context"
	"testing"
	"time"
)

func TestKeys(t *testing.T) {
	if key := FreshestKey("beauty-suncare"); key != "snapshot:freshest:beauty-suncare" {
		t.Errorf("Unexpected freshest key: %s", key)
	}

	if key := DatedKey("2025-01-02", "media"); key != "snapshot:2025-01-02:media" {
		t.Errorf("Unexpected dated key: %s", key)
	}
}

func TestUntilMidnight(t *testing.T) {
	now := time.Date(2025, 1, 2, 23, 45, 0, 0, time.UTC)
	if got := UntilMidnight(now); got != 15*time.Minute {
		t.Errorf("Expected 15m, got %v", got)
	}

	// non-UTC input is measured against the UTC day
	seoul := time.FixedZone("KST", 9*60*60)
	local := time.Date(2025, 1, 3, 8, 0, 0, 0, seoul) // 23:00 UTC on Jan 2
	if got := UntilMidnight(local); got != time.Hour {
		t.Errorf("Expected 1h, got %v", got)
	}
}

func TestFreshestTTL(t *testing.T) {
	morning := time.Date(2025, 1, 2, 6, 0, 0, 0, time.UTC)
	if got := FreshestTTL(15*time.Minute, morning); got != 15*time.Minute {
		t.Errorf("Expected configured ttl, got %v", got)
	}

	late := time.Date(2025, 1, 2, 23, 55, 0, 0, time.UTC)
	if got := FreshestTTL(15*time.Minute, late); got != 5*time.Minute {
		t.Errorf("Expected ttl capped at midnight, got %v", got)
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "snapshot:freshest:media"); ok || err != nil {
		t.Fatalf("Expected miss, got ok=%v err=%v", ok, err)
	}

	value := []byte(`{"date":"2025-01-02"}`)
	if err := c.Set(ctx, "snapshot:freshest:media", value, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// mutating the caller's slice must not change the cached value
	value[0] = 'X'

	got, ok, err := c.Get(ctx, "snapshot:freshest:media")
	if err != nil || !ok {
		t.Fatalf("Expected hit, got ok=%v err=%v", ok, err)
	}
	if string(got) != `{"date":"2025-01-02"}` {
		t.Errorf("Unexpected cached value: %s", got)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	now := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "snapshot:freshest:food", []byte("x"), time.Minute)

	now = now.Add(30 * time.Second)
	if _, ok, _ := c.Get(ctx, "snapshot:freshest:food"); !ok {
		t.Error("Expected entry before expiry")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := c.Get(ctx, "snapshot:freshest:food"); ok {
		t.Error("Expected entry to expire")
	}

	if count := c.Health(ctx)["key_count"]; count != 0 {
		t.Errorf("Expected expired entry to be evicted, key_count=%v", count)
	}
}

func TestMemoryCache_ZeroTTLNotStored(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "snapshot:freshest:place", []byte("x"), 0)
	if _, ok, _ := c.Get(ctx, "snapshot:freshest:place"); ok {
		t.Error("Expected zero ttl entry to be skipped")
	}
}

func TestMemoryCache_DeleteAndFlush(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, FreshestKey("beauty"), []byte("a"), time.Minute)
	c.Set(ctx, DatedKey("2025-01-01", "beauty"), []byte("b"), time.Minute)
	c.Set(ctx, "other:key", []byte("c"), time.Minute)

	c.Delete(ctx, FreshestKey("beauty"))
	if _, ok, _ := c.Get(ctx, FreshestKey("beauty")); ok {
		t.Error("Expected deleted key to miss")
	}

	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if _, ok, _ := c.Get(ctx, DatedKey("2025-01-01", "beauty")); ok {
		t.Error("Expected snapshot keys to be flushed")
	}
	if _, ok, _ := c.Get(ctx, "other:key"); !ok {
		t.Error("Expected non-snapshot keys to survive flush")
	}
}

func TestMemoryCache_Health(t *testing.T) {
	health := NewMemoryCache().Health(context.Background())
	if health["type"] != "memory" || health["status"] != "healthy" {
		t.Errorf("Unexpected health: %v", health)
	}
}
