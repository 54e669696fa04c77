package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores encoded snapshots. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Flush(ctx context.Context) error
	Health(ctx context.Context) map[string]any
	Close() error
}

const keyPrefix = "snapshot:"

// FreshestKey is the key of the newest snapshot for a store key.
func FreshestKey(storeKey string) string {
	return keyPrefix + "freshest:" + storeKey
}

// DatedKey is the key of the snapshot for an exact date.
func DatedKey(date, storeKey string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, date, storeKey)
}

// UntilMidnight returns the time left before the next UTC day starts, which is
// when a new daily snapshot may appear.
func UntilMidnight(now time.Time) time.Duration {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	return next.Sub(now)
}

// FreshestTTL caps ttl so a freshest entry never outlives the current UTC day.
func FreshestTTL(ttl time.Duration, now time.Time) time.Duration {
	return min(ttl, UntilMidnight(now))
}
