package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/k-rank/app/cache"
	"github.com/lysyi3m/k-rank/app/database"
)

// Service resolves UI categories to store keys and reads snapshots through
// the cache. It never retries; failures surface as unavailable results.
type Service struct {
	repo         database.SnapshotRepository
	cache        cache.Cache
	catalog      *Catalog
	tracker      *RequestTracker
	queryTimeout time.Duration
	now          func() time.Time
}

// NewService creates a snapshot service. A nil cache disables caching.
func NewService(repo database.SnapshotRepository, c cache.Cache, catalog *Catalog, queryTimeout time.Duration) *Service {
	return &Service{
		repo:         repo,
		cache:        c,
		catalog:      catalog,
		tracker:      NewRequestTracker(),
		queryTimeout: queryTimeout,
		now:          time.Now,
	}
}

func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// cachedSnapshot is the cache encoding of a stored row.
type cachedSnapshot struct {
	ID        int64           `json:"id"`
	Date      string          `json:"date"`
	Category  string          `json:"category"`
	Items     json.RawMessage `json:"items"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// GetByUICategory returns the freshest snapshot for a UI category.
func GetByUICategory[T Item](ctx context.Context, s *Service, domain Domain, uiCategory string) Result[T] {
	key := StoreKey(domain, uiCategory)
	if DomainOf[T]() != domain {
		return unavailable[T](domain, uiCategory, key, fmt.Errorf("%w: %s", ErrDomainMismatch, domain))
	}

	raw, err := s.read(ctx, domain, cache.FreshestKey(key), func(ctx context.Context) (*database.Snapshot, error) {
		return s.repo.FetchFreshest(ctx, key)
	}, true)
	if err != nil {
		slog.Error("Failed to read snapshot", "domain", domain, "category", key, "error", err)
		return unavailable[T](domain, uiCategory, key, err)
	}

	return checkRanks(buildResult[T](domain, uiCategory, key, raw))
}

// GetByDate returns the snapshot stored for an exact date. There is no
// fallback to other dates.
func GetByDate[T Item](ctx context.Context, s *Service, domain Domain, date, uiCategory string) Result[T] {
	key := StoreKey(domain, uiCategory)
	if err := ValidateDate(date); err != nil {
		return unavailable[T](domain, uiCategory, key, err)
	}
	if DomainOf[T]() != domain {
		return unavailable[T](domain, uiCategory, key, fmt.Errorf("%w: %s", ErrDomainMismatch, domain))
	}

	raw, err := s.read(ctx, domain, cache.DatedKey(date, key), func(ctx context.Context) (*database.Snapshot, error) {
		return s.repo.FetchByDate(ctx, date, key)
	}, false)
	if err != nil {
		slog.Error("Failed to read dated snapshot", "domain", domain, "category", key, "date", date, "error", err)
		return unavailable[T](domain, uiCategory, key, err)
	}

	result := buildResult[T](domain, uiCategory, key, raw)
	if result.Date == "" {
		result.Date = date
	}
	return checkRanks(result)
}

func (s *Service) Beauty(ctx context.Context, uiCategory string) Result[BeautyItem] {
	return GetByUICategory[BeautyItem](ctx, s, DomainBeauty, uiCategory)
}

func (s *Service) Media(ctx context.Context) Result[MediaItem] {
	return GetByUICategory[MediaItem](ctx, s, DomainMedia, "")
}

func (s *Service) Restaurants(ctx context.Context) Result[RestaurantItem] {
	return GetByUICategory[RestaurantItem](ctx, s, DomainRestaurants, "")
}

func (s *Service) Places(ctx context.Context) Result[PlaceItem] {
	return GetByUICategory[PlaceItem](ctx, s, DomainPlace, "")
}

func (s *Service) Food(ctx context.Context) Result[FoodItem] {
	return GetByUICategory[FoodItem](ctx, s, DomainFood, "")
}

func (s *Service) BeautyByDate(ctx context.Context, date, uiCategory string) Result[BeautyItem] {
	return GetByDate[BeautyItem](ctx, s, DomainBeauty, date, uiCategory)
}

func (s *Service) MediaByDate(ctx context.Context, date string) Result[MediaItem] {
	return GetByDate[MediaItem](ctx, s, DomainMedia, date, "")
}

func (s *Service) RestaurantsByDate(ctx context.Context, date string) Result[RestaurantItem] {
	return GetByDate[RestaurantItem](ctx, s, DomainRestaurants, date, "")
}

func (s *Service) PlacesByDate(ctx context.Context, date string) Result[PlaceItem] {
	return GetByDate[PlaceItem](ctx, s, DomainPlace, date, "")
}

func (s *Service) FoodByDate(ctx context.Context, date string) Result[FoodItem] {
	return GetByDate[FoodItem](ctx, s, DomainFood, date, "")
}

// ListDates returns the archive dates of a UI category, newest first
func (s *Service) ListDates(ctx context.Context, domain Domain, uiCategory string, limit int) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	dates, err := s.repo.ListDates(ctx, StoreKey(domain, uiCategory), limit)
	if err != nil {
		return nil, err
	}
	return dates, nil
}

// Refresh re-reads the freshest snapshot of a store key, bypassing the cache,
// and republishes it. The store error is returned so callers may retry.
func (s *Service) Refresh(ctx context.Context, domain Domain, storeKey string) error {
	cacheKey := cache.FreshestKey(storeKey)
	token := s.tracker.Issue(cacheKey)

	qctx, cancel := s.withTimeout(ctx)
	raw, err := s.repo.FetchFreshest(qctx, storeKey)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to refresh %s: %w", storeKey, err)
	}

	if s.cache == nil {
		return nil
	}

	if raw == nil || len(raw.Items) == 0 {
		if err := s.cache.Delete(ctx, cacheKey); err != nil {
			slog.Warn("Failed to delete cache entry", "key", cacheKey, "error", err)
		}
		return nil
	}

	s.publish(ctx, domain, cacheKey, token, raw, true)
	return nil
}

// Health reports store reachability and snapshot count
func (s *Service) Health(ctx context.Context) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.Ping(ctx); err != nil {
		return 0, err
	}
	return s.repo.GetSnapshotCount(ctx)
}

func (s *Service) read(ctx context.Context, domain Domain, cacheKey string, fetch func(context.Context) (*database.Snapshot, error), freshest bool) (*database.Snapshot, error) {
	if raw, ok := s.lookup(ctx, cacheKey); ok {
		return raw, nil
	}

	token := s.tracker.Issue(cacheKey)

	qctx, cancel := s.withTimeout(ctx)
	raw, err := fetch(qctx)
	cancel()
	if err != nil {
		return nil, err
	}

	if raw != nil && len(raw.Items) > 0 {
		s.publish(ctx, domain, cacheKey, token, raw, freshest)
	}

	return raw, nil
}

func (s *Service) lookup(ctx context.Context, cacheKey string) (*database.Snapshot, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, ok, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		slog.Warn("Cache read failed, reading store", "key", cacheKey, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var entry cachedSnapshot
	if err := json.Unmarshal(data, &entry); err != nil {
		slog.Warn("Discarding invalid cache entry", "key", cacheKey, "error", err)
		s.cache.Delete(ctx, cacheKey)
		return nil, false
	}

	return &database.Snapshot{
		ID:        entry.ID,
		Date:      entry.Date,
		Category:  entry.Category,
		Items:     entry.Items,
		UpdatedAt: entry.UpdatedAt,
	}, true
}

// publish writes raw to the cache unless a newer request for the same key
// was issued after token.
func (s *Service) publish(ctx context.Context, domain Domain, cacheKey string, token uint64, raw *database.Snapshot, freshest bool) {
	if s.cache == nil {
		return
	}

	if !s.tracker.IsLatest(cacheKey, token) {
		slog.Debug("Discarding stale snapshot response", "key", cacheKey, "token", token)
		return
	}

	ttl := s.cacheTTL(domain)
	if freshest {
		ttl = cache.FreshestTTL(ttl, s.now())
	}
	if ttl <= 0 {
		return
	}

	data, err := json.Marshal(cachedSnapshot{
		ID:        raw.ID,
		Date:      raw.Date,
		Category:  raw.Category,
		Items:     json.RawMessage(raw.Items),
		UpdatedAt: raw.UpdatedAt,
	})
	if err != nil {
		slog.Warn("Failed to encode snapshot for cache", "key", cacheKey, "error", err)
		return
	}

	if err := s.cache.Set(ctx, cacheKey, data, ttl); err != nil {
		slog.Warn("Cache write failed", "key", cacheKey, "error", err)
	}
}

// checkRanks logs snapshots that break rank contiguity. They are still served
// in rank order.
func checkRanks[T Item](result Result[T]) Result[T] {
	if err := CheckContiguous(result.Items); err != nil {
		slog.Warn("Snapshot ranks are not contiguous", "domain", result.Domain, "category", result.StoreKey, "date", result.Date, "error", err)
	}
	return result
}

func (s *Service) cacheTTL(domain Domain) time.Duration {
	if s.catalog == nil {
		return 0
	}
	config, ok := s.catalog.Get(domain)
	if !ok {
		return 0
	}
	return config.CacheTTL()
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}
