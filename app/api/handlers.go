package api

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/k-rank/app/cache"
	"github.com/lysyi3m/k-rank/app/ranking"
	"github.com/lysyi3m/k-rank/app/tasks"
)

const (
	defaultDateLimit = 30
	maxDateLimit     = 365
)

func NewHandler(service *ranking.Service, c cache.Cache, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		service:   service,
		catalog:   service.Catalog(),
		cache:     c,
		filterer:  ranking.NewFilterer(),
		generator: ranking.NewGenerator(),
		scheduler: scheduler,
	}
}

func (h *Handler) GetRankings(c *gin.Context) {
	config, ok := h.enabledDomain(c)
	if !ok {
		return
	}
	h.serveRankings(c, config, "")
}

func (h *Handler) GetRankingsByDate(c *gin.Context) {
	config, ok := h.enabledDomain(c)
	if !ok {
		return
	}
	h.serveRankings(c, config, c.Param("date"))
}

func (h *Handler) GetRankingDates(c *gin.Context) {
	config, ok := h.enabledDomain(c)
	if !ok {
		return
	}

	limit := defaultDateLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxDateLimit)
	}

	category := h.fetchCategory(config, cmp.Or(c.Query("category"), ranking.BeautyAll))
	dates, err := h.service.ListDates(c.Request.Context(), config.Domain, category, limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_dates", "domain", config.Domain, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Rankings temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"domain":   config.Domain,
		"category": category,
		"dates":    dates,
	})
}

func (h *Handler) GetRestaurant(c *gin.Context) {
	config, ok := h.catalog.Get(ranking.DomainRestaurants)
	if !ok || !config.Settings.Enabled {
		c.JSON(http.StatusNotFound, gin.H{"error": "Domain not found"})
		return
	}

	rank, err := strconv.Atoi(c.Param("rank"))
	if err != nil || rank <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rank must be a positive integer"})
		return
	}

	result := h.service.Restaurants(c.Request.Context())
	if result.Status == ranking.StatusUnavailable {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": result.Status, "error": "Rankings temporarily unavailable"})
		return
	}

	item, found := h.filterer.FindRestaurant(result.Items, rank)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":       result.Date,
		"updated_at": result.UpdatedAt,
		"item":       item,
	})
}

func (h *Handler) GetSummary(c *gin.Context) {
	entries := h.service.Summary(c.Request.Context())

	summary := make([]SummaryEntry, 0, len(entries))
	for _, e := range entries {
		entry := SummaryEntry{Domain: e.Domain, Status: e.Status}
		if e.Headline != nil {
			entry.Rank = e.Headline.Rank
			entry.Title = e.Headline.Title
			entry.Subtitle = e.Headline.Subtitle
			entry.Stat = e.Headline.Stat
			entry.Change = e.Headline.Change()
			entry.Link = e.Headline.Link
			entry.ImageURL = e.Headline.ImageURL
		}
		summary = append(summary, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"total":   len(summary),
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	config, ok := h.enabledDomain(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	category := cmp.Or(c.Query("category"), ranking.BeautyAll)
	q := ranking.Query{Category: category}

	var (
		status    ranking.Status
		channel   = ranking.Channel{Domain: config.Domain, Category: category}
		headlines []ranking.Headline
	)

	switch config.Domain {
	case ranking.DomainBeauty:
		q = h.beautyQuery(config, q)
		r := h.service.Beauty(ctx, h.fetchCategory(config, category))
		status, headlines = r.Status, ranking.Headlines(h.filterer.Beauty(r.Items, q))
		channel.Date, channel.UpdatedAt = r.Date, r.UpdatedAt
	case ranking.DomainMedia:
		r := h.service.Media(ctx)
		status, headlines = r.Status, ranking.Headlines(h.filterer.Media(r.Items, q))
		channel.Date, channel.UpdatedAt = r.Date, r.UpdatedAt
	case ranking.DomainRestaurants:
		r := h.service.Restaurants(ctx)
		status, headlines = r.Status, ranking.Headlines(h.filterer.Restaurants(r.Items, q))
		channel.Date, channel.UpdatedAt = r.Date, r.UpdatedAt
	case ranking.DomainPlace:
		r := h.service.Places(ctx)
		status, headlines = r.Status, ranking.Headlines(h.filterer.Places(r.Items, q))
		channel.Date, channel.UpdatedAt = r.Date, r.UpdatedAt
	case ranking.DomainFood:
		r := h.service.Food(ctx)
		status, headlines = r.Status, ranking.Headlines(h.filterer.Food(r.Items, q))
		channel.Date, channel.UpdatedAt = r.Date, r.UpdatedAt
	}

	if status == ranking.StatusUnavailable {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	headlines = capItems(headlines, config.Settings.MaxItems)

	rss, err := h.generator.Run(channel, headlines)
	if err != nil {
		slog.Error("RSS generation error", "domain", config.Domain, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(headlines)))
	c.Header("X-Feed-Name", string(config.Domain))
	if !channel.UpdatedAt.IsZero() {
		c.Header("X-Last-Updated", channel.UpdatedAt.Format(time.RFC3339))
	}

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]any{
		"status":          "healthy",
		"timestamp":       time.Now().In(time.Local).Format(time.RFC3339),
		"loaded_domains":  h.catalog.Count(),
		"enabled_domains": len(h.catalog.Enabled()),
	}

	if h.cache != nil {
		health["cache"] = h.cache.Health(c.Request.Context())
	}

	count, err := h.service.Health(c.Request.Context())
	if err != nil {
		slog.Error("Health check failed", "error", err)
		health["status"] = "unhealthy"
		health["error"] = "snapshot store unreachable"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	health["snapshots"] = count

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListDomains(c *gin.Context) {
	configs := h.catalog.All()

	domains := make([]map[string]any, 0, len(configs))
	for _, config := range configs {
		domains = append(domains, map[string]any{
			"domain":            config.Domain,
			"enabled":           config.Settings.Enabled,
			"cache_duration":    config.CacheTTL().String(),
			"max_items":         config.Settings.MaxItems,
			"partitioned_fetch": config.Settings.PartitionedFetch,
			"filters":           config.Filters,
			"store_keys":        h.catalog.StoreKeys(config.Domain),
		})
	}

	c.JSON(http.StatusOK, map[string]any{
		"domains": domains,
		"total":   len(domains),
	})
}

func (h *Handler) APIRefreshCache(c *gin.Context) {
	queued, err := h.scheduler.EnqueueWarmTasks()
	if err != nil {
		slog.Error("Error enqueueing warm-up tasks", "queued", queued, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue warm-up tasks",
			"details": err.Error(),
			"queued":  queued,
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Cache warm-up tasks enqueued",
		"queued":  queued,
	})
}

func (h *Handler) APIFlushCache(c *gin.Context) {
	if h.cache == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cache disabled"})
		return
	}

	if err := h.cache.Flush(c.Request.Context()); err != nil {
		slog.Error("Error flushing cache", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to flush cache",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cache flushed"})
}

// enabledDomain resolves the :domain parameter, writing 404 for unknown or
// disabled domains.
func (h *Handler) enabledDomain(c *gin.Context) (*ranking.DomainConfig, bool) {
	domain, err := ranking.ParseDomain(c.Param("domain"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Domain not found"})
		return nil, false
	}

	config, ok := h.catalog.Get(domain)
	if !ok || !config.Settings.Enabled {
		c.JSON(http.StatusNotFound, gin.H{"error": "Domain not found"})
		return nil, false
	}

	return config, true
}

func (h *Handler) serveRankings(c *gin.Context, config *ranking.DomainConfig, date string) {
	ctx := c.Request.Context()
	category := cmp.Or(c.Query("category"), ranking.BeautyAll)
	q := ranking.Query{Category: category, Search: c.Query("q")}
	limit := config.Settings.MaxItems

	switch config.Domain {
	case ranking.DomainBeauty:
		r := read[ranking.BeautyItem](ctx, h.service, config.Domain, date, h.fetchCategory(config, category))
		respond(c, r, q, capItems(h.filterer.Beauty(r.Items, h.beautyQuery(config, q)), limit))
	case ranking.DomainMedia:
		r := read[ranking.MediaItem](ctx, h.service, config.Domain, date, "")
		respond(c, r, q, capItems(h.filterer.Media(r.Items, q), limit))
	case ranking.DomainRestaurants:
		r := read[ranking.RestaurantItem](ctx, h.service, config.Domain, date, "")
		respond(c, r, q, capItems(h.filterer.Restaurants(r.Items, q), limit))
	case ranking.DomainPlace:
		r := read[ranking.PlaceItem](ctx, h.service, config.Domain, date, "")
		respond(c, r, q, capItems(h.filterer.Places(r.Items, q), limit))
	case ranking.DomainFood:
		r := read[ranking.FoodItem](ctx, h.service, config.Domain, date, "")
		respond(c, r, q, h.filterer.RankFood(capItems(h.filterer.Food(r.Items, q), limit)))
	}
}

// fetchCategory is the UI category used for the store read. Beauty reads the
// "all" snapshot and filters by subcategory unless the deployment partitions
// the store per subcategory.
func (h *Handler) fetchCategory(config *ranking.DomainConfig, category string) string {
	if config.Domain != ranking.DomainBeauty {
		return ""
	}
	if !config.Settings.PartitionedFetch || ranking.IsWildcard(category) {
		return ranking.BeautyAll
	}
	return category
}

// beautyQuery drops the subcategory pass when the store is already partitioned.
func (h *Handler) beautyQuery(config *ranking.DomainConfig, q ranking.Query) ranking.Query {
	if config.Settings.PartitionedFetch {
		q.Category = ""
	}
	return q
}

func read[T ranking.Item](ctx context.Context, s *ranking.Service, domain ranking.Domain, date, category string) ranking.Result[T] {
	if date == "" {
		return ranking.GetByUICategory[T](ctx, s, domain, category)
	}
	return ranking.GetByDate[T](ctx, s, domain, date, category)
}

func respond[T ranking.Item, V any](c *gin.Context, result ranking.Result[T], q ranking.Query, items []V) {
	response := RankingResponse{
		Status:   result.Status,
		Domain:   result.Domain,
		Category: q.Category,
		Query:    q.Search,
		Date:     result.Date,
		Count:    len(items),
		Items:    items,
	}
	if !result.UpdatedAt.IsZero() {
		updatedAt := result.UpdatedAt
		response.UpdatedAt = &updatedAt
	}

	switch {
	case errors.Is(result.Err, ranking.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
	case result.Status == ranking.StatusUnavailable:
		response.Error = "Rankings temporarily unavailable"
		c.JSON(http.StatusServiceUnavailable, response)
	default:
		c.JSON(http.StatusOK, response)
	}
}

func capItems[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
