package ranking

import (
	"strings"

	"golang.org/x/text/cases"
)

// Query selects a filtered view of one snapshot. Category holds the domain's
// category, type, area or tab value; Search is free text.
type Query struct {
	Category string
	Search   string
}

// Filterer applies the category pass and then the search pass. Every method
// returns a new slice in input order and never mutates its input.
type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

func (f *Filterer) Beauty(items []BeautyItem, q Query) []BeautyItem {
	m := newMatcher(q.Search)
	return filterItems(items, func(item BeautyItem) bool {
		if !IsWildcard(q.Category) && item.Subcategory != q.Category {
			return false
		}
		return m.any(item.ProductName, item.Brand)
	})
}

func (f *Filterer) Media(items []MediaItem, q Query) []MediaItem {
	m := newMatcher(q.Search)
	return filterItems(items, func(item MediaItem) bool {
		if !IsWildcard(q.Category) && item.Type != q.Category {
			return false
		}
		return m.any(item.TitleEn, deref(item.TitleKo))
	})
}

// Restaurants filters by area, matched as a case-insensitive substring of location.
func (f *Filterer) Restaurants(items []RestaurantItem, q Query) []RestaurantItem {
	m := newMatcher(q.Search)
	area := newMatcher(q.Category)
	return filterItems(items, func(item RestaurantItem) bool {
		if !IsWildcard(q.Category) && !area.contains(item.Location) {
			return false
		}
		if m.any(item.Name, deref(item.NameKo), item.Category, item.Location) {
			return true
		}
		return item.AIInsight != nil && m.anyTag(item.AIInsight.Tags)
	})
}

func (f *Filterer) Places(items []PlaceItem, q Query) []PlaceItem {
	m := newMatcher(q.Search)
	return filterItems(items, func(item PlaceItem) bool {
		if !IsWildcard(q.Category) && item.Category != q.Category {
			return false
		}
		return m.any(item.NameEn, item.NameKo, item.Location) || m.anyTag(item.Tags)
	})
}

func (f *Filterer) Food(items []FoodItem, q Query) []FoodItem {
	m := newMatcher(q.Search)
	stored, filtered := FoodCategoryValue(q.Category)
	return filterItems(items, func(item FoodItem) bool {
		if filtered && strings.ToLower(item.Category) != stored {
			return false
		}
		return m.any(item.ProductName, item.Brand) || m.anyTag(item.Tags)
	})
}

// RankFood assigns display ranks 1..n in slice order. The original rank is kept.
func (f *Filterer) RankFood(items []FoodItem) []FoodEntry {
	entries := make([]FoodEntry, len(items))
	for i, item := range items {
		entries[i] = FoodEntry{FoodItem: item, DisplayRank: i + 1}
	}
	return entries
}

// FindRestaurant returns the restaurant holding the given rank.
func (f *Filterer) FindRestaurant(items []RestaurantItem, rank int) (RestaurantItem, bool) {
	for _, item := range items {
		if item.Rank == rank {
			return item, true
		}
	}
	return RestaurantItem{}, false
}

// FoodCategoryValue maps a food UI category id to the lower-cased stored value.
// The stored values are singular while two of the UI ids are plural.
// It reports false when the id selects no filtering.
func FoodCategoryValue(uiCategory string) (string, bool) {
	switch uiCategory {
	case "ramen":
		return "ramen", true
	case "snacks":
		return "snack", true
	case "beverages":
		return "beverage", true
	default:
		return "", false
	}
}

func filterItems[T any](items []T, keep func(T) bool) []T {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// IsWildcard reports whether a category value disables the category pass.
// Pages use "all" (beauty, media, food) or "All" (place tabs, restaurant areas).
func IsWildcard(category string) bool {
	return category == "" || category == "all" || category == "All"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type matcher struct {
	caser cases.Caser
	query string
}

func newMatcher(query string) *matcher {
	m := &matcher{caser: cases.Fold()}
	if q := strings.TrimSpace(query); q != "" {
		m.query = m.caser.String(q)
	}
	return m
}

func (m *matcher) contains(value string) bool {
	if value == "" {
		return false
	}
	return strings.Contains(m.caser.String(value), m.query)
}

// any reports whether the query is empty or found in one of the values.
func (m *matcher) any(values ...string) bool {
	if m.query == "" {
		return true
	}
	for _, v := range values {
		if m.contains(v) {
			return true
		}
	}
	return false
}

func (m *matcher) anyTag(tags []string) bool {
	if m.query == "" {
		return true
	}
	for _, tag := range tags {
		if m.contains(tag) {
			return true
		}
	}
	return false
}
