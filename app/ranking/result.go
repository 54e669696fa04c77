package ranking

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lysyi3m/k-rank/app/database"
)

type Status string

const (
	StatusOK          Status = "ok"
	StatusEmpty       Status = "empty"
	StatusUnavailable Status = "unavailable"
)

var (
	ErrInvalidDate    = errors.New("invalid snapshot date")
	ErrDomainMismatch = errors.New("item type does not belong to domain")
)

const dateLayout = "2006-01-02"

// Result separates a populated snapshot from a genuinely empty one and from a
// read that failed. Items is never nil.
type Result[T Item] struct {
	Status    Status
	Domain    Domain
	Category  string // UI category id as requested
	StoreKey  string
	Date      string
	UpdatedAt time.Time
	Items     []T
	Err       error
}

func (r Result[T]) OK() bool {
	return r.Status == StatusOK
}

func unavailable[T Item](domain Domain, category, key string, err error) Result[T] {
	return Result[T]{
		Status:   StatusUnavailable,
		Domain:   domain,
		Category: category,
		StoreKey: key,
		Items:    []T{},
		Err:      err,
	}
}

// ValidateDate reports whether date is a calendar date in YYYY-MM-DD form.
func ValidateDate(date string) error {
	t, err := time.Parse(dateLayout, date)
	if err != nil || t.Format(dateLayout) != date {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// DecodeItems parses a stored items array and orders it by rank. The sort is
// stable so items sharing a rank keep their stored order.
func DecodeItems[T Item](raw []byte) ([]T, error) {
	items := []T{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	slices.SortStableFunc(items, func(a, b T) int {
		return a.ItemRank() - b.ItemRank()
	})
	return items, nil
}

// CheckContiguous verifies that rank-ordered items are ranked exactly 1..n.
func CheckContiguous[T Item](items []T) error {
	for i, item := range items {
		if item.ItemRank() != i+1 {
			return fmt.Errorf("rank %d at position %d, expected %d", item.ItemRank(), i, i+1)
		}
	}
	return nil
}

// DomainOf returns the domain whose records have type T.
func DomainOf[T Item]() Domain {
	var zero T
	switch any(zero).(type) {
	case BeautyItem:
		return DomainBeauty
	case MediaItem:
		return DomainMedia
	case RestaurantItem:
		return DomainRestaurants
	case PlaceItem:
		return DomainPlace
	default:
		return DomainFood
	}
}

func buildResult[T Item](domain Domain, category, key string, raw *database.Snapshot) Result[T] {
	if raw == nil {
		return Result[T]{Status: StatusEmpty, Domain: domain, Category: category, StoreKey: key, Items: []T{}}
	}

	items, err := DecodeItems[T](raw.Items)
	if err != nil {
		return unavailable[T](domain, category, key, fmt.Errorf("snapshot %s/%s: %w", raw.Category, raw.Date, err))
	}

	status := StatusOK
	if len(items) == 0 {
		status = StatusEmpty
	}

	return Result[T]{
		Status:    status,
		Domain:    domain,
		Category:  category,
		StoreKey:  key,
		Date:      raw.Date,
		UpdatedAt: raw.UpdatedAt,
		Items:     items,
	}
}
