package ranking

import (
	"errors"
	"fmt"
)

type Domain string

const (
	DomainBeauty      Domain = "beauty"
	DomainMedia       Domain = "media"
	DomainRestaurants Domain = "restaurants"
	DomainPlace       Domain = "place"
	DomainFood        Domain = "food"
)

// Domains lists every supported domain in display order.
var Domains = []Domain{DomainBeauty, DomainMedia, DomainRestaurants, DomainPlace, DomainFood}

var ErrUnknownDomain = errors.New("unknown ranking domain")

// ParseDomain resolves a URL or file name segment to a Domain.
func ParseDomain(s string) (Domain, error) {
	for _, d := range Domains {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDomain, s)
}

// BeautyAll is the UI category id that selects every beauty subcategory.
const BeautyAll = "all"

// StoreKey translates a UI category id into the store's category key.
//
// Only beauty is partitioned per subcategory ("all" -> "beauty", X -> "beauty-X").
// Every other domain has a single fixed key and ignores uiCategory.
func StoreKey(domain Domain, uiCategory string) string {
	switch domain {
	case DomainBeauty:
		if uiCategory == BeautyAll {
			return "beauty"
		}
		return "beauty-" + uiCategory
	case DomainMedia:
		return "media"
	case DomainRestaurants:
		return "restaurants"
	case DomainPlace:
		return "place"
	case DomainFood:
		return "food"
	default:
		return string(domain)
	}
}
