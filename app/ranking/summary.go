package ranking

import (
	"context"
	"sync"
)

// TrendEntry is the top item of one domain in the trend summary.
type TrendEntry struct {
	Domain   Domain
	Status   Status
	Headline *Headline
}

var summaryDomains = []Domain{DomainBeauty, DomainMedia, DomainRestaurants, DomainPlace}

// Summary reads the leader of each summary domain concurrently. Disabled
// domains are skipped; failed or empty domains are reported without a headline.
func (s *Service) Summary(ctx context.Context) []TrendEntry {
	var domains []Domain
	for _, d := range summaryDomains {
		if config, ok := s.catalog.Get(d); ok && config.Settings.Enabled {
			domains = append(domains, d)
		}
	}

	entries := make([]TrendEntry, len(domains))
	var wg sync.WaitGroup
	for i, d := range domains {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries[i] = s.leader(ctx, d)
		}()
	}
	wg.Wait()

	return entries
}

func (s *Service) leader(ctx context.Context, domain Domain) TrendEntry {
	switch domain {
	case DomainBeauty:
		return leaderOf(domain, s.Beauty(ctx, BeautyAll))
	case DomainMedia:
		return leaderOf(domain, s.Media(ctx))
	case DomainRestaurants:
		return leaderOf(domain, s.Restaurants(ctx))
	case DomainPlace:
		return leaderOf(domain, s.Places(ctx))
	default:
		return leaderOf(domain, s.Food(ctx))
	}
}

func leaderOf[T Item](domain Domain, result Result[T]) TrendEntry {
	entry := TrendEntry{Domain: domain, Status: result.Status}
	if len(result.Items) > 0 {
		h := result.Items[0].Headline()
		entry.Headline = &h
	}
	return entry
}
