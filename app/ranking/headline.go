package ranking

import (
	"cmp"
	"fmt"
)

// Headline is the domain-independent view of a ranked item used by the trend
// summary and the RSS feed.
type Headline struct {
	Rank     int
	Title    string
	Subtitle string
	Stat     string
	Link     string
	ImageURL string
	Trend    int
}

// Change renders the trend as "+N", "-N" or "Stable".
func (h Headline) Change() string {
	switch {
	case h.Trend > 0:
		return fmt.Sprintf("+%d", h.Trend)
	case h.Trend < 0:
		return fmt.Sprintf("%d", h.Trend)
	default:
		return "Stable"
	}
}

func (i BeautyItem) ItemRank() int { return i.Rank }

func (i BeautyItem) Headline() Headline {
	return Headline{
		Rank:     i.Rank,
		Title:    i.ProductName,
		Subtitle: i.Brand,
		Stat:     cmp.Or(i.Price, "Trending"),
		Link:     i.BuyURL,
		ImageURL: i.ImageURL,
		Trend:    i.Trend,
	}
}

func (i MediaItem) ItemRank() int { return i.Rank }

func (i MediaItem) Headline() Headline {
	stat := "Streaming"
	if i.WeeksInTop10 != "" {
		stat = i.WeeksInTop10 + " Weeks"
	}
	subtitle := i.Type
	if i.TitleKo != nil && *i.TitleKo != "" {
		subtitle = *i.TitleKo
	}
	return Headline{
		Rank:     i.Rank,
		Title:    i.TitleEn,
		Subtitle: subtitle,
		Stat:     stat,
		Link:     i.TrailerLink,
		ImageURL: i.ImageURL,
		Trend:    i.Trend,
	}
}

func (i RestaurantItem) ItemRank() int { return i.Rank }

func (i RestaurantItem) Headline() Headline {
	h := Headline{
		Rank:     i.Rank,
		Title:    i.Name,
		Subtitle: i.Location,
		Stat:     cmp.Or(i.WaitTime, fmt.Sprintf("%d%% Hype", i.HypeScore)),
		ImageURL: i.ImageURL,
		Trend:    i.Trend,
	}
	if i.Links != nil {
		h.Link = cmp.Or(i.Links.Map, i.Links.Reservation)
	}
	return h
}

func (i PlaceItem) ItemRank() int { return i.Rank }

func (i PlaceItem) Headline() Headline {
	stat := "Hot Spot"
	if i.Views != "" {
		stat = i.Views + " Views"
	}
	return Headline{
		Rank:     i.Rank,
		Title:    i.NameEn,
		Subtitle: i.Location,
		Stat:     stat,
		Link:     cmp.Or(i.BookingURL, i.KlookURL, i.CreatripURL),
		ImageURL: i.ImageURL,
		Trend:    i.Trend,
	}
}

func (i FoodItem) ItemRank() int { return i.Rank }

func (i FoodItem) Headline() Headline {
	return Headline{
		Rank:     i.Rank,
		Title:    i.ProductName,
		Subtitle: i.Brand,
		Stat:     cmp.Or(i.Price, "Trending"),
		Link:     i.BuyURL,
		ImageURL: i.ImageURL,
		Trend:    i.Trend,
	}
}
