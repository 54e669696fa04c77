package ranking

import (
	"time"
)

// Ranking records as written by the external pipeline. JSON tags follow the
// stored document shape, which mixes camelCase and snake_case per domain.

// BeautyItem is a ranked beauty product.
type BeautyItem struct {
	Rank        int      `json:"rank"`
	ProductName string   `json:"productName"`
	Brand       string   `json:"brand"`
	ImageURL    string   `json:"imageUrl"`
	Price       string   `json:"price"`
	Tags        []string `json:"tags"`
	Subcategory string   `json:"subcategory"`
	Trend       int      `json:"trend"`
	BuyURL      string   `json:"buyUrl,omitempty"`
}

const (
	MediaTypeTVShow = "TV Show"
	MediaTypeFilm   = "Film"
)

type MediaItem struct {
	Rank         int      `json:"rank"`
	TitleEn      string   `json:"titleEn"`
	TitleKo      *string  `json:"titleKo,omitempty"`
	ImageURL     string   `json:"imageUrl"`
	WeeksInTop10 string   `json:"weeksInTop10"` // string-encoded integer
	Type         string   `json:"type"`
	TrailerLink  string   `json:"trailerLink"`
	VPNLink      string   `json:"vpnLink,omitempty"`
	Tags         []string `json:"tags"`
	Trend        int      `json:"trend"`
}

const (
	StatusAvailable        = "Available"
	StatusQueueing         = "Queueing"
	StatusHardToBook       = "Hard to Book"
	StatusReservationsOnly = "Reservations Only"
)

type AIInsight struct {
	Summary string   `json:"summary"`
	Tips    string   `json:"tips,omitempty"`
	Tags    []string `json:"tags"`
}

type RestaurantDetails struct {
	Address    string   `json:"address,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Hours      string   `json:"hours,omitempty"`
	PriceRange string   `json:"priceRange,omitempty"`
	MustTry    []string `json:"mustTry,omitempty"`
}

type RestaurantLinks struct {
	Reservation string `json:"reservation,omitempty"`
	Map         string `json:"map,omitempty"`
}

type RestaurantItem struct {
	Rank      int                `json:"rank"`
	Name      string             `json:"name"`
	NameKo    *string            `json:"nameKo,omitempty"`
	Location  string             `json:"location"`
	Category  string             `json:"category"`
	ImageURL  string             `json:"imageUrl"`
	Images    []string           `json:"images,omitempty"`
	WaitTime  string             `json:"waitTime,omitempty"`
	HypeScore int                `json:"hypeScore"` // NIK index, 0-100
	Status    string             `json:"status"`
	Latitude  *float64           `json:"latitude,omitempty"`
	Longitude *float64           `json:"longitude,omitempty"`
	Rating    *float64           `json:"rating,omitempty"`
	Reviews   *int               `json:"reviews,omitempty"`
	AIInsight *AIInsight         `json:"aiInsight,omitempty"`
	Details   *RestaurantDetails `json:"details,omitempty"`
	Links     *RestaurantLinks   `json:"links,omitempty"`
	Trend     int                `json:"trend"`
}

const (
	PlaceCategoryCulture = "Culture"
	PlaceCategoryNature  = "Nature"
	PlaceCategoryModern  = "Modern"
)

type PlaceItem struct {
	Rank             int      `json:"rank"`
	NameEn           string   `json:"name_en"`
	NameKo           string   `json:"name_ko"`
	Location         string   `json:"location"`
	Category         string   `json:"category"`
	ImageURL         string   `json:"imageUrl"`
	Views            string   `json:"views"` // free text, may be "N/A"
	Likes            string   `json:"likes,omitempty"`
	AIStory          string   `json:"ai_story"`
	PhotoSpot        string   `json:"photo_spot"`
	Tags             []string `json:"tags"`
	AddressKo        string   `json:"address_ko"`
	BookingURL       string   `json:"booking_url,omitempty"`
	KlookURL         string   `json:"klook_url,omitempty"`
	CreatripURL      string   `json:"creatrip_url,omitempty"`
	PriorityPlatform string   `json:"priority_platform,omitempty"`
	HypeScore        *int     `json:"hype_score,omitempty"`
	VerifiedByMix    *bool    `json:"verified_by_mix,omitempty"`
	MapX             string   `json:"mapx,omitempty"`
	MapY             string   `json:"mapy,omitempty"`
	ContentID        string   `json:"content_id,omitempty"`
	Trend            int      `json:"trend"`
}

// FoodItem is a ranked packaged food product (ramen, snacks, beverages).
type FoodItem struct {
	Rank        int      `json:"rank"`
	ProductName string   `json:"productName"`
	Brand       string   `json:"brand"`
	ImageURL    string   `json:"imageUrl"`
	Price       string   `json:"price"`
	Category    string   `json:"category"` // Ramen, Snack or Beverage
	Tags        []string `json:"tags"`
	SpicyLevel  *int     `json:"spicyLevel,omitempty"` // 1-5
	IsVegan     *bool    `json:"isVegan,omitempty"`
	Trend       int      `json:"trend"`
	BuyURL      string   `json:"buyUrl,omitempty"`
}

// FoodEntry carries the presentation-only rank assigned after filtering.
type FoodEntry struct {
	FoodItem
	DisplayRank int `json:"displayRank"`
}

// Item is the constraint satisfied by every ranking record type.
type Item interface {
	BeautyItem | MediaItem | RestaurantItem | PlaceItem | FoodItem
	ItemRank() int
	Headline() Headline
}

// Snapshot is one dated, categorized array of ranked items decoded from the store.
type Snapshot[T Item] struct {
	Date      string    `json:"date"`
	Category  string    `json:"category"`
	Items     []T       `json:"items"`
	UpdatedAt time.Time `json:"updatedAt"`
}
