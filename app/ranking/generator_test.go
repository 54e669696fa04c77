package ranking

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/k-rank/app/cfg"
)

func setupTestConfig() {
	// Clear os.Args to prevent config parsing from failing
	oldArgs := os.Args
	os.Args = []string{"test"}
	defer func() { os.Args = oldArgs }()

	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "8080")
	}

	cfg.Load()
}

func TestGenerateRSS(t *testing.T) {
	setupTestConfig()
	generator := NewGenerator()

	items := []BeautyItem{
		{Rank: 1, ProductName: "Glow Serum", Brand: "Torriden", Price: "$18", Trend: 2, BuyURL: "https://example.com/buy?a=1&b=2"},
		{Rank: 2, ProductName: "Sun Stick", Brand: "Round Lab", Trend: -1},
	}
	channel := Channel{
		Domain:    DomainBeauty,
		Category:  "all",
		Date:      "2025-01-02",
		UpdatedAt: time.Date(2025, 1, 2, 6, 0, 0, 0, time.UTC),
	}

	rss, err := generator.Run(channel, Headlines(items))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("RSS should contain XML declaration")
	}
	if !strings.Contains(rss, "https://example.com/buy?a=1&amp;b=2") {
		t.Error("RSS should escape item links")
	}

	feed, err := gofeed.NewParser().ParseString(rss)
	if err != nil {
		t.Fatalf("Generated RSS should parse: %v", err)
	}

	if feed.Title != "K-Rank Beauty" {
		t.Errorf("Expected title 'K-Rank Beauty', got %q", feed.Title)
	}
	if feed.Generator != "K-Rank/"+cfg.Get().Version {
		t.Errorf("Unexpected generator %q", feed.Generator)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(feed.Items))
	}

	first := feed.Items[0]
	if first.Title != "#1 Glow Serum" {
		t.Errorf("Unexpected item title %q", first.Title)
	}
	if first.Description != "Torriden | $18 | +2" {
		t.Errorf("Unexpected item description %q", first.Description)
	}
	if first.GUID != "k-rank:beauty:2025-01-02:1" {
		t.Errorf("Unexpected item guid %q", first.GUID)
	}
	if first.PublishedParsed == nil || !first.PublishedParsed.Equal(channel.UpdatedAt) {
		t.Errorf("Expected pubDate from snapshot update time, got %v", first.PublishedParsed)
	}

	second := feed.Items[1]
	if second.Link != "" {
		t.Errorf("Expected no link for item without buy url, got %q", second.Link)
	}
	if second.Description != "Round Lab | Trending | -1" {
		t.Errorf("Unexpected item description %q", second.Description)
	}
}

func TestGenerateRSS_CategoryChannel(t *testing.T) {
	setupTestConfig()

	rss, err := NewGenerator().Run(Channel{Domain: DomainMedia, Category: MediaTypeFilm}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	feed, err := gofeed.NewParser().ParseString(rss)
	if err != nil {
		t.Fatalf("Generated RSS should parse: %v", err)
	}

	if feed.Title != "K-Rank Media: Film" {
		t.Errorf("Unexpected title %q", feed.Title)
	}
	if len(feed.Items) != 0 {
		t.Errorf("Expected no items, got %d", len(feed.Items))
	}
	if !strings.Contains(rss, "/feeds/media?category=Film") {
		t.Error("Expected self link to carry the category")
	}
}
