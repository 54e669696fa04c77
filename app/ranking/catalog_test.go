package ranking

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeDomainFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".yml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write domain file: %v", err)
	}
}

func TestCatalog_Defaults(t *testing.T) {
	catalog := NewCatalog(filepath.Join(t.TempDir(), "missing"), 600)
	if err := catalog.Load(); err != nil {
		t.Fatalf("Expected missing directory to be tolerated, got %v", err)
	}

	if catalog.Count() != len(Domains) {
		t.Errorf("Expected %d domains, got %d", len(Domains), catalog.Count())
	}

	for _, d := range Domains {
		config, ok := catalog.Get(d)
		if !ok {
			t.Fatalf("Expected default config for %s", d)
		}
		if !config.Settings.Enabled {
			t.Errorf("Expected %s enabled by default", d)
		}
		if config.CacheTTL() != 10*time.Minute {
			t.Errorf("Expected default cache ttl 10m for %s, got %v", d, config.CacheTTL())
		}
		if config.Settings.MaxItems != defaultMaxItems {
			t.Errorf("Expected default max items for %s, got %d", d, config.Settings.MaxItems)
		}
		if len(config.Filters) == 0 {
			t.Errorf("Expected default filters for %s", d)
		}
	}

	food, _ := catalog.Get(DomainFood)
	if !food.HasFilter("snacks") || !food.HasFilter("all") || food.HasFilter("snack") {
		t.Errorf("Unexpected food filters: %+v", food.Filters)
	}
}

func TestCatalog_LoadOverrides(t *testing.T) {
	dir := t.TempDir()
	writeDomainFile(t, dir, "beauty", `
settings:
  cache_duration: 60
  max_items: 20
  partitioned_fetch: true
filters:
  - id: suncare
    label: Suncare
  - id: makeup
    label: Makeup
`)
	writeDomainFile(t, dir, "media", `
settings:
  enabled: false
`)

	catalog := NewCatalog(dir, 900)
	if err := catalog.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	beauty, _ := catalog.Get(DomainBeauty)
	if !beauty.Settings.Enabled {
		t.Error("Expected omitted enabled flag to default to true")
	}
	if beauty.Settings.CacheDuration != 60 || beauty.Settings.MaxItems != 20 || !beauty.Settings.PartitionedFetch {
		t.Errorf("Unexpected beauty settings: %+v", beauty.Settings)
	}
	if len(beauty.Filters) != 2 {
		t.Errorf("Expected file filters to replace defaults, got %+v", beauty.Filters)
	}

	media, _ := catalog.Get(DomainMedia)
	if media.Settings.Enabled {
		t.Error("Expected media to be disabled")
	}
	if len(media.Filters) != 2 {
		t.Errorf("Expected media to keep default filters, got %+v", media.Filters)
	}

	enabled := catalog.Enabled()
	if len(enabled) != len(Domains)-1 {
		t.Errorf("Expected %d enabled domains, got %d", len(Domains)-1, len(enabled))
	}
	for _, config := range enabled {
		if config.Domain == DomainMedia {
			t.Error("Disabled domain listed as enabled")
		}
	}
}

func TestCatalog_StoreKeys(t *testing.T) {
	dir := t.TempDir()
	catalog := NewCatalog(dir, 900)

	if keys := catalog.StoreKeys(DomainBeauty); len(keys) != 1 || keys[0] != "beauty" {
		t.Errorf("Expected only the all key without partitioning, got %v", keys)
	}

	writeDomainFile(t, dir, "beauty", `
settings:
  partitioned_fetch: true
filters:
  - id: suncare
    label: Suncare
`)
	if err := catalog.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	keys := catalog.StoreKeys(DomainBeauty)
	if len(keys) != 2 || keys[0] != "beauty" || keys[1] != "beauty-suncare" {
		t.Errorf("Unexpected partitioned keys: %v", keys)
	}

	if keys := catalog.StoreKeys(DomainFood); len(keys) != 1 || keys[0] != "food" {
		t.Errorf("Unexpected food keys: %v", keys)
	}
}

func TestCatalog_ValidationErrors(t *testing.T) {
	cases := map[string]struct {
		file    string
		content string
		errPart string
	}{
		"unknown domain": {"fashion", "settings: {}", "unknown ranking domain"},
		"negative cache": {"media", "settings:\n  cache_duration: -1", "cache duration"},
		"negative max":   {"food", "settings:\n  max_items: -5", "max items"},
		"partitioned":    {"place", "settings:\n  partitioned_fetch: true", "partitioned fetch"},
		"empty id":       {"food", "filters:\n  - id: ''\n    label: Empty", "empty id"},
		"reserved id":    {"place", "filters:\n  - id: All\n    label: All", "reserved"},
		"duplicate id":   {"restaurants", "filters:\n  - id: Dosan\n  - id: Dosan", "duplicate"},
		"bad yaml":       {"beauty", "settings: [", "parse YAML"},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeDomainFile(t, dir, c.file, c.content)

			err := NewCatalog(dir, 900).Load()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), c.errPart) {
				t.Errorf("Expected error containing %q, got %v", c.errPart, err)
			}
		})
	}
}
