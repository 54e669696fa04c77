package ranking

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultMaxItems = 100

// Filter is one selectable category, type, area or tab of a domain.
type Filter struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

type Settings struct {
	Enabled          bool `yaml:"enabled" json:"enabled"`
	CacheDuration    int  `yaml:"cache_duration" json:"cache_duration"` // seconds
	MaxItems         int  `yaml:"max_items" json:"max_items"`
	PartitionedFetch bool `yaml:"partitioned_fetch" json:"partitioned_fetch"`
}

// DomainConfig is the deployment configuration of one ranking domain.
type DomainConfig struct {
	Domain   Domain   `yaml:"-" json:"domain"`
	Settings Settings `yaml:"settings" json:"settings"`
	Filters  []Filter `yaml:"filters" json:"filters"`
}

func (c *DomainConfig) CacheTTL() time.Duration {
	return time.Duration(c.Settings.CacheDuration) * time.Second
}

// HasFilter reports whether id is a configured filter or a wildcard.
func (c *DomainConfig) HasFilter(id string) bool {
	if IsWildcard(id) {
		return true
	}
	for _, f := range c.Filters {
		if f.ID == id {
			return true
		}
	}
	return false
}

// rawDomainConfig distinguishes an omitted enabled flag from an explicit false.
type rawDomainConfig struct {
	Settings struct {
		Enabled          *bool `yaml:"enabled"`
		CacheDuration    *int  `yaml:"cache_duration"`
		MaxItems         *int  `yaml:"max_items"`
		PartitionedFetch bool  `yaml:"partitioned_fetch"`
	} `yaml:"settings"`
	Filters []Filter `yaml:"filters"`
}

var defaultFilters = map[Domain][]Filter{
	DomainBeauty: {
		{ID: "skincare", Label: "Skincare"},
		{ID: "suncare", Label: "Suncare"},
		{ID: "masks", Label: "Masks"},
		{ID: "makeup", Label: "Makeup"},
		{ID: "hair-body", Label: "Hair/Body"},
	},
	DomainMedia: {
		{ID: MediaTypeTVShow, Label: "TV Shows"},
		{ID: MediaTypeFilm, Label: "Films"},
	},
	DomainRestaurants: {
		{ID: "Seongsu", Label: "Seongsu"},
		{ID: "Dosan", Label: "Dosan"},
		{ID: "Hannam", Label: "Hannam"},
		{ID: "Hongdae", Label: "Hongdae"},
	},
	DomainPlace: {
		{ID: PlaceCategoryCulture, Label: "Culture"},
		{ID: PlaceCategoryNature, Label: "Nature"},
		{ID: PlaceCategoryModern, Label: "Modern"},
	},
	DomainFood: {
		{ID: "ramen", Label: "Ramen"},
		{ID: "snacks", Label: "Snacks"},
		{ID: "beverages", Label: "Beverages"},
	},
}

// Catalog holds the configuration of every domain, read from
// <dir>/<domain>.yml with built-in defaults for missing files.
type Catalog struct {
	dir                  string
	defaultCacheDuration int
	configs              map[Domain]*DomainConfig
	mu                   sync.RWMutex
}

func NewCatalog(dir string, defaultCacheDuration int) *Catalog {
	c := &Catalog{
		dir:                  dir,
		defaultCacheDuration: defaultCacheDuration,
		configs:              make(map[Domain]*DomainConfig),
	}
	for _, d := range Domains {
		c.configs[d] = c.defaultConfig(d)
	}
	return c
}

// Load reads every domain file present in the catalog directory. Domains
// without a file keep their defaults.
func (c *Catalog) Load() error {
	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		slog.Debug("Domains directory not found, using defaults", "dir", c.dir)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.dir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yml")

		domain, err := ParseDomain(name)
		if err != nil {
			return fmt.Errorf("invalid domain file %s: %w", file, err)
		}

		config, err := c.LoadConfig(domain)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Domain configuration loaded", "domain", domain, "enabled", config.Settings.Enabled, "filters", len(config.Filters))
	}

	return nil
}

// LoadConfig reads and validates one domain file and stores it in the catalog
func (c *Catalog) LoadConfig(domain Domain) (*DomainConfig, error) {
	file := filepath.Join(c.dir, string(domain)+".yml")

	config, err := c.parseConfig(domain, file)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", file, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.configs[domain] = config

	return config, nil
}

// Get returns the configuration of a domain. The returned value must not be modified.
func (c *Catalog) Get(domain Domain) (*DomainConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	config, ok := c.configs[domain]
	return config, ok
}

// Enabled returns the enabled domains in display order
func (c *Catalog) Enabled() []*DomainConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var enabled []*DomainConfig
	for _, d := range Domains {
		if config, ok := c.configs[d]; ok && config.Settings.Enabled {
			enabled = append(enabled, config)
		}
	}
	return enabled
}

// All returns every domain configuration in display order
func (c *Catalog) All() []*DomainConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make([]*DomainConfig, 0, len(c.configs))
	for _, d := range Domains {
		if config, ok := c.configs[d]; ok {
			all = append(all, config)
		}
	}
	return all
}

func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.configs)
}

// StoreKeys returns the store keys a warm-up pass should read for a domain.
func (c *Catalog) StoreKeys(domain Domain) []string {
	config, ok := c.Get(domain)
	if !ok {
		return nil
	}

	if domain != DomainBeauty || !config.Settings.PartitionedFetch {
		return []string{StoreKey(domain, BeautyAll)}
	}

	keys := []string{StoreKey(domain, BeautyAll)}
	for _, f := range config.Filters {
		keys = append(keys, StoreKey(domain, f.ID))
	}
	return keys
}

func (c *Catalog) defaultConfig(domain Domain) *DomainConfig {
	return &DomainConfig{
		Domain: domain,
		Settings: Settings{
			Enabled:       true,
			CacheDuration: c.defaultCacheDuration,
			MaxItems:      defaultMaxItems,
		},
		Filters: append([]Filter(nil), defaultFilters[domain]...),
	}
}

func (c *Catalog) parseConfig(domain Domain, file string) (*DomainConfig, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var raw rawDomainConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config := c.defaultConfig(domain)
	if raw.Settings.Enabled != nil {
		config.Settings.Enabled = *raw.Settings.Enabled
	}
	if raw.Settings.CacheDuration != nil {
		config.Settings.CacheDuration = *raw.Settings.CacheDuration
	}
	if raw.Settings.MaxItems != nil {
		config.Settings.MaxItems = *raw.Settings.MaxItems
	}
	config.Settings.PartitionedFetch = raw.Settings.PartitionedFetch
	if raw.Filters != nil {
		config.Filters = raw.Filters
	}

	return config, nil
}

func validateConfig(config *DomainConfig) error {
	if config == nil {
		return fmt.Errorf("domain config is nil")
	}

	nonNegativeFields := map[string]int{
		"cache duration": config.Settings.CacheDuration,
		"max items":      config.Settings.MaxItems,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if config.Settings.PartitionedFetch && config.Domain != DomainBeauty {
		return fmt.Errorf("partitioned fetch is only supported for %s", DomainBeauty)
	}

	seen := make(map[string]bool, len(config.Filters))
	for i, filter := range config.Filters {
		if strings.TrimSpace(filter.ID) == "" {
			return fmt.Errorf("filter at index %d has an empty id", i)
		}
		if IsWildcard(filter.ID) {
			return fmt.Errorf("filter at index %d uses the reserved id %q", i, filter.ID)
		}
		if seen[filter.ID] {
			return fmt.Errorf("duplicate filter id: %s", filter.ID)
		}
		seen[filter.ID] = true
	}

	return nil
}
