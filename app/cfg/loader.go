package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBDriver string `long:"db-driver" env:"DB_DRIVER" default:"sqlite" choice:"sqlite" choice:"libsql" choice:"postgres" description:"Snapshot store driver"`
	DBPath   string `long:"db-path" env:"DB_PATH" default:"./k-rank.db" description:"SQLite database file (sqlite driver)"`
	DBURL    string `long:"db-url" env:"DB_URL" description:"Connection URL for libsql (libsql://...?authToken=...) or postgres drivers"`

	DBConnectRetries int `long:"db-connect-retries" env:"DB_CONNECT_RETRIES" default:"5" description:"Connection attempts before giving up"`
	QueryTimeout     int `long:"query-timeout" env:"QUERY_TIMEOUT" default:"5" description:"Snapshot query timeout in seconds"`

	// Cache configuration
	RedisAddr     string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for the shared snapshot cache (in-memory cache when empty)"`
	CacheDuration int    `long:"cache-duration" env:"CACHE_DURATION" default:"900" description:"Default snapshot cache duration in seconds"`

	// Application configuration
	DomainsDir        string `long:"domains-dir" env:"DOMAINS_DIR" default:"./domains" description:"Directory containing per-domain configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl           string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://k-rank.example.com)"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for cache warm-up"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Seoul)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBDriver:          raw.DBDriver,
		DBPath:            raw.DBPath,
		DBURL:             raw.DBURL,
		DBConnectRetries:  raw.DBConnectRetries,
		QueryTimeout:      raw.QueryTimeout,
		RedisAddr:         raw.RedisAddr,
		CacheDuration:     raw.CacheDuration,
		DomainsDir:        raw.DomainsDir,
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// GetQueryTimeout returns the store query timeout as time.Duration
func (c *Cfg) GetQueryTimeout() time.Duration {
	if c.QueryTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.QueryTimeout) * time.Second
}

func (c *Cfg) validate() error {
	if c.DBDriver != "sqlite" && c.DBURL == "" {
		return fmt.Errorf("db-url is required for the %s driver", c.DBDriver)
	}

	nonNegativeFields := map[string]int{
		"db connect retries": c.DBConnectRetries,
		"query timeout":      c.QueryTimeout,
		"cache duration":     c.CacheDuration,
		"scheduler interval": c.SchedulerInterval,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if c.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
