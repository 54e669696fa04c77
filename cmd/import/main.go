package main

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"

	"github.com/lysyi3m/k-rank/app/database"
	"github.com/lysyi3m/k-rank/app/ranking"
)

type options struct {
	File     string `long:"file" short:"f" required:"true" description:"Snapshot JSON file ({date, category, items})"`
	Date     string `long:"date" description:"Override the snapshot date (YYYY-MM-DD)"`
	Category string `long:"category" description:"Override the store category key (e.g. beauty-suncare)"`
	Dump     bool   `long:"dump" description:"Pretty-print the decoded snapshot instead of writing it"`

	DBDriver         string `long:"db-driver" env:"DB_DRIVER" default:"sqlite" choice:"sqlite" choice:"libsql" choice:"postgres" description:"Snapshot store driver"`
	DBPath           string `long:"db-path" env:"DB_PATH" default:"./k-rank.db" description:"SQLite database file (sqlite driver)"`
	DBURL            string `long:"db-url" env:"DB_URL" description:"Connection URL for libsql or postgres drivers"`
	DBConnectRetries int    `long:"db-connect-retries" env:"DB_CONNECT_RETRIES" default:"3" description:"Connection attempts before giving up"`
}

// snapshotFile is the document produced by the collection pipeline.
type snapshotFile struct {
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Items    json.RawMessage `json:"items"`
}

func main() {
	var opts options

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	if err := run(context.Background(), opts); err != nil {
		slog.Error("Import failed", "file", opts.File, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	file, err := loadSnapshotFile(opts.File)
	if err != nil {
		return err
	}
	file.Date = cmp.Or(opts.Date, file.Date)
	file.Category = cmp.Or(opts.Category, file.Category)

	decoded, err := validateSnapshot(file)
	if err != nil {
		return err
	}

	if opts.Dump {
		pp.Println(decoded)
		return nil
	}

	dsn := opts.DBURL
	if opts.DBDriver == database.DriverSQLite {
		dsn = opts.DBPath
	}

	db, err := database.NewConnection(opts.DBDriver, dsn, opts.DBConnectRetries)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, _, err := database.RunMigrations(db); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	id, err := database.NewSnapshotStore(db).ReplaceSnapshot(ctx, file.Date, file.Category, file.Items)
	if err != nil {
		return err
	}

	slog.Info("Snapshot imported", "id", id, "date", file.Date, "category", file.Category)
	return nil
}

func loadSnapshotFile(path string) (*snapshotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file: %w", err)
	}
	return &file, nil
}

// validateSnapshot checks the date and that the items decode as the records
// of the category's domain with ranks 1..n. It returns the decoded snapshot.
func validateSnapshot(file *snapshotFile) (any, error) {
	if err := ranking.ValidateDate(file.Date); err != nil {
		return nil, err
	}

	domain, err := domainOfKey(file.Category)
	if err != nil {
		return nil, err
	}

	switch domain {
	case ranking.DomainBeauty:
		return decodeSnapshot[ranking.BeautyItem](file)
	case ranking.DomainMedia:
		return decodeSnapshot[ranking.MediaItem](file)
	case ranking.DomainRestaurants:
		return decodeSnapshot[ranking.RestaurantItem](file)
	case ranking.DomainPlace:
		return decodeSnapshot[ranking.PlaceItem](file)
	default:
		return decodeSnapshot[ranking.FoodItem](file)
	}
}

// domainOfKey maps a store category key back to its domain.
func domainOfKey(key string) (ranking.Domain, error) {
	if strings.HasPrefix(key, string(ranking.DomainBeauty)+"-") {
		return ranking.DomainBeauty, nil
	}
	return ranking.ParseDomain(key)
}

func decodeSnapshot[T ranking.Item](file *snapshotFile) (*ranking.Snapshot[T], error) {
	if len(file.Items) == 0 {
		return nil, fmt.Errorf("snapshot has no items array")
	}

	items, err := ranking.DecodeItems[T](file.Items)
	if err != nil {
		return nil, err
	}
	if err := ranking.CheckContiguous(items); err != nil {
		return nil, fmt.Errorf("%s snapshot ranks are not contiguous: %w", file.Category, err)
	}

	return &ranking.Snapshot[T]{
		Date:     file.Date,
		Category: file.Category,
		Items:    items,
	}, nil
}
