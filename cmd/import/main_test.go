package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lysyi3m/k-rank/app/database"
	"github.com/lysyi3m/k-rank/app/ranking"
)

func writeSnapshotFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write snapshot file: %v", err)
	}
	return path
}

func TestDomainOfKey(t *testing.T) {
	tests := []struct {
		key      string
		expected ranking.Domain
	}{
		{"beauty", ranking.DomainBeauty},
		{"beauty-suncare", ranking.DomainBeauty},
		{"media", ranking.DomainMedia},
		{"food", ranking.DomainFood},
	}

	for _, tt := range tests {
		domain, err := domainOfKey(tt.key)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.key, err)
			continue
		}
		if domain != tt.expected {
			t.Errorf("%s: expected %s, got %s", tt.key, tt.expected, domain)
		}
	}

	if _, err := domainOfKey("fashion"); !errors.Is(err, ranking.ErrUnknownDomain) {
		t.Errorf("Expected ErrUnknownDomain, got %v", err)
	}
}

func TestValidateSnapshot_Valid(t *testing.T) {
	file := &snapshotFile{
		Date:     "2025-01-02",
		Category: "beauty-suncare",
		Items:    []byte(`[{"rank":2,"productName":"B"},{"rank":1,"productName":"A"}]`),
	}

	decoded, err := validateSnapshot(file)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	snapshot, ok := decoded.(*ranking.Snapshot[ranking.BeautyItem])
	if !ok {
		t.Fatalf("Expected beauty snapshot, got %T", decoded)
	}
	if snapshot.Items[0].ProductName != "A" {
		t.Errorf("Expected items sorted by rank, got %+v", snapshot.Items)
	}
}

func TestValidateSnapshot_RejectsNonContiguousRanks(t *testing.T) {
	file := &snapshotFile{
		Date:     "2025-01-02",
		Category: "media",
		Items:    []byte(`[{"rank":1,"titleEn":"A"},{"rank":3,"titleEn":"C"}]`),
	}

	if _, err := validateSnapshot(file); err == nil {
		t.Error("Expected error for a rank gap")
	}

	file.Items = []byte(`[{"rank":1,"titleEn":"A"},{"rank":1,"titleEn":"B"}]`)
	if _, err := validateSnapshot(file); err == nil {
		t.Error("Expected error for a duplicate rank")
	}
}

func TestValidateSnapshot_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		file snapshotFile
	}{
		{"bad date", snapshotFile{Date: "2025-13-01", Category: "food", Items: []byte(`[]`)}},
		{"unknown category", snapshotFile{Date: "2025-01-02", Category: "fashion", Items: []byte(`[]`)}},
		{"missing items", snapshotFile{Date: "2025-01-02", Category: "food"}},
		{"wrong shape", snapshotFile{Date: "2025-01-02", Category: "food", Items: []byte(`{"rank":1}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := validateSnapshot(&tt.file); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestRun_ImportsSnapshot(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "rankings.db")
	path := writeSnapshotFile(t, `{"date":"2025-01-01","category":"restaurants","items":[{"rank":1,"name":"Onion"}]}`)

	opts := options{
		File:             path,
		Date:             "2025-01-02",
		DBDriver:         database.DriverSQLite,
		DBPath:           dbPath,
		DBConnectRetries: 1,
	}

	if err := run(context.Background(), opts); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	db, err := database.NewConnection(database.DriverSQLite, dbPath, 1)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	snapshot, err := database.NewSnapshotStore(db).FetchFreshest(context.Background(), "restaurants")
	if err != nil {
		t.Fatalf("Failed to fetch snapshot: %v", err)
	}
	if snapshot == nil || snapshot.Date != "2025-01-02" {
		t.Fatalf("Expected snapshot dated by the --date override, got %+v", snapshot)
	}
}

func TestRun_DumpDoesNotWrite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rankings.db")
	path := writeSnapshotFile(t, `{"date":"2025-01-02","category":"place","items":[{"rank":1,"name_en":"Gyeongbokgung"}]}`)

	opts := options{File: path, Dump: true, DBDriver: database.DriverSQLite, DBPath: dbPath}
	if err := run(context.Background(), opts); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Error("Expected no database to be created in dump mode")
	}
}
