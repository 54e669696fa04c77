package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var _ SnapshotRepository = (*SnapshotStore)(nil)
var _ SnapshotWriter = (*SnapshotStore)(nil)

const snapshotColumns = `id, date, category, items, updated_at`

// SnapshotStore handles database operations for daily ranking snapshots
type SnapshotStore struct {
	db *DB
}

// NewSnapshotStore creates a new snapshot store
func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// FetchFreshest returns the newest snapshot for a store key. Today's snapshot
// sorts first when it exists, so no separate exact-date query is needed.
// Rows sharing a date are resolved by lowest id.
func (r *SnapshotStore) FetchFreshest(ctx context.Context, categoryKey string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT `+snapshotColumns+`
		FROM daily_rankings
		WHERE category = ?
		ORDER BY date DESC, id ASC
		LIMIT 1
	`), categoryKey)

	snapshot, err := scanSnapshot(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get freshest snapshot for %s: %w", categoryKey, err)
	}
	return snapshot, nil
}

// FetchByDate returns the snapshot for an exact date, without fallback
func (r *SnapshotStore) FetchByDate(ctx context.Context, date, categoryKey string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT `+snapshotColumns+`
		FROM daily_rankings
		WHERE category = ? AND date = ?
		ORDER BY id ASC
		LIMIT 1
	`), categoryKey, date)

	snapshot, err := scanSnapshot(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot for %s on %s: %w", categoryKey, date, err)
	}
	return snapshot, nil
}

// ListDates returns the dates that have a snapshot for a store key, newest first
func (r *SnapshotStore) ListDates(ctx context.Context, categoryKey string, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT DISTINCT date
		FROM daily_rankings
		WHERE category = ?
		ORDER BY date DESC
		LIMIT ?
	`), categoryKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot dates: %w", err)
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot date: %w", err)
		}
		dates = append(dates, date)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot dates: %w", err)
	}

	return dates, nil
}

// GetSnapshotCount returns the total number of stored snapshots
func (r *SnapshotStore) GetSnapshotCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM daily_rankings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get snapshot count: %w", err)
	}
	return count, nil
}

// Ping checks that the store is reachable
func (r *SnapshotStore) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// ReplaceSnapshot stores items as the only snapshot for (date, categoryKey)
func (r *SnapshotStore) ReplaceSnapshot(ctx context.Context, date, categoryKey string, items []byte) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM daily_rankings WHERE category = ? AND date = ?
	`), categoryKey, date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete previous snapshot: %w", err)
	}

	var id int64
	err = tx.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO daily_rankings (date, category, items, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`), date, categoryKey, string(items), time.Now().UTC().Format(time.RFC3339Nano)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return id, nil
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var snapshot Snapshot
	var updatedAt any

	err := row.Scan(&snapshot.ID, &snapshot.Date, &snapshot.Category, &snapshot.Items, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snapshot.UpdatedAt, err = parseTimestamp(updatedAt)
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// parseTimestamp accepts the native time values of postgres and the text
// timestamps sqlite and libsql return.
func parseTimestamp(value any) (time.Time, error) {
	var s string
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case nil:
		return time.Time{}, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", value)
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
