package database

import "context"

// SnapshotRepository reads ranking snapshots. A query that matches nothing
// returns (nil, nil); only transport or decoding failures return an error.
type SnapshotRepository interface {
	FetchFreshest(ctx context.Context, categoryKey string) (*Snapshot, error)
	FetchByDate(ctx context.Context, date, categoryKey string) (*Snapshot, error)
	ListDates(ctx context.Context, categoryKey string, limit int) ([]string, error)
	GetSnapshotCount(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// SnapshotWriter is used by the import tool only; the server never writes.
type SnapshotWriter interface {
	ReplaceSnapshot(ctx context.Context, date, categoryKey string, items []byte) (int64, error)
}
