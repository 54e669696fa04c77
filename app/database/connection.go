package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverLibSQL   = "libsql"
	DriverPostgres = "postgres"
)

var connectRetryInterval = 2 * time.Second

// DB wraps the connection pool together with the SQL dialect it speaks.
type DB struct {
	*sql.DB
	Driver string
}

// NewConnection opens the snapshot store and pings it, retrying the ping up to
// retries times. For sqlite the dsn is a file path.
func NewConnection(driver, dsn string, retries int) (*DB, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverLibSQL, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	if dsn == "" {
		return nil, fmt.Errorf("connection string is required for the %s driver", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	attempts := max(retries, 1)
	for i := 1; ; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = conn.PingContext(ctx)
		cancel()
		if err == nil {
			break
		}
		if i >= attempts {
			conn.Close()
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
		}
		slog.Warn("Database ping failed, retrying", "driver", driver, "attempt", i, "max_attempts", attempts, "delay", connectRetryInterval.String(), "error", err)
		time.Sleep(connectRetryInterval)
	}

	return &DB{DB: conn, Driver: driver}, nil
}

func sqliteDSN(path string) string {
	if path == "" || strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Rebind rewrites ? placeholders into the $n form postgres expects.
func (db *DB) Rebind(query string) string {
	if db.Driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
