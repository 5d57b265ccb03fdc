// Package sqlite provides a SQLite-backed implementation of orderlog.Repository.
//
// WAL mode is enabled on Open so that audit writes never block readers of the
// file (e.g. an operator running sqlite3 against it while the service runs).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/order-management/internal/order-service/orderlog"

	// Register the pure-Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS order_log (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Order ids restart at 1 on every boot; (instance_id, order_id) is unique.
    instance_id   TEXT    NOT NULL,
    order_id      INTEGER NOT NULL,

    customer_id   TEXT    NOT NULL,
    total         REAL    NOT NULL,
    is_big_order  INTEGER NOT NULL DEFAULT 0,

    -- JSON array of line items as submitted.
    items         TEXT    NOT NULL DEFAULT '[]',

    request_id    TEXT    NOT NULL DEFAULT '',
    trace_id      TEXT    NOT NULL DEFAULT '',
    span_id       TEXT    NOT NULL DEFAULT '',

    -- RFC3339 stored as TEXT, SQLite idiom.
    created_at    TEXT    NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_order_log_order ON order_log(instance_id, order_id);
CREATE INDEX IF NOT EXISTS idx_order_log_trace_id ON order_log(trace_id);
`

type Repository struct {
	db *sql.DB
}

var _ orderlog.Repository = (*Repository)(nil)

// Open opens (or creates) the SQLite database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/orders.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// single writer
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *orderlog.Entry) error {
	const q = `
		INSERT INTO order_log
			(instance_id, order_id, customer_id, total, is_big_order, items, request_id, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.InstanceID,
		entry.OrderID,
		entry.CustomerID,
		entry.Total,
		entry.IsBigOrder,
		entry.Items,
		entry.RequestID,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save order log for order %d: %w", entry.OrderID, err)
	}
	return nil
}

// Count returns the number of rows in the log.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM order_log`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count order log: %w", err)
	}
	return n, nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}
