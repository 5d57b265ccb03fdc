package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/order-management/internal/order-service/orderlog"
)

// Read helpers for asserting on what Save wrote.

// ErrNotFound is returned by Get when no entry matches.
var ErrNotFound = errors.New("sqlite: order log entry not found")

// Get returns the entry written for orderID by the given store instance.
func (r *Repository) Get(ctx context.Context, instanceID string, orderID int64) (*orderlog.Entry, error) {
	const q = `
		SELECT instance_id, order_id, customer_id, total, is_big_order, items,
		       request_id, trace_id, span_id, created_at
		FROM   order_log
		WHERE  instance_id = ? AND order_id = ?`

	row := r.db.QueryRowContext(ctx, q, instanceID, orderID)

	var entry orderlog.Entry
	var createdAt string
	err := row.Scan(
		&entry.InstanceID,
		&entry.OrderID,
		&entry.CustomerID,
		&entry.Total,
		&entry.IsBigOrder,
		&entry.Items,
		&entry.RequestID,
		&entry.TraceID,
		&entry.SpanID,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order log for order %d: %w", orderID, err)
	}

	entry.CreatedAt, err = parseRFC3339(createdAt)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// parseRFC3339 parses the timestamp strings stored in SQLite.
// SQLite has no native datetime type; we store RFC3339 TEXT.
func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
