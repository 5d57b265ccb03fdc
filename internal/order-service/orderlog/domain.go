// Package orderlog defines the audit trail of created orders.
//
// Every successful order creation appends one immutable entry. The log is an
// observability aid: it lets you correlate an order with the request and the
// distributed trace that produced it. The in-memory store remains the source
// of truth and is never rebuilt from the log.
package orderlog

import (
	"context"
	"time"
)

// Entry is a single row in the order_log table.
type Entry struct {
	// OrderID is only unique within one process lifetime, see InstanceID.
	OrderID int64

	// InstanceID identifies the store that assigned OrderID.
	InstanceID string

	CustomerID string
	Total      float64
	IsBigOrder bool

	// Items is the JSON-serialised line items as submitted.
	Items string

	RequestID string
	TraceID   string
	SpanID    string

	CreatedAt time.Time
}

// Repository persists audit entries. Each call appends a row.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}
