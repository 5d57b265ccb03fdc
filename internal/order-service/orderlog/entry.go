package orderlog

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/order-management/internal/order-service/domain"
	"github.com/jcmexdev/order-management/internal/pkg/constants"
)

type itemJSON struct {
	ProductID string  `json:"productId"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
}

// NewEntry builds an audit entry for order, taking the request id and the
// active span (if any) from ctx.
func NewEntry(ctx context.Context, instanceID string, order *domain.Order) *Entry {
	items := make([]itemJSON, len(order.Items))
	for i, it := range order.Items {
		items[i] = itemJSON{ProductID: it.ProductID, Qty: it.Quantity, Price: it.UnitPrice}
	}

	itemsJSON := "[]"
	if b, err := json.Marshal(items); err == nil {
		itemsJSON = string(b)
	}

	requestID, _ := ctx.Value(constants.ContextKeyRequestID).(string)

	entry := &Entry{
		OrderID:    order.ID,
		InstanceID: instanceID,
		CustomerID: order.CustomerID,
		Total:      order.Total(),
		IsBigOrder: order.IsBigOrder(),
		Items:      itemsJSON,
		RequestID:  requestID,
		CreatedAt:  order.CreatedAt.UTC(),
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}

	return entry
}
