package ports

import (
	"context"

	"github.com/jcmexdev/order-management/internal/order-service/domain"
)

// OrderService is what the transport layer needs from the application.
type OrderService interface {
	CreateOrder(ctx context.Context, idempotencyKey string, in domain.NewOrder) (*domain.Order, bool, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	WeeklyAnalytics(ctx context.Context) domain.AnalyticsSummary
}
