package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jcmexdev/order-management/internal/order-service/domain"
	"github.com/jcmexdev/order-management/internal/order-service/orderlog"
	"github.com/jcmexdev/order-management/internal/order-service/ports"
	"github.com/jcmexdev/order-management/internal/pkg/cache"
)

const DefaultIdempotencyTTL = 24 * time.Hour

// OrderService implements order creation, lookup and analytics on top of a Store.
type OrderService struct {
	store          *Store
	cache          cache.Cache         // nil-safe: idempotency keys ignored if nil
	auditLog       orderlog.Repository // nil-safe: nothing is audited if nil
	idempotencyTTL time.Duration
	now            func() time.Time
}

// NewOrderService wires the service. c and auditLog may be nil.
func NewOrderService(store *Store, c cache.Cache, auditLog orderlog.Repository, idempotencyTTL time.Duration) *OrderService {
	if idempotencyTTL <= 0 {
		idempotencyTTL = DefaultIdempotencyTTL
	}
	return &OrderService{
		store:          store,
		cache:          c,
		auditLog:       auditLog,
		idempotencyTTL: idempotencyTTL,
		now:            time.Now,
	}
}

// WithClock replaces the time source used for createdAt and the analytics window.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// CreateOrder validates and stores a new order. When idempotencyKey is set
// and a previous call with the same key already created an order, that order
// is returned with replayed set to true and nothing new is stored.
func (s *OrderService) CreateOrder(ctx context.Context, idempotencyKey string, in domain.NewOrder) (order *domain.Order, replayed bool, err error) {
	if err := in.Validate(); err != nil {
		return nil, false, err
	}

	if existing := s.lookupIdempotent(ctx, idempotencyKey); existing != nil {
		slog.InfoContext(ctx, "idempotent replay", "order_id", existing.ID, "idempotency_key", idempotencyKey)
		return existing, true, nil
	}

	order = s.store.Append(in.CustomerID, in.OrderItems(), s.now())

	slog.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"total", order.Total(),
		"is_big_order", order.IsBigOrder(),
	)

	s.rememberIdempotent(ctx, idempotencyKey, order.ID)
	s.audit(ctx, order)

	return order, false, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, ok := s.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("get order %d: %w", id, domain.ErrNotFound)
	}
	return order, nil
}

// WeeklyAnalytics summarizes the orders created in the last seven days.
func (s *OrderService) WeeklyAnalytics(ctx context.Context) domain.AnalyticsSummary {
	since := s.now().Add(-domain.AnalyticsWindow)
	return domain.Summarize(s.store.All(), since)
}

func (s *OrderService) idempotencyCacheKey(key string) string {
	return s.cache.GenerateKey("create", s.store.InstanceID()+":"+key)
}

func (s *OrderService) lookupIdempotent(ctx context.Context, key string) *domain.Order {
	if s.cache == nil || key == "" {
		return nil
	}

	val, err := s.cache.Get(ctx, s.idempotencyCacheKey(key))
	if err != nil {
		slog.WarnContext(ctx, "idempotency lookup failed, creating order", "error", err)
		return nil
	}
	if val == "" {
		return nil
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		slog.WarnContext(ctx, "corrupt idempotency entry", "idempotency_key", key, "value", val)
		return nil
	}

	order, ok := s.store.Get(id)
	if !ok {
		return nil
	}
	return order
}

func (s *OrderService) rememberIdempotent(ctx context.Context, key string, id int64) {
	if s.cache == nil || key == "" {
		return
	}
	if err := s.cache.Set(ctx, s.idempotencyCacheKey(key), strconv.FormatInt(id, 10), s.idempotencyTTL); err != nil {
		slog.WarnContext(ctx, "failed to store idempotency key", "order_id", id, "error", err)
	}
}

func (s *OrderService) audit(ctx context.Context, order *domain.Order) {
	if s.auditLog == nil {
		return
	}
	entry := orderlog.NewEntry(ctx, s.store.InstanceID(), order)
	if err := s.auditLog.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to write order audit log", "order_id", order.ID, "error", err)
	}
}

var _ ports.OrderService = (*OrderService)(nil)
