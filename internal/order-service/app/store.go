package app

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/order-management/internal/order-service/domain"
)

// Store is the in-memory, append-only order list.
// Ids are assigned sequentially from 1 inside the write lock.
type Store struct {
	mu         sync.RWMutex
	orders     []*domain.Order
	nextID     int64
	instanceID string
}

func NewStore() *Store {
	return &Store{
		nextID:     1,
		instanceID: uuid.NewString(),
	}
}

// InstanceID identifies this store for the lifetime of the process.
// Ids restart at 1 on every boot, so anything kept outside the process that
// refers to an order id must be scoped by it.
func (s *Store) InstanceID() string {
	return s.instanceID
}

func (s *Store) Append(customerID string, items []domain.OrderItem, createdAt time.Time) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := &domain.Order{
		ID:         s.nextID,
		CustomerID: customerID,
		Items:      append([]domain.OrderItem(nil), items...),
		CreatedAt:  createdAt,
	}
	s.orders = append(s.orders, order)
	s.nextID++

	return order
}

func (s *Store) Get(id int64) (*domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// ids are dense and the list is never reordered
	if id < 1 || id > int64(len(s.orders)) {
		return nil, false
	}
	return s.orders[id-1], true
}

// All returns a snapshot of every stored order in insertion order.
func (s *Store) All() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
