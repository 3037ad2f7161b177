package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// orderRepositoryInMemory хранит заказы в памяти процесса.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[domain.OrderID]*domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[domain.OrderID]*domain.Order),
	}
}

// Create сохраняет новый заказ, если ID ещё не занят.
func (r *orderRepositoryInMemory) Create(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrDuplicateID
	}
	r.items[order.ID] = order
	return nil
}

// Get возвращает заказ или ErrNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(id domain.OrderID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// ListByCustomer возвращает заказы клиента в порядке выдачи ID.
func (r *orderRepositoryInMemory) ListByCustomer(customerID domain.CustomerID) []*domain.Order {
	r.mu.RLock()
	result := make([]*domain.Order, 0)
	for _, order := range r.items {
		if order.CustomerID != customerID {
			continue
		}
		result = append(result, order)
	}
	r.mu.RUnlock()

	sortOrders(result)
	return result
}

// List возвращает все заказы в порядке ID.
func (r *orderRepositoryInMemory) List() []*domain.Order {
	r.mu.RLock()
	result := make([]*domain.Order, 0, len(r.items))
	for _, order := range r.items {
		result = append(result, order)
	}
	r.mu.RUnlock()

	sortOrders(result)
	return result
}

func sortOrders(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
