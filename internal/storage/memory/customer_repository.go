package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type customerRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[domain.CustomerID]*domain.Customer
}

// NewCustomerRepository возвращает in-memory реестр клиентов.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{
		items: make(map[domain.CustomerID]*domain.Customer),
	}
}

func (r *customerRepositoryInMemory) Create(customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[customer.ID]; exists {
		return domain.ErrDuplicateID
	}
	r.items[customer.ID] = customer
	return nil
}

func (r *customerRepositoryInMemory) Get(id domain.CustomerID) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
