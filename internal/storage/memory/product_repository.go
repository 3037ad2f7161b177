package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// productRepositoryInMemory хранит канонические экземпляры товаров.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[domain.ProductID]*domain.Product
}

// NewProductRepository возвращает in-memory реестр товаров.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[domain.ProductID]*domain.Product),
	}
}

// Create сохраняет товар, если ID ещё не занят.
func (r *productRepositoryInMemory) Create(product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; exists {
		return domain.ErrDuplicateID
	}
	r.items[product.ID] = product
	return nil
}

// Get возвращает товар или ErrNotFound.
func (r *productRepositoryInMemory) Get(id domain.ProductID) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List возвращает товары, отсортированные по ID.
func (r *productRepositoryInMemory) List() []*domain.Product {
	r.mu.RLock()
	result := make([]*domain.Product, 0, len(r.items))
	for _, product := range r.items {
		result = append(result, product)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Delete удаляет товар из реестра.
func (r *productRepositoryInMemory) Delete(id domain.ProductID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
