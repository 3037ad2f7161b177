package store

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

// Option настраивает Store.
type Option func(*Store)

// WithLogger задаёт logger магазина.
func WithLogger(logger *log.Entry) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMetrics подключает Prometheus-метрики.
func WithMetrics(m *metrics.StoreMetrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithOutbox подключает outbox для публикации событий заказов.
func WithOutbox(repo domain.OutboxRepository) Option {
	return func(s *Store) {
		s.outbox = repo
	}
}

// WithTimeline заменяет хранилище истории заказов.
func WithTimeline(repo domain.TimelineRepository) Option {
	return func(s *Store) {
		s.timeline = repo
	}
}

// Store ведёт реестр товаров, клиентов и заказов одного магазина.
//
// Каждый экземпляр независим: несколько магазинов могут сосуществовать в одном процессе.
// Остатки синхронизируются на уровне отдельного товара, глобальной блокировки склада нет.
type Store struct {
	products  domain.ProductRepository
	customers domain.CustomerRepository
	orders    domain.OrderRepository
	timeline  domain.TimelineRepository
	outbox    domain.OutboxRepository
	metrics   *metrics.StoreMetrics
	logger    *log.Entry

	lastOrderID atomic.Int64

	// catalogMu защищает состав каталога: удаление товара против добавления его в заказ.
	catalogMu sync.RWMutex

	paymentsMu sync.RWMutex
	payments   map[string]*domain.Payment

	deliveriesMu sync.RWMutex
	deliveries   map[string]*domain.Delivery
}

// New создаёт магазин с in-memory хранилищами.
func New(options ...Option) *Store {
	s := &Store{
		products:   memory.NewProductRepository(),
		customers:  memory.NewCustomerRepository(),
		orders:     memory.NewOrderRepository(),
		timeline:   memory.NewTimelineRepository(),
		payments:   make(map[string]*domain.Payment),
		deliveries: make(map[string]*domain.Delivery),
	}
	for _, option := range options {
		option(s)
	}
	if s.logger == nil {
		s.logger = log.WithField("component", "store")
	}
	return s
}

// RegisterProduct регистрирует товар с нулевым остатком.
func (s *Store) RegisterProduct(id domain.ProductID, name string, price domain.Money) (*domain.Product, error) {
	product, err := domain.NewProduct(id, name, price)
	if err != nil {
		return nil, fmt.Errorf("register product %d: %w", id, err)
	}

	s.catalogMu.RLock()
	err = s.products.Create(product)
	s.catalogMu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("register product %d: %w", id, err)
	}

	if s.metrics != nil {
		s.metrics.RecordProductRegistered()
		s.metrics.SetProductStock(int64(id), 0)
	}
	s.logger.WithFields(log.Fields{
		"product_id": id,
		"price":      price.String(),
	}).Debug("product registered")
	return product, nil
}

// RegisterCustomer регистрирует клиента.
func (s *Store) RegisterCustomer(id domain.CustomerID, name, email string) (*domain.Customer, error) {
	customer := domain.NewCustomer(id, name, email)
	if err := s.customers.Create(customer); err != nil {
		return nil, fmt.Errorf("register customer %d: %w", id, err)
	}
	s.logger.WithField("customer_id", id).Debug("customer registered")
	return customer, nil
}

// FindProduct возвращает товар по ID.
func (s *Store) FindProduct(id domain.ProductID) (*domain.Product, bool) {
	product, err := s.products.Get(id)
	if err != nil {
		return nil, false
	}
	return product, true
}

// FindCustomer возвращает клиента по ID.
func (s *Store) FindCustomer(id domain.CustomerID) (*domain.Customer, bool) {
	customer, err := s.customers.Get(id)
	if err != nil {
		return nil, false
	}
	return customer, true
}

// FindOrder возвращает заказ по ID.
func (s *Store) FindOrder(id domain.OrderID) (*domain.Order, bool) {
	order, err := s.orders.Get(id)
	if err != nil {
		return nil, false
	}
	return order, true
}

// ListProducts возвращает каталог, упорядоченный по ID.
func (s *Store) ListProducts() []*domain.Product {
	return s.products.List()
}

// OrdersByCustomer возвращает заказы клиента в порядке создания.
func (s *Store) OrdersByCustomer(id domain.CustomerID) []*domain.Order {
	return s.orders.ListByCustomer(id)
}

// CheckAvailability проверяет, что товар существует и на складе есть qty единиц.
func (s *Store) CheckAvailability(id domain.ProductID, qty int) bool {
	product, ok := s.FindProduct(id)
	return ok && product.HasAvailableStock(qty)
}

// SetStock задаёт абсолютный остаток товара.
func (s *Store) SetStock(id domain.ProductID, qty int) error {
	product, err := s.products.Get(id)
	if err != nil {
		return fmt.Errorf("set stock of product %d: %w", id, err)
	}
	if err := product.SetStock(qty); err != nil {
		return fmt.Errorf("set stock of product %d: %w", id, err)
	}
	s.observeStock(product)
	s.logger.WithFields(log.Fields{
		"product_id": id,
		"stock":      qty,
	}).Info("product stock set")
	return nil
}

// Restock пополняет остаток товара.
func (s *Store) Restock(id domain.ProductID, qty int) error {
	product, err := s.products.Get(id)
	if err != nil {
		return fmt.Errorf("restock product %d: %w", id, err)
	}
	if err := product.IncreaseStock(qty); err != nil {
		return fmt.Errorf("restock product %d: %w", id, err)
	}
	s.observeStock(product)
	s.logger.WithFields(log.Fields{
		"product_id": id,
		"qty":        qty,
	}).Info("product restocked")
	return nil
}

// RemoveProduct удаляет товар из каталога, если на него не ссылается открытый заказ.
func (s *Store) RemoveProduct(id domain.ProductID) error {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()

	if _, err := s.products.Get(id); err != nil {
		return fmt.Errorf("remove product %d: %w", id, err)
	}
	for _, order := range s.orders.List() {
		if order.Status() == domain.OrderStatusPending && order.References(id) {
			return fmt.Errorf("remove product %d: %w: referenced by pending order %d", id, domain.ErrInvalidState, order.ID)
		}
	}
	if err := s.products.Delete(id); err != nil {
		return fmt.Errorf("remove product %d: %w", id, err)
	}

	if s.metrics != nil {
		s.metrics.ForgetProduct(int64(id))
	}
	s.logger.WithField("product_id", id).Info("product removed")
	return nil
}

// CreateOrder создаёт pending-заказ для зарегистрированного клиента.
// Идентификаторы выдаются атомарным счётчиком и не переиспользуются.
func (s *Store) CreateOrder(customerID domain.CustomerID) (*domain.Order, error) {
	if _, err := s.customers.Get(customerID); err != nil {
		return nil, fmt.Errorf("create order for customer %d: %w", customerID, err)
	}

	order := domain.NewOrder(domain.OrderID(s.lastOrderID.Add(1)), customerID)
	if err := s.orders.Create(order); err != nil {
		return nil, fmt.Errorf("create order for customer %d: %w", customerID, err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.appendTimeline(order.ID, domain.TimelineOrderCreated, "")
	s.enqueueEvent(order, domain.EventTypeOrderCreated, "")
	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"customer_id": customerID,
	}).Info("order created")
	return order, nil
}

// AddLine добавляет в заказ позицию с товаром из каталога.
func (s *Store) AddLine(orderID domain.OrderID, productID domain.ProductID, qty int) error {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return fmt.Errorf("add line to order %d: %w", orderID, err)
	}

	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()

	product, err := s.products.Get(productID)
	if err != nil {
		return fmt.Errorf("add line to order %d: product %d: %w", orderID, productID, err)
	}
	if err := order.AddLine(product, qty); err != nil {
		return fmt.Errorf("add line to order %d: %w", orderID, err)
	}
	return nil
}

// CreateOrderFromCart оформляет заказ из корзины. Корзина при этом не очищается.
func (s *Store) CreateOrderFromCart(customerID domain.CustomerID, cart *domain.Cart) (*domain.Order, error) {
	if cart == nil || cart.Empty() {
		return nil, fmt.Errorf("create order from cart: %w: cart is empty", domain.ErrInvalidArgument)
	}

	order, err := s.CreateOrder(customerID)
	if err != nil {
		return nil, err
	}
	for _, item := range cart.Items() {
		if err := s.AddLine(order.ID, item.Product.ID, item.Quantity); err != nil {
			if _, cancelErr := s.CancelOrder(order.ID); cancelErr != nil {
				s.logger.WithError(cancelErr).WithField("order_id", order.ID).Warn("failed to cancel incomplete order")
			}
			return nil, err
		}
	}
	return order, nil
}

// ConfirmOrder подтверждает заказ, списывая остатки по всем позициям.
// При нехватке товара заказ и остатки остаются в исходном состоянии.
func (s *Store) ConfirmOrder(id domain.OrderID) (*domain.Order, error) {
	order, err := s.orders.Get(id)
	if err != nil {
		return nil, fmt.Errorf("confirm order %d: %w", id, err)
	}

	logger := s.logger.WithFields(log.Fields{
		"order_id":    id,
		"customer_id": order.CustomerID,
	})

	start := time.Now()
	if err := order.Confirm(); err != nil {
		s.recordRejection(order, err, logger)
		return nil, fmt.Errorf("confirm order %d: %w", id, err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderConfirmed(time.Since(start))
	}
	for _, line := range order.Lines() {
		s.observeStock(line.Product)
	}
	s.appendTimeline(order.ID, domain.TimelineOrderConfirmed, "")
	s.enqueueEvent(order, domain.EventTypeOrderConfirmed, "")
	logger.WithField("total", order.Total().String()).Info("order confirmed")
	return order, nil
}

func (s *Store) recordRejection(order *domain.Order, err error, logger *log.Entry) {
	reason := "invalid_state"
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		reason = "insufficient_stock"
		s.appendTimeline(order.ID, domain.TimelineConfirmRejected, stockErr.Error())
		s.enqueueEvent(order, domain.EventTypeOrderConfirmRejected, stockErr.Error())
	}
	if s.metrics != nil {
		s.metrics.RecordConfirmRejected(reason)
	}
	logger.WithError(err).WithField("reason", reason).Warn("order confirmation rejected")
}

// CancelOrder отменяет pending-заказ.
func (s *Store) CancelOrder(id domain.OrderID) (*domain.Order, error) {
	order, err := s.orders.Get(id)
	if err != nil {
		return nil, fmt.Errorf("cancel order %d: %w", id, err)
	}
	if err := order.Cancel(); err != nil {
		return nil, fmt.Errorf("cancel order %d: %w", id, err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCancelled()
	}
	s.appendTimeline(order.ID, domain.TimelineOrderCancelled, "")
	s.enqueueEvent(order, domain.EventTypeOrderCanceled, "")
	s.logger.WithField("order_id", id).Info("order cancelled")
	return order, nil
}

// Checkout подтверждает заказ и добавляет его в историю покупок клиента.
func (s *Store) Checkout(id domain.OrderID) (*domain.Order, error) {
	order, err := s.ConfirmOrder(id)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.Get(order.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("checkout order %d: customer %d: %w", id, order.CustomerID, err)
	}
	if err := customer.RecordPurchase(order); err != nil {
		return nil, fmt.Errorf("checkout order %d: %w", id, err)
	}
	s.appendTimeline(order.ID, domain.TimelinePurchaseRecord, "")
	return order, nil
}

// Timeline возвращает историю событий заказа.
func (s *Store) Timeline(id domain.OrderID) ([]domain.TimelineEvent, error) {
	if _, err := s.orders.Get(id); err != nil {
		return nil, fmt.Errorf("timeline of order %d: %w", id, err)
	}
	return s.timeline.List(id)
}

func (s *Store) observeStock(product *domain.Product) {
	if s.metrics != nil {
		s.metrics.SetProductStock(int64(product.ID), product.Stock())
	}
}
