package domain

// ProductRepository хранит канонические экземпляры товаров.
type ProductRepository interface {
	// Create сохраняет товар. Возвращает ErrDuplicateID, если ID уже занят.
	Create(product *Product) error
	// Get возвращает товар или ErrNotFound.
	Get(id ProductID) (*Product, error)
	// List возвращает все товары, упорядоченные по ID.
	List() []*Product
	// Delete удаляет товар или возвращает ErrNotFound.
	Delete(id ProductID) error
}

// CustomerRepository хранит клиентов.
type CustomerRepository interface {
	Create(customer *Customer) error
	Get(id CustomerID) (*Customer, error)
}

// OrderRepository хранит заказы.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ErrDuplicateID, если ID уже занят.
	Create(order *Order) error
	// Get возвращает заказ или ErrNotFound.
	Get(id OrderID) (*Order, error)
	// ListByCustomer возвращает заказы клиента в порядке создания.
	ListByCustomer(customerID CustomerID) []*Order
	// List возвращает все заказы в порядке ID.
	List() []*Order
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(orderID OrderID) ([]TimelineEvent, error)
}
