package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics содержит метрики магазина: жизненный цикл заказов и складские остатки.
type StoreMetrics struct {
	// Счётчики операций с заказами
	ordersCreated   prometheus.Counter
	ordersConfirmed prometheus.Counter
	ordersCancelled prometheus.Counter
	confirmRejected *prometheus.CounterVec

	// Время подтверждения заказа (списание остатков)
	confirmDuration prometheus.Histogram

	productsRegistered prometheus.Counter
	productStock       *prometheus.GaugeVec
}

// NewStoreMetricsWithRegisterer создаёт метрики в указанном реестре, nil означает глобальный.
func NewStoreMetricsWithRegisterer(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StoreMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersConfirmed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_confirmed_total",
			Help: "Total number of orders confirmed",
		}),
		ordersCancelled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_cancelled_total",
			Help: "Total number of orders cancelled",
		}),
		confirmRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_order_confirm_rejected_total",
			Help: "Total number of rejected order confirmations grouped by reason",
		}, []string{"reason"}),
		confirmDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "shop_order_confirm_duration_seconds",
			Help:    "Duration of order confirmation in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		productsRegistered: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_products_registered_total",
			Help: "Total number of products registered",
		}),
		productStock: registerGaugeVec(registerer, prometheus.GaugeOpts{
			Name: "shop_product_stock",
			Help: "Current stock quantity per product",
		}, []string{"product_id"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGaugeVec(registerer prometheus.Registerer, opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	collector := prometheus.NewGaugeVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.GaugeVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *StoreMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderConfirmed увеличивает счётчик подтверждённых заказов и записывает длительность.
func (m *StoreMetrics) RecordOrderConfirmed(duration time.Duration) {
	m.ordersConfirmed.Inc()
	m.confirmDuration.Observe(duration.Seconds())
}

// RecordConfirmRejected учитывает отказ в подтверждении с указанной причиной.
func (m *StoreMetrics) RecordConfirmRejected(reason string) {
	m.confirmRejected.WithLabelValues(reason).Inc()
}

// RecordOrderCancelled увеличивает счётчик отменённых заказов.
func (m *StoreMetrics) RecordOrderCancelled() {
	m.ordersCancelled.Inc()
}

// RecordProductRegistered увеличивает счётчик зарегистрированных товаров.
func (m *StoreMetrics) RecordProductRegistered() {
	m.productsRegistered.Inc()
}

// SetProductStock выставляет текущий остаток товара.
func (m *StoreMetrics) SetProductStock(productID int64, stock int) {
	m.productStock.WithLabelValues(strconv.FormatInt(productID, 10)).Set(float64(stock))
}

// ForgetProduct удаляет серию остатка удалённого товара.
func (m *StoreMetrics) ForgetProduct(productID int64) {
	m.productStock.DeleteLabelValues(strconv.FormatInt(productID, 10))
}
