package domain

import "time"

// Типы событий жизненного цикла заказа.
const (
	TimelineOrderCreated    = "order_created"
	TimelineOrderConfirmed  = "order_confirmed"
	TimelineOrderCancelled  = "order_cancelled"
	TimelineConfirmRejected = "confirm_rejected"
	TimelinePurchaseRecord  = "purchase_recorded"
)

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	OrderID  OrderID
	Type     string
	Reason   string
	Occurred time.Time
}
