package model

import "time"

// PaymentStatus describes the payment lifecycle of an order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Terminal reports whether the payment status can no longer be changed by a confirmation.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusRefunded
}

// OrderStatus describes the fulfillment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order describes a storefront order as seen by the payment core.
// CorrelationToken is the gateway-issued session key of an outstanding
// push request; it is cleared once payment reaches a terminal state.
// SettlementRef holds the permanent gateway receipt and is set exactly once.
type Order struct {
	ID               string
	Amount           int64
	Phone            string
	PaymentStatus    PaymentStatus
	Status           OrderStatus
	CorrelationToken string
	SettlementRef    string
	FailureReason    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Payable reports whether a payment push may be initiated for the order.
func (o *Order) Payable() bool {
	return o.PaymentStatus == PaymentStatusPending && o.Status == OrderStatusPending
}
