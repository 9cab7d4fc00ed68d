package dto

import "time"

// CreateOrderRequest registers a new order awaiting payment.
type CreateOrderRequest struct {
	Amount int64  `json:"amount" binding:"required"`
	Phone  string `json:"phone" binding:"required"`
}

// OrderResponse is the order view exposed over HTTP.
type OrderResponse struct {
	ID               string    `json:"id"`
	Amount           int64     `json:"amount"`
	Phone            string    `json:"phone"`
	PaymentStatus    string    `json:"paymentStatus"`
	Status           string    `json:"status"`
	CorrelationToken string    `json:"correlationToken,omitempty"`
	SettlementRef    string    `json:"settlementRef,omitempty"`
	FailureReason    string    `json:"failureReason,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
