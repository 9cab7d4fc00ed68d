package handlers

import (
	"context"

	"github.com/kamaubrian/dukapay/internal/domain/model"
	"github.com/kamaubrian/dukapay/internal/usecase"
)

// PaymentFacade encapsulates payment operations exposed via HTTP.
type PaymentFacade interface {
	InitiatePayment(ctx context.Context, orderID string, amount int64, phone string) (*usecase.InitiationResult, error)
	ReconcileCallback(ctx context.Context, conf model.PaymentConfirmation) error
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, amount int64, phone string) (*model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	CancelOrder(ctx context.Context, id string) error
}

// CheckoutFacade aggregates the full set of operations used across handlers.
type CheckoutFacade interface {
	PaymentFacade
	OrderFacade
}
