package repository

import (
	"context"

	"github.com/kamaubrian/dukapay/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. Terminal
// payment transitions are compare-and-set: implementations must apply them
// only while payment is still pending and report whether the write landed,
// so that callers can keep side effects at most once per order.
type OrderRepository interface {
	Create(ctx context.Context, amount int64, phone string) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByCorrelationToken(ctx context.Context, token string) (*model.Order, error)
	GetBySettlementRef(ctx context.Context, ref string) (*model.Order, error)
	AssignCorrelationToken(ctx context.Context, orderID, token string) error
	CompletePayment(ctx context.Context, orderID, settlementRef string) (bool, error)
	FailPayment(ctx context.Context, orderID, reason string) (bool, error)
	Cancel(ctx context.Context, orderID string) error
}
