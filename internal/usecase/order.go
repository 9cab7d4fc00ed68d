package usecase

import (
	"context"

	domainErrors "github.com/kamaubrian/dukapay/internal/domain/errors"
	"github.com/kamaubrian/dukapay/internal/domain/model"
	"github.com/kamaubrian/dukapay/internal/domain/repository"
)

// OrderUseCase encapsulates the order lifecycle outside of payment flow.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// Create registers a new order awaiting payment.
func (u *OrderUseCase) Create(ctx context.Context, amount int64, phone string) (*model.Order, error) {
	if amount <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}
	msisdn, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	return u.orders.Create(ctx, amount, msisdn)
}

// Get returns an order by identifier.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// Cancel marks an order cancelled; only pending or processing orders whose
// payment has not completed may be cancelled.
func (u *OrderUseCase) Cancel(ctx context.Context, id string) error {
	return u.orders.Cancel(ctx, id)
}
