package app

import (
	"context"

	"github.com/kamaubrian/dukapay/internal/domain/model"
	"github.com/kamaubrian/dukapay/internal/usecase"
	"github.com/kamaubrian/dukapay/internal/worker"
)

// CheckoutFacade aggregates order and payment use cases behind the surface
// the HTTP layer consumes. It owns the hand-off to the demo scheduler: a
// demo initiation arms the timer, a cancellation disarms it.
type CheckoutFacade struct {
	orders    *usecase.OrderUseCase
	payments  *usecase.PaymentUseCase
	scheduler *worker.DemoScheduler
}

// NewCheckoutFacade constructs CheckoutFacade.
func NewCheckoutFacade(orders *usecase.OrderUseCase, payments *usecase.PaymentUseCase, scheduler *worker.DemoScheduler) *CheckoutFacade {
	return &CheckoutFacade{orders: orders, payments: payments, scheduler: scheduler}
}

func (f *CheckoutFacade) CreateOrder(ctx context.Context, amount int64, phone string) (*model.Order, error) {
	return f.orders.Create(ctx, amount, phone)
}

func (f *CheckoutFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *CheckoutFacade) CancelOrder(ctx context.Context, id string) error {
	if err := f.orders.Cancel(ctx, id); err != nil {
		return err
	}
	f.scheduler.Cancel(id)
	return nil
}

func (f *CheckoutFacade) InitiatePayment(ctx context.Context, orderID string, amount int64, phone string) (*usecase.InitiationResult, error) {
	result, err := f.payments.Initiate(ctx, orderID, amount, phone)
	if err != nil {
		return nil, err
	}
	if result.Demo {
		f.scheduler.Schedule(orderID)
	}
	return result, nil
}

func (f *CheckoutFacade) ReconcileCallback(ctx context.Context, conf model.PaymentConfirmation) error {
	return f.payments.Reconcile(ctx, conf)
}

// CompleteDemoPayment applies the synthetic demo confirmation.
func (f *CheckoutFacade) CompleteDemoPayment(ctx context.Context, orderID string) error {
	return f.payments.CompleteDemoPayment(ctx, orderID)
}
