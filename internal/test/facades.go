package test

import (
	"context"
	"sync"

	"github.com/kamaubrian/dukapay/internal/adapter/daraja"
	"github.com/kamaubrian/dukapay/internal/domain/model"
	"github.com/kamaubrian/dukapay/internal/usecase"
)

// SinkRecorder captures notifications delivered to the sink.
type SinkRecorder struct {
	mu        sync.Mutex
	Completed []*model.Order
	Failed    []*model.Order
	Reasons   []string
}

func (s *SinkRecorder) PaymentCompleted(ctx context.Context, order *model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Completed = append(s.Completed, order)
}

func (s *SinkRecorder) PaymentFailed(ctx context.Context, order *model.Order, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed = append(s.Failed, order)
	s.Reasons = append(s.Reasons, reason)
}

// CompletedCount returns how many success notifications were delivered.
func (s *SinkRecorder) CompletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Completed)
}

// FailedCount returns how many failure notifications were delivered.
func (s *SinkRecorder) FailedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Failed)
}

// GatewayStub provides controllable push behaviour for tests.
type GatewayStub struct {
	PushFn func(context.Context, daraja.PushRequest) (*daraja.PushResponse, error)
}

func (s *GatewayStub) STKPush(ctx context.Context, req daraja.PushRequest) (*daraja.PushResponse, error) {
	if s.PushFn != nil {
		return s.PushFn(ctx, req)
	}
	return &daraja.PushResponse{CheckoutRequestID: "ws_stub", CustomerMessage: "accepted"}, nil
}

// CompleterStub records demo completions for scheduler tests.
type CompleterStub struct {
	mu         sync.Mutex
	CompleteFn func(context.Context, string) error
	Completed  []string
}

func (s *CompleterStub) CompleteDemoPayment(ctx context.Context, orderID string) error {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Completed = append(s.Completed, orderID)
	return nil
}

// CompletedOrders returns a copy of recorded completions.
func (s *CompleterStub) CompletedOrders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.Completed))
	copy(out, s.Completed)
	return out
}

// PaymentFacadeStub provides controllable behaviour for payment endpoints.
type PaymentFacadeStub struct {
	InitiateFn  func(context.Context, string, int64, string) (*usecase.InitiationResult, error)
	ReconcileFn func(context.Context, model.PaymentConfirmation) error

	mu            sync.Mutex
	Confirmations []model.PaymentConfirmation
}

func (s *PaymentFacadeStub) InitiatePayment(ctx context.Context, orderID string, amount int64, phone string) (*usecase.InitiationResult, error) {
	if s.InitiateFn != nil {
		return s.InitiateFn(ctx, orderID, amount, phone)
	}
	return &usecase.InitiationResult{CheckoutRequestID: "ws_stub", Message: "accepted"}, nil
}

func (s *PaymentFacadeStub) ReconcileCallback(ctx context.Context, conf model.PaymentConfirmation) error {
	s.mu.Lock()
	s.Confirmations = append(s.Confirmations, conf)
	s.mu.Unlock()
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, conf)
	}
	return nil
}

// Received returns a copy of recorded confirmations.
func (s *PaymentFacadeStub) Received() []model.PaymentConfirmation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PaymentConfirmation, len(s.Confirmations))
	copy(out, s.Confirmations)
	return out
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn func(context.Context, int64, string) (*model.Order, error)
	GetFn    func(context.Context, string) (*model.Order, error)
	CancelFn func(context.Context, string) error
}

func (s *OrderFacadeStub) CreateOrder(ctx context.Context, amount int64, phone string) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, amount, phone)
	}
	return &model.Order{ID: "order-1", Amount: amount, Phone: phone, PaymentStatus: model.PaymentStatusPending, Status: model.OrderStatusPending}, nil
}

func (s *OrderFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &model.Order{ID: id, PaymentStatus: model.PaymentStatusPending, Status: model.OrderStatusPending}, nil
}

func (s *OrderFacadeStub) CancelOrder(ctx context.Context, id string) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, id)
	}
	return nil
}

// CheckoutFacadeStub aggregates the endpoint stubs.
type CheckoutFacadeStub struct {
	PaymentFacadeStub
	OrderFacadeStub
}
