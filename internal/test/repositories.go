package test

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainErrors "github.com/kamaubrian/dukapay/internal/domain/errors"
	"github.com/kamaubrian/dukapay/internal/domain/model"
)

// OrderRepositoryStub stores orders in-memory for tests, mirroring the
// guarded-update semantics of the real store. Behaviour can be overridden
// per method.
type OrderRepositoryStub struct {
	CreateFn          func(context.Context, int64, string) (*model.Order, error)
	GetByIDFn         func(context.Context, string) (*model.Order, error)
	GetByTokenFn      func(context.Context, string) (*model.Order, error)
	AssignTokenFn     func(context.Context, string, string) error
	CompletePaymentFn func(context.Context, string, string) (bool, error)
	FailPaymentFn     func(context.Context, string, string) (bool, error)
	CancelFn          func(context.Context, string) error
	TokenLookups      int
	CompleteCalls     int

	mu     sync.Mutex
	orders map[string]*model.Order
	next   int
}

// NewOrderRepositoryStub constructs the stub with initialized storage.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{orders: make(map[string]*model.Order)}
}

// Lock exposes the internal mutex for external synchronization.
func (s *OrderRepositoryStub) Lock() { s.mu.Lock() }

// Unlock releases a previously acquired lock.
func (s *OrderRepositoryStub) Unlock() { s.mu.Unlock() }

// Seed inserts an order directly, bypassing validation.
func (s *OrderRepositoryStub) Seed(order *model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders == nil {
		s.orders = make(map[string]*model.Order)
	}
	s.orders[order.ID] = order
}

// Snapshot returns a copy of the stored order.
func (s *OrderRepositoryStub) Snapshot(id string) *model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		copied := *o
		return &copied
	}
	return nil
}

func (s *OrderRepositoryStub) Create(ctx context.Context, amount int64, phone string) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, amount, phone)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	order := &model.Order{
		ID:            fmt.Sprintf("order-%d", s.next),
		Amount:        amount,
		Phone:         phone,
		PaymentStatus: model.PaymentStatusPending,
		Status:        model.OrderStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if s.orders == nil {
		s.orders = make(map[string]*model.Order)
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) GetByCorrelationToken(ctx context.Context, token string) (*model.Order, error) {
	s.mu.Lock()
	s.TokenLookups++
	s.mu.Unlock()
	if s.GetByTokenFn != nil {
		return s.GetByTokenFn(ctx, token)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.CorrelationToken != "" && o.CorrelationToken == token {
			copied := *o
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) GetBySettlementRef(ctx context.Context, ref string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.SettlementRef != "" && o.SettlementRef == ref {
			copied := *o
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) AssignCorrelationToken(ctx context.Context, orderID, token string) error {
	if s.AssignTokenFn != nil {
		return s.AssignTokenFn(ctx, orderID, token)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.PaymentStatus != model.PaymentStatusPending {
		return domainErrors.ErrOrderNotPayable
	}
	o.CorrelationToken = token
	o.UpdatedAt = time.Now()
	return nil
}

func (s *OrderRepositoryStub) CompletePayment(ctx context.Context, orderID, settlementRef string) (bool, error) {
	s.mu.Lock()
	s.CompleteCalls++
	s.mu.Unlock()
	if s.CompletePaymentFn != nil {
		return s.CompletePaymentFn(ctx, orderID, settlementRef)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.PaymentStatus != model.PaymentStatusPending || o.Status != model.OrderStatusPending {
		return false, nil
	}
	o.PaymentStatus = model.PaymentStatusCompleted
	o.Status = model.OrderStatusProcessing
	o.SettlementRef = settlementRef
	o.CorrelationToken = ""
	o.UpdatedAt = time.Now()
	return true, nil
}

func (s *OrderRepositoryStub) FailPayment(ctx context.Context, orderID, reason string) (bool, error) {
	if s.FailPaymentFn != nil {
		return s.FailPaymentFn(ctx, orderID, reason)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.PaymentStatus != model.PaymentStatusPending || o.Status != model.OrderStatusPending {
		return false, nil
	}
	o.PaymentStatus = model.PaymentStatusFailed
	o.Status = model.OrderStatusCancelled
	o.FailureReason = reason
	o.CorrelationToken = ""
	o.UpdatedAt = time.Now()
	return true, nil
}

func (s *OrderRepositoryStub) Cancel(ctx context.Context, orderID string) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return domainErrors.ErrStaleTransition
	}
	if o.PaymentStatus == model.PaymentStatusCompleted {
		return domainErrors.ErrStaleTransition
	}
	if o.Status != model.OrderStatusPending && o.Status != model.OrderStatusProcessing {
		return domainErrors.ErrStaleTransition
	}
	o.Status = model.OrderStatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}
