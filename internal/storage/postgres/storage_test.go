package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/kamaubrian/dukapay/internal/domain/errors"
	"github.com/kamaubrian/dukapay/internal/domain/model"
	testhelpers "github.com/kamaubrian/dukapay/internal/test"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func expectSchema(mock pgxmockv3.PgxPoolIface) {
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS orders").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_correlation ON orders").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_orders_settlement ON orders").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
}

func orderRows(o *model.Order) *pgxmockv3.Rows {
	return pgxmockv3.NewRows([]string{
		"id", "amount", "phone", "payment_status", "status",
		"correlation_token", "settlement_ref", "failure_reason", "created_at", "updated_at",
	}).AddRow(o.ID, o.Amount, o.Phone, o.PaymentStatus, o.Status,
		o.CorrelationToken, o.SettlementRef, o.FailureReason, o.CreatedAt, o.UpdatedAt)
}

func sampleOrder() *model.Order {
	now := time.Now()
	return &model.Order{
		ID:            "0d2a39dc-7f0f-4f6f-9a56-0f5df3f9a001",
		Amount:        1500,
		Phone:         "254722000000",
		PaymentStatus: model.PaymentStatusPending,
		Status:        model.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestInitSchema(t *testing.T) {
	storage, mock := newMockStorage(t)
	expectSchema(mock)

	if err := storage.initSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateOrder(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(pgxmockv3.AnyArg(), int64(1500), "254722000000", model.PaymentStatusPending, model.OrderStatusPending).
		WillReturnRows(pgxmockv3.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	order, err := storage.Orders().Create(context.Background(), 1500, "254722000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID == "" {
		t.Fatal("expected generated id")
	}
	if order.PaymentStatus != model.PaymentStatusPending || order.Status != model.OrderStatusPending {
		t.Fatalf("new order must be pending/pending, got %s/%s", order.PaymentStatus, order.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID(t *testing.T) {
	storage, mock := newMockStorage(t)
	want := sampleOrder()

	mock.ExpectQuery("SELECT .+ FROM orders WHERE id=").
		WithArgs(want.ID).
		WillReturnRows(orderRows(want))

	order, err := storage.Orders().GetByID(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != want.ID || order.Amount != want.Amount {
		t.Fatalf("unexpected order %+v", order)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("SELECT .+ FROM orders WHERE id=").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := storage.Orders().GetByID(context.Background(), "missing")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByCorrelationToken(t *testing.T) {
	storage, mock := newMockStorage(t)
	want := sampleOrder()
	want.CorrelationToken = "ws_1"

	mock.ExpectQuery("SELECT .+ FROM orders WHERE correlation_token=").
		WithArgs("ws_1").
		WillReturnRows(orderRows(want))

	order, err := storage.Orders().GetByCorrelationToken(context.Background(), "ws_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.CorrelationToken != "ws_1" {
		t.Fatalf("unexpected order %+v", order)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByCorrelationTokenEmptyShortCircuits(t *testing.T) {
	storage, mock := newMockStorage(t)

	if _, err := storage.Orders().GetByCorrelationToken(context.Background(), ""); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("empty token must not hit the database: %v", err)
	}
}

func TestAssignCorrelationToken(t *testing.T) {
	storage, mock := newMockStorage(t)
	token := "ws_" + testhelpers.RandomASCIIString(20, 20)

	mock.ExpectExec("UPDATE orders SET correlation_token=").
		WithArgs("O1", token, model.PaymentStatusPending).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

	if err := storage.Orders().AssignCorrelationToken(context.Background(), "O1", token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAssignCorrelationTokenNotPayable(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("UPDATE orders SET correlation_token=").
		WithArgs("O1", "ws_1", model.PaymentStatusPending).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))

	err := storage.Orders().AssignCorrelationToken(context.Background(), "O1", "ws_1")
	if !errors.Is(err, domainErrors.ErrOrderNotPayable) {
		t.Fatalf("expected not payable, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCompletePayment(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs("O1", model.PaymentStatusCompleted, model.OrderStatusProcessing, "QAB123",
			model.PaymentStatusPending, model.OrderStatusPending).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

	applied, err := storage.Orders().CompletePayment(context.Background(), "O1", "QAB123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Fatal("expected transition to apply")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCompletePaymentAlreadySettled(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs("O1", model.PaymentStatusCompleted, model.OrderStatusProcessing, "QAB123",
			model.PaymentStatusPending, model.OrderStatusPending).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))

	applied, err := storage.Orders().CompletePayment(context.Background(), "O1", "QAB123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Fatal("settled order must not transition again")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFailPayment(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs("O1", model.PaymentStatusFailed, model.OrderStatusCancelled, "Insufficient funds",
			model.PaymentStatusPending, model.OrderStatusPending).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

	applied, err := storage.Orders().FailPayment(context.Background(), "O1", "Insufficient funds")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Fatal("expected transition to apply")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancel(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("UPDATE orders SET status=").
		WithArgs("O1", model.OrderStatusCancelled, model.OrderStatusPending, model.OrderStatusProcessing, model.PaymentStatusCompleted).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

	if err := storage.Orders().Cancel(context.Background(), "O1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancelStale(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("UPDATE orders SET status=").
		WithArgs("O1", model.OrderStatusCancelled, model.OrderStatusPending, model.OrderStatusProcessing, model.PaymentStatusCompleted).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))

	err := storage.Orders().Cancel(context.Background(), "O1")
	if !errors.Is(err, domainErrors.ErrStaleTransition) {
		t.Fatalf("expected stale transition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectPing()
	if err := storage.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
