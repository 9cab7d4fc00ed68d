package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/kamaubrian/dukapay/internal/domain/errors"
	"github.com/kamaubrian/dukapay/internal/domain/model"
	"github.com/kamaubrian/dukapay/internal/domain/repository"
)

// DBPool is the subset of pgxpool.Pool used by the storage. Satisfied by
// pgxmock pools in tests.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Storage is the order store backed by PostgreSQL. Terminal payment
// transitions are guarded updates: the WHERE clause re-checks that payment
// is still pending and fulfillment has not advanced, so racing writers
// (initiation, callback, demo timer, admin cancel) cannot regress state.
type Storage struct {
	pool   DBPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Orders returns the order repository backed by this storage.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id UUID PRIMARY KEY,
            amount BIGINT NOT NULL,
            phone TEXT NOT NULL,
            payment_status TEXT NOT NULL DEFAULT 'pending',
            status TEXT NOT NULL DEFAULT 'pending',
            correlation_token TEXT NOT NULL DEFAULT '',
            settlement_ref TEXT NOT NULL DEFAULT '',
            failure_reason TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_correlation ON orders(correlation_token) WHERE correlation_token <> ''`,
		`CREATE INDEX IF NOT EXISTS idx_orders_settlement ON orders(settlement_ref) WHERE settlement_ref <> ''`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, amount, phone, payment_status, status, correlation_token, settlement_ref, failure_reason, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Amount, &o.Phone, &o.PaymentStatus, &o.Status,
		&o.CorrelationToken, &o.SettlementRef, &o.FailureReason, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, amount int64, phone string) (*model.Order, error) {
	const query = `INSERT INTO orders (id, amount, phone, payment_status, status)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING created_at, updated_at`
	order := &model.Order{
		ID:            uuid.NewString(),
		Amount:        amount,
		Phone:         phone,
		PaymentStatus: model.PaymentStatusPending,
		Status:        model.OrderStatusPending,
	}
	err := r.storage.pool.QueryRow(ctx, query, order.ID, amount, phone, order.PaymentStatus, order.Status).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) GetByCorrelationToken(ctx context.Context, token string) (*model.Order, error) {
	if token == "" {
		return nil, domainErrors.ErrNotFound
	}
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE correlation_token=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, token))
}

func (r *orderRepository) GetBySettlementRef(ctx context.Context, ref string) (*model.Order, error) {
	if ref == "" {
		return nil, domainErrors.ErrNotFound
	}
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE settlement_ref=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, ref))
}

// AssignCorrelationToken records the gateway session key for the order.
// Allowed only while payment is pending; re-initiation replaces the token,
// which detaches any stale in-flight confirmation from the order.
func (r *orderRepository) AssignCorrelationToken(ctx context.Context, orderID, token string) error {
	const query = `UPDATE orders SET correlation_token=$2, updated_at=NOW()
                   WHERE id=$1 AND payment_status=$3`
	tag, err := r.storage.pool.Exec(ctx, query, orderID, token, model.PaymentStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOrderNotPayable
	}
	return nil
}

// CompletePayment settles the order: payment completed, fulfillment
// processing, correlation token cleared, permanent settlement reference
// recorded. Returns whether the transition was applied.
func (r *orderRepository) CompletePayment(ctx context.Context, orderID, settlementRef string) (bool, error) {
	const query = `UPDATE orders
                   SET payment_status=$2, status=$3, settlement_ref=$4, correlation_token='', updated_at=NOW()
                   WHERE id=$1 AND payment_status=$5 AND status=$6`
	tag, err := r.storage.pool.Exec(ctx, query, orderID,
		model.PaymentStatusCompleted, model.OrderStatusProcessing, settlementRef,
		model.PaymentStatusPending, model.OrderStatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// FailPayment records a declined payment and cancels fulfillment. Returns
// whether the transition was applied.
func (r *orderRepository) FailPayment(ctx context.Context, orderID, reason string) (bool, error) {
	const query = `UPDATE orders
                   SET payment_status=$2, status=$3, failure_reason=$4, correlation_token='', updated_at=NOW()
                   WHERE id=$1 AND payment_status=$5 AND status=$6`
	tag, err := r.storage.pool.Exec(ctx, query, orderID,
		model.PaymentStatusFailed, model.OrderStatusCancelled, reason,
		model.PaymentStatusPending, model.OrderStatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Cancel aborts fulfillment for orders that have not settled. A completed
// payment blocks cancellation; refunds are an external flow.
func (r *orderRepository) Cancel(ctx context.Context, orderID string) error {
	const query = `UPDATE orders SET status=$2, updated_at=NOW()
                   WHERE id=$1 AND status IN ($3, $4) AND payment_status <> $5`
	tag, err := r.storage.pool.Exec(ctx, query, orderID, model.OrderStatusCancelled,
		model.OrderStatusPending, model.OrderStatusProcessing, model.PaymentStatusCompleted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrStaleTransition
	}
	return nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
