package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kamaubrian/dukapay/internal/adapter/daraja"
	domainErrors "github.com/kamaubrian/dukapay/internal/domain/errors"
	"github.com/kamaubrian/dukapay/internal/domain/model"
	"github.com/kamaubrian/dukapay/internal/domain/repository"
	"github.com/kamaubrian/dukapay/internal/notify"
)

const demoRefPrefix = "DEMO"

// InitiationResult is returned to the storefront after a push request.
type InitiationResult struct {
	Demo              bool
	CheckoutRequestID string
	Message           string
}

// ReconcileOptions tunes the correlation lookup retry loop. The token write
// happens before the initiation call returns, but a callback may still race
// it on stores with eventual visibility, so a miss is retried with backoff
// before being treated as permanent.
type ReconcileOptions struct {
	LookupRetries int
	LookupBackoff time.Duration
}

// PaymentUseCase drives payment initiation and callback reconciliation.
// A nil gateway means no credentials are configured and initiation takes
// the demo path.
type PaymentUseCase struct {
	orders  repository.OrderRepository
	gateway daraja.Client
	sink    notify.Sink
	logger  *slog.Logger
	opts    ReconcileOptions
	now     func() time.Time
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(orders repository.OrderRepository, gateway daraja.Client, sink notify.Sink, opts ReconcileOptions, logger *slog.Logger) *PaymentUseCase {
	if opts.LookupRetries <= 0 {
		opts.LookupRetries = 1
	}
	return &PaymentUseCase{
		orders:  orders,
		gateway: gateway,
		sink:    sink,
		logger:  logger,
		opts:    opts,
		now:     time.Now,
	}
}

// Initiate validates the request, submits the push to the gateway and
// persists the correlation token before returning, so that the async
// confirmation can always be matched. In demo mode it returns immediately;
// the caller is expected to schedule the synthetic confirmation.
func (u *PaymentUseCase) Initiate(ctx context.Context, orderID string, amount int64, phone string) (*InitiationResult, error) {
	if amount <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}

	msisdn, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Payable() {
		return nil, domainErrors.ErrOrderNotPayable
	}

	if u.gateway == nil {
		return &InitiationResult{Demo: true, Message: "demo payment scheduled"}, nil
	}

	resp, err := u.gateway.STKPush(ctx, daraja.PushRequest{OrderID: orderID, Amount: amount, Phone: msisdn})
	if err != nil {
		// The order keeps payment pending and no token is assigned, so the
		// storefront may retry initiation.
		return nil, err
	}

	if err := u.orders.AssignCorrelationToken(ctx, orderID, resp.CheckoutRequestID); err != nil {
		return nil, fmt.Errorf("assign correlation token: %w", err)
	}

	u.logger.Info("payment push accepted",
		slog.String("order", orderID),
		slog.String("checkout_request_id", resp.CheckoutRequestID),
	)

	return &InitiationResult{CheckoutRequestID: resp.CheckoutRequestID, Message: resp.CustomerMessage}, nil
}

// Reconcile matches an inbound confirmation to its order and applies the
// resulting transition exactly once. It never returns an error for
// reconciliation misses or replays; those are logged and acknowledged so
// the gateway stops retrying.
func (u *PaymentUseCase) Reconcile(ctx context.Context, conf model.PaymentConfirmation) error {
	order, err := u.lookup(ctx, conf.CorrelationToken)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.Warn("reconciliation miss", slog.String("correlation_token", conf.CorrelationToken))
			return nil
		}
		return err
	}

	if conf.Successful() {
		applied, err := u.orders.CompletePayment(ctx, order.ID, conf.ReceiptNumber)
		if err != nil {
			return err
		}
		if !applied {
			u.logger.Info("duplicate confirmation ignored", slog.String("order", order.ID))
			return nil
		}
		order.PaymentStatus = model.PaymentStatusCompleted
		order.Status = model.OrderStatusProcessing
		order.SettlementRef = conf.ReceiptNumber
		order.CorrelationToken = ""
		u.sink.PaymentCompleted(ctx, order)
		u.logger.Info("payment reconciled",
			slog.String("order", order.ID),
			slog.String("settlement_ref", conf.ReceiptNumber),
		)
		return nil
	}

	applied, err := u.orders.FailPayment(ctx, order.ID, conf.ResultDesc)
	if err != nil {
		return err
	}
	if !applied {
		u.logger.Info("duplicate failure confirmation ignored", slog.String("order", order.ID))
		return nil
	}
	order.PaymentStatus = model.PaymentStatusFailed
	order.Status = model.OrderStatusCancelled
	order.FailureReason = conf.ResultDesc
	u.sink.PaymentFailed(ctx, order, conf.ResultDesc)
	u.logger.Info("payment declined",
		slog.String("order", order.ID),
		slog.Int("result_code", conf.ResultCode),
		slog.String("reason", conf.ResultDesc),
	)
	return nil
}

// CompleteDemoPayment applies a synthetic successful confirmation. The
// settlement reference is generated locally for audit only. The guarded
// repository update keeps this a no-op when the order was cancelled or
// settled while the timer was pending.
func (u *PaymentUseCase) CompleteDemoPayment(ctx context.Context, orderID string) error {
	ref := fmt.Sprintf("%s%d", demoRefPrefix, u.now().UnixNano())

	applied, err := u.orders.CompletePayment(ctx, orderID, ref)
	if err != nil {
		return err
	}
	if !applied {
		u.logger.Info("demo confirmation skipped, order no longer pending", slog.String("order", orderID))
		return nil
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	u.sink.PaymentCompleted(ctx, order)
	u.logger.Info("demo payment completed", slog.String("order", orderID), slog.String("settlement_ref", ref))
	return nil
}

func (u *PaymentUseCase) lookup(ctx context.Context, token string) (*model.Order, error) {
	if token == "" {
		return nil, domainErrors.ErrNotFound
	}

	var lastErr error
	for attempt := 0; attempt < u.opts.LookupRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(u.opts.LookupBackoff):
			}
		}
		order, err := u.orders.GetByCorrelationToken(ctx, token)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
