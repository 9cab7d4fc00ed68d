package notify

import (
	"context"
	"log/slog"

	"github.com/kamaubrian/dukapay/internal/domain/model"
)

// Sink is informed of terminal payment transitions. Callers invoke it at
// most once per order; delivery semantics beyond that are the sink's own.
type Sink interface {
	PaymentCompleted(ctx context.Context, order *model.Order)
	PaymentFailed(ctx context.Context, order *model.Order, reason string)
}

// LogSink records terminal transitions in the service log. Used when no
// broker is configured.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink constructs LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) PaymentCompleted(ctx context.Context, order *model.Order) {
	s.logger.Info("payment completed",
		slog.String("order", order.ID),
		slog.Int64("amount", order.Amount),
		slog.String("settlement_ref", order.SettlementRef),
	)
}

func (s *LogSink) PaymentFailed(ctx context.Context, order *model.Order, reason string) {
	s.logger.Info("payment failed",
		slog.String("order", order.ID),
		slog.String("reason", reason),
	)
}
