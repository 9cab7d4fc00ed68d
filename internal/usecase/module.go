package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/kamaubrian/dukapay/internal/adapter/daraja"
	"github.com/kamaubrian/dukapay/internal/config"
	"github.com/kamaubrian/dukapay/internal/domain/repository"
	"github.com/kamaubrian/dukapay/internal/notify"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewOrderUseCase,
	newPaymentUseCase,
)

type paymentParams struct {
	fx.In

	Orders  repository.OrderRepository
	Gateway daraja.Client `optional:"true"`
	Sink    notify.Sink
	Config  *config.Config
	Logger  *slog.Logger
}

func newPaymentUseCase(p paymentParams) *PaymentUseCase {
	opts := ReconcileOptions{
		LookupRetries: p.Config.LookupRetries,
		LookupBackoff: p.Config.LookupBackoff,
	}
	return NewPaymentUseCase(p.Orders, p.Gateway, p.Sink, opts, p.Logger)
}
