package daraja

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/kamaubrian/dukapay/internal/config"
)

// Module exposes the gateway client to the fx graph. A nil Client is
// provided when credentials are absent, which activates demo mode.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	if !p.Config.Gateway.Configured() {
		p.Logger.Warn("gateway credentials absent, running in demo mode")
		return nil, nil
	}
	return NewHTTPClient(p.Config.Gateway, p.Logger)
}
