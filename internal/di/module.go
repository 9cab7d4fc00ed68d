package di

import (
	"go.uber.org/fx"

	"github.com/kamaubrian/dukapay/internal/adapter/daraja"
	"github.com/kamaubrian/dukapay/internal/app"
	"github.com/kamaubrian/dukapay/internal/config"
	"github.com/kamaubrian/dukapay/internal/logger"
	"github.com/kamaubrian/dukapay/internal/notify"
	"github.com/kamaubrian/dukapay/internal/server/http/handlers"
	"github.com/kamaubrian/dukapay/internal/server/http/router"
	"github.com/kamaubrian/dukapay/internal/storage/postgres"
	"github.com/kamaubrian/dukapay/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		daraja.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(func(facade *app.CheckoutFacade) handlers.CheckoutFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
