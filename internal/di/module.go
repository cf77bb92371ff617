package di

import (
	"go.uber.org/fx"

	"github.com/anyschool/order-service/internal/app"
	"github.com/anyschool/order-service/internal/config"
	"github.com/anyschool/order-service/internal/logger"
	"github.com/anyschool/order-service/internal/pkg/auth"
	"github.com/anyschool/order-service/internal/server/http/handlers"
	"github.com/anyschool/order-service/internal/server/http/router"
	"github.com/anyschool/order-service/internal/storage/postgres"
	"github.com/anyschool/order-service/internal/usecase"
	"github.com/anyschool/order-service/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
		fx.Provide(
			func(f *app.MarketplaceFacade) handlers.MarketplaceFacade { return f },
			func(r *worker.StatsRefresher) handlers.StatsSource { return r },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
